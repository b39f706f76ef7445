package ee

// ImageCollection is a remote stack of images handle
type ImageCollection struct{ n *node }

func (c ImageCollection) node() *node { return c.n }

// LoadCollection references an image collection of the platform catalog by
// its asset id
func LoadCollection(id string) ImageCollection {
	return ImageCollection{callArgs("ImageCollection.load", args{"id": id})}
}

// FromImages builds a collection from the given images
func FromImages(images ...Image) ImageCollection {
	items := make([]*node, len(images))
	for i, img := range images {
		items[i] = img.n
	}
	return ImageCollection{call("ImageCollection.fromImages", map[string]*node{"images": arrayOf(items)})}
}

// Filter keeps only the images matching the filter
func (c ImageCollection) Filter(f Filter) ImageCollection {
	return ImageCollection{callArgs("Collection.filter", args{"collection": c, "filter": f})}
}

// FilterBounds keeps only the images whose footprint intersects the geometry
func (c ImageCollection) FilterBounds(g Geometry) ImageCollection {
	return c.Filter(Intersects(g))
}

// FilterDate keeps only the images acquired within [start, end)
func (c ImageCollection) FilterDate(start, end interface{}) ImageCollection {
	return c.Filter(InDateRange(start, end))
}

// FilterEq keeps only the images whose property equals the value
func (c ImageCollection) FilterEq(name string, value interface{}) ImageCollection {
	return c.Filter(Eq(name, value))
}

// First returns the first image of the collection
func (c ImageCollection) First() Image {
	return Image{callArgs("Collection.first", args{"collection": c})}
}

// Size returns the number of images in the collection
func (c ImageCollection) Size() Number {
	return Number{callArgs("Collection.size", args{"collection": c})}
}

// Map applies fn to every image of the collection remotely. The function is
// serialized as part of the graph; it must only chain further operations on
// its argument.
func (c ImageCollection) Map(fn func(Image) Image) ImageCollection {
	arg := argNode()
	body := fn(Image{arg})
	return ImageCollection{callArgs("Collection.map", args{
		"collection":    c,
		"baseAlgorithm": lambda([]*node{arg}, body.n),
	})}
}

// Select keeps the given bands of every image
func (c ImageCollection) Select(bands ...string) ImageCollection {
	return c.Map(func(i Image) Image { return i.Select(bands...) })
}

// SelectList keeps the bands named by a computed list of every image
func (c ImageCollection) SelectList(bands List) ImageCollection {
	return c.Map(func(i Image) Image { return i.SelectList(bands) })
}

// Reduce applies the reducer across the collection, pixel by pixel
func (c ImageCollection) Reduce(r Reducer) Image {
	return Image{callArgs("ImageCollection.reduce", args{"collection": c, "reducer": r})}
}

// Mean is the pixel-wise mean of the collection. Bands keep their names.
func (c ImageCollection) Mean() Image {
	return Image{callArgs("reduce.mean", args{"collection": c})}
}

// Sum is the pixel-wise sum of the collection. Bands keep their names.
func (c ImageCollection) Sum() Image {
	return Image{callArgs("reduce.sum", args{"collection": c})}
}

// Count is the pixel-wise count of unmasked values of the collection
func (c ImageCollection) Count() Image {
	return Image{callArgs("reduce.count", args{"collection": c})}
}

// QualityMosaic composites the collection, keeping for every pixel the image
// that maximizes the quality band
func (c ImageCollection) QualityMosaic(qualityBand string) Image {
	return Image{callArgs("ImageCollection.qualityMosaic", args{"collection": c, "qualityBand": qualityBand})}
}
