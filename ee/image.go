package ee

// Image is a remote raster handle
type Image struct{ n *node }

func (i Image) node() *node { return i.n }

// LoadImage references an image of the platform catalog by its asset id
func LoadImage(id string) Image {
	return Image{callArgs("Image.load", args{"id": id})}
}

// ConstantImage is a single-band image with the given value everywhere.
// The value may be a Go number or a computed Number.
func ConstantImage(value interface{}) Image {
	return Image{callArgs("Image.constant", args{"value": value})}
}

// PixelArea is an image whose pixels hold their own area in square meters
func PixelArea() Image {
	return Image{call("Image.pixelArea", map[string]*node{})}
}

// Select keeps the given bands. Names may be regexes (e.g. ".*_mean").
func (i Image) Select(bands ...string) Image {
	return Image{callArgs("Image.select", args{"input": i, "bandSelectors": bands})}
}

// SelectRename keeps the given bands and renames them
func (i Image) SelectRename(bands, newNames []string) Image {
	return Image{callArgs("Image.select", args{"input": i, "bandSelectors": bands, "newNames": newNames})}
}

// SelectAt keeps the bands at the given indices
func (i Image) SelectAt(indices ...int) Image {
	return Image{callArgs("Image.select", args{"input": i, "bandSelectors": indices})}
}

// SelectList keeps the bands named by a computed list
func (i Image) SelectList(bands List) Image {
	return Image{callArgs("Image.select", args{"input": i, "bandSelectors": bands})}
}

// Rename renames all bands of the image
func (i Image) Rename(names ...string) Image {
	return Image{callArgs("Image.rename", args{"input": i, "names": names})}
}

// RenameList renames all bands of the image with a computed list
func (i Image) RenameList(names List) Image {
	return Image{callArgs("Image.rename", args{"input": i, "names": names})}
}

// AddBands appends the bands of src to the image. With overwrite, bands of
// src replace same-named bands instead of being appended.
func (i Image) AddBands(src Image, overwrite bool) Image {
	a := args{"dstImg": i, "srcImg": src}
	if overwrite {
		a["overwrite"] = true
	}
	return Image{callArgs("Image.addBands", a)}
}

// Expression evaluates a band arithmetic expression. The image is bound to
// "i" and additional images or numbers can be bound through vars.
func (i Image) Expression(expression string, vars map[string]interface{}) Image {
	entries := map[string]*node{"i": i.n}
	for k, v := range vars {
		entries[k] = toNode(v)
	}
	return Image{call("Image.parseExpression", map[string]*node{
		"expression": constNode(expression),
		"argName":    constNode("i"),
		"vars":       {kind: kindDict, entries: entries},
	})}
}

// operand promotes numbers to constant images so arithmetic methods accept
// both images and scalars
func operand(v interface{}) Image {
	if img, ok := v.(Image); ok {
		return img
	}
	return ConstantImage(v)
}

func (i Image) binary(fn string, o interface{}) Image {
	return Image{callArgs("Image."+fn, args{"image1": i, "image2": operand(o)})}
}

func (i Image) unary(fn string) Image {
	return Image{callArgs("Image."+fn, args{"value": i})}
}

func (i Image) Add(o interface{}) Image      { return i.binary("add", o) }
func (i Image) Subtract(o interface{}) Image { return i.binary("subtract", o) }
func (i Image) Multiply(o interface{}) Image { return i.binary("multiply", o) }
func (i Image) Divide(o interface{}) Image   { return i.binary("divide", o) }
func (i Image) Pow(o interface{}) Image      { return i.binary("pow", o) }
func (i Image) Atan2(o interface{}) Image    { return i.binary("atan2", o) }
func (i Image) Hypot(o interface{}) Image    { return i.binary("hypot", o) }
func (i Image) And(o interface{}) Image      { return i.binary("and", o) }
func (i Image) Or(o interface{}) Image       { return i.binary("or", o) }
func (i Image) Lt(o interface{}) Image       { return i.binary("lt", o) }
func (i Image) Lte(o interface{}) Image      { return i.binary("lte", o) }
func (i Image) Gt(o interface{}) Image       { return i.binary("gt", o) }
func (i Image) Gte(o interface{}) Image      { return i.binary("gte", o) }
func (i Image) Eq(o interface{}) Image       { return i.binary("eq", o) }
func (i Image) Neq(o interface{}) Image      { return i.binary("neq", o) }
func (i Image) Min(o interface{}) Image      { return i.binary("min", o) }
func (i Image) Max(o interface{}) Image      { return i.binary("max", o) }

func (i Image) Cos() Image   { return i.unary("cos") }
func (i Image) Sin() Image   { return i.unary("sin") }
func (i Image) Tan() Image   { return i.unary("tan") }
func (i Image) Acos() Image  { return i.unary("acos") }
func (i Image) Asin() Image  { return i.unary("asin") }
func (i Image) Atan() Image  { return i.unary("atan") }
func (i Image) Abs() Image   { return i.unary("abs") }
func (i Image) Log10() Image { return i.unary("log10") }
func (i Image) Sqrt() Image  { return i.unary("sqrt") }
func (i Image) Exp() Image   { return i.unary("exp") }
func (i Image) Not() Image   { return i.unary("not") }

func (i Image) Float() Image  { return Image{callArgs("Image.float", args{"value": i})} }
func (i Image) Int16() Image  { return Image{callArgs("Image.int16", args{"value": i})} }
func (i Image) UInt16() Image { return Image{callArgs("Image.uint16", args{"value": i})} }

// UpdateMask keeps only pixels where mask is non-zero
func (i Image) UpdateMask(mask Image) Image {
	return Image{callArgs("Image.updateMask", args{"image": i, "mask": mask})}
}

// Mask returns the mask of the image as an image
func (i Image) Mask() Image {
	return Image{callArgs("Image.mask", args{"image": i})}
}

// Unmask replaces masked pixels with the given value
func (i Image) Unmask(value float64) Image {
	return Image{callArgs("Image.unmask", args{"input": i, "value": ConstantImage(value)})}
}

// Resample sets the resampling mode ("bilinear" or "bicubic") used on
// reprojection
func (i Image) Resample(mode string) Image {
	return Image{callArgs("Image.resample", args{"image": i, "mode": mode})}
}

// Clip keeps only pixels inside the geometry
func (i Image) Clip(g Geometry) Image {
	return Image{callArgs("Image.clip", args{"input": i, "geometry": g})}
}

// NormalizedDifference computes (b1 - b2) / (b1 + b2)
func (i Image) NormalizedDifference(b1, b2 string) Image {
	return Image{callArgs("Image.normalizedDifference", args{"input": i, "bandNames": []string{b1, b2}})}
}

// ReduceNeighborhood applies the reducer to the kernel neighborhood of every
// pixel
func (i Image) ReduceNeighborhood(r Reducer, k Kernel) Image {
	return Image{callArgs("Image.reduceNeighborhood", args{"image": i, "reducer": r, "kernel": k})}
}

// ReduceRegion applies the reducer to all pixels of the region at the given
// scale, returning one entry per band
func (i Image) ReduceRegion(r Reducer, g Geometry, scale float64) Dictionary {
	return Dictionary{callArgs("Image.reduceRegion", args{
		"image": i, "reducer": r, "geometry": g, "scale": scale,
	})}
}

// Reduce applies the reducer across the bands of the image
func (i Image) Reduce(r Reducer) Image {
	return Image{callArgs("Image.reduce", args{"image": i, "reducer": r})}
}

// FastDistanceTransform computes the distance (in squared pixels) to the
// nearest non-zero pixel, searching up to neighborhood pixels away
func (i Image) FastDistanceTransform(neighborhood int) Image {
	return Image{callArgs("Image.fastDistanceTransform", args{"image": i, "neighborhood": neighborhood})}
}

// NeighborhoodToBands turns the kernel neighborhood of every pixel into bands
func (i Image) NeighborhoodToBands(k Kernel) Image {
	return Image{callArgs("Image.neighborhoodToBands", args{"image": i, "kernel": k})}
}

// SetDefaultProjection sets the projection used when the image has none
func (i Image) SetDefaultProjection(p Projection) Image {
	return Image{callArgs("Image.setDefaultProjection", args{"image": i, "crs": p})}
}

// Projection returns the projection of the first band
func (i Image) Projection() Projection {
	return Projection{callArgs("Image.projection", args{"image": i})}
}

// Geometry returns the footprint of the image
func (i Image) Geometry() Geometry {
	return Geometry{callArgs("Element.geometry", args{"feature": i})}
}

// Date returns the acquisition date of the image
func (i Image) Date() Date {
	return Date{callArgs("Image.date", args{"image": i})}
}

// BandNames returns the list of band names
func (i Image) BandNames() List {
	return List{callArgs("Image.bandNames", args{"image": i})}
}

// GetNumber returns a numeric metadata property
func (i Image) GetNumber(property string) Number {
	return Number{callArgs("Element.get", args{"object": i, "property": property})}
}

// GetString returns a string metadata property
func (i Image) GetString(property string) String {
	return String{callArgs("Element.get", args{"object": i, "property": property})}
}

// Set sets a metadata property on the image
func (i Image) Set(key string, value interface{}) Image {
	return Image{callArgs("Element.set", args{"object": i, "key": key, "value": value})}
}

// CopyProperties copies the metadata properties of source onto the image
func (i Image) CopyProperties(source Image) Image {
	return Image{callArgs("Element.copyProperties", args{"destination": i, "source": source})}
}

// ToArray converts the bands of every pixel to a 1D array
func (i Image) ToArray() Image {
	return Image{callArgs("Image.toArray", args{"image": i})}
}

// ArraySort sorts the array pixels along their first axis
func (i Image) ArraySort() Image {
	return Image{callArgs("Image.arraySort", args{"image": i})}
}

// ArraySlice keeps positions [start, end) of the given axis
func (i Image) ArraySlice(axis, start, end int) Image {
	return Image{callArgs("Image.arraySlice", args{"input": i, "axis": axis, "start": start, "end": end})}
}

// ArrayReduce applies the reducer along the given axes of the array pixels
func (i Image) ArrayReduce(r Reducer, axes []int) Image {
	return Image{callArgs("Image.arrayReduce", args{"input": i, "reducer": r, "axes": axes})}
}

// ArrayProject keeps only the given axes of the array pixels
func (i Image) ArrayProject(axes []int) Image {
	return Image{callArgs("Image.arrayProject", args{"input": i, "axes": axes})}
}

// ArrayGet returns the scalar at the given position of the array pixels
func (i Image) ArrayGet(position ...int) Image {
	return Image{callArgs("Image.arrayGet", args{"image": i, "position": position})}
}

// ArrayFlatten converts array pixels back to bands, named by the cartesian
// product of the labels of each axis
func (i Image) ArrayFlatten(coordinateLabels ...interface{}) Image {
	labels := make([]*node, len(coordinateLabels))
	for j, l := range coordinateLabels {
		labels[j] = toNode(l)
	}
	return Image{call("Image.arrayFlatten", map[string]*node{
		"image":            i.n,
		"coordinateLabels": arrayOf(labels),
	})}
}
