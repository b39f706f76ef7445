package ee

import (
	"fmt"

	"github.com/go-spatial/geom"
)

// Value is a computed value of unknown type (e.g. the result of a property
// lookup). The remote platform checks the actual type on evaluation.
type Value struct{ n *node }

func (v Value) node() *node { return v.n }

// Number is a computed numeric value
type Number struct{ n *node }

func (n Number) node() *node { return n.n }

// NewNumber wraps a Go number or a computed value
func NewNumber(v interface{}) Number {
	return Number{toNode(v)}
}

func (n Number) Add(o interface{}) Number {
	return Number{callArgs("Number.add", args{"left": n, "right": o})}
}

func (n Number) Subtract(o interface{}) Number {
	return Number{callArgs("Number.subtract", args{"left": n, "right": o})}
}

func (n Number) Multiply(o interface{}) Number {
	return Number{callArgs("Number.multiply", args{"left": n, "right": o})}
}

func (n Number) Divide(o interface{}) Number {
	return Number{callArgs("Number.divide", args{"left": n, "right": o})}
}

func (n Number) Abs() Number {
	return Number{callArgs("Number.abs", args{"input": n})}
}

func (n Number) Gt(o interface{}) Number {
	return Number{callArgs("Number.gt", args{"left": n, "right": o})}
}

func (n Number) Lt(o interface{}) Number {
	return Number{callArgs("Number.lt", args{"left": n, "right": o})}
}

func (n Number) And(o interface{}) Number {
	return Number{callArgs("Number.and", args{"left": n, "right": o})}
}

// String is a computed string value
type String struct{ n *node }

func (s String) node() *node { return s.n }

// NewString wraps a Go string or a computed value
func NewString(v interface{}) String {
	return String{toNode(v)}
}

// Cat concatenates the other string to s
func (s String) Cat(o interface{}) String {
	return String{callArgs("String.cat", args{"string1": s, "string2": o})}
}

// List is a computed list
type List struct{ n *node }

func (l List) node() *node { return l.n }

// NewList builds a list from Go values and/or computed values
func NewList(items ...interface{}) List {
	nodes := make([]*node, len(items))
	for i, item := range items {
		nodes[i] = toNode(item)
	}
	return List{arrayOf(nodes)}
}

// Sequence generates a list of numbers from start to end (inclusive)
func Sequence(start, end interface{}) List {
	return List{callArgs("List.sequence", args{"start": start, "end": end})}
}

// Repeat generates a list with the value repeated count times
func Repeat(value interface{}, count int) List {
	return List{callArgs("List.repeat", args{"value": value, "count": count})}
}

func (l List) Add(o interface{}) List {
	return List{callArgs("List.add", args{"list": l, "element": o})}
}

func (l List) Cat(o List) List {
	return List{callArgs("List.cat", args{"list": l, "other": o})}
}

func (l List) Length() Number {
	return Number{callArgs("List.length", args{"list": l})}
}

// MapStrings applies fn to every element of the list of strings remotely
func (l List) MapStrings(fn func(String) String) List {
	arg := argNode()
	body := fn(String{arg})
	return List{callArgs("List.map", args{"list": l, "baseAlgorithm": lambda([]*node{arg}, body.n)})}
}

// Dictionary is a computed string-keyed dictionary
type Dictionary struct{ n *node }

func (d Dictionary) node() *node { return d.n }

// Get returns the value of the given key
func (d Dictionary) Get(key string) Value {
	return Value{callArgs("Dictionary.get", args{"dictionary": d, "key": key})}
}

// Date is a computed date
type Date struct{ n *node }

func (d Date) node() *node { return d.n }

// NewDate builds a date from a time.Time, a date string, unix milliseconds,
// or a computed value
func NewDate(v interface{}) Date {
	return Date{callArgs("Date", args{"value": v})}
}

// Advance shifts the date by delta units (e.g. -12, "month")
func (d Date) Advance(delta interface{}, unit string) Date {
	return Date{callArgs("Date.advance", args{"date": d, "delta": delta, "unit": unit})}
}

// GetRelative returns the position of unit within inUnit (e.g. day of year)
func (d Date) GetRelative(unit, inUnit string) Number {
	return Number{callArgs("Date.getRelative", args{"date": d, "unit": unit, "inUnit": inUnit})}
}

// Difference returns d minus start, in units
func (d Date) Difference(start Date, unit string) Number {
	return Number{callArgs("Date.difference", args{"date": d, "start": start, "unit": unit})}
}

// Millis returns the date as a unix timestamp in milliseconds
func (d Date) Millis() Number {
	return Number{callArgs("Date.millis", args{"date": d})}
}

// DateRange is a computed date interval
type DateRange struct{ n *node }

func (d DateRange) node() *node { return d.n }

// NewDateRange builds the [start, end) date interval
func NewDateRange(start, end interface{}) DateRange {
	return DateRange{callArgs("DateRange", args{"start": start, "end": end})}
}

// Geometry is a remote geometry handle
type Geometry struct{ n *node }

func (g Geometry) node() *node { return g.n }

// NewGeometry builds a remote geometry from a local one.
// Points, polygons and multipolygons are supported.
func NewGeometry(g geom.Geometry) (Geometry, error) {
	switch g := g.(type) {
	case geom.Point:
		return Geometry{callArgs("GeometryConstructors.Point", args{"coordinates": []float64{g.X(), g.Y()}})}, nil
	case geom.Polygon:
		return Geometry{callArgs("GeometryConstructors.Polygon", args{"coordinates": polygonCoords(g.LinearRings())})}, nil
	case geom.MultiPolygon:
		polygons := make([]interface{}, len(g.Polygons()))
		for i, p := range g.Polygons() {
			polygons[i] = polygonCoords(p)
		}
		return Geometry{callArgs("GeometryConstructors.MultiPolygon", args{"coordinates": polygons})}, nil
	}
	return Geometry{}, fmt.Errorf("NewGeometry: unsupported geometry type %T", g)
}

func polygonCoords(rings [][][2]float64) []interface{} {
	coords := make([]interface{}, len(rings))
	for i, ring := range rings {
		points := make([]interface{}, len(ring))
		for j, pt := range ring {
			points[j] = []float64{pt[0], pt[1]}
		}
		coords[i] = points
	}
	return coords
}

// Filter is a predicate on the metadata of collection elements
type Filter struct{ n *node }

func (f Filter) node() *node { return f.n }

// And requires all filters to pass
func And(filters ...Filter) Filter {
	items := make([]interface{}, len(filters))
	for i, f := range filters {
		items[i] = f
	}
	return Filter{callArgs("Filter.and", args{"filters": items})}
}

// Or requires at least one filter to pass
func Or(filters ...Filter) Filter {
	items := make([]interface{}, len(filters))
	for i, f := range filters {
		items[i] = f
	}
	return Filter{callArgs("Filter.or", args{"filters": items})}
}

// Eq requires the property to equal the value
func Eq(name string, value interface{}) Filter {
	return Filter{callArgs("Filter.equals", args{"leftField": name, "rightValue": value})}
}

// Lt requires the property to be less than the value
func Lt(name string, value interface{}) Filter {
	return Filter{callArgs("Filter.lessThan", args{"leftField": name, "rightValue": value})}
}

// Gt requires the property to be greater than the value
func Gt(name string, value interface{}) Filter {
	return Filter{callArgs("Filter.greaterThan", args{"leftField": name, "rightValue": value})}
}

// ListContains requires the list-valued property to contain the value
func ListContains(name string, value interface{}) Filter {
	return Filter{callArgs("Filter.listContains", args{"leftField": name, "rightValue": value})}
}

// InDateRange requires the element timestamp to be within [start, end)
func InDateRange(start, end interface{}) Filter {
	return Filter{callArgs("Filter.dateRangeContains", args{
		"leftValue":  NewDateRange(start, end),
		"rightField": "system:time_start",
	})}
}

// Intersects requires the element footprint to intersect the geometry
func Intersects(g Geometry) Filter {
	return Filter{callArgs("Filter.intersects", args{"leftField": ".all", "rightValue": g})}
}

// Kernel is a convolution kernel handle
type Kernel struct{ n *node }

func (k Kernel) node() *node { return k.n }

// SquareKernel is a square kernel of the given radius ("pixels" or "meters")
func SquareKernel(radius float64, units string) Kernel {
	return Kernel{callArgs("Kernel.square", args{"radius": radius, "units": units})}
}

// CircleKernel is a circular kernel of the given radius ("pixels" or "meters")
func CircleKernel(radius float64, units string) Kernel {
	return Kernel{callArgs("Kernel.circle", args{"radius": radius, "units": units})}
}

// FixedKernel is a kernel with the given weight matrix and hotspot (x, y)
func FixedKernel(width, height int, weights List, x, y int, normalize bool) Kernel {
	return Kernel{callArgs("Kernel.fixed", args{
		"width": width, "height": height, "weights": weights,
		"x": x, "y": y, "normalize": normalize,
	})}
}

// Rotate rotates the kernel by rotations x 90 degrees
func (k Kernel) Rotate(rotations int) Kernel {
	return Kernel{callArgs("Kernel.rotate", args{"kernel": k, "rotations": rotations})}
}

// Reducer aggregates values over neighborhoods, regions or collections
type Reducer struct{ n *node }

func (r Reducer) node() *node { return r.n }

func simpleReducer(fn string) Reducer {
	return Reducer{call(fn, map[string]*node{})}
}

func MeanReducer() Reducer      { return simpleReducer("Reducer.mean") }
func MedianReducer() Reducer    { return simpleReducer("Reducer.median") }
func StdDevReducer() Reducer    { return simpleReducer("Reducer.stdDev") }
func VarianceReducer() Reducer  { return simpleReducer("Reducer.variance") }
func MinReducer() Reducer       { return simpleReducer("Reducer.min") }
func MaxReducer() Reducer       { return simpleReducer("Reducer.max") }
func MinMaxReducer() Reducer    { return simpleReducer("Reducer.minMax") }
func SumReducer() Reducer       { return simpleReducer("Reducer.sum") }
func AllNonZeroReducer() Reducer { return simpleReducer("Reducer.allNonZero") }

// PercentileReducer reduces to the given percentiles
func PercentileReducer(percentiles ...float64) Reducer {
	return Reducer{callArgs("Reducer.percentile", args{"percentiles": percentiles})}
}

// LinearRegressionReducer computes a least-squares regression with numX
// independent and numY dependent variables
func LinearRegressionReducer(numX, numY int) Reducer {
	return Reducer{callArgs("Reducer.linearRegression", args{"numX": numX, "numY": numY})}
}

// Combine creates a reducer running r and other on the same inputs
func (r Reducer) Combine(other Reducer, outputPrefix string, sharedInputs bool) Reducer {
	return Reducer{callArgs("Reducer.combine", args{
		"reducer1": r, "reducer2": other,
		"outputPrefix": outputPrefix, "sharedInputs": sharedInputs,
	})}
}

// Projection is a map projection handle
type Projection struct{ n *node }

func (p Projection) node() *node { return p.n }

// TerrainSlope computes the slope in degrees from an elevation image
func TerrainSlope(elevation Image) Image {
	return Image{callArgs("Terrain.slope", args{"input": elevation})}
}

// TerrainAspect computes the aspect in degrees from an elevation image
func TerrainAspect(elevation Image) Image {
	return Image{callArgs("Terrain.aspect", args{"input": elevation})}
}

// SNICParams parameterizes the simple non-iterative clustering segmentation
type SNICParams struct {
	Size             int
	Compactness      float64
	Connectivity     int
	NeighborhoodSize int
}

// SNIC runs the simple non-iterative clustering segmentation on the image
func SNIC(image Image, p SNICParams) Image {
	return Image{callArgs("Algorithms.Image.Segmentation.SNIC", args{
		"image":            image,
		"size":             p.Size,
		"compactness":      p.Compactness,
		"connectivity":     p.Connectivity,
		"neighborhoodSize": p.NeighborhoodSize,
	})}
}
