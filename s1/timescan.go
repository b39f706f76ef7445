package s1

import (
	"github.com/geowatt/s1graph/ee"
)

// timescanBands of the composite, per polarization: temporal statistics, the
// coefficient of variation, the median ratio and its normalized difference
var timescanBands = []string{
	"VV_min", "VV_mean", "VV_median", "VV_max", "VV_stdDev", "VV_CV",
	"VH_min", "VH_mean", "VH_median", "VH_max", "VH_stdDev", "VH_CV",
	"VV_median_VH_median", "NDCV",
}

// Timescan composites the collection into a multitemporal statistics image.
// The collection must carry the VV and VH bands in decibels. The coefficient
// of variation compares the deviation in dB to the mean in natural scale.
func Timescan(collection ee.ImageCollection, region ee.Geometry) ee.Image {
	reduced := collection.
		Select("VV", "VH").
		Map(func(image ee.Image) ee.Image {
			natural := ee.ConstantImage(10).Pow(image.Select("VV", "VH").Divide(10)).
				Rename("VV_nat", "VH_nat")
			return image.AddBands(natural, false)
		}).
		Reduce(ee.MeanReducer().
			Combine(ee.MedianReducer(), "", true).
			Combine(ee.StdDevReducer(), "", true).
			Combine(ee.MinMaxReducer(), "", true).
			Combine(ee.PercentileReducer(20, 80), "", true))

	mosaic := reduced.
		AddBands(reduced.Select("VV_median").Subtract(reduced.Select("VH_median")).
			Rename("VV_median_VH_median"), false).
		AddBands(reduced.Select("VV_stdDev").Divide(reduced.Select("VV_nat_mean")).
			Log10().Multiply(10).Rename("VV_CV"), false).
		AddBands(reduced.Select("VH_stdDev").Divide(reduced.Select("VH_nat_mean")).
			Log10().Multiply(10).Rename("VH_CV"), false)
	mosaic = mosaic.AddBands(
		mosaic.NormalizedDifference("VV_CV", "VH_CV").Rename("NDCV"), false)

	return mosaic.Select(timescanBands...).Clip(region).Float()
}

var timescanViz = map[string]bandViz{
	"VV_min":              {min: -25, max: 4},
	"VV_mean":             {min: -18, max: 6},
	"VV_median":           {min: -18, max: 6},
	"VV_max":              {min: -17, max: 10},
	"VV_stdDev":           {min: 0, max: 5},
	"VV_CV":               {min: -6, max: 28},
	"VH_min":              {min: -34, max: 4},
	"VH_mean":             {min: -27, max: 0},
	"VH_median":           {min: -27, max: 0},
	"VH_max":              {min: -26, max: 2},
	"VH_stdDev":           {min: 0, max: 6},
	"VH_CV":               {min: 0, max: 35},
	"VV_median_VH_median": {min: 2, max: 16},
	"NDCV":                {min: -1, max: 1},
}

// TimescanVizParams returns the default visualization parameters of the
// given timescan bands
func TimescanVizParams(bands []string) (VizParams, error) {
	return vizParams(bands, timescanViz)
}
