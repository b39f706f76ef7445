// Package speckle provides the speckle filters applied to Sentinel-1 imagery
// before calibration. All filters expect backscatter in power scale and
// return the input image with its VV and VH bands overwritten.
package speckle

import (
	"github.com/geowatt/s1graph/ee"
)

// Boxcar smoothes the VV and VH bands with a 30m square mean kernel
func Boxcar(image ee.Image) ee.Image {
	filtered := image.Select("VV", "VH").
		ReduceNeighborhood(ee.MeanReducer(), ee.SquareKernel(30, "meters")).
		Rename("VV", "VH")
	return image.AddBands(filtered, true)
}

// snicBands are segmented together so that the clusters follow the
// polarization ratios, not only the raw backscatter
var snicBands = []string{"VV", "VH", "VVVH_ratio", "VVVH_ND_ratio"}

// SNIC filters speckle by averaging backscatter over segments of the simple
// non-iterative clustering segmentation. The image must carry the VVVH_ratio
// and VVVH_ND_ratio bands.
func SNIC(image ee.Image) ee.Image {
	segmented := ee.SNIC(image.Select(snicBands...), ee.SNICParams{
		Size:             8,
		Compactness:      5,
		Connectivity:     8,
		NeighborhoodSize: 16,
	}).Select(".*_mean").Rename(snicBands...)
	return image.AddBands(segmented, true)
}
