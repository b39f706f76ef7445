package speckle

import (
	"github.com/geowatt/s1graph/ee"
)

// RefinedLee applies the refined Lee filter to the VV and VH bands. Very slow
// but preserves edges well.
func RefinedLee(image ee.Image) ee.Image {
	filtered := refinedLeeBand(image.Select("VV")).
		AddBands(refinedLeeBand(image.Select("VH")), false).
		Rename("VV", "VH")
	return image.AddBands(filtered, true)
}

// refinedLeeBand filters a single band in power scale. The filter estimates
// the local mean and variance along the least heterogeneous of 8 directional
// windows, then blends the pixel with the directional mean following the
// minimum mean square error estimator.
func refinedLeeBand(img ee.Image) ee.Image {
	// local statistics on a 3x3 window
	weights3 := ee.Repeat(ee.Repeat(1, 3), 3)
	kernel3 := ee.FixedKernel(3, 3, weights3, 1, 1, false)
	mean3 := img.ReduceNeighborhood(ee.MeanReducer(), kernel3)
	variance3 := img.ReduceNeighborhood(ee.VarianceReducer(), kernel3)

	// sample the statistics on a 3x3 grid of the 7x7 window
	sampleWeights := ee.NewList(
		[]int{0, 0, 0, 0, 0, 0, 0},
		[]int{0, 1, 0, 1, 0, 1, 0},
		[]int{0, 0, 0, 0, 0, 0, 0},
		[]int{0, 1, 0, 1, 0, 1, 0},
		[]int{0, 0, 0, 0, 0, 0, 0},
		[]int{0, 1, 0, 1, 0, 1, 0},
		[]int{0, 0, 0, 0, 0, 0, 0},
	)
	sampleKernel := ee.FixedKernel(7, 7, sampleWeights, 3, 3, false)
	sampleMean := mean3.NeighborhoodToBands(sampleKernel)
	sampleVar := variance3.NeighborhoodToBands(sampleKernel)

	// gradient along the 4 axes of the sample grid
	gradients := sampleMean.SelectAt(1).Subtract(sampleMean.SelectAt(7)).Abs().
		AddBands(sampleMean.SelectAt(6).Subtract(sampleMean.SelectAt(2)).Abs(), false).
		AddBands(sampleMean.SelectAt(3).Subtract(sampleMean.SelectAt(5)).Abs(), false).
		AddBands(sampleMean.SelectAt(0).Subtract(sampleMean.SelectAt(8)).Abs(), false)
	maxGradient := gradients.Reduce(ee.MaxReducer())
	gradMask := gradients.Eq(maxGradient)
	gradMask = gradMask.AddBands(gradMask, false)

	// direction of the edge for each axis, then its opposite
	directions := sampleMean.SelectAt(1).Subtract(sampleMean.SelectAt(4)).
		Gt(sampleMean.SelectAt(4).Subtract(sampleMean.SelectAt(7))).Multiply(1).
		AddBands(sampleMean.SelectAt(6).Subtract(sampleMean.SelectAt(4)).
			Gt(sampleMean.SelectAt(4).Subtract(sampleMean.SelectAt(2))).Multiply(2), false).
		AddBands(sampleMean.SelectAt(3).Subtract(sampleMean.SelectAt(4)).
			Gt(sampleMean.SelectAt(4).Subtract(sampleMean.SelectAt(5))).Multiply(3), false).
		AddBands(sampleMean.SelectAt(0).Subtract(sampleMean.SelectAt(4)).
			Gt(sampleMean.SelectAt(4).Subtract(sampleMean.SelectAt(8))).Multiply(4), false)
	for axis := 0; axis < 4; axis++ {
		directions = directions.AddBands(directions.SelectAt(axis).Not().Multiply(axis+5), false)
	}
	directions = directions.UpdateMask(gradMask).Reduce(ee.SumReducer())

	// speckle strength: mean of the 5 least heterogeneous samples
	sampleStats := sampleVar.Divide(sampleMean.Multiply(sampleMean))
	sigmaV := sampleStats.ToArray().ArraySort().ArraySlice(0, 0, 5).
		ArrayReduce(ee.MeanReducer(), []int{0})

	// directional kernels, rotated for the 8 directions
	rectWeights := ee.Repeat(ee.Repeat(0, 7), 3).Cat(ee.Repeat(ee.Repeat(1, 7), 4))
	diagWeights := ee.NewList(
		[]int{1, 0, 0, 0, 0, 0, 0},
		[]int{1, 1, 0, 0, 0, 0, 0},
		[]int{1, 1, 1, 0, 0, 0, 0},
		[]int{1, 1, 1, 1, 0, 0, 0},
		[]int{1, 1, 1, 1, 1, 0, 0},
		[]int{1, 1, 1, 1, 1, 1, 0},
		[]int{1, 1, 1, 1, 1, 1, 1},
	)
	rectKernel := ee.FixedKernel(7, 7, rectWeights, 3, 3, false)
	diagKernel := ee.FixedKernel(7, 7, diagWeights, 3, 3, false)

	dirMean := img.ReduceNeighborhood(ee.MeanReducer(), rectKernel).UpdateMask(directions.Eq(1))
	dirVar := img.ReduceNeighborhood(ee.VarianceReducer(), rectKernel).UpdateMask(directions.Eq(1))
	dirMean = dirMean.AddBands(img.ReduceNeighborhood(ee.MeanReducer(), diagKernel).UpdateMask(directions.Eq(2)), false)
	dirVar = dirVar.AddBands(img.ReduceNeighborhood(ee.VarianceReducer(), diagKernel).UpdateMask(directions.Eq(2)), false)
	for i := 1; i < 4; i++ {
		rect := rectKernel.Rotate(i)
		diag := diagKernel.Rotate(i)
		dirMean = dirMean.AddBands(img.ReduceNeighborhood(ee.MeanReducer(), rect).UpdateMask(directions.Eq(2*i+1)), false)
		dirVar = dirVar.AddBands(img.ReduceNeighborhood(ee.VarianceReducer(), rect).UpdateMask(directions.Eq(2*i+1)), false)
		dirMean = dirMean.AddBands(img.ReduceNeighborhood(ee.MeanReducer(), diag).UpdateMask(directions.Eq(2*i+2)), false)
		dirVar = dirVar.AddBands(img.ReduceNeighborhood(ee.VarianceReducer(), diag).UpdateMask(directions.Eq(2*i+2)), false)
	}

	// exactly one direction is unmasked per pixel
	dirMeanSum := dirMean.Reduce(ee.SumReducer())
	dirVarSum := dirVar.Reduce(ee.SumReducer())

	varX := dirVarSum.Subtract(dirMeanSum.Multiply(dirMeanSum).Multiply(sigmaV)).
		Divide(sigmaV.Add(1.0))
	b := varX.Divide(dirVarSum)
	result := dirMeanSum.Add(b.Multiply(img.Subtract(dirMeanSum)))
	return result.ArrayFlatten([]string{"sum"})
}
