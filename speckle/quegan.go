package speckle

import (
	"github.com/geowatt/s1graph/ee"
)

// QueganParams parameterizes the multitemporal filter
type QueganParams struct {
	// Radius and Units of the spatial mean kernel
	Radius float64
	Units  string
	// TimeWindow is the number of months considered before and after the
	// image date
	TimeWindow int
}

// DefaultQueganParams returns a 30m kernel over a one year window
func DefaultQueganParams() QueganParams {
	return QueganParams{Radius: 30, Units: "meters", TimeWindow: 12}
}

// Quegan applies the Quegan & Yu multitemporal speckle filter: the spatial
// mean of the image is modulated by the average ratio of all images of the
// same relative orbit within the time window. Slow but preserves resolution.
func Quegan(image ee.Image, p QueganParams) ee.Image {
	t := image.Date()
	from := t.Advance(-p.TimeWindow, "month")
	to := t.Advance(p.TimeWindow, "month")

	bands := image.BandNames()
	meanBands := bands.MapStrings(func(b ee.String) ee.String { return b.Cat("_mean") })
	ratioBands := bands.MapStrings(func(b ee.String) ee.String { return b.Cat("_ratio") })

	neighbors := ee.LoadCollection("COPERNICUS/S1_GRD_FLOAT").
		FilterEq("resolution_meters", 10).
		FilterEq("instrumentMode", "IW").
		Filter(ee.And(
			ee.ListContains("transmitterReceiverPolarisation", "VV"),
			ee.ListContains("transmitterReceiverPolarisation", "VH"),
		)).
		FilterDate(from, to).
		FilterEq("relativeOrbitNumber_start", image.GetNumber("relativeOrbitNumber_start"))

	// spatial average and ratio to it, for every image of the window
	withMean := neighbors.Map(func(i ee.Image) ee.Image {
		mean := i.ReduceNeighborhood(ee.MeanReducer(), ee.SquareKernel(p.Radius, p.Units)).
			RenameList(meanBands)
		ratio := i.Divide(mean).RenameList(ratioBands)
		return i.AddBands(mean, false).AddBands(ratio, false)
	})
	imageMean := withMean.FilterEq("system:index", image.GetString("system:index")).First()
	ratios := withMean.SelectList(ratioBands)

	return imageMean.SelectList(meanBands).
		Multiply(ratios.Sum()).
		Divide(ratios.Count()).
		RenameList(bands).
		CopyProperties(image).
		Set("system:time_start", image.GetNumber("system:time_start"))
}
