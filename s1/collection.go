// Package s1 assembles analysis-ready Sentinel-1 image collections and
// composites as server-side expression graphs. Imagery is calibrated,
// filtered and masked by chaining remote operations; nothing is computed
// until the graph is evaluated.
package s1

import (
	"fmt"
	"math"
	"time"

	"github.com/geowatt/s1graph/common"
	"github.com/geowatt/s1graph/ee"
	"github.com/geowatt/s1graph/speckle"
	"github.com/geowatt/s1graph/terrain"
)

// collectionID of the Sentinel-1 ground range detected imagery, in power scale
const collectionID = "COPERNICUS/S1_GRD_FLOAT"

// targetWindowDays is the half-window around the target date used when start
// or end dates are not given (366 / 2)
const targetWindowDays = 183

// CollectionOptions configures the assembly of a Sentinel-1 collection
type CollectionOptions struct {
	// Orbits to include
	Orbits []common.OrbitPass
	// StartDate (inclusive) and EndDate (exclusive) of the acquisitions.
	// Both default to TargetDate more or less 183 days when unset.
	StartDate time.Time
	EndDate   time.Time
	// TargetDate is the ideal acquisition date. When set, the dayOfYear,
	// daysFromTarget, quality and unixTimeDays metadata bands are added.
	TargetDate time.Time
	// AddRatio adds the VVVH_ratio band (VV - VH in dB scale)
	AddRatio bool
	// AddNDRatio adds the VVVH_ND_ratio normalized difference band
	AddNDRatio bool
	// SpeckleFilter to apply, with the parameters of the multitemporal one
	SpeckleFilter common.SpeckleFilter
	SpeckleParams speckle.QueganParams
	// RadiometricCorrection to apply, with the parameters of the terrain one
	RadiometricCorrection common.RadiometricCorrection
	SlopeParams           terrain.SlopeParams
	// OutlierRemoval masks pixels too far from the temporal median
	OutlierRemoval common.OutlierRemoval
	// DB converts the backscatter to decibels
	DB bool
}

// DefaultCollectionOptions returns both orbits, ellipsoid correction, ratio
// bands and decibel scale
func DefaultCollectionOptions() CollectionOptions {
	return CollectionOptions{
		Orbits:                []common.OrbitPass{common.Ascending, common.Descending},
		AddRatio:              true,
		AddNDRatio:            true,
		SpeckleFilter:         common.SpeckleNone,
		SpeckleParams:         speckle.DefaultQueganParams(),
		RadiometricCorrection: common.RadiometricEllipsoid,
		SlopeParams:           terrain.DefaultSlopeParams(),
		OutlierRemoval:        common.OutlierNone,
		DB:                    true,
	}
}

// step is one named stage of the per-image preprocessing chain
type step struct {
	name  string
	apply func(ee.Image) ee.Image
}

// preprocessSteps selects the preprocessing chain of every image: speckle
// filtering, calibration, metadata and ratio bands, decibel conversion and
// finally border masking. SNIC runs after the ratio bands it segments on.
func preprocessSteps(opts CollectionOptions) []step {
	var steps []step
	switch opts.SpeckleFilter {
	case common.SpeckleBoxcar:
		steps = append(steps, step{"boxcar", speckle.Boxcar})
	case common.SpeckleRefinedLee:
		steps = append(steps, step{"refinedLee", speckle.RefinedLee})
	case common.SpeckleQuegan:
		steps = append(steps, step{"quegan", func(i ee.Image) ee.Image {
			return speckle.Quegan(i, opts.SpeckleParams)
		}})
	}
	switch opts.RadiometricCorrection {
	case common.RadiometricEllipsoid:
		steps = append(steps, step{"gamma0", toGamma0})
	case common.RadiometricTerrain:
		steps = append(steps,
			step{"terrainFlattening", func(i ee.Image) ee.Image {
				return terrain.SlopeCorrection(i, opts.SlopeParams)
			}},
			step{"maskOverlay", maskOverlay})
	}
	if !opts.TargetDate.IsZero() {
		steps = append(steps, step{"dateBands", addDateBands(opts.TargetDate)})
	}
	if opts.AddRatio {
		steps = append(steps, step{"ratio", addRatioBand})
	}
	if opts.AddNDRatio {
		steps = append(steps, step{"ndRatio", addNDRatioBand})
	}
	if opts.SpeckleFilter == common.SpeckleSNIC {
		steps = append(steps, step{"snic", speckle.SNIC})
	}
	if opts.DB {
		steps = append(steps, step{"toDb", toDb})
	}
	steps = append(steps, step{"maskBorders", maskBorders})
	return steps
}

// Collection assembles the Sentinel-1 collection over the region. The images
// carry the VV, VH and angle bands, plus the ratio and metadata bands enabled
// by the options.
func Collection(region ee.Geometry, opts CollectionOptions) (ee.ImageCollection, error) {
	start, end := opts.StartDate, opts.EndDate
	if !opts.TargetDate.IsZero() {
		if start.IsZero() {
			start = common.SubDays(opts.TargetDate, targetWindowDays)
		}
		if end.IsZero() {
			end = common.AddDays(opts.TargetDate, targetWindowDays)
		}
	}
	if start.IsZero() || end.IsZero() {
		return ee.ImageCollection{}, fmt.Errorf("Collection: missing start or end date (set them or a target date)")
	}
	if !end.After(start) {
		return ee.ImageCollection{}, fmt.Errorf("Collection: end date %s is not after start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	if len(opts.Orbits) == 0 {
		return ee.ImageCollection{}, fmt.Errorf("Collection: missing orbits")
	}
	if opts.SpeckleFilter == common.SpeckleSNIC && (!opts.AddRatio || !opts.AddNDRatio) {
		return ee.ImageCollection{}, fmt.Errorf("Collection: the SNIC speckle filter segments on the ratio bands (enable AddRatio and AddNDRatio)")
	}

	orbitFilters := make([]ee.Filter, len(opts.Orbits))
	for i, orbit := range opts.Orbits {
		orbitFilters[i] = ee.Eq("orbitProperties_pass", string(orbit))
	}

	steps := preprocessSteps(opts)
	collection := ee.LoadCollection(collectionID).
		FilterBounds(region).
		FilterDate(start, end).
		FilterEq("resolution_meters", 10).
		FilterEq("instrumentMode", "IW").
		Filter(ee.And(
			ee.ListContains("transmitterReceiverPolarisation", "VV"),
			ee.ListContains("transmitterReceiverPolarisation", "VH"),
		)).
		Filter(ee.Or(orbitFilters...)).
		Map(func(i ee.Image) ee.Image { return i.Resample("bilinear") }).
		Map(func(i ee.Image) ee.Image {
			for _, s := range steps {
				i = s.apply(i)
			}
			return i
		})

	if stdDevs := opts.OutlierRemoval.StdDevs(); stdDevs > 0 {
		collection = maskOutliers(collection, stdDevs)
	}
	return collection, nil
}

// toGamma0 calibrates VV and VH to ellipsoid corrected gamma0. The input is
// in power scale.
func toGamma0(image ee.Image) ee.Image {
	gamma0 := image.Select("VV", "VH").Expression("i/(cos(angle * pi / 180))", map[string]interface{}{
		"angle": image.Select("angle"),
		"pi":    math.Pi,
	})
	return image.AddBands(gamma0, true)
}

// maskOverlay hides the pixels flagged by the layover and shadow masks
func maskOverlay(image ee.Image) ee.Image {
	return image.UpdateMask(image.Select("layover").And(image.Select("shadow")))
}

// addDateBands adds the dayOfYear, daysFromTarget, quality and unixTimeDays
// metadata bands. quality grows with the closeness to the target date, for
// use with quality mosaicking.
func addDateBands(target time.Time) func(ee.Image) ee.Image {
	return func(image ee.Image) ee.Image {
		date := image.Date()
		dayOfYear := date.GetRelative("day", "year")
		daysFromTarget := date.Difference(ee.NewDate(target), "day").Abs()
		const millisPerDay = 1000 * 60 * 60 * 24
		unixTimeDays := date.Millis().Divide(millisPerDay)
		return image.
			AddBands(ee.ConstantImage(dayOfYear).UInt16().Rename("dayOfYear"), false).
			AddBands(ee.ConstantImage(daysFromTarget).UInt16().Rename("daysFromTarget"), false).
			AddBands(ee.ConstantImage(daysFromTarget.Multiply(-1)).Int16().Rename("quality"), false).
			AddBands(ee.ConstantImage(unixTimeDays).UInt16().Rename("unixTimeDays"), false)
	}
}

func addRatioBand(image ee.Image) ee.Image {
	return image.AddBands(
		image.Select("VV").Subtract(image.Select("VH")).Rename("VVVH_ratio"), false)
}

func addNDRatioBand(image ee.Image) ee.Image {
	return image.AddBands(
		image.NormalizedDifference("VV", "VH").Rename("VVVH_ND_ratio"), false)
}

// toDb converts VV and VH from power to decibels
func toDb(image ee.Image) ee.Image {
	db := ee.ConstantImage(10).Multiply(image.Select("VV", "VH").Log10()).
		Rename("VV", "VH")
	return image.AddBands(db, true)
}

// maskBorders hides the noisy swath borders: pixels outside the 31-45 degree
// incidence range, and pixels close to an image border unless the image is a
// middle slice of its acquisition
func maskBorders(image ee.Image) ee.Image {
	totalSlices := image.GetNumber("totalSlices")
	sliceNumber := image.GetNumber("sliceNumber")
	middleSlice := ee.ConstantImage(sliceNumber.Gt(1).And(sliceNumber.Lt(totalSlices)))
	notBorder := image.Select("VV").Mask().ReduceNeighborhood(
		ee.AllNonZeroReducer(), ee.CircleKernel(500, "meters"))
	angle := image.Select("angle")
	return image.UpdateMask(
		angle.Gt(31).And(angle.Lt(45)).And(middleSlice.Or(notBorder)))
}

// maskOutliers hides, image by image, the VV and VH pixels further than
// stdDevs standard deviations from the temporal median
func maskOutliers(collection ee.ImageCollection, stdDevs float64) ee.ImageCollection {
	bands := []string{"VV", "VH"}
	reduced := collection.Select(bands...).Reduce(
		ee.MedianReducer().Combine(ee.StdDevReducer(), "", true))
	median := reduced.Select(".*_median")
	threshold := reduced.Select(".*_stdDev").Multiply(stdDevs)
	return collection.Map(func(image ee.Image) ee.Image {
		return image.UpdateMask(
			image.Select(bands...).Subtract(median).Abs().Lte(threshold).
				Reduce(ee.MinReducer()))
	})
}
