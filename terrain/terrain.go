// Package terrain implements the radiometric terrain corrections of
// Sentinel-1 backscatter, following Vollrath, Mullissa & Reiche (2020). Slope
// correction converts the ellipsoid gamma0 to terrain-flattened gamma0 and
// adds layover and shadow masks.
package terrain

import (
	"math"

	"github.com/geowatt/s1graph/common"
	"github.com/geowatt/s1graph/ee"
)

const degToRad = math.Pi / 180

// SlopeParams parameterizes the slope correction
type SlopeParams struct {
	// Model is the scattering model of the correction
	Model common.TerrainModel
	// DEM is the asset id of the elevation model
	DEM string
	// Buffer widens the layover and shadow masks, in meters
	Buffer float64
}

// DefaultSlopeParams returns the volume model over SRTM with a 12m buffer
func DefaultSlopeParams() SlopeParams {
	return SlopeParams{Model: common.ModelVolume, DEM: "USGS/SRTMGL1_003", Buffer: 12}
}

// volumetricSCF is the slope correction factor of the volume scattering model
func volumetricSCF(thetaIRad, alphaRRad ee.Image) ee.Image {
	ninetyRad := ee.ConstantImage(90).Multiply(degToRad)
	nominator := ninetyRad.Subtract(thetaIRad).Add(alphaRRad).Tan()
	denominator := ninetyRad.Subtract(thetaIRad).Tan()
	return nominator.Divide(denominator)
}

// surfaceSCF is the slope correction factor of the surface scattering model
func surfaceSCF(thetaIRad, alphaRRad, alphaAzRad ee.Image) ee.Image {
	ninetyRad := ee.ConstantImage(90).Multiply(degToRad)
	nominator := ninetyRad.Subtract(thetaIRad).Cos()
	denominator := alphaAzRad.Cos().
		Multiply(ninetyRad.Subtract(thetaIRad).Add(alphaRRad).Cos())
	return nominator.Divide(denominator)
}

// erode shrinks the mask by distance meters
func erode(mask ee.Image, distance float64) ee.Image {
	d := mask.Not().Unmask(1).
		FastDistanceTransform(30).Sqrt().
		Multiply(ee.PixelArea().Sqrt())
	return mask.UpdateMask(d.Gt(distance))
}

// masking builds the layover, shadow and combined no_data_mask bands
func masking(alphaRRad, thetaIRad ee.Image, buffer float64) ee.Image {
	// layover, where the slope is steeper than the radar viewing angle
	layover := alphaRRad.Lt(thetaIRad).Rename("layover")

	ninetyRad := ee.ConstantImage(90).Multiply(degToRad)
	shadow := alphaRRad.Gt(ee.ConstantImage(-1).Multiply(ninetyRad.Subtract(thetaIRad))).
		Rename("shadow")

	if buffer > 0 {
		layover = erode(layover, buffer)
		shadow = erode(shadow, buffer)
	}
	noDataMask := layover.And(shadow).Rename("no_data_mask")
	return layover.AddBands(shadow, false).AddBands(noDataMask, false)
}

// SlopeCorrection converts the VV and VH bands to terrain-flattened gamma0
// and adds the angle, LIA, layover, shadow and no_data_mask bands
func SlopeCorrection(image ee.Image, p SlopeParams) ee.Image {
	geom := image.Geometry()
	proj := image.SelectAt(1).Projection()

	// look direction, averaged over the scene
	heading := ee.TerrainAspect(image.Select("angle")).
		ReduceRegion(ee.MeanReducer(), geom, 1000).
		Get("aspect")

	// radar geometry
	thetaIRad := image.Select("angle").Multiply(degToRad)
	phiIRad := ee.ConstantImage(heading).Multiply(degToRad)

	// terrain geometry
	elevation := ee.LoadImage(p.DEM).Resample("bilinear")
	alphaSRad := ee.TerrainSlope(elevation).Select("slope").Multiply(degToRad).
		SetDefaultProjection(proj).Clip(geom)
	phiSRad := ee.TerrainAspect(elevation).Select("aspect").Multiply(degToRad).
		SetDefaultProjection(proj).Clip(geom)

	// model geometry: slope steepness in range and azimuth, local incidence
	phiRRad := phiIRad.Subtract(phiSRad)
	alphaRRad := alphaSRad.Tan().Multiply(phiRRad.Cos()).Atan()
	alphaAzRad := alphaSRad.Tan().Multiply(phiRRad.Sin()).Atan()
	thetaLiaRad := alphaAzRad.Cos().Multiply(thetaIRad.Subtract(alphaRRad).Cos()).Acos()
	thetaLiaDeg := thetaLiaRad.Multiply(180 / math.Pi).Rename("LIA")

	gamma0 := image.Select("VV", "VH").Divide(thetaIRad.Cos()).Rename("VV", "VH")

	var scf ee.Image
	switch p.Model {
	case common.ModelSurface:
		scf = surfaceSCF(thetaIRad, alphaRRad, alphaAzRad)
	default:
		scf = volumetricSCF(thetaIRad, alphaRRad)
	}
	gamma0Flat := gamma0.Divide(scf).Rename("VV", "VH")

	return gamma0Flat.
		AddBands(image.Select("angle"), false).
		AddBands(thetaLiaDeg, false).
		AddBands(masking(alphaRRad, thetaIRad, p.Buffer), false).
		CopyProperties(image).
		Set("system:time_start", image.GetNumber("system:time_start"))
}

// Flatten is a lighter volumetric-model flattening over SRTM without the
// mask buffering of SlopeCorrection. Shadow is where the local incidence
// angle exceeds 85 degrees.
func Flatten(image ee.Image) ee.Image {
	geometry := image.Geometry()
	srtm := ee.LoadImage("USGS/SRTMGL1_003").Clip(geometry).Resample("bilinear")

	thetaI := image.Select("angle")
	phiI := ee.TerrainAspect(thetaI).
		ReduceRegion(ee.MeanReducer(), geometry, 1000).
		Get("aspect")

	alphaS := ee.TerrainSlope(srtm).Select("slope")
	phiS := ee.TerrainAspect(srtm).Select("aspect")

	phiRRad := ee.ConstantImage(phiI).Subtract(phiS).Multiply(degToRad)
	alphaSRad := alphaS.Multiply(degToRad)
	thetaIRad := thetaI.Multiply(degToRad)
	ninetyRad := ee.ConstantImage(90).Multiply(degToRad)

	alphaR := alphaSRad.Tan().Multiply(phiRRad.Cos()).Atan()
	alphaAz := alphaSRad.Tan().Multiply(phiRRad.Sin()).Atan()
	thetaLia := alphaAz.Cos().Multiply(thetaIRad.Subtract(alphaR).Cos()).Acos()
	thetaLiaDeg := thetaLia.Multiply(180 / math.Pi)

	gamma0 := image.Divide(thetaIRad.Cos())
	volModel := ninetyRad.Subtract(thetaIRad).Add(alphaR).Tan().
		Divide(ninetyRad.Subtract(thetaIRad).Tan()).Abs()
	gamma0Volume := gamma0.Divide(volModel)

	layover := alphaR.Multiply(180 / math.Pi).Lt(thetaI)
	shadow := thetaLiaDeg.Lt(85)

	return gamma0Volume.AddBands(layover, false).AddBands(shadow, false).
		SelectRename(
			[]string{"VV", "VH", "slope_1", "slope_2"},
			[]string{"VV", "VH", "layover", "shadow"},
		).
		AddBands(image.Select("angle"), false).
		Set("system:time_start", image.GetNumber("system:time_start")).
		CopyProperties(image)
}
