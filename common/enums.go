package common

import (
	"fmt"
	"strings"
)

// SpeckleFilter is a named denoising operator applied to every image of a collection
type SpeckleFilter int

// List of available speckle filters
const (
	SpeckleNone SpeckleFilter = iota
	SpeckleBoxcar
	SpeckleSNIC
	SpeckleRefinedLee
	SpeckleQuegan
)

// SpeckleFilterFromString returns the speckle filter from the user input
func SpeckleFilterFromString(input string) (SpeckleFilter, error) {
	switch strings.ToUpper(input) {
	case "", "NONE":
		return SpeckleNone, nil
	case "BOXCAR":
		return SpeckleBoxcar, nil
	case "SNIC":
		return SpeckleSNIC, nil
	case "REFINED_LEE", "REFINEDLEE":
		return SpeckleRefinedLee, nil
	case "QUEGAN":
		return SpeckleQuegan, nil
	}
	return SpeckleNone, fmt.Errorf("unknown speckle filter: %s (must be one of NONE, BOXCAR, SNIC, REFINED_LEE, QUEGAN)", input)
}

func (s SpeckleFilter) String() string {
	switch s {
	case SpeckleBoxcar:
		return "BOXCAR"
	case SpeckleSNIC:
		return "SNIC"
	case SpeckleRefinedLee:
		return "REFINED_LEE"
	case SpeckleQuegan:
		return "QUEGAN"
	}
	return "NONE"
}

// RadiometricCorrection is a named calibration operator
type RadiometricCorrection int

// List of available radiometric corrections
const (
	RadiometricNone RadiometricCorrection = iota
	RadiometricEllipsoid
	RadiometricTerrain
)

// RadiometricCorrectionFromString returns the radiometric correction from the user input
func RadiometricCorrectionFromString(input string) (RadiometricCorrection, error) {
	switch strings.ToUpper(input) {
	case "NONE":
		return RadiometricNone, nil
	case "", "ELLIPSOID":
		return RadiometricEllipsoid, nil
	case "TERRAIN":
		return RadiometricTerrain, nil
	}
	return RadiometricNone, fmt.Errorf("unknown radiometric correction: %s (must be one of NONE, ELLIPSOID, TERRAIN)", input)
}

func (r RadiometricCorrection) String() string {
	switch r {
	case RadiometricEllipsoid:
		return "ELLIPSOID"
	case RadiometricTerrain:
		return "TERRAIN"
	}
	return "NONE"
}

// OutlierRemoval masks the pixels of a collection that are too far from the temporal median
type OutlierRemoval int

// List of available outlier removals
const (
	OutlierNone OutlierRemoval = iota
	OutlierModerate
	OutlierAggressive
)

// OutlierRemovalFromString returns the outlier removal from the user input
func OutlierRemovalFromString(input string) (OutlierRemoval, error) {
	switch strings.ToUpper(input) {
	case "", "NONE":
		return OutlierNone, nil
	case "MODERATE":
		return OutlierModerate, nil
	case "AGGRESSIVE":
		return OutlierAggressive, nil
	}
	return OutlierNone, fmt.Errorf("unknown outlier removal: %s (must be one of NONE, MODERATE, AGGRESSIVE)", input)
}

func (o OutlierRemoval) String() string {
	switch o {
	case OutlierModerate:
		return "MODERATE"
	case OutlierAggressive:
		return "AGGRESSIVE"
	}
	return "NONE"
}

// StdDevs returns the number of standard deviations from the median above which a pixel is masked
func (o OutlierRemoval) StdDevs() float64 {
	switch o {
	case OutlierModerate:
		return 3.0
	case OutlierAggressive:
		return 2.6
	}
	return 0
}

// OrbitPass of a Sentinel-1 acquisition
type OrbitPass string

// List of available orbit passes
const (
	Ascending  OrbitPass = "ASCENDING"
	Descending OrbitPass = "DESCENDING"
)

// OrbitPassFromString returns the orbit pass from the user input
func OrbitPassFromString(input string) (OrbitPass, error) {
	switch strings.ToUpper(input) {
	case "ASCENDING", "ASC":
		return Ascending, nil
	case "DESCENDING", "DESC":
		return Descending, nil
	}
	return "", fmt.Errorf("unknown orbit pass: %s (must be one of ASCENDING, DESCENDING)", input)
}

// TerrainModel is the scattering model of the slope correction
type TerrainModel string

// List of available terrain models
const (
	ModelVolume  TerrainModel = "volume"
	ModelSurface TerrainModel = "surface"
)

// TerrainModelFromString returns the terrain model from the user input
func TerrainModelFromString(input string) (TerrainModel, error) {
	switch strings.ToLower(input) {
	case "", "volume":
		return ModelVolume, nil
	case "surface":
		return ModelSurface, nil
	}
	return "", fmt.Errorf("unknown terrain model: %s (must be one of volume, surface)", input)
}
