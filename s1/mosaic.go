package s1

import (
	"fmt"
	"strings"

	"github.com/geowatt/s1graph/ee"
)

// VizParams are default visualization parameters for a set of bands
type VizParams struct {
	Bands   []string  `json:"bands"`
	Min     []float64 `json:"min"`
	Max     []float64 `json:"max"`
	Palette []string  `json:"palette,omitempty"`
}

type bandViz struct {
	min, max float64
	palette  []string
}

// Mosaic composites the collection into a single image, keeping for every
// pixel the acquisition closest to the target date. The collection must
// carry the quality metadata band (set a target date). The VV_VH ratio band
// is added.
func Mosaic(collection ee.ImageCollection, region ee.Geometry) ee.Image {
	mosaic := collection.QualityMosaic("quality")
	mosaic = mosaic.AddBands(
		mosaic.Select("VV").Subtract(mosaic.Select("VH")).Rename("VV_VH"), false)
	return mosaic.Clip(region).Float()
}

var mosaicViz = map[string]bandViz{
	"VV":             {min: -20, max: 2},
	"VH":             {min: -22, max: 0},
	"VV_VH":          {min: 3, max: 14},
	"dayOfYear":      {min: 0, max: 366, palette: []string{"00FFFF", "000099"}},
	"daysFromTarget": {min: 0, max: 183, palette: []string{"008000", "FFFF00", "FF0000"}},
}

// MosaicVizParams returns the default visualization parameters of the given
// mosaic bands. The palette is only set for a single band.
func MosaicVizParams(bands []string) (VizParams, error) {
	return vizParams(bands, mosaicViz)
}

func vizParams(bands []string, defaults map[string]bandViz) (VizParams, error) {
	p := VizParams{Min: make([]float64, len(bands)), Max: make([]float64, len(bands))}
	for i, band := range bands {
		band = strings.TrimSpace(band)
		viz, ok := defaults[band]
		if !ok {
			return VizParams{}, fmt.Errorf("vizParams: unknown band %s", band)
		}
		p.Bands = append(p.Bands, band)
		p.Min[i], p.Max[i] = viz.min, viz.max
		if len(bands) == 1 {
			p.Palette = viz.palette
		}
	}
	return p, nil
}
