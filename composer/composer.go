// Package composer exposes the Sentinel-1 collection builder over HTTP. Each
// endpoint parses a product request, assembles the expression graph and
// returns it serialized, or evaluates it on the platform when a client is
// configured.
package composer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/geowatt/s1graph/common"
	"github.com/geowatt/s1graph/ee"
	"github.com/geowatt/s1graph/s1"
	"github.com/geowatt/s1graph/service"
)

// Composer builds Sentinel-1 products on request
type Composer struct {
	// Client evaluates graphs on the platform. Optional: without it, the
	// compute endpoints are disabled and only serialized graphs are returned.
	Client *ee.Client
}

// SpeckleParams is the wire form of the multitemporal filter parameters
type SpeckleParams struct {
	Radius     float64 `json:"radius"`
	Units      string  `json:"units"`
	TimeWindow int     `json:"time_window"`
}

// SlopeParams is the wire form of the terrain correction parameters
type SlopeParams struct {
	Model  string  `json:"model"`
	DEM    string  `json:"dem"`
	Buffer float64 `json:"buffer"`
}

// Request is the payload of the product endpoints. Dates accept a
// yyyy-mm-dd string or a millisecond timestamp. Unset fields keep the
// defaults of s1.DefaultCollectionOptions.
type Request struct {
	// Region is a geojson geometry, feature or feature collection.
	// RegionURL fetches it from a URL instead; RegionToken authenticates
	// the fetch as a bearer token.
	Region         json.RawMessage `json:"region,omitempty"`
	RegionURL      string          `json:"region_url,omitempty"`
	RegionToken    string          `json:"region_token,omitempty"`
	Orbits         []string        `json:"orbits,omitempty"`
	StartDate      interface{}     `json:"start_date,omitempty"`
	EndDate        interface{}     `json:"end_date,omitempty"`
	TargetDate     interface{}     `json:"target_date,omitempty"`
	AddRatio       *bool           `json:"add_ratio,omitempty"`
	AddNDRatio     *bool           `json:"add_nd_ratio,omitempty"`
	SpeckleFilter  string          `json:"speckle_filter,omitempty"`
	SpeckleParams  *SpeckleParams  `json:"speckle_filter_params,omitempty"`
	Radiometric    string          `json:"radiometric_correction,omitempty"`
	SlopeParams    *SlopeParams    `json:"slope_correction_params,omitempty"`
	OutlierRemoval string          `json:"outlier_removal,omitempty"`
	DB             *bool           `json:"db,omitempty"`

	// Band and Harmonics are only read by the harmonics product
	Band      string `json:"band,omitempty"`
	Harmonics int    `json:"harmonics,omitempty"`
}

// region parses the geojson region of the request
func (r *Request) region(ctx context.Context) (ee.Geometry, error) {
	data := []byte(r.Region)
	if len(data) == 0 && r.RegionURL != "" {
		var err error
		if r.RegionToken != "" {
			data, err = service.HTTPGetWithAuth(ctx, r.RegionURL, "", "", r.RegionToken)
		} else {
			data, err = service.GetBodyRetry(r.RegionURL, 2)
		}
		if err != nil {
			return ee.Geometry{}, fmt.Errorf("region_url.%w", err)
		}
	}
	if len(data) == 0 {
		return ee.Geometry{}, fmt.Errorf("region: missing geojson region")
	}
	g, err := service.UnmarshalGeometry(data)
	if err != nil {
		return ee.Geometry{}, fmt.Errorf("region.%w", err)
	}
	geometry, err := ee.NewGeometry(g)
	if err != nil {
		return ee.Geometry{}, fmt.Errorf("region.%w", err)
	}
	return geometry, nil
}

// options maps the request onto the collection options
func (r *Request) options() (s1.CollectionOptions, error) {
	opts := s1.DefaultCollectionOptions()
	var err error

	if len(r.Orbits) > 0 {
		seen := service.StringSet{}
		opts.Orbits = nil
		for _, orbit := range r.Orbits {
			pass, err := common.OrbitPassFromString(orbit)
			if err != nil {
				return opts, err
			}
			if seen.Exists(string(pass)) {
				continue
			}
			seen.Push(string(pass))
			opts.Orbits = append(opts.Orbits, pass)
		}
	}
	if r.StartDate != nil {
		if opts.StartDate, err = common.ParseDate(r.StartDate); err != nil {
			return opts, fmt.Errorf("start_date.%w", err)
		}
	}
	if r.EndDate != nil {
		if opts.EndDate, err = common.ParseDate(r.EndDate); err != nil {
			return opts, fmt.Errorf("end_date.%w", err)
		}
	}
	if r.TargetDate != nil {
		if opts.TargetDate, err = common.ParseDate(r.TargetDate); err != nil {
			return opts, fmt.Errorf("target_date.%w", err)
		}
	}
	if r.AddRatio != nil {
		opts.AddRatio = *r.AddRatio
	}
	if r.AddNDRatio != nil {
		opts.AddNDRatio = *r.AddNDRatio
	}
	if opts.SpeckleFilter, err = common.SpeckleFilterFromString(r.SpeckleFilter); err != nil {
		return opts, err
	}
	if p := r.SpeckleParams; p != nil {
		if p.Radius > 0 {
			opts.SpeckleParams.Radius = p.Radius
		}
		if p.Units != "" {
			opts.SpeckleParams.Units = p.Units
		}
		if p.TimeWindow > 0 {
			opts.SpeckleParams.TimeWindow = p.TimeWindow
		}
	}
	if opts.RadiometricCorrection, err = common.RadiometricCorrectionFromString(r.Radiometric); err != nil {
		return opts, err
	}
	if p := r.SlopeParams; p != nil {
		if opts.SlopeParams.Model, err = common.TerrainModelFromString(p.Model); err != nil {
			return opts, err
		}
		if p.DEM != "" {
			opts.SlopeParams.DEM = p.DEM
		}
		if p.Buffer > 0 {
			opts.SlopeParams.Buffer = p.Buffer
		}
	}
	if opts.OutlierRemoval, err = common.OutlierRemovalFromString(r.OutlierRemoval); err != nil {
		return opts, err
	}
	if r.DB != nil {
		opts.DB = *r.DB
	}
	return opts, nil
}

// product assembles the expression graph of the named product
func (r *Request) product(ctx context.Context, name string) (ee.Object, error) {
	region, err := r.region(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := r.options()
	if err != nil {
		return nil, err
	}
	if name == "mosaic" && opts.TargetDate.IsZero() {
		return nil, fmt.Errorf("the mosaic composites on the quality band: set a target_date")
	}

	collection, err := s1.Collection(region, opts)
	if err != nil {
		return nil, err
	}
	switch name {
	case "collection":
		return collection, nil
	case "mosaic":
		return s1.Mosaic(collection, region), nil
	case "timescan":
		return s1.Timescan(collection, region), nil
	case "harmonics":
		band, harmonics := r.Band, r.Harmonics
		if band == "" {
			band = "VV"
		}
		if harmonics == 0 {
			harmonics = 1
		}
		return s1.Harmonics(collection, band, harmonics)
	}
	return nil, fmt.Errorf("unknown product: %s", name)
}

// Defaults is the wire form of the default collection options
type Defaults struct {
	Orbits         []string      `json:"orbits"`
	AddRatio       bool          `json:"add_ratio"`
	AddNDRatio     bool          `json:"add_nd_ratio"`
	SpeckleFilter  string        `json:"speckle_filter"`
	SpeckleParams  SpeckleParams `json:"speckle_filter_params"`
	Radiometric    string        `json:"radiometric_correction"`
	SlopeParams    SlopeParams   `json:"slope_correction_params"`
	OutlierRemoval string        `json:"outlier_removal"`
	DB             bool          `json:"db"`
}

func defaults() Defaults {
	opts := s1.DefaultCollectionOptions()
	orbits := make([]string, len(opts.Orbits))
	for i, orbit := range opts.Orbits {
		orbits[i] = string(orbit)
	}
	return Defaults{
		Orbits:        orbits,
		AddRatio:      opts.AddRatio,
		AddNDRatio:    opts.AddNDRatio,
		SpeckleFilter: opts.SpeckleFilter.String(),
		SpeckleParams: SpeckleParams{
			Radius:     opts.SpeckleParams.Radius,
			Units:      opts.SpeckleParams.Units,
			TimeWindow: opts.SpeckleParams.TimeWindow,
		},
		Radiometric: opts.RadiometricCorrection.String(),
		SlopeParams: SlopeParams{
			Model:  string(opts.SlopeParams.Model),
			DEM:    opts.SlopeParams.DEM,
			Buffer: opts.SlopeParams.Buffer,
		},
		OutlierRemoval: opts.OutlierRemoval.String(),
		DB:             opts.DB,
	}
}
