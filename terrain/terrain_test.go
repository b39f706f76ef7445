package terrain_test

import (
	"testing"

	"github.com/geowatt/s1graph/ee"
	"github.com/geowatt/s1graph/terrain"
)

func invocations(t *testing.T, o ee.Object, name string) []*ee.FunctionInvocation {
	t.Helper()
	expr, err := ee.Serialize(o)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	var found []*ee.FunctionInvocation
	for _, v := range expr.Values {
		if v.FunctionInvocation != nil && v.FunctionInvocation.FunctionName == name {
			found = append(found, v.FunctionInvocation)
		}
	}
	return found
}

func renamedBands(t *testing.T, o ee.Object) map[string]bool {
	t.Helper()
	bands := map[string]bool{}
	for _, inv := range invocations(t, o, "Image.rename") {
		arr := inv.Arguments["names"].Array
		if arr == nil {
			continue
		}
		for _, v := range arr.Values {
			if v.Constant != nil {
				if name, ok := v.Constant.Value.(string); ok {
					bands[name] = true
				}
			}
		}
	}
	return bands
}

func TestSlopeCorrection(t *testing.T) {
	img := ee.LoadImage("S1_scene")
	corrected := terrain.SlopeCorrection(img, terrain.DefaultSlopeParams())

	if n := len(invocations(t, corrected, "Terrain.slope")); n == 0 {
		t.Error("the terrain slope is not computed")
	}
	if n := len(invocations(t, corrected, "Terrain.aspect")); n == 0 {
		t.Error("the terrain aspect is not computed")
	}
	// the default 12m buffer erodes the masks
	if n := len(invocations(t, corrected, "Image.fastDistanceTransform")); n == 0 {
		t.Error("the mask buffer is not applied")
	}
	bands := renamedBands(t, corrected)
	for _, band := range []string{"LIA", "layover", "shadow", "no_data_mask"} {
		if !bands[band] {
			t.Errorf("missing band %q", band)
		}
	}
}

func TestSlopeCorrectionWithoutBuffer(t *testing.T) {
	p := terrain.DefaultSlopeParams()
	p.Buffer = 0
	corrected := terrain.SlopeCorrection(ee.LoadImage("S1_scene"), p)
	if n := len(invocations(t, corrected, "Image.fastDistanceTransform")); n != 0 {
		t.Errorf("the masks should not be eroded without a buffer, got %d erosions", n)
	}
}

func TestFlatten(t *testing.T) {
	flat := terrain.Flatten(ee.LoadImage("S1_scene"))

	if n := len(invocations(t, flat, "Terrain.slope")); n == 0 {
		t.Error("the terrain slope is not computed")
	}

	// the layover and shadow masks replace the slope bands
	renamed := false
	for _, inv := range invocations(t, flat, "Image.select") {
		arr := inv.Arguments["newNames"].Array
		if arr == nil {
			continue
		}
		names := map[string]bool{}
		for _, v := range arr.Values {
			if v.Constant != nil {
				if name, ok := v.Constant.Value.(string); ok {
					names[name] = true
				}
			}
		}
		if names["layover"] && names["shadow"] {
			renamed = true
		}
	}
	if !renamed {
		t.Error("the layover and shadow bands are not renamed")
	}

	// shadow is where the local incidence angle exceeds 85 degrees
	threshold := false
	for _, inv := range invocations(t, flat, "Image.constant") {
		if c := inv.Arguments["value"].Constant; c != nil && c.Value == 85 {
			threshold = true
		}
	}
	if !threshold {
		t.Error("missing the shadow incidence threshold")
	}
}
