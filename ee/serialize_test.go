package ee_test

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"

	"github.com/geowatt/s1graph/ee"
)

func mustSerialize(t *testing.T, o ee.Object) *ee.Expression {
	t.Helper()
	expr, err := ee.Serialize(o)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	return expr
}

func TestSerializeConstantRoot(t *testing.T) {
	expr := mustSerialize(t, ee.NewNumber(0))
	if expr.Result != "0" || len(expr.Values) != 1 {
		t.Fatalf("unexpected expression %+v", expr)
	}
	b, err := json.Marshal(expr)
	if err != nil {
		t.Fatal(err)
	}
	// the zero value must survive marshaling
	want := `{"result":"0","values":{"0":{"constantValue":0}}}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestSerializeInvocation(t *testing.T) {
	expr := mustSerialize(t, ee.LoadImage("S2").Add(1))
	b, err := json.Marshal(expr)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"result":"2","values":{` +
		`"0":{"functionInvocationValue":{"functionName":"Image.load","arguments":{"id":{"constantValue":"S2"}}}},` +
		`"1":{"functionInvocationValue":{"functionName":"Image.constant","arguments":{"value":{"constantValue":1}}}},` +
		`"2":{"functionInvocationValue":{"functionName":"Image.add","arguments":{"image1":{"valueReference":"0"},"image2":{"valueReference":"1"}}}}}}`
	if string(b) != want {
		t.Errorf("got %s, want %s", b, want)
	}
}

func TestSerializeSharedSubgraphOnce(t *testing.T) {
	img := ee.LoadImage("S2")
	expr := mustSerialize(t, img.Add(img))

	if len(expr.Values) != 2 {
		t.Fatalf("expected the shared image to be serialized once, got %d values", len(expr.Values))
	}
	inv := expr.Values[expr.Result].FunctionInvocation
	if inv == nil || inv.FunctionName != "Image.add" {
		t.Fatalf("unexpected result node %+v", expr.Values[expr.Result])
	}
	left, right := inv.Arguments["image1"].ValueReference, inv.Arguments["image2"].ValueReference
	if left == nil || right == nil || *left != *right {
		t.Errorf("both operands should reference the same table entry, got %v and %v", left, right)
	}
}

func TestSerializeMappedFunction(t *testing.T) {
	col := ee.LoadCollection("S1").Map(func(i ee.Image) ee.Image {
		return i.Multiply(10)
	})
	expr := mustSerialize(t, col)

	inv := expr.Values[expr.Result].FunctionInvocation
	if inv == nil || inv.FunctionName != "Collection.map" {
		t.Fatalf("unexpected result node %+v", expr.Values[expr.Result])
	}
	ref := inv.Arguments["baseAlgorithm"].ValueReference
	if ref == nil {
		t.Fatal("baseAlgorithm should reference a table entry")
	}
	def := expr.Values[*ref].FunctionDefinition
	if def == nil {
		t.Fatalf("baseAlgorithm should be a function definition, got %+v", expr.Values[*ref])
	}
	if len(def.ArgumentNames) != 1 {
		t.Fatalf("unexpected argument names %v", def.ArgumentNames)
	}

	// the body chain must bottom out on a reference to the lambda argument
	body := expr.Values[def.Body].FunctionInvocation
	if body == nil || body.FunctionName != "Image.multiply" {
		t.Fatalf("unexpected body %+v", expr.Values[def.Body])
	}
	argName := def.ArgumentNames[0]
	found := false
	for _, arg := range body.Arguments {
		if arg.ArgumentReference != nil && *arg.ArgumentReference == argName {
			found = true
		}
	}
	if !found {
		t.Errorf("the body does not reference the lambda argument %q", argName)
	}
}

func TestSerializeNestedMappedFunctions(t *testing.T) {
	col := ee.LoadCollection("S1").Map(func(i ee.Image) ee.Image {
		suffixed := i.BandNames().MapStrings(func(s ee.String) ee.String {
			return s.Cat("_mean")
		})
		return i.RenameList(suffixed)
	})
	expr := mustSerialize(t, col)

	argNames := map[string]bool{}
	for _, v := range expr.Values {
		if v.FunctionDefinition == nil {
			continue
		}
		if len(v.FunctionDefinition.ArgumentNames) != 1 {
			t.Fatalf("unexpected argument names %v", v.FunctionDefinition.ArgumentNames)
		}
		argNames[v.FunctionDefinition.ArgumentNames[0]] = true
	}
	if len(argNames) != 2 {
		t.Fatalf("the nested lambda must not shadow the outer argument, got names %v", argNames)
	}
	for _, name := range []string{"_MAPPING_VAR_0_0", "_MAPPING_VAR_1_0"} {
		if !argNames[name] {
			t.Errorf("missing lambda argument %q in %v", name, argNames)
		}
	}
}

func TestSerializeConcurrentBuilds(t *testing.T) {
	build := func() *ee.Expression {
		col := ee.LoadCollection("S1").Map(func(i ee.Image) ee.Image {
			suffixed := i.BandNames().MapStrings(func(s ee.String) ee.String {
				return s.Cat("_mean")
			})
			return i.RenameList(suffixed)
		})
		expr, err := ee.Serialize(col)
		if err != nil {
			t.Errorf("Serialize: %v", err)
		}
		return expr
	}

	exprs := make([]*ee.Expression, 8)
	var wg sync.WaitGroup
	for i := range exprs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			exprs[i] = build()
		}(i)
	}
	wg.Wait()

	// identical build sequences serialize identically, however interleaved
	for i, expr := range exprs[1:] {
		if !reflect.DeepEqual(expr, exprs[0]) {
			t.Fatalf("build %d differs from build 0:\n%+v\n%+v", i+1, expr, exprs[0])
		}
	}
}

func TestSerializeDeterministic(t *testing.T) {
	img := ee.LoadImage("S1").Select("VV", "VH").Multiply(2).Log10()
	a := mustSerialize(t, img)
	b := mustSerialize(t, img)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("two serializations of the same graph differ:\n%+v\n%+v", a, b)
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	expr := mustSerialize(t, ee.LoadImage("S1").Select("VV").Unmask(0))
	b, err := json.Marshal(expr)
	if err != nil {
		t.Fatal(err)
	}
	var decoded ee.Expression
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(*expr, decoded) {
		t.Errorf("expression does not survive a marshaling round trip")
	}
}
