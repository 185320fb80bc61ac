package placement_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/artpar/chartschema/core/schema"
	"github.com/artpar/chartschema/domain/placement"
)

func TestAttributes(t *testing.T) {
	g := placement.Attributes("polar", schema.EditPlot)

	if err := schema.Check(g); err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	want := []string{"column", "row", "x", "y"}
	if got := schema.Paths(g); !reflect.DeepEqual(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}

	if g.EditType != schema.EditPlot {
		t.Errorf("EditType = %q, want plot", g.EditType)
	}

	for path, d := range schema.Leaves(g) {
		if d.EditType != schema.EditPlot {
			t.Errorf("%s EditType = %q, want plot", path, d.EditType)
		}
	}

	x := schema.MustDescriptor(g, "x")
	if !reflect.DeepEqual(x.Default, []any{0.0, 1.0}) {
		t.Errorf("x default = %v, want [0 1]", x.Default)
	}
	if len(x.Items()) != 2 {
		t.Fatalf("x items = %d, want 2", len(x.Items()))
	}
	r, ok := x.Items()[1].Range()
	if !ok || *r.Min != 0 || *r.Max != 1 {
		t.Errorf("x item range = %v, want [0, 1]", r)
	}
	if !strings.Contains(x.Description, "polar subplot") {
		t.Errorf("x description = %q, want mention of polar subplot", x.Description)
	}
}

func TestAttributes_Options(t *testing.T) {
	g := placement.Attributes("", schema.EditCalc,
		placement.ForTrace(),
		placement.WithoutGridCell(),
		placement.WithDescription("Extra."),
	)

	if _, ok := g.Get("row"); ok {
		t.Error("row present despite WithoutGridCell")
	}
	y := schema.MustDescriptor(g, "y")
	if !strings.HasPrefix(y.Description, "Sets the vertical domain of this trace") {
		t.Errorf("y description = %q", y.Description)
	}
	if !strings.HasSuffix(y.Description, "Extra.") {
		t.Errorf("y description = %q, want extra suffix", y.Description)
	}
}

func TestAttributes_RejectsOutOfDomain(t *testing.T) {
	x := schema.MustDescriptor(placement.Attributes("polar", schema.EditPlot), "x")

	if err := schema.CheckValue(x, []any{0.2, 1.5}); err == nil {
		t.Error("CheckValue accepted a fraction above 1")
	}
	if err := schema.CheckValue(x, []any{0.2, 0.8}); err != nil {
		t.Errorf("CheckValue() = %v, want nil", err)
	}
}
