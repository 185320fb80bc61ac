package schema

import (
	"errors"
	"reflect"
	"testing"
)

func TestPaths(t *testing.T) {
	got := Paths(sampleBase())
	want := []string{"color", "title", "title.font", "title.text", "visible"}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
}

func TestWalk_SkipGroup(t *testing.T) {
	var visited []string
	err := Walk(sampleBase(), func(path string, n Node) error {
		visited = append(visited, path)
		if _, ok := n.(Group); ok {
			return SkipGroup
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}

	want := []string{"color", "title", "visible"}
	if !reflect.DeepEqual(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}
}

func TestWalk_StopsOnError(t *testing.T) {
	stop := errors.New("stop")
	count := 0
	err := Walk(sampleBase(), func(path string, n Node) error {
		count++
		return stop
	})

	if !errors.Is(err, stop) {
		t.Errorf("Walk error = %v, want %v", err, stop)
	}
	if count != 1 {
		t.Errorf("visited %d nodes, want 1", count)
	}
}

func TestLookup(t *testing.T) {
	g := sampleBase()

	tests := []struct {
		path   string
		wantOK bool
		leaf   bool
	}{
		{path: "", wantOK: true},
		{path: "visible", wantOK: true, leaf: true},
		{path: "title", wantOK: true},
		{path: "title.font", wantOK: true, leaf: true},
		{path: "title.font.size", wantOK: false},
		{path: "missing", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			n, ok := Lookup(g, tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			_, isLeaf := n.(Descriptor)
			if isLeaf != tt.leaf {
				t.Errorf("Lookup(%q) leaf = %v, want %v", tt.path, isLeaf, tt.leaf)
			}
		})
	}
}

func TestMustDescriptor_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustDescriptor did not panic on a group path")
		}
	}()
	MustDescriptor(sampleBase(), "title")
}

func TestReplace(t *testing.T) {
	g := sampleBase()
	before := g.Clone()
	font := Descriptor{Kind: KindFont, Default: Font{Size: 14}, EditType: EditPlot}

	got, ok := Replace(g, "title.font", font)
	if !ok {
		t.Fatal("Replace returned false")
	}

	d, _ := LookupDescriptor(got, "title.font")
	if !reflect.DeepEqual(d, font) {
		t.Errorf("title.font = %#v, want %#v", d, font)
	}
	if !reflect.DeepEqual(g, before) {
		t.Error("Replace mutated its input")
	}

	if _, ok := Replace(g, "title.missing", font); ok {
		t.Error("Replace of a missing leaf returned true")
	}
	if _, ok := Replace(g, "visible.x", font); ok {
		t.Error("Replace through a descriptor returned true")
	}
}
