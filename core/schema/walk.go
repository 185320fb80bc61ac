package schema

import (
	"errors"
	"strings"
)

// SkipGroup may be returned by a WalkFunc visiting a group to skip its attributes.
var SkipGroup = errors.New("skip group")

// WalkFunc is called for every node reachable from the walked group.
// path is the dotted key-path of the node, e.g. "title.font".
type WalkFunc func(path string, n Node) error

// Walk visits every attribute of g depth-first, in sorted key order.
// The root group itself is not visited. Deprecated attributes are not visited.
func Walk(g Group, fn WalkFunc) error {
	return walk("", g, fn)
}

func walk(prefix string, g Group, fn WalkFunc) error {
	for _, key := range g.Keys() {
		path := joinPath(prefix, key)
		n := g.Attrs[key]

		err := fn(path, n)
		if sub, ok := n.(Group); ok {
			if errors.Is(err, SkipGroup) {
				continue
			}
			if err != nil {
				return err
			}
			if err := walk(path, sub, fn); err != nil {
				return err
			}
			continue
		}
		if err != nil && !errors.Is(err, SkipGroup) {
			return err
		}
	}
	return nil
}

// Paths returns the dotted key-path of every node reachable from g, sorted.
func Paths(g Group) []string {
	var paths []string
	_ = Walk(g, func(path string, _ Node) error {
		paths = append(paths, path)
		return nil
	})
	return paths
}

// Leaves returns every descriptor reachable from g keyed by dotted path.
func Leaves(g Group) map[string]Descriptor {
	leaves := make(map[string]Descriptor)
	_ = Walk(g, func(path string, n Node) error {
		if d, ok := n.(Descriptor); ok {
			leaves[path] = d
		}
		return nil
	})
	return leaves
}

// Lookup returns the node at a dotted key-path.
func Lookup(g Group, path string) (Node, bool) {
	if path == "" {
		return g, true
	}

	var cur Node = g
	for _, part := range strings.Split(path, ".") {
		grp, ok := cur.(Group)
		if !ok {
			return nil, false
		}
		next, ok := grp.Attrs[part]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// LookupDescriptor returns the descriptor at a dotted key-path.
func LookupDescriptor(g Group, path string) (Descriptor, bool) {
	n, ok := Lookup(g, path)
	if !ok {
		return Descriptor{}, false
	}
	d, ok := n.(Descriptor)
	return d, ok
}

// Replace returns a copy of g with the node at path replaced by n.
// Groups along the path are copied; everything else is shared.
// It returns false when a parent along the path is missing or not a group.
func Replace(g Group, path string, n Node) (Group, bool) {
	head, rest, nested := strings.Cut(path, ".")
	if head == "" {
		return g, false
	}

	out := Compose(g)
	if !nested {
		if _, exists := out.Attrs[head]; !exists {
			return g, false
		}
		out.Attrs[head] = n
		return out, true
	}

	sub, ok := out.Attrs[head].(Group)
	if !ok {
		return g, false
	}
	replaced, ok := Replace(sub, rest, n)
	if !ok {
		return g, false
	}
	out.Attrs[head] = replaced
	return out, true
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// MustDescriptor is like LookupDescriptor but panics when path does not name
// a descriptor. It is meant for schema authoring code run at initialization.
func MustDescriptor(g Group, path string) Descriptor {
	d, ok := LookupDescriptor(g, path)
	if !ok {
		panic("schema: no descriptor at " + path)
	}
	return d
}
