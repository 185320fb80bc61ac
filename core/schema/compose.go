package schema

// Compose returns a new group holding every attribute of base, then every
// attribute of each overlay in order. A key present in more than one source
// takes the value of the last source; values are replaced whole, never merged.
// To change one field of a shared descriptor, build the overlay with Extend.
//
// A non-empty overlay EditType replaces the group's EditType, and deprecated
// attributes follow the same rule as regular ones. None of the inputs are
// modified.
func Compose(base Group, overlays ...Group) Group {
	out := Group{
		Attrs:    make(Attrs, len(base.Attrs)),
		EditType: base.EditType,
	}
	for k, n := range base.Attrs {
		out.Attrs[k] = n
	}
	if len(base.Deprecated) > 0 {
		out.Deprecated = make(Attrs, len(base.Deprecated))
		for k, n := range base.Deprecated {
			out.Deprecated[k] = n
		}
	}

	for _, overlay := range overlays {
		for k, n := range overlay.Attrs {
			out.Attrs[k] = n
		}
		if overlay.EditType != "" {
			out.EditType = overlay.EditType
		}
		if len(overlay.Deprecated) > 0 {
			if out.Deprecated == nil {
				out.Deprecated = make(Attrs, len(overlay.Deprecated))
			}
			for k, n := range overlay.Deprecated {
				out.Deprecated[k] = n
			}
		}
	}

	return out
}

// OverrideAll returns a copy of g in which every descriptor, at any depth,
// has its EditType set to tier and its Origin set to origin. Item descriptors
// of info_array attributes are rewritten as well.
//
// Nested groups also take tier as their EditType. The root group takes it
// only when origin is OriginFromRoot. Deprecated attribute sets have their
// descriptors rewritten but keep their container EditType.
func OverrideAll(g Group, tier EditType, origin Origin) Group {
	out := overrideGroup(g, tier, origin)
	if origin == OriginFromRoot {
		out.EditType = tier
	}
	return out
}

func overrideGroup(g Group, tier EditType, origin Origin) Group {
	out := Group{
		Attrs:    make(Attrs, len(g.Attrs)),
		EditType: g.EditType,
	}
	for k, n := range g.Attrs {
		out.Attrs[k] = overrideNode(n, tier, origin)
	}
	if g.Deprecated != nil {
		out.Deprecated = make(Attrs, len(g.Deprecated))
		for k, n := range g.Deprecated {
			if sub, ok := n.(Group); ok {
				out.Deprecated[k] = overrideGroup(sub, tier, origin)
				continue
			}
			out.Deprecated[k] = overrideNode(n, tier, origin)
		}
	}
	return out
}

func overrideNode(n Node, tier EditType, origin Origin) Node {
	switch v := n.(type) {
	case Descriptor:
		return overrideDescriptor(v, tier, origin)
	case Group:
		sub := overrideGroup(v, tier, origin)
		sub.EditType = tier
		return sub
	default:
		return n
	}
}

func overrideDescriptor(d Descriptor, tier EditType, origin Origin) Descriptor {
	out := d.clone()
	out.EditType = tier
	out.Origin = origin
	if items, ok := out.Constraints.(FixedItems); ok {
		for i := range items.Items {
			items.Items[i] = overrideDescriptor(items.Items[i], tier, origin)
		}
		out.Constraints = items
	}
	return out
}

// Pick returns a new group holding only the named attributes of g.
// Missing names are skipped. The group EditType is not carried over.
func Pick(g Group, names ...string) Group {
	out := Group{Attrs: make(Attrs, len(names))}
	for _, name := range names {
		if n, ok := g.Attrs[name]; ok {
			out.Attrs[name] = n
		}
	}
	return out
}
