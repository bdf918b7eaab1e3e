package choices

import "slices"

// Value is the selected value. It is either a single id (possibly null) or
// an ordered list of non-null ids; the shape always matches Params.Multiple.
type Value struct {
	multiple bool
	id       OptionID
	ids      []OptionID
}

// Single builds a single-select value.
func Single(id OptionID) Value {
	return Value{id: id}
}

// Multiple builds a multi-select value. Null ids and duplicates are dropped.
func Multiple(ids ...OptionID) Value {
	out := make([]OptionID, 0, len(ids))
	for _, id := range ids {
		if id.IsNull() || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return Value{multiple: true, ids: out}
}

// IsMultiple reports the shape of the value.
func (v Value) IsMultiple() bool { return v.multiple }

// ID returns the single id. Multi values return their first id or null.
func (v Value) ID() OptionID {
	if v.multiple {
		if len(v.ids) == 0 {
			return NullID()
		}
		return v.ids[0]
	}
	return v.id
}

// IDs returns a copy of the selected ids. A null single value yields none.
func (v Value) IDs() []OptionID {
	if v.multiple {
		return slices.Clone(v.ids)
	}
	if v.id.IsNull() {
		return nil
	}
	return []OptionID{v.id}
}

// Len counts the non-null ids held.
func (v Value) Len() int {
	if v.multiple {
		return len(v.ids)
	}
	if v.id.IsNull() {
		return 0
	}
	return 1
}

// IsEmpty reports whether nothing is held.
func (v Value) IsEmpty() bool { return v.Len() == 0 }

// Contains reports whether id is held.
func (v Value) Contains(id OptionID) bool {
	if v.multiple {
		return slices.Contains(v.ids, id)
	}
	return v.id == id
}

// AsMultiple converts to the multi-select shape.
func (v Value) AsMultiple() Value {
	if v.multiple {
		return v
	}
	if v.id.IsNull() {
		return Multiple()
	}
	return Multiple(v.id)
}

// AsSingle converts to the single-select shape, keeping the first id.
func (v Value) AsSingle() Value {
	if !v.multiple {
		return v
	}
	return Single(v.ID())
}

// Shaped converts v to the shape implied by multiple.
func (v Value) Shaped(multiple bool) Value {
	if multiple {
		return v.AsMultiple()
	}
	return v.AsSingle()
}

// Equal compares shape and ids, in order.
func (v Value) Equal(other Value) bool {
	if v.multiple != other.multiple {
		return false
	}
	if !v.multiple {
		return v.id == other.id
	}
	return slices.Equal(v.ids, other.ids)
}

func (v Value) with(id OptionID) Value {
	ids := append(slices.Clone(v.ids), id)
	return Value{multiple: true, ids: ids}
}

func (v Value) without(id OptionID) Value {
	ids := slices.DeleteFunc(slices.Clone(v.ids), func(candidate OptionID) bool {
		return candidate == id
	})
	return Value{multiple: true, ids: ids}
}

func (v Value) strings() []string {
	ids := v.IDs()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
