package schema

// OneOrMany holds a field nft writes either as a single string or as an
// array of strings. List records which form was used so that a decoded
// value encodes back the same way.
type OneOrMany[T ~string] struct {
	Values []T
	List   bool
}

// One returns the scalar form holding v.
func One[T ~string](v T) OneOrMany[T] {
	return OneOrMany[T]{Values: []T{v}}
}

// Many returns the array form holding vs.
func Many[T ~string](vs ...T) OneOrMany[T] {
	if vs == nil {
		vs = []T{}
	}
	return OneOrMany[T]{Values: vs, List: true}
}

// IsZero reports whether the field is absent.
func (o OneOrMany[T]) IsZero() bool {
	return o.Values == nil && !o.List
}

// Has reports whether v is one of the values.
func (o OneOrMany[T]) Has(v T) bool {
	for _, x := range o.Values {
		if x == v {
			return true
		}
	}
	return false
}

func (o OneOrMany[T]) MarshalJSON() ([]byte, error) {
	if !o.List && len(o.Values) == 1 {
		return marshal(string(o.Values[0]))
	}
	if o.Values == nil {
		return []byte("[]"), nil
	}
	return marshal(o.Values)
}

func decodeOneOrMany[T ~string](n node, allowed []T) (OneOrMany[T], error) {
	if n.kind() == kindString {
		v, err := enumValue(n, allowed)
		if err != nil {
			return OneOrMany[T]{}, err
		}
		return One(v), nil
	}
	if n.kind() != kindArray {
		return OneOrMany[T]{}, n.fail("string or array of strings")
	}
	items, err := n.array()
	if err != nil {
		return OneOrMany[T]{}, err
	}
	out := OneOrMany[T]{Values: make([]T, 0, len(items)), List: true}
	for _, item := range items {
		v, err := enumValue(item, allowed)
		if err != nil {
			return OneOrMany[T]{}, err
		}
		out.Values = append(out.Values, v)
	}
	return out, nil
}
