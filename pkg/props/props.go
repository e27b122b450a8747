// Package props is a declarative property registry for domain objects.
//
// A Registry lists the user-facing properties of one object type: their
// display order, how to read them, whether they can be edited, and which
// values are allowed. Domain objects stay plain structs; presentation
// layers (the CLI describe command, editors) drive them through the
// registry instead of reflecting over the objects.
package props

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

var (
	// ErrUnknownProperty is returned for a property id the registry does not know.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrNotEditable is returned when setting a read-only property.
	ErrNotEditable = errors.New("property is not editable")

	// ErrInvalidValue is returned when a value is outside a closed option list.
	ErrInvalidValue = errors.New("value not allowed")
)

// Property describes one property of objects of type T.
type Property[T any] struct {
	ID    string
	Label string
	Order int

	// Viewable properties are shown in summary listings. Others only appear
	// in detailed views.
	Viewable bool

	Get func(T) any

	// Set is nil for read-only properties.
	Set func(T, any) error

	// Options lists the allowed values for obj. A nil result means the
	// list is unavailable for obj.
	Options func(obj T) []string

	// AllowCustom permits values missing from Options.
	AllowCustom bool
}

// Editable reports whether the property has a setter.
func (p Property[T]) Editable() bool {
	return p.Set != nil
}

// Value pairs a property with its current value on an object.
type Value[T any] struct {
	Property Property[T]
	Value    any
}

// Registry is an ordered, immutable set of properties.
type Registry[T any] struct {
	props []Property[T]
	index map[string]int
}

// NewRegistry builds a registry ordered by Property.Order. Duplicate ids panic.
func NewRegistry[T any](props ...Property[T]) *Registry[T] {
	sorted := slices.Clone(props)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	r := &Registry[T]{props: sorted, index: make(map[string]int, len(sorted))}
	for i, p := range sorted {
		if _, dup := r.index[p.ID]; dup {
			panic(fmt.Sprintf("props: duplicate property %q", p.ID))
		}
		r.index[p.ID] = i
	}
	return r
}

// Properties returns the properties in display order.
func (r *Registry[T]) Properties() []Property[T] {
	return slices.Clone(r.props)
}

// Lookup returns the property with the given id.
func (r *Registry[T]) Lookup(id string) (Property[T], bool) {
	i, ok := r.index[id]
	if !ok {
		return Property[T]{}, false
	}
	return r.props[i], true
}

// Get reads a property value.
func (r *Registry[T]) Get(obj T, id string) (any, error) {
	p, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, id)
	}
	return p.Get(obj), nil
}

// Set writes a property value. Values of closed option lists are checked
// against the options for obj.
func (r *Registry[T]) Set(obj T, id string, value any) error {
	p, ok := r.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProperty, id)
	}
	if !p.Editable() {
		return fmt.Errorf("%w: %s", ErrNotEditable, id)
	}
	if p.Options != nil && !p.AllowCustom && value != nil {
		opts := p.Options(obj)
		if !slices.Contains(opts, fmt.Sprint(value)) {
			return fmt.Errorf("%w: %v for %s", ErrInvalidValue, value, id)
		}
	}
	return p.Set(obj, value)
}

// Options returns the allowed values of a property for obj. It returns nil
// when the property has no option list or the list is unavailable.
func (r *Registry[T]) Options(obj T, id string) ([]string, error) {
	p, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProperty, id)
	}
	if p.Options == nil {
		return nil, nil
	}
	return p.Options(obj), nil
}

// Values reads every property of obj in display order. When viewableOnly
// is set, properties hidden from summaries are skipped.
func (r *Registry[T]) Values(obj T, viewableOnly bool) []Value[T] {
	out := make([]Value[T], 0, len(r.props))
	for _, p := range r.props {
		if viewableOnly && !p.Viewable {
			continue
		}
		out = append(out, Value[T]{Property: p, Value: p.Get(obj)})
	}
	return out
}
