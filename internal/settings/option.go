package settings

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Kind identifies the concrete option variant behind an Option.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindIntRange
	KindFloatRange
	KindString
	KindColor
	KindWiFiStations
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindIntRange:
		return "int_range"
	case KindFloatRange:
		return "float_range"
	case KindString:
		return "string"
	case KindColor:
		return "color"
	case KindWiFiStations:
		return "wifi_stations"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Descriptor is the UI metadata of an option. Only the fields relevant to
// Kind are populated.
type Descriptor struct {
	Key   string  `json:"key" yaml:"key"`
	Label string  `json:"label" yaml:"label"`
	Group GroupID `json:"group" yaml:"group"`
	Kind  Kind    `json:"kind" yaml:"kind"`

	// Bool
	OffLabel string `json:"off_label,omitempty" yaml:"off_label,omitempty"`
	OnLabel  string `json:"on_label,omitempty" yaml:"on_label,omitempty"`

	// Numeric. Ranged is false for unconstrained options.
	Ranged bool    `json:"ranged,omitempty" yaml:"ranged,omitempty"`
	Min    float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max    float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Step   float64 `json:"step,omitempty" yaml:"step,omitempty"`
	Delta  bool    `json:"delta,omitempty" yaml:"delta,omitempty"`

	// HasUnset marks a range option that also accepts Unset as a stored
	// "not configured" value.
	HasUnset bool    `json:"has_unset,omitempty" yaml:"has_unset,omitempty"`
	Unset    float64 `json:"unset,omitempty" yaml:"unset,omitempty"`

	// String. MaxLength < 0 means unlimited.
	MinLength   int    `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength   int    `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Masked      bool   `json:"masked,omitempty" yaml:"masked,omitempty"`

	// List
	Capacity int `json:"capacity,omitempty" yaml:"capacity,omitempty"`
}

// Option is the type-erased view of a setting binding.
//
// Text and SetText exchange values as plain text so a UI can edit any option
// without knowing its type. SetText never fails: out of range input is
// clamped, over-long strings are truncated and unparseable input leaves the
// field untouched. The returned string is the value actually stored.
//
// The variant set is closed; the unexported method keeps other packages from
// adding implementations.
type Option interface {
	Key() string
	Label() string
	Group() GroupID
	Kind() Kind
	Describe() Descriptor

	Text() string
	SetText(s string) string
	Display() string

	// Serialize writes the bound value into doc at Key.
	Serialize(doc []byte) ([]byte, error)
	// Deserialize applies the value stored at Key in doc, if present.
	Deserialize(doc []byte) bool

	attach(onChange func())
}

// Field is an accessor pair bound to one value of the model.
type Field[T any] struct {
	get func() T
	set func(T)
}

// Ref binds a Field directly to the value behind p.
func Ref[T any](p *T) Field[T] {
	return Field[T]{
		get: func() T { return *p },
		set: func(v T) { *p = v },
	}
}

// Accessor builds a Field from explicit closures.
func Accessor[T any](get func() T, set func(T)) Field[T] {
	return Field[T]{get: get, set: set}
}

// Get returns the current value.
func (f Field[T]) Get() T { return f.get() }

// Set stores v.
func (f Field[T]) Set(v T) { f.set(v) }

type base struct {
	key      string
	label    string
	group    GroupID
	onChange func()
}

func (b *base) Key() string    { return b.key }
func (b *base) Label() string  { return b.label }
func (b *base) Group() GroupID { return b.group }

func (b *base) attach(onChange func()) {
	b.onChange = onChange
}

func (b *base) changed() {
	if b.onChange != nil {
		b.onChange()
	}
}

func (b *base) descriptor(k Kind) Descriptor {
	return Descriptor{Key: b.key, Label: b.label, Group: b.group, Kind: k}
}

func (b *base) lookup(doc []byte) gjson.Result {
	return gjson.GetBytes(doc, b.key)
}

func (b *base) store(doc []byte, v any) ([]byte, error) {
	out, err := sjson.SetBytes(doc, b.key, v)
	if err != nil {
		return doc, fmt.Errorf("serialize %s: %w", b.key, err)
	}
	return out, nil
}
