package settings

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Number is the set of field types a range option can bind.
type Number interface {
	int | float64
}

// RangeOption binds a numeric field constrained to [min, max].
// Values outside the range are clamped, never rejected. An optional unset
// marker is stored as is so "not configured yet" survives a round trip.
type RangeOption[T Number] struct {
	base
	field    Field[T]
	min      T
	max      T
	step     T
	delta    bool
	unset    T
	hasUnset bool
}

// IntRangeOption is a range-constrained integer option.
type IntRangeOption = RangeOption[int]

// FloatRangeOption is a range-constrained floating point option.
type FloatRangeOption = RangeOption[float64]

// NewIntRangeOption creates an integer option limited to [min, max].
func NewIntRangeOption(field Field[int], key string, group GroupID, label string, min, max, step int, delta bool) *IntRangeOption {
	return newRangeOption(field, key, group, label, min, max, step, delta)
}

// NewFloatRangeOption creates a float option limited to [min, max].
func NewFloatRangeOption(field Field[float64], key string, group GroupID, label string, min, max, step float64, delta bool) *FloatRangeOption {
	return newRangeOption(field, key, group, label, min, max, step, delta)
}

func newRangeOption[T Number](field Field[T], key string, group GroupID, label string, min, max, step T, delta bool) *RangeOption[T] {
	if min > max {
		min, max = max, min
	}
	if step <= 0 {
		step = 1
	}
	return &RangeOption[T]{
		base:  base{key: key, label: label, group: group},
		field: field,
		min:   min,
		max:   max,
		step:  step,
		delta: delta,
	}
}

// WithUnset accepts v as a marker for a value the user has not chosen.
// The marker bypasses clamping and reads as "unset".
func (o *RangeOption[T]) WithUnset(v T) *RangeOption[T] {
	o.unset = v
	o.hasUnset = true
	return o
}

// IsUnset reports whether the field holds the unset marker.
func (o *RangeOption[T]) IsUnset() bool {
	return o.hasUnset && o.Get() == o.unset
}

func (o *RangeOption[T]) Kind() Kind {
	var zero T
	if _, ok := any(zero).(int); ok {
		return KindIntRange
	}
	return KindFloatRange
}

func (o *RangeOption[T]) Describe() Descriptor {
	d := o.descriptor(o.Kind())
	d.Ranged = true
	d.Min = float64(o.min)
	d.Max = float64(o.max)
	d.Step = float64(o.step)
	d.Delta = o.delta
	if o.hasUnset {
		d.HasUnset = true
		d.Unset = float64(o.unset)
	}
	return d
}

// Min returns the lower bound.
func (o *RangeOption[T]) Min() T { return o.min }

// Max returns the upper bound.
func (o *RangeOption[T]) Max() T { return o.max }

// Step returns the edit increment.
func (o *RangeOption[T]) Step() T { return o.step }

// Get returns the current value.
func (o *RangeOption[T]) Get() T { return o.field.Get() }

// Set clamps v to the range, stores it and returns the stored value. The
// unset marker is stored as is.
func (o *RangeOption[T]) Set(v T) T {
	if isNaN(v) {
		return o.Get()
	}
	if !o.hasUnset || v != o.unset {
		v = o.clamp(v)
	}
	if o.field.Get() != v {
		o.field.Set(v)
		o.changed()
	}
	return v
}

// Nudge moves the value by steps increments (negative moves down).
// Nudging away from the unset marker starts from zero.
func (o *RangeOption[T]) Nudge(steps int) T {
	cur := o.Get()
	if o.IsUnset() {
		cur = o.clamp(0)
	}
	next := float64(cur) + float64(steps)*float64(o.step)
	if o.Kind() == KindFloatRange {
		// six decimals keeps repeated steps free of binary noise
		next = math.Round(next*1e6) / 1e6
	}
	return o.Set(o.clamp(fromFloat[T](next)))
}

func (o *RangeOption[T]) clamp(v T) T {
	return min(max(v, o.min), o.max)
}

func (o *RangeOption[T]) Text() string {
	return formatNumber(o.Get())
}

func (o *RangeOption[T]) SetText(s string) string {
	if f, ok := parseNumber(s); ok {
		o.Set(fromFloat[T](f))
	}
	return o.Text()
}

func (o *RangeOption[T]) Display() string {
	if o.IsUnset() {
		return "unset"
	}
	return o.Text()
}

func (o *RangeOption[T]) Serialize(doc []byte) ([]byte, error) {
	return o.store(doc, o.Get())
}

func (o *RangeOption[T]) Deserialize(doc []byte) bool {
	r := o.lookup(doc)
	if r.Type != gjson.Number {
		return false
	}
	o.Set(fromFloat[T](r.Float()))
	return true
}

// IntOption binds an integer field without bounds.
type IntOption struct {
	base
	field Field[int]
	step  int
	delta bool
}

// NewIntOption creates an unconstrained integer option.
func NewIntOption(field Field[int], key string, group GroupID, label string, step int, delta bool) *IntOption {
	if step <= 0 {
		step = 1
	}
	return &IntOption{
		base:  base{key: key, label: label, group: group},
		field: field,
		step:  step,
		delta: delta,
	}
}

func (o *IntOption) Kind() Kind { return KindInt }

func (o *IntOption) Describe() Descriptor {
	d := o.descriptor(KindInt)
	d.Step = float64(o.step)
	d.Delta = o.delta
	return d
}

// Get returns the current value.
func (o *IntOption) Get() int { return o.field.Get() }

// Set stores v and returns it.
func (o *IntOption) Set(v int) int {
	if o.field.Get() != v {
		o.field.Set(v)
		o.changed()
	}
	return v
}

// Nudge moves the value by steps increments.
func (o *IntOption) Nudge(steps int) int {
	return o.Set(o.Get() + steps*o.step)
}

func (o *IntOption) Text() string {
	return strconv.Itoa(o.Get())
}

func (o *IntOption) SetText(s string) string {
	if f, ok := parseNumber(s); ok && f >= math.MinInt32 && f <= math.MaxInt32 {
		o.Set(int(math.Round(f)))
	}
	return o.Text()
}

func (o *IntOption) Display() string {
	return o.Text()
}

func (o *IntOption) Serialize(doc []byte) ([]byte, error) {
	return o.store(doc, o.Get())
}

func (o *IntOption) Deserialize(doc []byte) bool {
	r := o.lookup(doc)
	if r.Type != gjson.Number {
		return false
	}
	o.Set(int(r.Int()))
	return true
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func formatNumber[T Number](v T) string {
	switch n := any(v).(type) {
	case int:
		return strconv.Itoa(n)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// fromFloat converts f to T. Integers are rounded and saturate at the int32
// bounds. Floats pass through unchanged.
func fromFloat[T Number](f float64) T {
	var zero T
	if _, ok := any(zero).(int); ok {
		if f >= math.MaxInt32 {
			return T(math.MaxInt32)
		}
		if f <= math.MinInt32 {
			return T(math.MinInt32)
		}
		return T(math.Round(f))
	}
	return T(f)
}

func isNaN[T Number](v T) bool {
	return math.IsNaN(float64(v))
}
