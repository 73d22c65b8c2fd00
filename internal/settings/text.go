package settings

import (
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// Unlimited disables the maximum length of a StringOption.
const Unlimited = -1

// StringOption binds a string field with length limits.
//
// Input longer than the maximum is truncated on a rune boundary. Input
// shorter than the minimum cannot be corrected, so the field keeps its
// current value.
type StringOption struct {
	base
	field       Field[string]
	minLength   int
	maxLength   int
	placeholder string
	masked      bool
}

// StringOpt customises a StringOption.
type StringOpt func(*StringOption)

// WithLength sets the accepted length range in runes. Use Unlimited for max
// to lift the upper bound.
func WithLength(min, max int) StringOpt {
	return func(o *StringOption) {
		o.minLength = min
		o.maxLength = max
	}
}

// WithPlaceholder sets the hint shown by a UI while the field is empty.
func WithPlaceholder(p string) StringOpt {
	return func(o *StringOption) { o.placeholder = p }
}

// Masked marks the value as a secret that should not be echoed.
func Masked() StringOpt {
	return func(o *StringOption) { o.masked = true }
}

// NewStringOption creates a string option. Without options the length is
// unlimited.
func NewStringOption(field Field[string], key string, group GroupID, label string, opts ...StringOpt) *StringOption {
	o := &StringOption{
		base:      base{key: key, label: label, group: group},
		field:     field,
		maxLength: Unlimited,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.minLength < 0 {
		o.minLength = 0
	}
	if o.maxLength >= 0 && o.maxLength < o.minLength {
		o.maxLength = o.minLength
	}
	return o
}

func (o *StringOption) Kind() Kind { return KindString }

func (o *StringOption) Describe() Descriptor {
	d := o.descriptor(KindString)
	d.MinLength = o.minLength
	d.MaxLength = o.maxLength
	d.Placeholder = o.placeholder
	d.Masked = o.masked
	return d
}

// IsMasked reports whether the value is a secret.
func (o *StringOption) IsMasked() bool { return o.masked }

// Get returns the current value.
func (o *StringOption) Get() string { return o.field.Get() }

// Set truncates v to the maximum length and stores it. A value shorter than
// the minimum length is ignored. The stored value is returned.
func (o *StringOption) Set(v string) string {
	if o.maxLength >= 0 && utf8.RuneCountInString(v) > o.maxLength {
		v = truncateRunes(v, o.maxLength)
	}
	if utf8.RuneCountInString(v) < o.minLength {
		return o.Get()
	}
	if o.field.Get() != v {
		o.field.Set(v)
		o.changed()
	}
	return v
}

func (o *StringOption) Text() string { return o.Get() }

func (o *StringOption) SetText(s string) string { return o.Set(s) }

// Display returns the value, or asterisks for masked options.
func (o *StringOption) Display() string {
	v := o.Get()
	if o.masked {
		return strings.Repeat("*", utf8.RuneCountInString(v))
	}
	return v
}

func (o *StringOption) Serialize(doc []byte) ([]byte, error) {
	return o.store(doc, o.Get())
}

func (o *StringOption) Deserialize(doc []byte) bool {
	r := o.lookup(doc)
	if r.Type != gjson.String {
		return false
	}
	o.Set(r.String())
	return true
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// ColorOption binds a packed 5-6-5 colour and edits it as "#RRGGBB".
type ColorOption struct {
	base
	field Field[Color565]
}

// NewColorOption creates a colour option.
func NewColorOption(field Field[Color565], key string, group GroupID, label string) *ColorOption {
	return &ColorOption{
		base:  base{key: key, label: label, group: group},
		field: field,
	}
}

func (o *ColorOption) Kind() Kind { return KindColor }

func (o *ColorOption) Describe() Descriptor {
	return o.descriptor(KindColor)
}

// Get returns the packed colour.
func (o *ColorOption) Get() Color565 { return o.field.Get() }

// Set stores c.
func (o *ColorOption) Set(c Color565) Color565 {
	if o.field.Get() != c {
		o.field.Set(c)
		o.changed()
	}
	return c
}

func (o *ColorOption) Text() string { return o.Get().Hex() }

// SetText parses "#RRGGBB". Malformed input leaves the colour unchanged.
func (o *ColorOption) SetText(s string) string {
	if c, err := ParseHexColor(s); err == nil {
		o.Set(c)
	}
	return o.Text()
}

func (o *ColorOption) Display() string { return o.Text() }

// Serialize stores the packed value, matching the document layout of the model.
func (o *ColorOption) Serialize(doc []byte) ([]byte, error) {
	return o.store(doc, uint16(o.Get()))
}

func (o *ColorOption) Deserialize(doc []byte) bool {
	r := o.lookup(doc)
	if r.Type != gjson.Number {
		return false
	}
	v := r.Int()
	if v < 0 || v > 0xFFFF {
		return false
	}
	o.Set(Color565(v))
	return true
}
