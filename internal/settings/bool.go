package settings

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// BoolOption binds a boolean field. The labels only change how the value is
// displayed.
type BoolOption struct {
	base
	field    Field[bool]
	offLabel string
	onLabel  string
}

// NewBoolOption creates a boolean option.
func NewBoolOption(field Field[bool], key string, group GroupID, label, offLabel, onLabel string) *BoolOption {
	return &BoolOption{
		base:     base{key: key, label: label, group: group},
		field:    field,
		offLabel: offLabel,
		onLabel:  onLabel,
	}
}

func (o *BoolOption) Kind() Kind { return KindBool }

func (o *BoolOption) Describe() Descriptor {
	d := o.descriptor(KindBool)
	d.OffLabel = o.offLabel
	d.OnLabel = o.onLabel
	return d
}

// Get returns the current value.
func (o *BoolOption) Get() bool { return o.field.Get() }

// Set stores v and returns it.
func (o *BoolOption) Set(v bool) bool {
	if o.field.Get() != v {
		o.field.Set(v)
		o.changed()
	}
	return v
}

// Toggle flips the value.
func (o *BoolOption) Toggle() bool {
	return o.Set(!o.Get())
}

func (o *BoolOption) Text() string {
	return strconv.FormatBool(o.Get())
}

// SetText accepts true/false, 1/0, yes/no, on/off or either display label.
func (o *BoolOption) SetText(s string) string {
	if v, ok := o.parse(s); ok {
		o.Set(v)
	}
	return o.Text()
}

func (o *BoolOption) parse(s string) (bool, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	if o.onLabel != "" && strings.EqualFold(s, o.onLabel) {
		return true, true
	}
	if o.offLabel != "" && strings.EqualFold(s, o.offLabel) {
		return false, true
	}
	return false, false
}

func (o *BoolOption) Display() string {
	label := o.offLabel
	if o.Get() {
		label = o.onLabel
	}
	if label == "" {
		return o.Text()
	}
	return label
}

func (o *BoolOption) Serialize(doc []byte) ([]byte, error) {
	return o.store(doc, o.Get())
}

func (o *BoolOption) Deserialize(doc []byte) bool {
	r := o.lookup(doc)
	if r.Type != gjson.True && r.Type != gjson.False {
		return false
	}
	o.Set(r.Bool())
	return true
}
