package settings

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// WiFiStationsOption binds the list of wireless profiles together with the
// index of the active one.
type WiFiStationsOption struct {
	base
	list     Field[[]WiFiStation]
	active   Field[int]
	indexKey string
	capacity int
}

// NewWiFiStationsOption creates the list option. indexKey is the document key
// of the active index.
func NewWiFiStationsOption(list Field[[]WiFiStation], active Field[int], key, indexKey string, group GroupID, label string, capacity int) *WiFiStationsOption {
	if capacity <= 0 {
		capacity = MaxWiFiStations
	}
	return &WiFiStationsOption{
		base:     base{key: key, label: label, group: group},
		list:     list,
		active:   active,
		indexKey: indexKey,
		capacity: capacity,
	}
}

func (o *WiFiStationsOption) Kind() Kind { return KindWiFiStations }

func (o *WiFiStationsOption) Describe() Descriptor {
	d := o.descriptor(KindWiFiStations)
	d.Capacity = o.capacity
	return d
}

// Capacity returns the maximum number of profiles.
func (o *WiFiStationsOption) Capacity() int { return o.capacity }

// Len returns the number of stored profiles.
func (o *WiFiStationsOption) Len() int { return len(o.list.Get()) }

// Get returns a copy of the profiles.
func (o *WiFiStationsOption) Get() []WiFiStation {
	cur := o.list.Get()
	out := make([]WiFiStation, len(cur))
	copy(out, cur)
	return out
}

// Set replaces the profiles, dropping entries beyond the capacity. An
// identical list leaves the option clean.
func (o *WiFiStationsOption) Set(stations []WiFiStation) []WiFiStation {
	if len(stations) > o.capacity {
		stations = stations[:o.capacity]
	}
	if slices.Equal(stations, o.list.Get()) {
		o.clampActive()
		return o.Get()
	}
	next := make([]WiFiStation, len(stations))
	copy(next, stations)
	o.list.Set(next)
	o.clampActive()
	o.changed()
	return o.Get()
}

// Add appends a profile. It returns false when the list is full.
func (o *WiFiStationsOption) Add(st WiFiStation) bool {
	cur := o.list.Get()
	if len(cur) >= o.capacity {
		return false
	}
	o.list.Set(append(cur, st))
	o.changed()
	return true
}

// Remove deletes the profile at i. Out of range indexes are ignored.
func (o *WiFiStationsOption) Remove(i int) bool {
	cur := o.list.Get()
	if i < 0 || i >= len(cur) {
		return false
	}
	next := make([]WiFiStation, 0, len(cur)-1)
	next = append(next, cur[:i]...)
	next = append(next, cur[i+1:]...)
	o.list.Set(next)

	if a := o.active.Get(); a > i {
		o.active.Set(a - 1)
	}
	o.clampActive()
	o.changed()
	return true
}

// Select makes profile i active, clamped to the list. It returns the stored
// index, which is 0 for an empty list.
func (o *WiFiStationsOption) Select(i int) int {
	i = clampIndex(i, o.Len())
	if o.active.Get() != i {
		o.active.Set(i)
		o.changed()
	}
	return i
}

// Active returns the active index.
func (o *WiFiStationsOption) Active() int {
	return clampIndex(o.active.Get(), o.Len())
}

func (o *WiFiStationsOption) clampActive() {
	if a := clampIndex(o.active.Get(), o.Len()); a != o.active.Get() {
		o.active.Set(a)
	}
}

// Text encodes the profiles as a JSON array.
func (o *WiFiStationsOption) Text() string {
	data, err := json.Marshal(o.Get())
	if err != nil {
		return "[]"
	}
	return string(data)
}

// SetText replaces the profiles from a JSON array. Malformed input is ignored.
func (o *WiFiStationsOption) SetText(s string) string {
	var stations []WiFiStation
	if err := json.Unmarshal([]byte(s), &stations); err == nil {
		o.Set(stations)
	}
	return o.Text()
}

// Display summarises the profiles without revealing passphrases.
func (o *WiFiStationsOption) Display() string {
	stations := o.list.Get()
	if len(stations) == 0 {
		return "(none)"
	}
	names := make([]string, len(stations))
	active := o.Active()
	for i, st := range stations {
		names[i] = st.SSID
		if i == active {
			names[i] = "*" + st.SSID
		}
	}
	return fmt.Sprintf("%d/%d: %s", len(stations), o.capacity, strings.Join(names, ", "))
}

func (o *WiFiStationsOption) Serialize(doc []byte) ([]byte, error) {
	doc, err := o.store(doc, o.Get())
	if err != nil {
		return doc, err
	}
	if o.indexKey == "" {
		return doc, nil
	}
	idx := base{key: o.indexKey}
	return idx.store(doc, o.Active())
}

func (o *WiFiStationsOption) Deserialize(doc []byte) bool {
	r := o.lookup(doc)
	if !r.IsArray() {
		return false
	}
	var stations []WiFiStation
	if err := json.Unmarshal([]byte(r.Raw), &stations); err != nil {
		return false
	}
	o.Set(stations)
	if o.indexKey != "" {
		if idx := gjson.GetBytes(doc, o.indexKey); idx.Type == gjson.Number {
			o.Select(int(idx.Int()))
		}
	}
	return true
}
