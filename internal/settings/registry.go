package settings

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// GroupID identifies a settings group. The id space is closed and fixed by
// NewRegistry.
type GroupID int

const (
	GroupGeneral GroupID = iota
	GroupNetwork
	GroupAudio
	GroupHaptics
	GroupWeather
	GroupMQTT
	GroupScreenshot
	GroupFeed
)

// Category tells a UI which screen a group belongs on.
type Category int

const (
	CategoryGeneral Category = iota
	CategoryNetwork
	CategoryWidget
	CategoryTheme
	CategoryUtility
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryGeneral:
		return "general"
	case CategoryNetwork:
		return "network"
	case CategoryWidget:
		return "widget"
	case CategoryTheme:
		return "theme"
	case CategoryUtility:
		return "utility"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Group is a named, ordered collection of options displayed together.
type Group struct {
	ID          GroupID
	Name        string
	Description string
	Category    Category

	options []Option
}

// Options returns the group's options in display order.
func (g *Group) Options() []Option {
	out := make([]Option, len(g.options))
	copy(out, g.options)
	return out
}

// Registry holds every group and option. It is built once over a Config and
// never changes shape afterwards; only the bound values change.
type Registry struct {
	groups []*Group
	byKey  map[string]Option
	order  []Option
}

// Groups returns the groups in canonical display order.
func (r *Registry) Groups() []*Group {
	out := make([]*Group, len(r.groups))
	copy(out, r.groups)
	return out
}

// Group returns the group with the given id.
func (r *Registry) Group(id GroupID) (*Group, bool) {
	if id < 0 || int(id) >= len(r.groups) {
		return nil, false
	}
	return r.groups[id], true
}

// Options returns every option, group by group, in display order.
func (r *Registry) Options() []Option {
	out := make([]Option, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup finds an option by its document key.
func (r *Registry) Lookup(key string) (Option, bool) {
	o, ok := r.byKey[key]
	return o, ok
}

// Export serializes the options of the given groups, or of every group when
// none are given, into a partial settings document.
func (r *Registry) Export(ids ...GroupID) ([]byte, error) {
	doc := []byte("{}")
	for _, g := range r.selectGroups(ids) {
		for _, o := range g.options {
			var err error
			if doc, err = o.Serialize(doc); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// Import applies every option value present in doc through the option's
// setter, so values are clamped exactly as user input would be. It returns
// the number of options found in doc.
func (r *Registry) Import(doc []byte) (int, error) {
	if !gjson.ValidBytes(doc) {
		return 0, fmt.Errorf("import: document is not valid JSON")
	}
	applied := 0
	for _, o := range r.order {
		if o.Deserialize(doc) {
			applied++
		}
	}
	return applied, nil
}

func (r *Registry) selectGroups(ids []GroupID) []*Group {
	if len(ids) == 0 {
		return r.groups
	}
	var out []*Group
	for _, id := range ids {
		if g, ok := r.Group(id); ok {
			out = append(out, g)
		}
	}
	return out
}

func (r *Registry) add(o Option, onChange func()) {
	if _, dup := r.byKey[o.Key()]; dup {
		panic(fmt.Sprintf("settings: duplicate option key %q", o.Key()))
	}
	g := r.groups[o.Group()]
	o.attach(onChange)
	g.options = append(g.options, o)
	r.byKey[o.Key()] = o
	r.order = append(r.order, o)
}

// NewRegistry builds the fixed groups and binds every option to cfg.
// onChange is called after any option changes its field; it may be nil.
// cfg must outlive the registry.
func NewRegistry(cfg *Config, onChange func()) *Registry {
	r := &Registry{
		groups: []*Group{
			{ID: GroupGeneral, Name: "General Settings", Category: CategoryGeneral},
			{ID: GroupNetwork, Name: "WiFi & Web Settings", Category: CategoryNetwork},
			{ID: GroupAudio, Name: "Audio Settings", Category: CategoryGeneral},
			{ID: GroupHaptics, Name: "Haptics Settings", Category: CategoryGeneral},
			{ID: GroupWeather, Name: "Open Weather Settings", Category: CategoryWidget,
				Description: "Add your Open Weather API key here to be able to see your current weather details on your SQUiXL."},
			{ID: GroupMQTT, Name: "MQTT Settings", Category: CategoryNetwork},
			{ID: GroupScreenshot, Name: "Screenie", Category: CategoryUtility},
			{ID: GroupFeed, Name: "RSS Feed Settings", Category: CategoryWidget,
				Description: "Add your RSS Feed URL here to be able to see your favourite RSS feed on your SQUiXL."},
		},
		byKey: make(map[string]Option),
	}

	for _, o := range bindings(cfg) {
		r.add(o, onChange)
	}
	return r
}

// bindings lists every option in display order.
func bindings(cfg *Config) []Option {
	return []Option{
		// General
		NewBoolOption(Ref(&cfg.Time24Hour), "time_24hour", GroupGeneral, "Time Mode", "12H", "24H"),
		NewBoolOption(Ref(&cfg.TimeDateFormat), "time_dateformat", GroupGeneral, "Date FMT", "DMY", "MDY"),
		NewBoolOption(Ref(&cfg.UserWallpaper), "user_wallpaper", GroupGeneral, "Wallpaper", "SYSTEM", "USER"),
		NewColorOption(Ref(&cfg.CaseColor), "case_color", GroupGeneral, "Case Color"),
		NewIntRangeOption(Ref(&cfg.BacklightTimeStepBattery), "backlight_time_step_battery", GroupGeneral, "Battery Backlight Dimmer Time (secs)", 5, 30, 1, false),
		NewIntRangeOption(Ref(&cfg.BacklightTimeStepVBus), "backlight_time_step_vbus", GroupGeneral, "5V Backlight Dimmer Time (secs)", 5, 60, 1, false),
		NewBoolOption(Ref(&cfg.SleepVBus), "sleep_vbus", GroupGeneral, "Sleep On 5V", "NO", "YES"),
		NewBoolOption(Ref(&cfg.SleepBattery), "sleep_battery", GroupGeneral, "Sleep On Battery", "NO", "YES"),

		// WiFi & Web
		NewBoolOption(Ref(&cfg.OTAStart), "ota_start", GroupNetwork, "Enable OTA Updates", "NO", "YES"),
		NewBoolOption(Ref(&cfg.WiFiCheckForUpdates), "wifi_check_for_updates", GroupNetwork, "Notify Updates", "NO", "YES"),
		NewStringOption(Ref(&cfg.MDNSName), "mdns_name", GroupNetwork, "mDNS Name", WithPlaceholder("SQUiXL")),
		NewStringOption(Ref(&cfg.Country), "country", GroupNetwork, "Country Code", WithLength(0, 2)),
		NewStringOption(Ref(&cfg.City), "city", GroupNetwork, "City"),
		NewIntRangeOption(Ref(&cfg.UTCOffset), "utc_offset", GroupNetwork, "UTC Offset", -12, 14, 1, false).WithUnset(UnsetUTCOffset),
		NewWiFiStationsOption(Ref(&cfg.WiFiOptions), Ref(&cfg.CurrentWiFiStation), "wifi_options", "current_wifi_station", GroupNetwork, "Wifi Stations", MaxWiFiStations),

		// Audio
		NewBoolOption(Ref(&cfg.Audio.UI), "audio.ui", GroupAudio, "UI Sound", "NO", "YES"),
		NewBoolOption(Ref(&cfg.Audio.Alarm), "audio.alarm", GroupAudio, "Alarm Sound", "NO", "YES"),
		NewBoolOption(Ref(&cfg.Audio.OnHour), "audio.on_hour", GroupAudio, "Beep Hour", "NO", "YES"),
		NewBoolOption(Ref(&cfg.Audio.Charge), "audio.charge", GroupAudio, "Start Charge", "NO", "YES"),
		NewFloatRangeOption(Ref(&cfg.Volume), "volume", GroupAudio, "Volume", 0, 21, 1, false),

		// Haptics
		NewBoolOption(Ref(&cfg.Haptics.Enabled), "haptics.enabled", GroupHaptics, "Enabled", "NO", "YES"),
		NewBoolOption(Ref(&cfg.Haptics.TriggerOnBoot), "haptics.trigger_on_boot", GroupHaptics, "On Boot", "NO", "YES"),
		NewBoolOption(Ref(&cfg.Haptics.TriggerOnWake), "haptics.trigger_on_wake", GroupHaptics, "On Wake", "NO", "YES"),
		NewBoolOption(Ref(&cfg.Haptics.TriggerOnAlarm), "haptics.trigger_on_alarm", GroupHaptics, "On Alarm", "NO", "YES"),
		NewBoolOption(Ref(&cfg.Haptics.TriggerOnHour), "haptics.trigger_on_hour", GroupHaptics, "On Hour", "NO", "YES"),
		NewBoolOption(Ref(&cfg.Haptics.TriggerOnEvent), "haptics.trigger_on_event", GroupHaptics, "On Event", "NO", "YES"),
		NewBoolOption(Ref(&cfg.Haptics.TriggerOnLongPress), "haptics.trigger_on_longpress", GroupHaptics, "LongPress", "NO", "YES"),
		NewBoolOption(Ref(&cfg.Haptics.TriggerOnCharge), "haptics.trigger_on_charge", GroupHaptics, "Start Charge", "NO", "YES"),

		// Open Weather
		NewBoolOption(Ref(&cfg.OpenWeather.Enabled), "open_weather.enabled", GroupWeather, "Enabled", "NO", "YES"),
		NewStringOption(Ref(&cfg.OpenWeather.APIKey), "open_weather.api_key", GroupWeather, "API KEY"),
		NewIntRangeOption(Ref(&cfg.OpenWeather.PollFrequency), "open_weather.poll_frequency", GroupWeather, "Poll Interval (Min)", 10, 300, 10, false),
		NewBoolOption(Ref(&cfg.OpenWeather.UnitsMetric), "open_weather.units_metric", GroupWeather, "Temperature Units", "Fahrenheit", "Celsius"),

		// MQTT
		NewBoolOption(Ref(&cfg.MQTT.Enabled), "mqtt.enabled", GroupMQTT, "Enabled", "NO", "YES"),
		NewStringOption(Ref(&cfg.MQTT.BrokerIP), "mqtt.broker_ip", GroupMQTT, "Broker IP"),
		NewIntOption(Ref(&cfg.MQTT.BrokerPort), "mqtt.broker_port", GroupMQTT, "Broker Port", 1, false),
		NewStringOption(Ref(&cfg.MQTT.Username), "mqtt.username", GroupMQTT, "Username"),
		NewStringOption(Ref(&cfg.MQTT.Password), "mqtt.password", GroupMQTT, "Password", Masked()),
		NewStringOption(Ref(&cfg.MQTT.DeviceName), "mqtt.device_name", GroupMQTT, "Device Name"),
		NewStringOption(Ref(&cfg.MQTT.TopicListen), "mqtt.topic_listen", GroupMQTT, "Listen Topic"),

		// Screenie
		NewBoolOption(Ref(&cfg.Screenshot.Enabled), "screenshot.enabled", GroupScreenshot, "Enabled", "NO", "YES"),
		NewFloatRangeOption(Ref(&cfg.Screenshot.Temperature), "screenshot.temperature", GroupScreenshot, "WB White Balance - Temperature", -1, 1, 0.1, false),
		NewFloatRangeOption(Ref(&cfg.Screenshot.Tint), "screenshot.tint", GroupScreenshot, "White Balance - Tint", -1, 1, 0.1, false),
		NewFloatRangeOption(Ref(&cfg.Screenshot.Black), "screenshot.black", GroupScreenshot, "Levels - Black", 0, 1, 0.1, false),
		NewFloatRangeOption(Ref(&cfg.Screenshot.White), "screenshot.white", GroupScreenshot, "Levels - White", 0, 1, 0.1, false),
		NewFloatRangeOption(Ref(&cfg.Screenshot.Gamma), "screenshot.gamma", GroupScreenshot, "Levels - Gamma", 0, 2, 0.1, false),
		NewFloatRangeOption(Ref(&cfg.Screenshot.Saturation), "screenshot.saturation", GroupScreenshot, "Saturation", 0, 2, 0.1, false),
		NewFloatRangeOption(Ref(&cfg.Screenshot.Contrast), "screenshot.contrast", GroupScreenshot, "Contrast", 0, 2, 0.1, false),

		// RSS Feed
		NewBoolOption(Ref(&cfg.RSSFeed.Enabled), "rss_feed.enabled", GroupFeed, "Enabled", "NO", "YES"),
		NewStringOption(Ref(&cfg.RSSFeed.FeedURL), "rss_feed.feed_url", GroupFeed, "Feed URL"),
		NewIntRangeOption(Ref(&cfg.RSSFeed.PollFrequency), "rss_feed.poll_frequency", GroupFeed, "Poll Interval (Min)", 10, 300, 60, false),
	}
}
