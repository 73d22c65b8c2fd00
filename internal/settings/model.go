package settings

// CurrentVersion is the document version written by this firmware.
// Documents with a higher version are refused rather than truncated.
const CurrentVersion = 2

// MaxWiFiStations is the number of wireless profiles the device can hold.
const MaxWiFiStations = 5

// UnsetUTCOffset marks a UTC offset that has not been chosen by the user yet.
const UnsetUTCOffset = 999

// DefaultFeedURL is the RSS feed shown before the user picks one.
const DefaultFeedURL = "https://rss.slashdot.org/slashdot/slashdotmain"

// Config is the root of the persisted value model.
// Every field carries a default through Defaults so a fresh Config is usable
// before any document has been loaded.
type Config struct {
	Ver           int  `json:"ver"`
	FirstTime     bool `json:"first_time"`
	ScreenDimMins int  `json:"screen_dim_mins"`

	CurrentScreen int  `json:"current_screen"`
	UserWallpaper bool `json:"user_wallpaper"`

	AutostartWebserver bool `json:"autostart_webserver"`

	CaseColor Color565 `json:"case_color"`

	OTAStart            bool   `json:"ota_start"`
	WiFiTxPower         int    `json:"wifi_tx_power"`
	WiFiCheckForUpdates bool   `json:"wifi_check_for_updates"`
	MDNSName            string `json:"mdns_name"`

	WiFiOptions        []WiFiStation `json:"wifi_options"`
	CurrentWiFiStation int           `json:"current_wifi_station"`

	Country   string `json:"country"`
	City      string `json:"city"`
	UTCOffset int    `json:"utc_offset"`

	Time24Hour     bool `json:"time_24hour"`
	TimeDateFormat bool `json:"time_dateformat"` // false: DMY, true: MDY

	Volume float64 `json:"volume"`

	CurrentBackground        int  `json:"current_background"`
	BacklightTimeStepBattery int  `json:"backlight_time_step_battery"` // seconds
	BacklightTimeStepVBus    int  `json:"backlight_time_step_vbus"`    // seconds
	SleepVBus                bool `json:"sleep_vbus"`
	SleepBattery             bool `json:"sleep_battery"`

	Battery     Battery     `json:"battery"`
	OpenWeather OpenWeather `json:"open_weather"`
	RSSFeed     RSSFeed     `json:"rss_feed"`
	Audio       Audio       `json:"audio"`
	MQTT        MQTT        `json:"mqtt"`
	Haptics     Haptics     `json:"haptics"`
	Screenshot  Screenshot  `json:"screenshot"`
}

// WiFiStation is one saved wireless network profile.
type WiFiStation struct {
	SSID    string `json:"ssid"`
	Pass    string `json:"pass"`
	Channel uint8  `json:"channel"`
}

// NewWiFiStation returns a profile with the default channel.
func NewWiFiStation(ssid, pass string) WiFiStation {
	return WiFiStation{SSID: ssid, Pass: pass, Channel: 9}
}

// HasCredential reports whether both the SSID and the passphrase are non-trivial.
func (w WiFiStation) HasCredential() bool {
	return len(w.SSID) > 1 && len(w.Pass) > 1
}

// Battery holds fuel gauge tuning.
type Battery struct {
	// PercOffset shifts what is shown as 100%. The PMIC stops charging
	// around 4.1V so the gauge would otherwise never report full.
	PercOffset float64 `json:"perc_offset"`
	// LowPerc is the fuel gauge wake threshold, between 1% and 32%.
	LowPerc       int     `json:"low_perc"`
	LowVoltWarn   float64 `json:"low_volt_warn"`
	LowVoltCutoff float64 `json:"low_volt_cutoff"`
}

// OpenWeather configures the weather widget.
type OpenWeather struct {
	PollFrequency int    `json:"poll_frequency"` // minutes
	APIKey        string `json:"api_key"`
	Enabled       bool   `json:"enabled"`
	UnitsMetric   bool   `json:"units_metric"`
}

// HasKey reports whether an API key has been entered.
func (o OpenWeather) HasKey() bool {
	return len(o.APIKey) > 1
}

// RSSFeed configures the feed widget.
type RSSFeed struct {
	PollFrequency int    `json:"poll_frequency"` // minutes
	FeedURL       string `json:"feed_url"`
	Enabled       bool   `json:"enabled"`
}

// HasURL reports whether a feed URL is configured.
func (r RSSFeed) HasURL() bool {
	return len(r.FeedURL) > 1
}

// Audio toggles the device sounds.
type Audio struct {
	UI                  bool `json:"ui"`
	Alarm               bool `json:"alarm"`
	OnHour              bool `json:"on_hour"`
	Charge              bool `json:"charge"`
	CurrentRadioStation int  `json:"current_radio_station"`
}

// MQTTTopic pairs a listen topic with a publish topic.
type MQTTTopic struct {
	Name         string `json:"name"`
	TopicListen  string `json:"topic_listen"`
	TopicPublish string `json:"topic_publish"`
}

// MQTT configures the messaging client.
type MQTT struct {
	Enabled       bool        `json:"enabled"`
	BrokerIP      string      `json:"broker_ip"`
	BrokerPort    int         `json:"broker_port"`
	KeepAlive     int         `json:"keep_alive"`
	Username      string      `json:"username"`
	Password      string      `json:"password"`
	RetryAttempts int         `json:"retry_attempts"`
	DeviceName    string      `json:"device_name"`
	Topics        []MQTTTopic `json:"topics"`
	TopicListen   string      `json:"topic_listen"`
	PublishTopic  string      `json:"publish_topic"`
}

// HasIP reports whether a broker address has been entered.
func (m MQTT) HasIP() bool {
	return len(m.BrokerIP) > 2
}

// Haptics selects which events trigger the vibration motor.
type Haptics struct {
	Enabled            bool `json:"enabled"`
	TriggerOnBoot      bool `json:"trigger_on_boot"`
	TriggerOnAlarm     bool `json:"trigger_on_alarm"`
	TriggerOnHour      bool `json:"trigger_on_hour"`
	TriggerOnEvent     bool `json:"trigger_on_event"`
	TriggerOnWake      bool `json:"trigger_on_wake"`
	TriggerOnLongPress bool `json:"trigger_on_longpress"`
	TriggerOnCharge    bool `json:"trigger_on_charge"`
}

// Screenshot holds the colour grading applied to screenshots.
type Screenshot struct {
	Enabled     bool    `json:"enabled"`
	Temperature float64 `json:"temperature"`
	Tint        float64 `json:"tint"`
	Black       float64 `json:"black"`
	White       float64 `json:"white"`
	Gamma       float64 `json:"gamma"`
	Saturation  float64 `json:"saturation"`
	Contrast    float64 `json:"contrast"`
}

// Defaults returns a Config holding the factory value of every field.
func Defaults() Config {
	return Config{
		Ver:           CurrentVersion,
		FirstTime:     true,
		ScreenDimMins: 10,

		UserWallpaper: true,
		CaseColor:     6371,

		WiFiTxPower:         44,
		WiFiCheckForUpdates: true,
		MDNSName:            "SQUiXL",

		UTCOffset: UnsetUTCOffset,

		Volume: 15.0,

		BacklightTimeStepBattery: 15,
		BacklightTimeStepVBus:    30,
		SleepBattery:             true,

		Battery: Battery{
			PercOffset:    7.0,
			LowPerc:       25,
			LowVoltWarn:   3.5,
			LowVoltCutoff: 3.2,
		},
		OpenWeather: OpenWeather{
			PollFrequency: 30,
			Enabled:       true,
			UnitsMetric:   true,
		},
		RSSFeed: RSSFeed{
			PollFrequency: 60,
			FeedURL:       DefaultFeedURL,
			Enabled:       true,
		},
		Audio: Audio{
			UI:     true,
			Alarm:  true,
			Charge: true,
		},
		MQTT: MQTT{
			BrokerPort:    1883,
			KeepAlive:     60,
			RetryAttempts: 5,
			DeviceName:    "squixl",
			TopicListen:   "squixl",
			PublishTopic:  "squixl",
		},
		Haptics: Haptics{
			Enabled:            true,
			TriggerOnBoot:      true,
			TriggerOnAlarm:     true,
			TriggerOnHour:      true,
			TriggerOnLongPress: true,
			TriggerOnCharge:    true,
		},
		Screenshot: Screenshot{
			Enabled:     true,
			Temperature: -0.1,
			Tint:        1.0,
			White:       1.0,
			Gamma:       0.9,
			Saturation:  1.0,
			Contrast:    1.0,
		},
	}
}

// NewConfig returns a pointer to a defaulted Config.
func NewConfig() *Config {
	c := Defaults()
	return &c
}

// ActiveStation returns the selected wireless profile, if any.
// The stored index is clamped to the list so a stale index never panics.
func (c *Config) ActiveStation() (WiFiStation, bool) {
	if len(c.WiFiOptions) == 0 {
		return WiFiStation{}, false
	}
	return c.WiFiOptions[clampIndex(c.CurrentWiFiStation, len(c.WiFiOptions))], true
}

// HasCountry reports whether a region code has been chosen.
func (c *Config) HasCountry() bool {
	return c.Country != ""
}

// Normalize brings values read from outside the bindings back inside their
// invariants: the station list is capped and the active index is clamped.
func (c *Config) Normalize() {
	if len(c.WiFiOptions) > MaxWiFiStations {
		c.WiFiOptions = c.WiFiOptions[:MaxWiFiStations]
	}
	c.CurrentWiFiStation = clampIndex(c.CurrentWiFiStation, len(c.WiFiOptions))
	c.Ver = CurrentVersion
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
