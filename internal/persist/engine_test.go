package persist

import (
	"reflect"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/muurk/squixl-settings/internal/clock"
	"github.com/muurk/squixl-settings/internal/settings"
	"github.com/muurk/squixl-settings/internal/storage"
)

var epoch = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, fsys afero.Fs) (*Engine, *settings.Config, *clock.Mock) {
	t.Helper()
	cfg := settings.NewConfig()
	clk := clock.NewMock(epoch)

	opts := DefaultOptions()
	opts.Clock = clk
	e, err := New(fsys, cfg, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return e, cfg, clk
}

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
}

func readFile(t *testing.T, fsys afero.Fs, path string) []byte {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return data
}

func backupNumbers(t *testing.T, e *Engine) []int {
	t.Helper()
	backups, err := e.Backups()
	if err != nil {
		t.Fatalf("Backups() error = %v", err)
	}
	nums := make([]int, 0, len(backups))
	for _, b := range backups {
		nums = append(nums, b.Number)
	}
	return nums
}

func TestInitMissingFileCreatesFresh(t *testing.T) {
	fsys := afero.NewMemMapFs()
	e, cfg, _ := newTestEngine(t, fsys)

	if e.State() != StateUninitialized {
		t.Fatalf("State() before Init = %v, want %v", e.State(), StateUninitialized)
	}
	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if e.State() != StateFresh {
		t.Errorf("State() = %v, want %v", e.State(), StateFresh)
	}
	if e.Dirty() {
		t.Error("Dirty() after first-run commit should be false")
	}
	if !reflect.DeepEqual(*cfg, settings.Defaults()) {
		t.Errorf("model after Init() is not the defaults: %+v", *cfg)
	}
	if !storage.Exists(fsys, DefaultPath) {
		t.Error("Init() did not write the primary file")
	}
	if storage.Exists(fsys, DefaultTempPath) {
		t.Error("staging file left behind")
	}
	if nums := backupNumbers(t, e); len(nums) != 0 {
		t.Errorf("first-run commit produced backups %v, want none", nums)
	}
}

func TestInitLoadsExistingFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, DefaultPath, `{"ver":2,"first_time":false,"country":"US","mqtt":{"broker_ip":"10.0.0.2"}}`)
	e, cfg, _ := newTestEngine(t, fsys)

	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if e.State() != StateLoaded {
		t.Errorf("State() = %v, want %v", e.State(), StateLoaded)
	}
	if cfg.Country != "US" || cfg.FirstTime {
		t.Errorf("loaded Country=%q FirstTime=%v, want US false", cfg.Country, cfg.FirstTime)
	}
	if cfg.MQTT.BrokerIP != "10.0.0.2" || cfg.MQTT.BrokerPort != 1883 {
		t.Errorf("MQTT = %+v, want file IP and default port", cfg.MQTT)
	}
	if cfg.Screenshot.Gamma != 0.9 {
		t.Errorf("absent field Screenshot.Gamma = %v, want default 0.9", cfg.Screenshot.Gamma)
	}
}

func TestInitRecoversFromUnusableFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"Newer version", `{"ver":3,"country":"US"}`},
		{"Corrupt", `{"ver":2,"country":`},
		{"Not an object", `[1,2,3]`},
		{"Version zero", `{"ver":0,"country":"US"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			writeFile(t, fsys, DefaultPath, tt.content)
			e, cfg, _ := newTestEngine(t, fsys)

			if err := e.Init(); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			if e.State() != StateFresh {
				t.Errorf("State() = %v, want %v", e.State(), StateFresh)
			}
			if cfg.Country != "" {
				t.Errorf("Country = %q, want default", cfg.Country)
			}
			if v := gjson.GetBytes(readFile(t, fsys, DefaultPath), "ver").Int(); v != settings.CurrentVersion {
				t.Errorf("rewritten file ver = %d, want %d", v, settings.CurrentVersion)
			}
		})
	}
}

func TestLoadFailureLeavesModelUntouched(t *testing.T) {
	tests := []struct {
		name    string
		content string
		write   bool
		check   func(error) bool
	}{
		{"Missing", "", false, IsNotFound},
		{"Corrupt", `{"country":`, true, IsParseError},
		{"Too new", `{"ver":99,"country":"FR"}`, true, IsVersionError},
		{"Negative", `{"ver":-1}`, true, IsVersionError},
		{"Non-numeric version", `{"ver":"two"}`, true, IsVersionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			if tt.write {
				writeFile(t, fsys, DefaultPath, tt.content)
			}
			e, cfg, _ := newTestEngine(t, fsys)
			cfg.Country = "NZ"

			err := e.Load()
			if err == nil {
				t.Fatal("Load() error = nil, want failure")
			}
			if !tt.check(err) {
				t.Errorf("Load() error = %v, wrong classification", err)
			}
			if cfg.Country != "NZ" {
				t.Errorf("failed Load() changed Country to %q", cfg.Country)
			}
			if e.State() != StateUninitialized {
				t.Errorf("State() = %v, want %v", e.State(), StateUninitialized)
			}
		})
	}
}

func TestLoadMigratesVersionOne(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, DefaultPath, `{"country":"DE","mqtt":{"retry_attemps":9,"broker_ip":"broker.local"}}`)
	e, cfg, _ := newTestEngine(t, fsys)

	if err := e.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MQTT.RetryAttempts != 9 {
		t.Errorf("RetryAttempts = %d, want 9 from legacy key", cfg.MQTT.RetryAttempts)
	}
	if cfg.Ver != settings.CurrentVersion {
		t.Errorf("Ver = %d, want %d", cfg.Ver, settings.CurrentVersion)
	}

	// Fields the old firmware never wrote take their defaults.
	if cfg.Volume != 15 || !cfg.Haptics.Enabled {
		t.Errorf("absent fields not defaulted: Volume=%v Haptics.Enabled=%v", cfg.Volume, cfg.Haptics.Enabled)
	}

	doc := e.Document()
	if gjson.GetBytes(doc, "mqtt.retry_attemps").Exists() {
		t.Error("legacy key survived migration")
	}
	if got := gjson.GetBytes(doc, "ver").Int(); got != settings.CurrentVersion {
		t.Errorf("document ver = %d, want %d", got, settings.CurrentVersion)
	}
}

func TestLoadKeepsDefaultForMistypedField(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, DefaultPath, `{"ver":2,"volume":"loud","country":"US"}`)
	e, cfg, _ := newTestEngine(t, fsys)

	if err := e.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Volume != 15 {
		t.Errorf("Volume = %v, want default 15", cfg.Volume)
	}
	if cfg.Country != "US" {
		t.Errorf("Country = %q, want US", cfg.Country)
	}
}

func TestSaveDebounce(t *testing.T) {
	fsys := afero.NewMemMapFs()
	e, _, clk := newTestEngine(t, fsys)
	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	steps := []struct {
		name    string
		advance time.Duration
		dirty   bool
		force   bool
		want    SaveResult
	}{
		{"Dirty inside interval", 0, true, false, SaveSkipped},
		{"Still inside interval", 5 * time.Second, false, false, SaveSkipped},
		{"Exactly at interval", 5 * time.Second, false, false, SaveSkipped},
		{"Past interval", time.Millisecond, false, false, SaveCommitted},
		{"Second save right after", 0, true, false, SaveSkipped},
		{"Forced ignores interval", 0, false, true, SaveCommitted},
		{"Clean after interval", 20 * time.Second, false, false, SaveSkipped},
		{"Forced when clean", 0, false, true, SaveCommitted},
	}

	for _, s := range steps {
		clk.Advance(s.advance)
		if s.dirty {
			e.MarkDirty()
		}
		got, err := e.Save(s.force)
		if err != nil {
			t.Fatalf("%s: Save(%v) error = %v", s.name, s.force, err)
		}
		if got != s.want {
			t.Errorf("%s: Save(%v) = %v, want %v", s.name, s.force, got, s.want)
		}
	}

	if got := backupNumbers(t, e); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("backups = %v, want [1 2 3]", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()
	e, cfg, _ := newTestEngine(t, fsys)
	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	cfg.FirstTime = false
	cfg.Country = "AU"
	cfg.CaseColor = 0xF81F
	cfg.Volume = 7.5
	cfg.UTCOffset = 10
	cfg.WiFiOptions = []settings.WiFiStation{settings.NewWiFiStation("home", "secret123"), {SSID: "cafe", Pass: "latte!", Channel: 1}}
	cfg.CurrentWiFiStation = 1
	cfg.MQTT.Topics = []settings.MQTTTopic{{Name: "lights", TopicListen: "home/lights", TopicPublish: "home/lights/set"}}
	cfg.Screenshot.Tint = -0.25
	e.MarkDirty()

	if _, err := e.Save(true); err != nil {
		t.Fatalf("Save(true) error = %v", err)
	}

	other, otherCfg, _ := newTestEngine(t, fsys)
	if err := other.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(*otherCfg, *cfg) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", *otherCfg, *cfg)
	}
	if !reflect.DeepEqual(readFile(t, fsys, DefaultPath), e.Document()) {
		t.Error("Document() differs from the committed file")
	}
}

func TestSavePreservesUnknownKeys(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, DefaultPath, `{"ver":2,"legacy_flag":true,"mqtt":{"broker_ip":"10.0.0.2","legacy_qos":1}}`)
	e, cfg, _ := newTestEngine(t, fsys)
	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	cfg.Country = "GB"
	cfg.MQTT.BrokerIP = "10.0.0.9"
	e.MarkDirty()
	if _, err := e.Save(true); err != nil {
		t.Fatalf("Save(true) error = %v", err)
	}

	doc := readFile(t, fsys, DefaultPath)
	checks := map[string]string{
		"legacy_flag":     "true",
		"mqtt.legacy_qos": "1",
		"mqtt.broker_ip":  "10.0.0.9",
		"country":         "GB",
	}
	for path, want := range checks {
		if got := gjson.GetBytes(doc, path).String(); got != want {
			t.Errorf("%s = %q, want %q", path, got, want)
		}
	}
}

func TestWriteFailureKeepsDirty(t *testing.T) {
	fault := storage.NewFaultFs(afero.NewMemMapFs())
	e, cfg, clk := newTestEngine(t, fault)
	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	before := readFile(t, fault, DefaultPath)

	cfg.Country = "US"
	e.MarkDirty()
	fault.FailRename = true

	res, err := e.Save(true)
	if err == nil {
		t.Fatal("Save(true) error = nil, want write failure")
	}
	if res != SaveSkipped {
		t.Errorf("Save(true) = %v, want %v", res, SaveSkipped)
	}
	if !IsWriteError(err) || !IsRetryable(err) {
		t.Errorf("Save(true) error = %v, want retryable write error", err)
	}
	if !e.Dirty() || e.State() != StateDirty {
		t.Errorf("Dirty()=%v State()=%v, want dirty after failed commit", e.Dirty(), e.State())
	}
	if storage.Exists(fault, DefaultTempPath) {
		t.Error("staging file left behind after failed rename")
	}
	if string(readFile(t, fault, DefaultPath)) != string(before) {
		t.Error("primary file changed by a failed commit")
	}
	if nums := backupNumbers(t, e); len(nums) != 0 {
		t.Errorf("failed commit produced backups %v", nums)
	}

	fault.FailRename = false
	clk.Advance(DefaultDebounce + time.Second)
	if res, err := e.Tick(); err != nil || res != SaveCommitted {
		t.Fatalf("Tick() after recovery = %v, %v; want committed", res, err)
	}
	if gjson.GetBytes(readFile(t, fault, DefaultPath), "country").String() != "US" {
		t.Error("retried commit did not persist the change")
	}
}

func TestBackupFailureKeepsCommit(t *testing.T) {
	fault := storage.NewFaultFs(afero.NewMemMapFs())
	e, cfg, _ := newTestEngine(t, fault)
	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	fault.FailWritePrefix = "/" + DefaultBackupPrefix
	cfg.City = "Perth"
	e.MarkDirty()

	res, err := e.Save(true)
	if err != nil || res != SaveCommitted {
		t.Fatalf("Save(true) = %v, %v; want committed without error", res, err)
	}
	if e.Dirty() {
		t.Error("Dirty() should be false once the primary is committed")
	}
	if gjson.GetBytes(readFile(t, fault, DefaultPath), "city").String() != "Perth" {
		t.Error("commit did not reach the primary file")
	}
	if nums := backupNumbers(t, e); len(nums) != 0 {
		t.Errorf("backups = %v, want none", nums)
	}
}

func TestTickHonoursRequestSave(t *testing.T) {
	fsys := afero.NewMemMapFs()
	e, _, _ := newTestEngine(t, fsys)
	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	e.MarkDirty()
	if res, _ := e.Tick(); res != SaveSkipped {
		t.Errorf("Tick() inside interval = %v, want %v", res, SaveSkipped)
	}

	e.RequestSave()
	if res, err := e.Tick(); err != nil || res != SaveCommitted {
		t.Errorf("Tick() after RequestSave() = %v, %v; want committed", res, err)
	}
	if res, _ := e.Tick(); res != SaveSkipped {
		t.Errorf("Tick() after forced commit = %v, want %v", res, SaveSkipped)
	}
}

func TestWiFiCredentialsScenario(t *testing.T) {
	e, cfg, _ := newTestEngine(t, afero.NewMemMapFs())
	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	if e.HasWiFiCreds() {
		t.Fatal("HasWiFiCreds() on empty list = true, want false")
	}

	e.UpdateWiFiCredentials("home", "secret123")
	if len(cfg.WiFiOptions) != 1 {
		t.Fatalf("len(WiFiOptions) = %d, want 1", len(cfg.WiFiOptions))
	}
	if st := cfg.WiFiOptions[0]; st.SSID != "home" || st.Pass != "secret123" {
		t.Errorf("station = %+v, want home/secret123", st)
	}
	if !e.HasWiFiCreds() {
		t.Error("HasWiFiCreds() = false, want true")
	}
	if !e.Dirty() {
		t.Error("UpdateWiFiCredentials() should mark the model dirty")
	}

	e.UpdateWiFiCredentials("office", "x")
	if len(cfg.WiFiOptions) != 1 || cfg.WiFiOptions[0].SSID != "office" {
		t.Errorf("second update should overwrite the active station, got %+v", cfg.WiFiOptions)
	}
	if e.HasWiFiCreds() {
		t.Error("HasWiFiCreds() with one-character password = true, want false")
	}
}

func TestUpdateWiFiCredentialsDoesNotSave(t *testing.T) {
	fsys := afero.NewMemMapFs()
	e, _, _ := newTestEngine(t, fsys)
	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	before := readFile(t, fsys, DefaultPath)

	e.UpdateWiFiCredentials("home", "secret123")
	if string(readFile(t, fsys, DefaultPath)) != string(before) {
		t.Error("UpdateWiFiCredentials() wrote the primary file")
	}
}

func TestCountryScenario(t *testing.T) {
	e, cfg, _ := newTestEngine(t, afero.NewMemMapFs())
	if err := e.Create(); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	reg := settings.NewRegistry(cfg, e.MarkDirty)

	if cfg.Country != "" || e.HasCountrySet() {
		t.Fatalf("fresh model Country=%q HasCountrySet=%v, want empty false", cfg.Country, e.HasCountrySet())
	}

	opt, ok := reg.Lookup("country")
	if !ok {
		t.Fatal("Lookup(country) not found")
	}
	opt.SetText("US")

	if !e.HasCountrySet() {
		t.Error("HasCountrySet() after setting US = false, want true")
	}
	if e.State() != StateDirty {
		t.Errorf("State() = %v, want %v", e.State(), StateDirty)
	}
}

func TestResetScreenDimTime(t *testing.T) {
	e, cfg, clk := newTestEngine(t, afero.NewMemMapFs())
	cfg.ScreenDimMins = 3
	clk.Advance(time.Hour)

	got := e.ResetScreenDimTime()
	want := epoch.Add(time.Hour + 3*time.Minute)
	if !got.Equal(want) {
		t.Errorf("ResetScreenDimTime() = %v, want %v", got, want)
	}
	if !e.ScreenDimDeadline().Equal(want) {
		t.Errorf("ScreenDimDeadline() = %v, want %v", e.ScreenDimDeadline(), want)
	}
}

func TestNewValidatesOptions(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Options)
		wantErr bool
	}{
		{"Defaults", func(o *Options) {}, false},
		{"Empty fields take defaults", func(o *Options) { *o = Options{} }, false},
		{"Zero debounce", func(o *Options) { o.Debounce = 0 }, false},
		{"No debounce", func(o *Options) { o.Debounce = NoDebounce }, false},
		{"Relative path", func(o *Options) { o.Path = "settings.json" }, true},
		{"Temp equals primary", func(o *Options) { o.TempPath = o.Path }, true},
		{"Prefix with slash", func(o *Options) { o.BackupPrefix = "bak/" }, true},
		{"Negative cap", func(o *Options) { o.MaxBackups = -1 }, true},
		{"Negative debounce", func(o *Options) { o.Debounce = -time.Second }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			_, err := New(afero.NewMemMapFs(), settings.NewConfig(), opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := New(nil, settings.NewConfig(), DefaultOptions()); err == nil {
		t.Error("New() with nil filesystem should fail")
	}
	if _, err := New(afero.NewMemMapFs(), nil, DefaultOptions()); err == nil {
		t.Error("New() with nil model should fail")
	}
}

func TestZeroOptionsKeepDebounce(t *testing.T) {
	clk := clock.NewMock(epoch)
	e, err := New(afero.NewMemMapFs(), settings.NewConfig(), Options{Clock: clk})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := e.Options().Debounce; got != DefaultDebounce {
		t.Errorf("Options().Debounce = %v, want %v", got, DefaultDebounce)
	}
	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	clk.Advance(time.Millisecond)
	e.MarkDirty()
	if res, err := e.Save(false); err != nil || res != SaveSkipped {
		t.Errorf("Save(false) 1ms after commit = %v, %v; want skipped", res, err)
	}

	clk.Advance(DefaultDebounce)
	if res, err := e.Save(false); err != nil || res != SaveCommitted {
		t.Errorf("Save(false) after interval = %v, %v; want committed", res, err)
	}
}

func TestNoDebounceCommitsEveryDirtyTick(t *testing.T) {
	clk := clock.NewMock(epoch)
	e, err := New(afero.NewMemMapFs(), settings.NewConfig(), Options{Clock: clk, Debounce: NoDebounce})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		e.MarkDirty()
		if res, err := e.Save(false); err != nil || res != SaveCommitted {
			t.Fatalf("Save(false) #%d = %v, %v; want committed", i, res, err)
		}
	}
	if res, _ := e.Save(false); res != SaveSkipped {
		t.Errorf("Save(false) when clean = %v, want skipped", res)
	}
}

func TestLoadClearsRequestedSave(t *testing.T) {
	fsys := afero.NewMemMapFs()
	e, _, _ := newTestEngine(t, fsys)
	if err := e.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	e.RequestSave()
	if err := e.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res, err := e.Tick(); err != nil || res != SaveSkipped {
		t.Errorf("Tick() after Load = %v, %v; want skipped", res, err)
	}
	if nums := backupNumbers(t, e); len(nums) != 0 {
		t.Errorf("backups = %v, want none", nums)
	}
}
