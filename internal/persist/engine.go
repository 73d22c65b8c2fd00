package persist

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/muurk/squixl-settings/internal/clock"
	"github.com/muurk/squixl-settings/internal/logging"
	"github.com/muurk/squixl-settings/internal/settings"
	"github.com/muurk/squixl-settings/internal/storage"
)

// State is the lifecycle state of an Engine.
type State int

const (
	StateUninitialized State = iota
	StateLoaded
	StateFresh
	StateDirty
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoaded:
		return "loaded"
	case StateFresh:
		return "fresh"
	case StateDirty:
		return "dirty"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// SaveResult reports what Save did.
type SaveResult int

const (
	SaveSkipped SaveResult = iota
	SaveCommitted
)

func (r SaveResult) String() string {
	if r == SaveCommitted {
		return "committed"
	}
	return "skipped"
}

// Engine owns the persisted form of one settings.Config.
type Engine struct {
	fs    afero.Fs
	cfg   *settings.Config
	opts  Options
	clock clock.Clock

	state      State
	dirty      bool
	forceSave  bool
	lastCommit time.Time
	saved      []byte

	// highest backup number issued by this process
	issued int

	screenDimAt time.Time
}

// New creates an Engine persisting cfg on fs. Empty option fields take the
// firmware defaults.
func New(fsys afero.Fs, cfg *settings.Config, opts Options) (*Engine, error) {
	if fsys == nil {
		return nil, errors.New("filesystem is required")
	}
	if cfg == nil {
		return nil, errors.New("settings model is required")
	}

	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		fs:    fsys,
		cfg:   cfg,
		opts:  opts,
		clock: opts.Clock,
	}, nil
}

// Init loads the primary file, falling back to Create when it is missing,
// unreadable, malformed or from an unsupported version. Only a failure of the
// fallback commit is returned, and the model holds defaults even then.
func (e *Engine) Init() error {
	err := e.Load()
	if err == nil {
		return nil
	}

	if IsNotFound(err) {
		logging.Info("No settings file, creating defaults", zap.String("path", e.opts.Path))
	} else {
		logging.Warn("Settings file unusable, creating defaults",
			zap.String("path", e.opts.Path),
			zap.Error(err),
		)
	}
	return e.Create()
}

// Load reads the primary file into the model. On any failure the model is
// left untouched.
func (e *Engine) Load() error {
	data, err := afero.ReadFile(e.fs, e.opts.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newStoreError(ErrTypeNotFound, "load", e.opts.Path, err)
		}
		return newStoreError(ErrTypeRead, "load", e.opts.Path, err)
	}

	cfg, doc, from, err := e.parse(data)
	if err != nil {
		return err
	}

	*e.cfg = cfg
	e.saved = doc
	e.dirty = false
	e.forceSave = false
	e.state = StateLoaded
	e.lastCommit = e.clock.Now()

	logging.LogLoad(e.opts.Path, from, from != settings.CurrentVersion)
	return nil
}

// parse validates, migrates and decodes a document without touching the model.
func (e *Engine) parse(data []byte) (settings.Config, []byte, int, error) {
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return settings.Config{}, nil, 0, newStoreError(ErrTypeParse, "load", e.opts.Path, errors.New("document is not a JSON object"))
	}

	doc, from, err := migrate(data)
	if err != nil {
		return settings.Config{}, nil, from, newStoreError(ErrTypeVersion, "load", e.opts.Path, err)
	}

	cfg, mismatch, err := decode(doc)
	if err != nil {
		return settings.Config{}, nil, from, newStoreError(ErrTypeParse, "load", e.opts.Path, err)
	}
	if mismatch != nil {
		logging.Warn("Settings field has the wrong type, keeping default",
			zap.String("field", mismatch.Field),
			zap.String("value", mismatch.Value),
		)
	}
	return cfg, doc, from, nil
}

// Create resets the model to defaults, marks first run and commits
// immediately. The first commit does not take a backup.
func (e *Engine) Create() error {
	*e.cfg = settings.Defaults()
	e.cfg.FirstTime = true
	e.saved = nil
	e.dirty = true
	e.state = StateFresh

	if err := e.commit(true); err != nil {
		return err
	}
	e.state = StateFresh

	logging.Info("Settings created with defaults", zap.String("path", e.opts.Path))
	return nil
}

// MarkDirty records that the model changed and needs a commit.
func (e *Engine) MarkDirty() {
	e.dirty = true
	e.state = StateDirty
}

// RequestSave asks the next Tick to commit regardless of the debounce.
func (e *Engine) RequestSave() {
	e.forceSave = true
}

// Tick is called periodically by the owner's main loop.
func (e *Engine) Tick() (SaveResult, error) {
	force := e.forceSave
	res, err := e.Save(force)
	if err == nil && force {
		e.forceSave = false
	}
	return res, err
}

// Save commits the model when forced, or when it is dirty and the last
// commit is older than the debounce interval. A successful commit is followed
// by a backup; a backup failure is logged and does not undo the commit.
func (e *Engine) Save(force bool) (SaveResult, error) {
	if !force {
		if !e.dirty {
			return SaveSkipped, nil
		}
		if elapsed := e.clock.Since(e.lastCommit); e.opts.Debounce != NoDebounce && elapsed <= e.opts.Debounce {
			logging.Debug("Save debounced", zap.Duration("elapsed", elapsed))
			return SaveSkipped, nil
		}
	}

	if err := e.commit(force); err != nil {
		return SaveSkipped, err
	}

	if _, err := e.Backup(); err != nil {
		logging.LogStorageFailure("backup", e.opts.BackupDir, err)
	}
	return SaveCommitted, nil
}

// commit writes the model atomically over the primary file.
func (e *Engine) commit(forced bool) error {
	data, err := encode(e.cfg, e.saved)
	if err != nil {
		return newStoreError(ErrTypeWrite, "encode", e.opts.Path, err)
	}

	if err := storage.WriteAtomic(e.fs, e.opts.Path, e.opts.TempPath, data); err != nil {
		logging.LogStorageFailure("commit", e.opts.Path, err)
		return newStoreError(ErrTypeWrite, "commit", e.opts.Path, err)
	}

	now := e.clock.Now()
	elapsed := now.Sub(e.lastCommit)
	if e.lastCommit.IsZero() {
		elapsed = 0
	}

	e.saved = data
	e.dirty = false
	e.state = StateLoaded
	e.lastCommit = now

	logging.LogCommit(e.opts.Path, len(data), forced, elapsed)
	return nil
}

// HasWiFiCreds reports whether the active station has a usable credential.
func (e *Engine) HasWiFiCreds() bool {
	st, ok := e.cfg.ActiveStation()
	return ok && st.HasCredential()
}

// HasCountrySet reports whether a region code is configured.
func (e *Engine) HasCountrySet() bool {
	return e.cfg.HasCountry()
}

// UpdateWiFiCredentials writes ssid and pass into the active station,
// creating it when the list is empty. It does not save.
func (e *Engine) UpdateWiFiCredentials(ssid, pass string) {
	if len(e.cfg.WiFiOptions) == 0 {
		e.cfg.WiFiOptions = append(e.cfg.WiFiOptions, settings.NewWiFiStation(ssid, pass))
		e.cfg.CurrentWiFiStation = 0
	} else {
		i := min(max(e.cfg.CurrentWiFiStation, 0), len(e.cfg.WiFiOptions)-1)
		e.cfg.CurrentWiFiStation = i
		e.cfg.WiFiOptions[i].SSID = ssid
		e.cfg.WiFiOptions[i].Pass = pass
	}
	e.MarkDirty()
}

// ResetScreenDimTime restarts the idle timer and returns the new deadline.
func (e *Engine) ResetScreenDimTime() time.Time {
	e.screenDimAt = e.clock.Now().Add(time.Duration(e.cfg.ScreenDimMins) * time.Minute)
	return e.screenDimAt
}

// ScreenDimDeadline returns the deadline set by the last ResetScreenDimTime.
func (e *Engine) ScreenDimDeadline() time.Time {
	return e.screenDimAt
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Dirty reports whether the model has uncommitted changes.
func (e *Engine) Dirty() bool {
	return e.dirty
}

// LastCommit returns when the model was last committed or loaded.
func (e *Engine) LastCommit() time.Time {
	return e.lastCommit
}

// Document returns a copy of the last saved document.
func (e *Engine) Document() []byte {
	return append([]byte(nil), e.saved...)
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}
