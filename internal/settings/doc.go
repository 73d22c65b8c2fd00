// Package settings holds the persisted value model of the SQUiXL device and
// the bindings a UI uses to edit it.
//
// # Value Model
//
// Config is a tree of plain records. Defaults returns the factory value of
// every field, so a Config is valid before anything has been loaded. A few
// records expose pure predicates over their own fields (HasKey, HasURL,
// HasIP, HasCredential) that collaborators use to gate features.
//
// # Options
//
// An Option binds one field of a Config to UI metadata: label, group and the
// variant specific constraints. The variants are:
//
//   - BoolOption: off/on labels
//   - IntOption: unconstrained integer with step
//   - IntRangeOption, FloatRangeOption: clamped numeric ranges
//   - StringOption: length limits, placeholder, masking
//   - ColorOption: packed 5-6-5 colour edited as "#RRGGBB"
//   - WiFiStationsOption: the wireless profile list with add/remove/select
//
// Options never report validation errors. Numbers are clamped, strings are
// truncated and unparseable text leaves the field unchanged:
//
//	opt, _ := reg.Lookup("utc_offset")
//	opt.SetText("20") // returns "14", the range maximum
//
// # Registry
//
// NewRegistry builds the fixed groups in display order and binds every
// option. The registry is constructed once, after the Config it references,
// and keeps that Config alive. The onChange hook passed to NewRegistry fires
// whenever an option changes its field; the persistence engine uses it to
// mark the model dirty.
//
// # Concurrency
//
// Nothing in this package locks. Callers that share a Config between
// goroutines must serialize every mutating call themselves.
package settings
