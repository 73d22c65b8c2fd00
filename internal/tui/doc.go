// Package tui is an interactive terminal editor for the settings model.
//
// It renders the registry exactly as the device UI would: groups as tabs in
// their canonical order, each group's options in insertion order. Every edit
// goes through the option's SetText, Toggle or Nudge, so values are clamped
// and truncated the same way the firmware does it.
//
// A bubbletea tick drives the persistence engine, which stands in for the
// device main loop: changes are committed once the debounce interval passes,
// or immediately with the save key.
//
// # Keys
//
//	←/→ tab      switch group
//	↑/↓ j/k      move between options
//	enter        edit as text (booleans toggle)
//	space        toggle a boolean
//	+/-          nudge a number by its step
//	s            save now
//	q            save pending changes and quit
package tui
