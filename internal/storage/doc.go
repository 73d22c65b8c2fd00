// Package storage is the filesystem collaborator of the settings engine.
//
// The device stores its files on a small flash filesystem with a flat,
// path-based namespace. On a host the same layout lives under a data
// directory: Open returns an afero.Fs rooted there, so "/settings.json"
// resolves to <dir>/settings.json. Tests use afero.NewMemMapFs directly.
//
// WriteAtomic is the only way the engine writes the primary file: the data is
// written and synced to a staging path first and then renamed over the
// target, so a power loss leaves either the old or the new file, never a torn
// one.
package storage
