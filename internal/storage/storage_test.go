package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestWriteAtomic(t *testing.T) {
	fs := afero.NewMemMapFs()

	if err := WriteAtomic(fs, "/settings.json", "/tmp_settings.json", []byte(`{"ver":2}`)); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	got, err := afero.ReadFile(fs, "/settings.json")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != `{"ver":2}` {
		t.Errorf("primary = %s, want {\"ver\":2}", got)
	}
	if Exists(fs, "/tmp_settings.json") {
		t.Error("staging file left behind after a successful write")
	}
}

func TestWriteAtomicFailureKeepsPrimary(t *testing.T) {
	tests := []struct {
		name   string
		inject func(*FaultFs)
	}{
		{"Open staging fails", func(f *FaultFs) { f.FailWritePrefix = "/tmp_" }},
		{"Rename fails", func(f *FaultFs) { f.FailRename = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := afero.NewMemMapFs()
			if err := afero.WriteFile(mem, "/settings.json", []byte("old"), FileMode); err != nil {
				t.Fatal(err)
			}
			fs := NewFaultFs(mem)
			tt.inject(fs)

			err := WriteAtomic(fs, "/settings.json", "/tmp_settings.json", []byte("new"))
			if !errors.Is(err, ErrInjected) {
				t.Fatalf("WriteAtomic() error = %v, want ErrInjected", err)
			}

			got, _ := afero.ReadFile(mem, "/settings.json")
			if string(got) != "old" {
				t.Errorf("primary = %q after failed write, want old", got)
			}
			if Exists(mem, "/tmp_settings.json") {
				t.Error("staging file left behind after a failed write")
			}
		})
	}
}

func TestCopy(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/a.json", []byte("payload"), FileMode); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/b.json", []byte("stale and longer"), FileMode); err != nil {
		t.Fatal(err)
	}

	if err := Copy(fs, "/a.json", "/b.json"); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	got, _ := afero.ReadFile(fs, "/b.json")
	if string(got) != "payload" {
		t.Errorf("Copy() dst = %q, want payload", got)
	}

	if err := Copy(fs, "/missing.json", "/c.json"); err == nil {
		t.Error("Copy() from a missing file should fail")
	}
	if Exists(fs, "/c.json") {
		t.Error("Copy() from a missing file should not create dst")
	}
}

func TestOpenRootsAtDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	fs, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := WriteAtomic(fs, "/settings.json", "/tmp_settings.json", []byte("{}")); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "settings.json")); err != nil {
		t.Errorf("file not created under %s: %v", dir, err)
	}
}
