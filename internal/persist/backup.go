package persist

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/muurk/squixl-settings/internal/logging"
	"github.com/muurk/squixl-settings/internal/storage"
)

// BackupInfo describes one numbered backup file.
type BackupInfo struct {
	Number  int       `json:"number" yaml:"number"`
	Path    string    `json:"path" yaml:"path"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// Backups lists the numbered backups, oldest first. Files sharing the prefix
// without a numeric suffix are ignored.
func (e *Engine) Backups() ([]BackupInfo, error) {
	entries, err := afero.ReadDir(e.fs, e.opts.BackupDir)
	if err != nil {
		return nil, newStoreError(ErrTypeBackup, "list", e.opts.BackupDir, err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		n, ok := parseBackupNumber(entry.Name(), e.opts.BackupPrefix)
		if !ok {
			continue
		}
		backups = append(backups, BackupInfo{
			Number:  n,
			Path:    e.backupPath(n),
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Number < backups[j].Number
	})
	return backups, nil
}

// Backup copies the primary file to the next numbered backup and rotates old
// ones. It returns the number written.
func (e *Engine) Backup() (int, error) {
	if !storage.Exists(e.fs, e.opts.Path) {
		return 0, newStoreError(ErrTypeBackup, "backup", e.opts.Path, errors.New("nothing committed yet"))
	}

	backups, err := e.Backups()
	if err != nil {
		return 0, err
	}

	next := e.issued
	if len(backups) > 0 {
		next = max(next, backups[len(backups)-1].Number)
	}
	next++

	path := e.backupPath(next)
	if err := storage.Copy(e.fs, e.opts.Path, path); err != nil {
		return 0, newStoreError(ErrTypeBackup, "backup", path, err)
	}
	e.issued = next
	logging.LogBackup(path, next)

	if err := e.rotate(); err != nil {
		logging.LogStorageFailure("rotate", e.opts.BackupDir, err)
	}
	return next, nil
}

// rotate deletes the lowest numbered backups until at most MaxBackups remain.
func (e *Engine) rotate() error {
	backups, err := e.Backups()
	if err != nil {
		return err
	}
	if len(backups) <= e.opts.MaxBackups {
		return nil
	}

	excess := backups[:len(backups)-e.opts.MaxBackups]
	removed := make([]string, 0, len(excess))
	var errs []error
	for _, b := range excess {
		if err := e.fs.Remove(b.Path); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, b.Path)
	}

	logging.LogRotate(removed, len(backups)-len(removed))
	if len(errs) > 0 {
		return newStoreError(ErrTypeBackup, "rotate", e.opts.BackupDir, errors.Join(errs...))
	}
	return nil
}

// Restore validates backup n, commits it atomically as the primary file and
// loads it into the model.
func (e *Engine) Restore(n int) error {
	path := e.backupPath(n)
	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return newStoreError(ErrTypeBackup, "restore", path, err)
	}

	cfg, doc, _, err := e.parse(data)
	if err != nil {
		return fmt.Errorf("backup %d is not restorable: %w", n, err)
	}

	if err := storage.WriteAtomic(e.fs, e.opts.Path, e.opts.TempPath, doc); err != nil {
		logging.LogStorageFailure("restore", e.opts.Path, err)
		return newStoreError(ErrTypeWrite, "restore", e.opts.Path, err)
	}

	*e.cfg = cfg
	e.saved = doc
	e.dirty = false
	e.forceSave = false
	e.state = StateLoaded
	e.lastCommit = e.clock.Now()

	logging.Info("Settings restored from backup",
		zap.Int("number", n),
		zap.String("path", path),
	)
	return nil
}

func (e *Engine) backupPath(n int) string {
	return filepath.Join(e.opts.BackupDir, e.opts.BackupPrefix+strconv.Itoa(n))
}

// parseBackupNumber extracts N from prefix+N. N must be all digits.
func parseBackupNumber(name, prefix string) (int, bool) {
	suffix, ok := strings.CutPrefix(name, prefix)
	if !ok || suffix == "" {
		return 0, false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return n, true
}
