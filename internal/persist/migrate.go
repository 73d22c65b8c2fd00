package persist

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/muurk/squixl-settings/internal/settings"
)

// migration upgrades a document from version From to From+1.
type migration struct {
	From        int
	Description string
	Migrate     func(doc []byte) ([]byte, error)
}

// migrations is ordered by From and covers every version below current.
var migrations = []migration{
	{
		From:        1,
		Description: "rename mqtt.retry_attemps to mqtt.retry_attempts",
		Migrate:     renameKey("mqtt.retry_attemps", "mqtt.retry_attempts"),
	},
}

// documentVersion reads the ver field. Documents written before the field
// existed are version 1.
func documentVersion(doc []byte) (int, error) {
	v := gjson.GetBytes(doc, "ver")
	if !v.Exists() {
		return 1, nil
	}
	if v.Type != gjson.Number || v.Num != float64(int(v.Num)) {
		return 0, fmt.Errorf("version field is not an integer: %s", v.Raw)
	}
	return int(v.Num), nil
}

// migrate brings doc up to settings.CurrentVersion. It returns the migrated
// document and the version it started at.
func migrate(doc []byte) ([]byte, int, error) {
	from, err := documentVersion(doc)
	if err != nil {
		return nil, 0, err
	}
	if from < 1 {
		return nil, from, fmt.Errorf("unsupported document version %d", from)
	}
	if from > settings.CurrentVersion {
		return nil, from, fmt.Errorf("document version %d is newer than supported version %d", from, settings.CurrentVersion)
	}

	out := doc
	for _, m := range migrations {
		if m.From < from {
			continue
		}
		if out, err = m.Migrate(out); err != nil {
			return nil, from, fmt.Errorf("migration from version %d failed: %w", m.From, err)
		}
		if out, err = sjson.SetBytes(out, "ver", m.From+1); err != nil {
			return nil, from, fmt.Errorf("migration from version %d failed: %w", m.From, err)
		}
	}
	return out, from, nil
}

// renameKey moves the value at oldPath to newPath unless newPath is already set.
func renameKey(oldPath, newPath string) func([]byte) ([]byte, error) {
	return func(doc []byte) ([]byte, error) {
		old := gjson.GetBytes(doc, oldPath)
		if !old.Exists() {
			return doc, nil
		}
		var err error
		if !gjson.GetBytes(doc, newPath).Exists() {
			if doc, err = sjson.SetRawBytes(doc, newPath, []byte(old.Raw)); err != nil {
				return nil, err
			}
		}
		return sjson.DeleteBytes(doc, oldPath)
	}
}
