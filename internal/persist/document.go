package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/muurk/squixl-settings/internal/settings"
)

var prettyOptions = &pretty.Options{Width: 80, Indent: "  "}

// encode serializes cfg on top of base, the last saved document.
// Keys in base the model does not know are carried over unchanged.
func encode(cfg *settings.Config, base []byte) ([]byte, error) {
	model, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}

	if len(base) == 0 || !gjson.ValidBytes(base) || !gjson.ParseBytes(base).IsObject() {
		return pretty.PrettyOptions(model, prettyOptions), nil
	}

	doc := append([]byte(nil), base...)
	doc, err = merge(doc, "", gjson.ParseBytes(model))
	if err != nil {
		return nil, fmt.Errorf("failed to merge settings: %w", err)
	}
	return pretty.PrettyOptions(doc, prettyOptions), nil
}

// merge writes every member of value into doc under prefix. Objects present
// on both sides are merged member by member; everything else is replaced.
func merge(doc []byte, prefix string, value gjson.Result) ([]byte, error) {
	var err error
	value.ForEach(func(key, v gjson.Result) bool {
		path := escapeKey(key.String())
		if prefix != "" {
			path = prefix + "." + path
		}
		if v.IsObject() && gjson.GetBytes(doc, path).IsObject() {
			doc, err = merge(doc, path, v)
		} else {
			doc, err = sjson.SetRawBytes(doc, path, []byte(v.Raw))
		}
		return err == nil
	})
	return doc, err
}

var keyEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)

func escapeKey(k string) string {
	return keyEscaper.Replace(k)
}

// decode parses a migrated document into a defaulted Config.
// Fields with a mismatched JSON type keep their default; the first such
// mismatch is returned so the caller can log it.
func decode(data []byte) (settings.Config, *json.UnmarshalTypeError, error) {
	cfg := settings.Defaults()

	var mismatch *json.UnmarshalTypeError
	if err := json.Unmarshal(data, &cfg); err != nil && !errors.As(err, &mismatch) {
		return settings.Config{}, nil, err
	}

	cfg.Normalize()
	return cfg, mismatch, nil
}
