package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"

	"github.com/muurk/squixl-settings/internal/settings"
	"github.com/muurk/squixl-settings/internal/ui"
)

type format string

const (
	formatDetailed format = "detailed"
	formatCompact  format = "compact"
	formatJSON     format = "json"
	formatYAML     format = "yaml"
)

func parseFormat(s string) (format, error) {
	switch f := format(strings.ToLower(s)); f {
	case formatDetailed, formatCompact, formatJSON, formatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (valid: detailed, compact, json, yaml)", s)
}

// optionView is the structured rendering of one option.
type optionView struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Kind  string `json:"kind" yaml:"kind"`
	Value string `json:"value" yaml:"value"`
	Hint  string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// groupView is the structured rendering of one settings group.
type groupView struct {
	Name     string       `json:"name" yaml:"name"`
	Category string       `json:"category" yaml:"category"`
	Options  []optionView `json:"options" yaml:"options"`
}

func viewOption(o settings.Option) optionView {
	return optionView{
		Key:   o.Key(),
		Label: o.Label(),
		Kind:  o.Kind().String(),
		Value: o.Display(),
		Hint:  describeRange(o.Describe()),
	}
}

func viewGroup(g *settings.Group) groupView {
	v := groupView{Name: g.Name, Category: g.Category.String()}
	for _, o := range g.Options() {
		v.Options = append(v.Options, viewOption(o))
	}
	return v
}

// describeRange summarises the accepted input of an option.
func describeRange(d settings.Descriptor) string {
	switch d.Kind {
	case settings.KindBool:
		return d.OffLabel + "/" + d.OnLabel
	case settings.KindIntRange, settings.KindFloatRange:
		if d.HasUnset {
			return fmt.Sprintf("%g..%g step %g, %g unset", d.Min, d.Max, d.Step, d.Unset)
		}
		return fmt.Sprintf("%g..%g step %g", d.Min, d.Max, d.Step)
	case settings.KindString:
		if d.MaxLength >= 0 {
			return fmt.Sprintf("%d..%d chars", d.MinLength, d.MaxLength)
		}
		if d.MinLength > 0 {
			return fmt.Sprintf("at least %d chars", d.MinLength)
		}
	case settings.KindColor:
		return "#RRGGBB"
	case settings.KindWiFiStations:
		return fmt.Sprintf("up to %d stations", d.Capacity)
	}
	return ""
}

// writeGroups renders groups in the detailed or compact layout.
func writeGroups(w io.Writer, f format, groups []*settings.Group) {
	for i, g := range groups {
		if f == formatCompact {
			for _, o := range g.Options() {
				fmt.Fprintf(w, "%s=%s\n", o.Key(), o.Display())
			}
			continue
		}

		params := make([]ui.Detail, 0, len(g.Options()))
		for _, o := range g.Options() {
			params = append(params, ui.D(o.Label(), o.Display()))
		}
		fmt.Fprintln(w, ui.NewHeader(g.Name, g.Description, params...).Render())
		if i < len(groups)-1 {
			fmt.Fprintln(w)
		}
	}
}

// writeStructured writes v as indented JSON or YAML.
func writeStructured(w io.Writer, f format, v any) error {
	switch f {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return writeDocument(w, data)
	}
}

// writeDocument pretty-prints a JSON document, colored when stdout is a
// terminal.
func writeDocument(w io.Writer, doc []byte) error {
	out := pretty.Pretty(doc)
	if w == io.Writer(os.Stdout) && ui.IsTerminal(os.Stdout) {
		out = pretty.Color(out, nil)
	}
	_, err := w.Write(out)
	return err
}
