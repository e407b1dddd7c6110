// Package importer reads schedules from files: the application's JSON
// exports, Primavera XER table dumps, and TOML or YAML documents with the
// same shape as the JSON project object.
package importer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/papapumpkin/planworks/internal/schedule"
)

// Format identifies an import file format.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatXER  Format = "xer"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned when a format name or file extension is not
// recognised.
var ErrUnknownFormat = errors.New("unknown schedule format")

// ParseFormat resolves a format name such as "json" or "yml".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "json":
		return FormatJSON, nil
	case "xer":
		return FormatXER, nil
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, filepath.Base(path))
	}
	return ParseFormat(ext)
}

// Load reads and parses the schedule at path. An empty format is inferred
// from the extension.
func Load(path string, format Format) (*schedule.Project, error) {
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule: %w", err)
	}

	p, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if p.ProjectName == "" {
		p.ProjectName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return p, nil
}

// Parse decodes data in the given format. Relationship types are
// normalized where they can be; unrecognised ones are kept as written so
// validation can report them.
func Parse(data []byte, format Format) (*schedule.Project, error) {
	var (
		p   *schedule.Project
		err error
	)
	switch format {
	case FormatJSON:
		p, err = ParseJSON(data)
	case FormatXER:
		p, err = ParseXER(data)
	case FormatTOML:
		p, err = ParseTOML(data)
	case FormatYAML:
		p, err = ParseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	finish(p)
	return p, nil
}

// finish normalizes relationship types and rebuilds the predecessor and
// successor views when the project has relationships.
func finish(p *schedule.Project) {
	if p.Activities == nil {
		p.Activities = []schedule.Activity{}
	}
	for i, r := range p.Relationships {
		if t, err := schedule.ParseRelationType(string(r.Type)); err == nil {
			p.Relationships[i].Type = t
		}
	}
	if len(p.Relationships) > 0 {
		p.Activities = schedule.Link(p.Activities, p.Relationships)
	}
}
