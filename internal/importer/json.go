package importer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/papapumpkin/planworks/internal/schedule"
)

// JSONShape is the layout of a JSON schedule document.
type JSONShape string

// Recognised JSON shapes.
const (
	// ShapeArray is a bare array of activities.
	ShapeArray JSONShape = "array"
	// ShapeProject is an object with projectName, activities and relationships.
	ShapeProject JSONShape = "project"
	// ShapeComprehensive is a full export that also carries layout and
	// visual settings, which are ignored on import.
	ShapeComprehensive JSONShape = "comprehensive"
	// ShapeUnknown is anything else.
	ShapeUnknown JSONShape = "unknown"
)

// errInvalidJSON is returned for malformed JSON documents.
var errInvalidJSON = errors.New("invalid JSON")

// DetectJSONShape classifies a JSON document without decoding it.
func DetectJSONShape(data []byte) JSONShape {
	if !gjson.ValidBytes(data) {
		return ShapeUnknown
	}
	root := gjson.ParseBytes(data)
	switch {
	case root.IsArray():
		return ShapeArray
	case !root.IsObject():
		return ShapeUnknown
	case root.Get("activities").Exists() && root.Get("layout").Exists() && root.Get("visualSettings").Exists():
		return ShapeComprehensive
	default:
		return ShapeProject
	}
}

// ParseJSON decodes any of the JSON shapes. An object without activities
// yields an empty project that keeps its name.
func ParseJSON(data []byte) (*schedule.Project, error) {
	shape := DetectJSONShape(data)
	if shape == ShapeUnknown {
		return nil, fmt.Errorf("%w: expected an array or object", errInvalidJSON)
	}

	p := &schedule.Project{}
	if shape == ShapeArray {
		if err := json.Unmarshal(data, &p.Activities); err != nil {
			return nil, fmt.Errorf("decoding activities: %w", err)
		}
		return p, nil
	}

	root := gjson.ParseBytes(data)
	p.ProjectName = root.Get("projectName").String()

	acts := root.Get("activities")
	if !acts.Exists() || acts.Type == gjson.Null {
		return p, nil
	}
	if err := json.Unmarshal([]byte(acts.Raw), &p.Activities); err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}

	if rels := root.Get("relationships"); rels.Exists() && rels.Type != gjson.Null {
		if err := json.Unmarshal([]byte(rels.Raw), &p.Relationships); err != nil {
			return nil, fmt.Errorf("decoding relationships: %w", err)
		}
	}
	return p, nil
}
