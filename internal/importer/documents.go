package importer

import (
	"fmt"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/planworks/internal/schedule"
)

// ParseTOML decodes a TOML schedule:
//
//	project_name = "Depot"
//	[[activities]]
//	id = "A1"
//	start = "2024-01-01"
//	finish = "2024-01-10"
//	[[relationships]]
//	predecessor_id = "A1"
//	successor_id = "A2"
//	type = "FS"
func ParseTOML(data []byte) (*schedule.Project, error) {
	var p schedule.Project
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding TOML: %w", err)
	}
	return &p, nil
}

// ParseYAML decodes a YAML schedule with the same keys as ParseTOML.
func ParseYAML(data []byte) (*schedule.Project, error) {
	var p schedule.Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}
	return &p, nil
}
