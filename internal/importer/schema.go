package importer

import (
	"encoding/json"
	"fmt"
	"io"
)

// SnapshotSchema is the top-level JSON structure of an exported board.
// Task keys stay strings here so a malformed key is reported by validation
// instead of failing the whole decode.
type SnapshotSchema struct {
	Roles map[string]RoleImport `json:"roles"`
	Tasks map[string]TaskImport `json:"tasks"`
}

// RoleImport is one role record in the snapshot file.
type RoleImport struct {
	Type     string             `json:"type"`
	Name     string             `json:"name"`
	Nickname *string            `json:"nickname,omitempty"`
	Group    *string            `json:"group,omitempty"`
	Comments *string            `json:"comments,omitempty"`
	Target   map[string]float64 `json:"target"`
}

// TaskImport is one task record in the snapshot file.
type TaskImport struct {
	Roles    map[string]string `json:"roles"`
	Period   string            `json:"period"`
	Value    *float64          `json:"value"`
	Comments *string           `json:"comments,omitempty"`
}

// LoadSnapshot reads and parses a snapshot from r.
func LoadSnapshot(r io.Reader) (*SnapshotSchema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return ParseSnapshot(data)
}

// ParseSnapshot decodes snapshot JSON. A payload that is not a JSON object
// with the expected shape fails here, before anything is written.
func ParseSnapshot(data []byte) (*SnapshotSchema, error) {
	var schema SnapshotSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	if schema.Roles == nil && schema.Tasks == nil {
		return nil, fmt.Errorf("parsing snapshot: missing roles and tasks")
	}
	return &schema, nil
}
