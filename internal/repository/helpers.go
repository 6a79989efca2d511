package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Key sigils separating the two entity families in the shared key space.
const (
	roleSigil = "#"
	taskSigil = ":"
)

func roleKey(id string) string {
	return roleSigil + id
}

func taskKey(id int) string {
	return taskSigil + strconv.Itoa(id)
}

// parseTaskKey returns the numeric id of a task key. Keys in the task
// family whose suffix is not a decimal integer are not tasks.
func parseTaskKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, taskSigil)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil || id < 0 || strconv.Itoa(id) != rest {
		return 0, false
	}
	return id, true
}

func encode(kind string, v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", kind, err)
	}
	return data, nil
}

func decode(kind, key string, raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding %s %q: %w", kind, key, err)
	}
	return nil
}
