package importer

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexanderramin/loadboard/internal/domain"
)

const exportIndent = "    "

// MarshalSnapshot renders snap as indented JSON. Map keys are emitted in
// sorted order, so equal snapshots produce identical bytes.
func MarshalSnapshot(snap *domain.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(FromSnapshot(snap), "", exportIndent)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// EncodeSnapshot writes snap to w.
func EncodeSnapshot(w io.Writer, snap *domain.Snapshot) error {
	data, err := MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
