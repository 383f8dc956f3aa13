package porter

import (
	"encoding/json"
	"fmt"
)

// DecodeJSON parses a JSON file holding either one record or an array of
// records (the full-backup shape).
func DecodeJSON(data []byte) ([]Record, error) {
	trimmed := firstNonSpace(data)
	if trimmed == '[' {
		var recs []Record
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, fmt.Errorf("porter: decode json: %w", err)
		}
		return recs, nil
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("porter: decode json: %w", err)
	}
	return []Record{rec}, nil
}

// EncodeJSON renders records as an indented JSON array (full backup).
func EncodeJSON(recs []Record) ([]byte, error) {
	out, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("porter: encode json: %w", err)
	}
	return out, nil
}

func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b
		}
	}
	return 0
}
