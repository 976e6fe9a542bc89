package requestcache

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Fingerprint returns a canonical string for a request payload. Two payloads
// get the same fingerprint when they hold the same keys and values: object keys
// are sorted at every nesting level, array order is kept.
//
// The payload is reduced to maps, slices and primitives through its JSON form,
// so struct field order and map iteration order never leak into the key.
func Fingerprint(req any) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("fingerprint: marshal request: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var generic any
	if err := dec.Decode(&generic); err != nil {
		return "", fmt.Errorf("fingerprint: decode request: %w", err)
	}

	// encoding/json writes map keys in sorted order.
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("fingerprint: marshal canonical form: %w", err)
	}
	return string(canonical), nil
}
