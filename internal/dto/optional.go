package dto

import (
	"bytes"
	"encoding/json"
)

// OptionalUint64 distinguishes an absent field from an explicit null in a
// partial update body.
type OptionalUint64 struct {
	Set   bool
	Value *uint64
}

// UnmarshalJSON is only called when the key is present.
func (o *OptionalUint64) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v uint64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}
