package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DecodeStrict decodes a JSON object body into dst.
//
// Keys listed in protected are rejected (one field error per key) instead
// of being silently dropped, and keys unknown to dst are rejected as well.
// The returned error is a validation.Errors so callers can expose
// per-field details.
func DecodeStrict(data []byte, dst interface{}, protected ...string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return validation.Errors{"body": errors.New("must be a JSON object")}
	}

	fieldErrs := validation.Errors{}
	for _, key := range protected {
		if _, ok := raw[key]; ok {
			fieldErrs[key] = errors.New("is read-only and cannot be set")
		}
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return validation.Errors{"body": fmt.Errorf("invalid body: %w", err)}
	}
	return nil
}
