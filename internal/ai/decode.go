package ai

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// DecodeObject decodes the substring between the first '{' and the last
// '}' of raw into v. Nothing is repaired: prose, code fences or truncation
// outside that span are ignored, anything inside must be valid JSON.
func DecodeObject(raw string, v any) error {
	return decodeSpan(raw, '{', '}', v)
}

// DecodeArray is DecodeObject for '[' and ']'.
func DecodeArray(raw string, v any) error {
	return decodeSpan(raw, '[', ']', v)
}

func decodeSpan(raw string, open, close byte, v any) error {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start == -1 || end == -1 || end < start {
		return errors.Wrapf(ErrMalformedOutput, "no %c...%c span in model output", open, close)
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), v); err != nil {
		return errors.Wrapf(ErrMalformedOutput, "decoding model output: %v", err)
	}
	return nil
}
