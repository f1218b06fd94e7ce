package model

import "encoding/json"

// EncodeBlob renders a typed value as the opaque JSON bytes stored in a
// metadata/tags/categories/branches/implementation_steps column. Encoding a
// value this package produces never fails in practice, but the error is
// still surfaced so callers can decide whether a zero blob is acceptable.
func EncodeBlob(v any) ([]byte, error) {
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// DecodeBlob parses a stored JSON blob back into v. An empty blob leaves v
// untouched; a blob that fails to decode is returned as an error.
func DecodeBlob(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// DecodeBlobOrZero decodes into v, swallowing decode errors and leaving v at
// its zero value instead. For read paths where a corrupt blob must not
// crash the caller (spec.md §9: "invalidate a row if decode fails").
func DecodeBlobOrZero(data []byte, v any) {
	_ = DecodeBlob(data, v)
}
