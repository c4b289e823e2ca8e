package dto

import "encoding/json"

// OptionalString distinguishes a field that was omitted from one that was
// explicitly set, including an explicit null. Partial-update payloads use
// it for nullable columns where `"image": null` must clear the stored
// value while omitting the key must retain it.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON is only invoked when the key is present in the payload,
// which is what flips Set.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON round-trips the wrapped value.
func (o OptionalString) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}
