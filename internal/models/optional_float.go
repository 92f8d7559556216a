package models

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

// OptionalFloat is a float64 that may be undefined. Undefined is distinct from zero
// and is never represented by NaN. It encodes as null in JSON and YAML.
type OptionalFloat struct {
	value   float64
	defined bool
}

func Defined(v float64) OptionalFloat {
	return OptionalFloat{value: v, defined: true}
}

func Undefined() OptionalFloat {
	return OptionalFloat{}
}

func (o OptionalFloat) IsDefined() bool {
	return o.defined
}

// Value returns the value and whether it is defined.
func (o OptionalFloat) Value() (float64, bool) {
	return o.value, o.defined
}

// OrElse returns the value if defined, otherwise fallback.
func (o OptionalFloat) OrElse(fallback float64) float64 {
	if !o.defined {
		return fallback
	}
	return o.value
}

// Ptr returns nil when undefined. Used for columnar exports with optional fields.
func (o OptionalFloat) Ptr() *float64 {
	if !o.defined {
		return nil
	}
	v := o.value
	return &v
}

func (o OptionalFloat) String() string {
	if !o.defined {
		return "-"
	}
	return strconv.FormatFloat(o.value, 'f', 2, 64)
}

func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.defined {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Defined(v)
	return nil
}

func (o OptionalFloat) MarshalYAML() (interface{}, error) {
	if !o.defined {
		return nil, nil
	}
	return o.value, nil
}

func (o *OptionalFloat) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*o = Undefined()
		return nil
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return err
	}
	*o = Defined(v)
	return nil
}
