package sdk

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var (
	ErrMissingDiscriminator = errors.New("missing variant discriminator")
	ErrUnknownVariant       = errors.New("unknown variant")
)

// MarshalVariant encodes v as a JSON object with key set to typ, ahead of
// v's own fields. v must encode to an object.
func MarshalVariant(key, typ string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) < 2 || body[0] != '{' {
		return nil, fmt.Errorf("variant %q does not encode to an object", typ)
	}

	k, err := json.Marshal(key)
	if err != nil {
		return nil, err
	}
	t, err := json.Marshal(typ)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(t)
	if rest := bytes.TrimSpace(body[1:]); len(rest) > 0 && rest[0] != '}' {
		buf.WriteByte(',')
	}
	buf.Write(body[1:])
	return buf.Bytes(), nil
}

// TypeExtract returns the discriminator stored under key in the JSON object b.
func TypeExtract(key string, b []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return "", err
	}
	raw, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingDiscriminator, key)
	}
	var typ string
	if err := json.Unmarshal(raw, &typ); err != nil {
		return "", fmt.Errorf("discriminator %q: %w", key, err)
	}
	return typ, nil
}

// UnknownVariant is returned by generated decode helpers for discriminators
// they do not recognize.
func UnknownVariant(iface, typ string) error {
	return fmt.Errorf("%w: %q is not a %s", ErrUnknownVariant, typ, iface)
}

// Unmarshal decodes b into v with the JSON codec the runtime uses on the
// wire. Generated variant decoders go through it.
func Unmarshal(b []byte, v any) error {
	return json.Unmarshal(b, v)
}

// VariantSetter decodes one JSON member into a variant-typed field.
type VariantSetter func([]byte) error

// SetVariant returns a VariantSetter that stores the result of decode in dst.
func SetVariant[I any](dst *I, decode func([]byte) (I, error)) VariantSetter {
	return func(raw []byte) error {
		v, err := decode(raw)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// SetVariantSlice is SetVariant for a JSON array of variants.
func SetVariantSlice[I any](dst *[]I, decode func([]byte) (I, error)) VariantSetter {
	return func(raw []byte) error {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return err
		}
		out := make([]I, 0, len(items))
		for i, item := range items {
			v, err := decode(item)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			out = append(out, v)
		}
		*dst = out
		return nil
	}
}

// UnmarshalWithVariants decodes the JSON object b into dst, except for the
// members named in fields, which are handed to their setters. dst should be
// a pointer to an alias of the target struct type, so its own UnmarshalJSON
// is not re-entered.
func UnmarshalWithVariants(b []byte, dst any, fields map[string]VariantSetter) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(b, &members); err != nil {
		return err
	}

	for name, set := range fields {
		raw, ok := members[name]
		if !ok {
			continue
		}
		delete(members, name)
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		if err := set(raw); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
	}

	rest, err := json.Marshal(members)
	if err != nil {
		return err
	}
	return json.Unmarshal(rest, dst)
}
