package schema

import (
	"bytes"
	"encoding/json"
)

// Encode serializes doc into the libnftables JSON form consumed by
// "nft -j -f -". Operators such as "&" and "<<" are written unescaped.
func Encode(doc Document) ([]byte, error) {
	b, err := marshal(doc)
	if err != nil {
		return nil, &EncodeError{Err: err}
	}
	return b, nil
}

// EncodeIndent is Encode with indentation, used for human-facing output.
func EncodeIndent(doc Document, prefix, indent string) ([]byte, error) {
	b, err := Encode(doc)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, prefix, indent); err != nil {
		return nil, &EncodeError{Err: err}
	}
	return out.Bytes(), nil
}

// marshal is json.Marshal without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// wrap renders {"key": body}.
func wrap(key string, body any) ([]byte, error) {
	b, err := marshal(body)
	if err != nil {
		return nil, err
	}
	return wrapRaw(key, b)
}

func wrapRaw(key string, body []byte) ([]byte, error) {
	k, err := marshal(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(k)+len(body)+3)
	out = append(out, '{')
	out = append(out, k...)
	out = append(out, ':')
	out = append(out, body...)
	out = append(out, '}')
	return out, nil
}

// wrapNull renders {"key": null}.
func wrapNull(key string) ([]byte, error) {
	return wrapRaw(key, []byte("null"))
}
