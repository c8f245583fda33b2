// pkg/codec/jsoncodec.go
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Codec (de)serializes click requests and responses.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

// ErrTrailing is returned when a body holds more than one JSON value.
var ErrTrailing = errors.New("json trailing content")

type jsonStrict struct{}

// JSONStrict rejects unknown fields and trailing content, and never
// HTML-escapes output so messages reach the browser verbatim.
var JSONStrict Codec = jsonStrict{}

func (jsonStrict) Marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (jsonStrict) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	// must be EOF
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return ErrTrailing
	}
	return nil
}

func (jsonStrict) ContentType() string { return "application/json" }
