package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ohler55/ojg/oj"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// ParseDocument decodes UTF-8 JSON text into a generic value.
// Objects are decoded as map[string]any, arrays as []any, integers as int64.
func ParseDocument(data []byte) (any, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrDecode, errors.New("empty document"))
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return doc, nil
}

// ReadDocument reads r completely and decodes its content.
func ReadDocument(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return ParseDocument(data)
}
