package codec

import (
	"encoding"
	"errors"
	"fmt"
)

var ErrUnsupportedType = errors.New("codec: item type requires a structured codec")

// RawCodec passes through items that already are bytes: []byte unchanged,
// string as its raw bytes, and any encoding.BinaryMarshaler via
// MarshalBinary. Use it when items are produced by another system and the
// bytes themselves are the canonical form. Every other type fails with
// ErrUnsupportedType.
type RawCodec struct{}

func (RawCodec) Marshal(v any) ([]byte, error) {
	switch it := v.(type) {
	case []byte:
		return it, nil
	case string:
		return []byte(it), nil
	case encoding.BinaryMarshaler:
		return it.MarshalBinary()
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}
