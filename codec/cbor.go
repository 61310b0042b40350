package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// CBORCodec encodes items as canonical CBOR (RFC 7049 canonical form). Map
// keys and struct fields are sorted during encoding, so the same logical
// value produces byte-identical output regardless of construction order,
// process, or platform.
type CBORCodec struct {
	em cbor.EncMode
}

// NewCBORCodec returns a codec using the canonical CBOR encoding mode.
func NewCBORCodec() (CBORCodec, error) {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return CBORCodec{}, err
	}
	return CBORCodec{em: em}, nil
}

func (c CBORCodec) Marshal(v any) ([]byte, error) {
	return c.em.Marshal(v)
}
