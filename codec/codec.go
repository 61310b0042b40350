// Package codec provides the canonical item serializations used to hash
// filter items. The filter never decodes an item, so a Codec only encodes.
package codec

// Codec produces the canonical byte serialization of a filter item. The
// encoding must be total (every valid item has exactly one encoding) and
// stable across processes and restarts: the bytes are the sole input to the
// filter's hashing, so two encodings of the same logical item must be
// identical or membership answers diverge between writers.
type Codec interface {
	Marshal(v any) ([]byte, error)
}
