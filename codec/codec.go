package codec

// Codec encodes/decodes values V to []byte for storage. It is the single
// serialization contract shared by the cache and the source boundary, so
// both always agree on one canonical value shape.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
