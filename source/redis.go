package source

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// Decoder decodes authoritative bytes into V. Satisfied by any codec.Codec[V].
type Decoder[V any] interface {
	Decode([]byte) (V, error)
}

// Redis reads authoritative values from a redis keyspace. Useful when a
// redis instance is the system of record (or a durable replica of one)
// and a faster local provider fronts it.
type Redis[V any] struct {
	rdb    goredis.UniversalClient
	prefix string
	dec    Decoder[V]
}

var _ Source[struct{}] = (*Redis[struct{}])(nil)

// NewRedis builds a Source reading keys under prefix (joined with ":").
func NewRedis[V any](client goredis.UniversalClient, prefix string, dec Decoder[V]) (*Redis[V], error) {
	if client == nil {
		return nil, errors.New("redis source: nil client")
	}
	if dec == nil {
		return nil, errors.New("redis source: nil decoder")
	}
	return &Redis[V]{rdb: client, prefix: prefix, dec: dec}, nil
}

func (s *Redis[V]) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *Redis[V]) Fetch(ctx context.Context, key string) (V, error) {
	var zero V
	b, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err == goredis.Nil {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, err // transport/server error
	}
	v, err := s.dec.Decode(b)
	if err != nil {
		return zero, fmt.Errorf("redis source: decode %q: %w", key, err)
	}
	return v, nil
}
