package redisbloom

import (
	"time"

	"go.uber.org/zap"

	"github.com/jimexist/redis-bloom-filter/codec"
)

type Options struct {
	TTL   time.Duration
	Codec codec.Codec
	Log   *zap.SugaredLogger
}

// Option configures a Filter at construction time.
type Option func(*Options)

// WithTTL sets a time to live applied to both of the filter's keys when this
// instance performs the initialization. The store encodes expiry in whole
// seconds, so sub-second durations round up. Later writes never refresh the
// expiry; once either key lapses the filter behaves as never initialized.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.TTL = ttl
	}
}

// WithCodec replaces the default canonical CBOR item encoding. All writers
// and readers of one named filter must agree on the codec or membership
// answers diverge.
func WithCodec(c codec.Codec) Option {
	return func(o *Options) {
		o.Codec = c
	}
}

// WithLogger supplies a logger for the sparse lifecycle diagnostics. The
// default discards them.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(o *Options) {
		o.Log = log
	}
}
