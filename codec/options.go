package codec

import (
	"fmt"

	"github.com/arloliu/vpack/endian"
	"github.com/arloliu/vpack/internal/options"
	"github.com/arloliu/vpack/registry"
)

// DefaultMaxDepth is the default nesting budget for a pass. Value graphs
// deeper than this fail with errs.ErrDepthLimit instead of exhausting the
// goroutine stack. Sharing and cycles do not count against the budget; only
// genuine nesting does.
const DefaultMaxDepth = 1024

type config struct {
	registry *registry.Registry
	fnCodec  FunctionCodec
	engine   endian.EndianEngine
	maxDepth int
}

// Option configures an Encoder or Decoder.
type Option = options.Option[*config]

func newConfig(opts ...Option) (*config, error) {
	cfg := &config{
		registry: registry.Default,
		fnCodec:  stubFunctionCodec{},
		engine:   endian.GetLittleEndianEngine(),
		maxDepth: DefaultMaxDepth,
	}

	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithRegistry selects the type/resource registry consulted by the pass
// instead of the process-wide default.
func WithRegistry(r *registry.Registry) Option {
	return options.New(func(cfg *config) error {
		if r == nil {
			return fmt.Errorf("registry must not be nil")
		}
		cfg.registry = r

		return nil
	})
}

// WithFunctionCodec selects the codec used for function blobs. Without one,
// encountering a function value fails with errs.ErrNoFunctionCodec.
func WithFunctionCodec(fc FunctionCodec) Option {
	return options.New(func(cfg *config) error {
		if fc == nil {
			return fmt.Errorf("function codec must not be nil")
		}
		cfg.fnCodec = fc

		return nil
	})
}

// WithLittleEndian selects little-endian number payloads. This is the
// default and the wire convention; a stream must be decoded with the same
// byte order it was encoded with.
func WithLittleEndian() Option {
	return options.NoError(func(cfg *config) {
		cfg.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian selects big-endian number payloads, for interop with
// big-endian producers.
func WithBigEndian() Option {
	return options.NoError(func(cfg *config) {
		cfg.engine = endian.GetBigEndianEngine()
	})
}

// WithMaxDepth overrides the nesting budget for the pass.
func WithMaxDepth(depth int) Option {
	return options.New(func(cfg *config) error {
		if depth <= 0 {
			return fmt.Errorf("max depth must be positive, got %d", depth)
		}
		cfg.maxDepth = depth

		return nil
	})
}
