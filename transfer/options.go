package transfer

import "github.com/notargets/fetransfer/fem"

type config struct {
	kind    fem.OperatorKind
	metrics *Metrics
}

type Option func(*config)

// WithOperatorKind selects the representation requested from the fine space
// in the refinement case. The default is the matrix-free fem.AnyType.
func WithOperatorKind(kind fem.OperatorKind) Option {
	return func(c *config) { c.kind = kind }
}

func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

func newConfig(opts []Option) (c config) {
	c.kind = fem.AnyType
	for _, opt := range opts {
		opt(&c)
	}
	return
}
