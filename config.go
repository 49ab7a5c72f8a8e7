// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package dvn

import (
	"io"
	"log/slog"
)

// configs is used to store the values of the different parameters of a
// FactorSet.
type configs struct {
	logger      *slog.Logger // destination of the trace of computations
	maxsize     int          // maximal number of instances in a factor (0 if no limit)
	interaction bool         // use the interaction graph order in queries
}

// Option is the type of the configuration options of NewFactorSet.
type Option = func(*configs)

func makeconfigs() *configs {
	return &configs{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Logger is a configuration option (function). Used as a parameter in
// NewFactorSet it sets the structured logger that receives a debug record for
// every elimination step. By default nothing is logged.
func Logger(l *slog.Logger) func(*configs) {
	return func(c *configs) {
		if l != nil {
			c.logger = l
		}
	}
}

// MaxFactorSize is a configuration option (function). Used as a parameter in
// NewFactorSet it sets a limit on the number of instances of the factors built
// by merging. An operation that would exceed the limit stops, records an
// error wrapping ErrFactorTooLarge and leaves the factor set in its previous
// state. The default value (0) means that there is no limit, in which case a
// bad elimination order can exhaust the available memory.
func MaxFactorSize(size int) func(*configs) {
	return func(c *configs) {
		if size >= 0 {
			c.maxsize = size
		}
	}
}

// InteractionOrder is a configuration option (function). Used as a parameter
// in NewFactorSet it makes the MPE, MAP and Posterior queries eliminate
// variables in the order computed by an InteractionGraph (greedy minimal
// degree) instead of the natural order of the factor set. The order changes
// the cost of a query, not its result.
func InteractionOrder(enabled bool) func(*configs) {
	return func(c *configs) {
		c.interaction = enabled
	}
}
