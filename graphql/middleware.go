package graphql

import (
	"context"

	"go.appointy.com/projgql/jerrors"
)

// HandlerFunc runs one already-validated operation against root and returns
// its data plus whatever per-field errors accumulated; a request-level
// failure (parse, validation) is instead surfaced by the transport before a
// HandlerFunc is ever invoked.
type HandlerFunc func(ctx context.Context, root Type, query *Query) (interface{}, []*jerrors.Error)

// MiddlewareFunc wraps a HandlerFunc with cross-cutting behavior (auth,
// logging, tracing) the way http.Handler middleware wraps a handler. The
// HTTP transport itself lives outside the engine, but the handler chain
// above it is ordinary Go composition.
type MiddlewareFunc func(HandlerFunc) HandlerFunc
