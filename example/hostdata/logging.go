package hostdata

import (
	"context"
	"log"
	"time"

	"go.appointy.com/projgql/graphql"
	"go.appointy.com/projgql/jerrors"
)

// LogOperationMiddleware logs each operation's kind, name, and duration.
// No example repo in the pack does structured logging, so this stays on
// the standard library's log package rather than reach for an ecosystem
// logger just to wrap it (see DESIGN.md).
func LogOperationMiddleware(next graphql.HandlerFunc) graphql.HandlerFunc {
	return func(ctx context.Context, root graphql.Type, query *graphql.Query) (interface{}, []*jerrors.Error) {
		start := time.Now()
		value, errs := next(ctx, root, query)
		log.Printf("hostdata: %s %q took %s (%d errors)", query.Kind, query.Name, time.Since(start), len(errs))
		return value, errs
	}
}
