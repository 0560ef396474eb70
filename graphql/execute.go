package graphql

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"go.appointy.com/projgql/graphql/expr"
	"go.appointy.com/projgql/jerrors"
)

var tracer = otel.Tracer("go.appointy.com/projgql/graphql")

// Executor runs one bound Query against a host context, producing the
// response data and the request's per-field errors: each top-level field
// is built and evaluated independently, a failure in one sets only that
// field's data to null and appends one error rather than
// aborting its siblings, and for query operations the executor checks for
// context cancellation between top-level fields rather than mid-field.
type Executor struct{}

// Execute runs query against root (the schema's Query or Mutation type),
// with source as the host context value __typename/field projections read
// off of. It returns the response data (one entry per top-level selection
// alias) and the list of wire errors accumulated along the way. The data is
// nil when root is not selectable or its selection set cannot be
// flattened; the single returned error then says why.
func (e *Executor) Execute(ctx context.Context, root Type, source interface{}, query *Query) (interface{}, []*jerrors.Error) {
	owner, _, err := asSelectable(root)
	if err != nil {
		return nil, []*jerrors.Error{jerrors.ConvertError(jerrors.Wrap(jerrors.KindCompiler, nil, err))}
	}

	selections, err := flattenSelections(root, query.SelectionSet, "")
	if err != nil {
		return nil, []*jerrors.Error{jerrors.ConvertError(jerrors.Wrap(jerrors.KindCompiler, nil, err))}
	}

	data := make(map[string]interface{}, len(selections))
	var errs []*jerrors.Error

	for _, sel := range selections {
		if err := ctx.Err(); err != nil {
			errs = append(errs, jerrors.ConvertError(jerrors.Wrap(jerrors.KindCancelled, []interface{}{sel.Alias}, err)))
			data[sel.Alias] = nil
			continue
		}

		fieldCtx, span := tracer.Start(ctx, "graphql.field."+sel.Name)
		span.SetAttributes(attribute.String("graphql.field.alias", sel.Alias))

		value, ferr := e.executeOne(fieldCtx, owner, sel, source)
		if ferr != nil {
			span.RecordError(ferr)
			span.SetStatus(codes.Error, ferr.Error())
			kind := jerrors.KindOf(ferr)
			if kind == jerrors.KindUnknown {
				ferr = jerrors.Wrap(jerrors.KindExecution, []interface{}{sel.Alias}, ferr)
			}
			errs = append(errs, jerrors.ConvertError(ferr))
			data[sel.Alias] = nil
		} else {
			data[sel.Alias] = value
		}
		span.End()
	}

	return data, errs
}

// executeOne builds and evaluates a single top-level selection's
// projection. sel.Name == "__typename" is handled directly since it has no
// Field registration to build against.
func (e *Executor) executeOne(ctx context.Context, owner *Object, sel *Selection, source interface{}) (interface{}, error) {
	if sel.Name == "__typename" {
		return owner.Name, nil
	}
	built, err := BuildField(owner, sel, &expr.ParamRef{Kind: expr.ParamContext})
	if err != nil {
		return nil, err
	}
	return built.Eval(ctx, &expr.EvalContext{Parent: source})
}
