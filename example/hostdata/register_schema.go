package hostdata

import (
	"context"
	"net/http"

	"go.appointy.com/projgql"
	"go.appointy.com/projgql/graphql"
	"go.appointy.com/projgql/introspection"
	"go.appointy.com/projgql/schemabuilder"
)

// NewSchema builds the compiled schema for the People/Projects/Tasks
// example domain, backed by store.
func NewSchema(store *Store) (*graphql.Schema, error) {
	schema := schemabuilder.NewSchema()

	registerEnums(schema)
	registerInputs(schema)
	registerObjects(schema, store)
	registerQueries(schema, store)
	registerMutations(schema, store)

	built, err := schema.Build()
	if err != nil {
		return nil, err
	}
	introspection.AddIntrospectionToSchema(built)
	return built, nil
}

// GetGraphqlServer opens a fresh, seeded Store and returns the HTTP handler
// serving it, wrapped in the role-resolving middleware from auth.go.
func GetGraphqlServer(ctx context.Context) (http.Handler, error) {
	store, err := NewStore(ctx)
	if err != nil {
		return nil, err
	}
	schema, err := NewSchema(store)
	if err != nil {
		return nil, err
	}
	handler := projgql.HTTPHandler(schema, projgql.WithMiddlewares(LogOperationMiddleware))
	return RoleMiddleware(handler), nil
}
