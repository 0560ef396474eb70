package hostdata

import (
	"context"

	"go.appointy.com/projgql/example/domain"
	"go.appointy.com/projgql/schemabuilder"
)

// registerQueries wires the three collections onto the root Query object.
// people demonstrates the full read-side pipeline (filter, sort, cursor
// paging); projects sticks to filter/sort to show the pipeline composes
// without every extension attached.
func registerQueries(schema *schemabuilder.Schema, store *Store) {
	query := schema.Query()

	query.FieldFuncWithOptions("people", func(ctx context.Context) ([]*domain.Person, error) {
		return store.AllPeople(ctx)
	}, schemabuilder.UseFilter(), schemabuilder.UseSort(), schemabuilder.UseConnection(10, 50))

	query.FieldFunc("person", func(ctx context.Context, args struct{ ID schemabuilder.ID }) (*domain.Person, error) {
		return store.PersonByID(ctx, args.ID.Value)
	})

	query.FieldFuncWithOptions("projects", func(ctx context.Context) ([]*domain.Project, error) {
		return store.AllProjects(ctx)
	}, schemabuilder.UseFilter(), schemabuilder.UseSort())

	query.FieldFunc("project", func(ctx context.Context, args struct{ ID schemabuilder.ID }) (*domain.Project, error) {
		all, err := store.AllProjects(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range all {
			if p.ID == args.ID.Value {
				return p, nil
			}
		}
		return nil, nil
	})

	query.FieldFuncWithOptions("tasks", func(ctx context.Context) ([]*domain.Task, error) {
		return store.AllTasks(ctx)
	}, schemabuilder.UseFilter(), schemabuilder.UseSort(), schemabuilder.UseOffsetPaging(20, 100))

	query.FieldFunc("task", func(ctx context.Context, args struct{ ID schemabuilder.ID }) (*domain.Task, error) {
		all, err := store.AllTasks(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range all {
			if t.ID == args.ID.Value {
				return t, nil
			}
		}
		return nil, nil
	})
}
