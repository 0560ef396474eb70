package hostdata

import (
	"context"

	"go.appointy.com/projgql/example/domain"
	"go.appointy.com/projgql/schemabuilder"
)

// registerObjects exposes domain.Person/Project/Task as GraphQL objects.
// Every exported field the explicit FieldFuncs below don't override (e.g.
// name, createdAt) falls through to the Host Type Reflector.
func registerObjects(schema *schemabuilder.Schema, store *Store) {
	person := schema.Object("Person", domain.Person{})
	person.Key("id")
	person.FieldFunc("id", func(p *domain.Person) schemabuilder.ID {
		return schemabuilder.ID{Value: p.ID}
	})
	// email is gated on the admin role: only a Principal holding it can
	// select this field, via the Authorization extension.
	person.FieldFuncWithOptions("email", func(p *domain.Person) string {
		return p.Email
	}, schemabuilder.RequiresAuth("admin"))

	project := schema.Object("Project", domain.Project{})
	project.Key("id")
	project.FieldFunc("id", func(p *domain.Project) schemabuilder.ID {
		return schemabuilder.ID{Value: p.ID}
	})
	project.FieldFunc("owner", func(ctx context.Context, p *domain.Project) (*domain.Person, error) {
		return store.PersonByID(ctx, p.OwnerID)
	})
	project.FieldFuncWithOptions("tasks", func(ctx context.Context, p *domain.Project) ([]*domain.Task, error) {
		all, err := store.AllTasks(ctx)
		if err != nil {
			return nil, err
		}
		var out []*domain.Task
		for _, t := range all {
			if t.ProjectID == p.ID {
				out = append(out, t)
			}
		}
		return out, nil
	}, schemabuilder.UseFilter(), schemabuilder.UseSort(), schemabuilder.UseOffsetPaging(10, 50))

	task := schema.Object("Task", domain.Task{})
	task.Key("id")
	task.FieldFunc("id", func(t *domain.Task) schemabuilder.ID {
		return schemabuilder.ID{Value: t.ID}
	})
	task.FieldFunc("project", func(ctx context.Context, t *domain.Task) (*domain.Project, error) {
		all, err := store.AllProjects(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range all {
			if p.ID == t.ProjectID {
				return p, nil
			}
		}
		return nil, nil
	})
	task.FieldFunc("assignee", func(ctx context.Context, t *domain.Task) (*domain.Person, error) {
		if t.AssigneeID == "" {
			return nil, nil
		}
		return store.PersonByID(ctx, t.AssigneeID)
	})
}
