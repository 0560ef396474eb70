package hostdata

import (
	"context"
	"fmt"

	"go.appointy.com/projgql/example/domain"
	"go.appointy.com/projgql/schemabuilder"
)

func registerMutations(schema *schemabuilder.Schema, store *Store) {
	mutation := schema.Mutation()

	mutation.FieldFunc("createPerson", func(ctx context.Context, args struct{ Input CreatePersonInput }) (*domain.Person, error) {
		return store.CreatePerson(ctx, args.Input.Name, args.Input.Email, args.Input.Role)
	})

	mutation.FieldFunc("createProject", func(ctx context.Context, args struct{ Input CreateProjectInput }) (*domain.Project, error) {
		return store.CreateProject(ctx, args.Input.Name, args.Input.Description, args.Input.OwnerID.Value)
	})

	mutation.FieldFunc("createTask", func(ctx context.Context, args struct{ Input CreateTaskInput }) (*domain.Task, error) {
		var assigneeID string
		if args.Input.AssigneeID != nil {
			assigneeID = args.Input.AssigneeID.Value
		}
		return store.CreateTask(ctx, args.Input.ProjectID.Value, args.Input.Title, assigneeID, args.Input.Priority)
	})

	// contactPerson only exercises ContactMethodInput's oneOf coercion (the
	// caller must supply exactly one of email/phone); it doesn't persist
	// the contact method anywhere, since domain.Person has no phone field.
	mutation.FieldFunc("contactPerson", func(ctx context.Context, args struct {
		ID     schemabuilder.ID
		Method ContactMethodInput
	}) (*domain.Person, error) {
		p, err := store.PersonByID(ctx, args.ID.Value)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("hostdata: no person with id %q", args.ID.Value)
		}
		return p, nil
	})
}
