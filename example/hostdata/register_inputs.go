package hostdata

import (
	"go.appointy.com/projgql/example/domain"
	"go.appointy.com/projgql/schemabuilder"
)

// CreatePersonInput is the createPerson mutation's argument.
type CreatePersonInput struct {
	Name  string
	Email string
	Role  domain.Role
}

// CreateProjectInput is the createProject mutation's argument.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     schemabuilder.ID
}

// CreateTaskInput is the createTask mutation's argument.
type CreateTaskInput struct {
	ProjectID  schemabuilder.ID
	Title      string
	AssigneeID *schemabuilder.ID
	Priority   int32
}

// ContactMethodInput demonstrates an exclusive (@oneOf) input object: a
// caller provides exactly one of Email/Phone, never both, enforced via
// the embedded schemabuilder.OneOfInput marker.
type ContactMethodInput struct {
	schemabuilder.OneOfInput
	Email *string
	Phone *string
}

func registerInputs(schema *schemabuilder.Schema) {
	createPerson := schema.InputObject("CreatePersonInput", CreatePersonInput{})
	createPerson.FieldFunc("name", func(target *CreatePersonInput, source string) {
		target.Name = source
	})
	createPerson.FieldFunc("email", func(target *CreatePersonInput, source string) {
		target.Email = source
	})
	createPerson.FieldFunc("role", func(target *CreatePersonInput, source domain.Role) {
		target.Role = source
	})

	createProject := schema.InputObject("CreateProjectInput", CreateProjectInput{})
	createProject.FieldFunc("name", func(target *CreateProjectInput, source string) {
		target.Name = source
	})
	createProject.FieldFunc("description", func(target *CreateProjectInput, source string) {
		target.Description = source
	})
	createProject.FieldFunc("ownerId", func(target *CreateProjectInput, source schemabuilder.ID) {
		target.OwnerID = source
	})

	createTask := schema.InputObject("CreateTaskInput", CreateTaskInput{})
	createTask.FieldFunc("projectId", func(target *CreateTaskInput, source schemabuilder.ID) {
		target.ProjectID = source
	})
	createTask.FieldFunc("title", func(target *CreateTaskInput, source string) {
		target.Title = source
	})
	createTask.FieldFunc("assigneeId", func(target *CreateTaskInput, source *schemabuilder.ID) {
		target.AssigneeID = source
	})
	createTask.FieldFunc("priority", func(target *CreateTaskInput, source int32) {
		target.Priority = source
	})

	contactMethod := schema.InputObject("ContactMethodInput", ContactMethodInput{})
	contactMethod.FieldFunc("email", func(target *ContactMethodInput, source *string) {
		target.Email = source
	})
	contactMethod.FieldFunc("phone", func(target *ContactMethodInput, source *string) {
		target.Phone = source
	})
}
