// Package domain holds the plain Go types the example server exposes
// over GraphQL: People who belong to Projects, which break down into
// Tasks. It has no dependency on schemabuilder/graphql — hostdata wires
// these into the schema and backs them with a docstore collection.
package domain

import "time"

// Role is a Person's permission level, exposed as the person's role field.
// The authorization extension on sensitive fields (e.g. Person.email)
// checks the request principal's roles, which hostdata/auth.go reads from
// the X-Roles header, not this field.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
	RoleViewer Role = "VIEWER"
)

// TaskStatus is a Task's place in its lifecycle.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Person is a project participant.
type Person struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// Project groups a set of Tasks under an owning Person.
type Project struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	CreatedAt   time.Time
}

// Task is one unit of work within a Project, optionally assigned to a
// Person.
type Task struct {
	ID         string
	ProjectID  string
	Title      string
	Status     TaskStatus
	AssigneeID string
	Priority   int32
	CreatedAt  time.Time
}
