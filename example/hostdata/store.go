// Package hostdata is the example server's host context: three
// gocloud.dev/docstore collections of domain.Person/Project/Task, plus
// the schemabuilder registration that exposes them over GraphQL with the
// Field Extension Pipeline (filter, sort, offset paging, cursor paging,
// authorization) wired onto their list fields.
package hostdata

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gocloud.dev/docstore"
	_ "gocloud.dev/docstore/memdocstore"
	"gocloud.dev/gcerrors"

	"go.appointy.com/projgql/example/domain"
)

// Store holds the example app's docstore collections. Every query field
// registered in register_queries.go snapshots the relevant collection
// into a plain slice once per request — an eager in-memory backend
// accepts the same projection tree and evaluates it directly, leaving
// the engine's own Where/OrderBy/Skip/Take
// machinery to do the actual filtering, sorting, and paging — Store runs
// no query logic beyond a full scan.
type Store struct {
	people   *docstore.Collection
	projects *docstore.Collection
	tasks    *docstore.Collection
}

// NewStore opens the three in-memory collections and seeds them with a
// small, interconnected People/Projects/Tasks dataset.
func NewStore(ctx context.Context) (*Store, error) {
	people, err := docstore.OpenCollection(ctx, "mem://people/ID")
	if err != nil {
		return nil, fmt.Errorf("hostdata: open people collection: %w", err)
	}
	projects, err := docstore.OpenCollection(ctx, "mem://projects/ID")
	if err != nil {
		return nil, fmt.Errorf("hostdata: open projects collection: %w", err)
	}
	tasks, err := docstore.OpenCollection(ctx, "mem://tasks/ID")
	if err != nil {
		return nil, fmt.Errorf("hostdata: open tasks collection: %w", err)
	}

	s := &Store{people: people, projects: projects, tasks: tasks}
	if err := s.seed(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) seed(ctx context.Context) error {
	now := time.Now().UTC()

	ada := domain.Person{ID: uuid.NewString(), Name: "Ada Lovelace", Email: "ada@example.com", Role: domain.RoleAdmin, CreatedAt: now}
	grace := domain.Person{ID: uuid.NewString(), Name: "Grace Hopper", Email: "grace@example.com", Role: domain.RoleMember, CreatedAt: now}
	alan := domain.Person{ID: uuid.NewString(), Name: "Alan Turing", Email: "alan@example.com", Role: domain.RoleViewer, CreatedAt: now}
	for _, p := range []*domain.Person{&ada, &grace, &alan} {
		if err := s.people.Put(ctx, p); err != nil {
			return fmt.Errorf("hostdata: seed person %s: %w", p.Name, err)
		}
	}

	compiler := domain.Project{ID: uuid.NewString(), Name: "Analytical Engine", Description: "General-purpose computation", OwnerID: ada.ID, CreatedAt: now}
	compiler2 := domain.Project{ID: uuid.NewString(), Name: "Naval Ordnance", Description: "Compiler tooling for COBOL", OwnerID: grace.ID, CreatedAt: now}
	for _, p := range []*domain.Project{&compiler, &compiler2} {
		if err := s.projects.Put(ctx, p); err != nil {
			return fmt.Errorf("hostdata: seed project %s: %w", p.Name, err)
		}
	}

	seedTasks := []*domain.Task{
		{ID: uuid.NewString(), ProjectID: compiler.ID, Title: "Draft punched card layout", Status: domain.TaskStatusDone, AssigneeID: ada.ID, Priority: 1, CreatedAt: now},
		{ID: uuid.NewString(), ProjectID: compiler.ID, Title: "Write algorithm notes", Status: domain.TaskStatusInProgress, AssigneeID: ada.ID, Priority: 2, CreatedAt: now},
		{ID: uuid.NewString(), ProjectID: compiler.ID, Title: "Review with Babbage", Status: domain.TaskStatusTodo, AssigneeID: alan.ID, Priority: 3, CreatedAt: now},
		{ID: uuid.NewString(), ProjectID: compiler2.ID, Title: "Draft COBOL grammar", Status: domain.TaskStatusInProgress, AssigneeID: grace.ID, Priority: 1, CreatedAt: now},
		{ID: uuid.NewString(), ProjectID: compiler2.ID, Title: "Write compiler back end", Status: domain.TaskStatusTodo, AssigneeID: grace.ID, Priority: 2, CreatedAt: now},
	}
	for _, t := range seedTasks {
		if err := s.tasks.Put(ctx, t); err != nil {
			return fmt.Errorf("hostdata: seed task %s: %w", t.Title, err)
		}
	}
	return nil
}

// AllPeople snapshots the people collection into a slice.
func (s *Store) AllPeople(ctx context.Context) ([]*domain.Person, error) {
	iter := s.people.Query().Get(ctx)
	defer iter.Stop()

	var out []*domain.Person
	for {
		var p domain.Person
		err := iter.Next(ctx, &p)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("hostdata: scan people: %w", err)
		}
		out = append(out, &p)
	}
	return out, nil
}

// AllProjects snapshots the projects collection into a slice.
func (s *Store) AllProjects(ctx context.Context) ([]*domain.Project, error) {
	iter := s.projects.Query().Get(ctx)
	defer iter.Stop()

	var out []*domain.Project
	for {
		var p domain.Project
		err := iter.Next(ctx, &p)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("hostdata: scan projects: %w", err)
		}
		out = append(out, &p)
	}
	return out, nil
}

// AllTasks snapshots the tasks collection into a slice.
func (s *Store) AllTasks(ctx context.Context) ([]*domain.Task, error) {
	iter := s.tasks.Query().Get(ctx)
	defer iter.Stop()

	var out []*domain.Task
	for {
		var t domain.Task
		err := iter.Next(ctx, &t)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("hostdata: scan tasks: %w", err)
		}
		out = append(out, &t)
	}
	return out, nil
}

// PersonByID returns a single person, or nil if not found.
func (s *Store) PersonByID(ctx context.Context, id string) (*domain.Person, error) {
	p := domain.Person{ID: id}
	if err := s.people.Get(ctx, &p); err != nil {
		if gcerrors.Is(err, gcerrors.NotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// CreatePerson inserts a new person and returns it.
func (s *Store) CreatePerson(ctx context.Context, name, email string, role domain.Role) (*domain.Person, error) {
	p := &domain.Person{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.people.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("hostdata: create person: %w", err)
	}
	return p, nil
}

// CreateProject inserts a new project and returns it.
func (s *Store) CreateProject(ctx context.Context, name, description, ownerID string) (*domain.Project, error) {
	p := &domain.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.projects.Put(ctx, p); err != nil {
		return nil, fmt.Errorf("hostdata: create project: %w", err)
	}
	return p, nil
}

// CreateTask inserts a new task and returns it.
func (s *Store) CreateTask(ctx context.Context, projectID, title, assigneeID string, priority int32) (*domain.Task, error) {
	t := &domain.Task{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		Title:      title,
		Status:     domain.TaskStatusTodo,
		AssigneeID: assigneeID,
		Priority:   priority,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.tasks.Put(ctx, t); err != nil {
		return nil, fmt.Errorf("hostdata: create task: %w", err)
	}
	return t, nil
}
