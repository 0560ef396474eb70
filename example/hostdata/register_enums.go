package hostdata

import (
	"go.appointy.com/projgql/example/domain"
	"go.appointy.com/projgql/schemabuilder"
)

func registerEnums(schema *schemabuilder.Schema) {
	schema.Enum("Role", domain.RoleAdmin, map[string]interface{}{
		"ADMIN":  domain.RoleAdmin,
		"MEMBER": domain.RoleMember,
		"VIEWER": domain.RoleViewer,
	}, "a project participant's permission level")

	schema.Enum("TaskStatus", domain.TaskStatusTodo, map[string]interface{}{
		"TODO":        domain.TaskStatusTodo,
		"IN_PROGRESS": domain.TaskStatusInProgress,
		"DONE":        domain.TaskStatusDone,
	}, "a task's place in its lifecycle")
}
