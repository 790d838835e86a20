package rbac

// Simple default policy. Expand as needed. Assistants can review and grade
// inside a session but cannot create sessions or manage users.
var RolePermissions = map[string][]string{
	"assistant": {
		"session:view",
		"matches:view",
		"matches:override",
		"grades:set",
	},
	"instructor": {
		"session:create",
		"session:view",
		"gradebook:upload",
		"roles:override",
		"submissions:upload",
		"matches:view",
		"matches:override",
		"grades:set",
		"export:download",
	},
	"admin": {
		"*", // everything
	},
}
