package rbac

const (
	PermCatalogView    = "catalog:view"
	PermCatalogEdit    = "catalog:edit"
	PermAttemptCreate  = "attempt:create"
	PermAttemptViewOwn = "attempt:view-own"
	PermAttemptViewAll = "attempt:view-all"
	PermEventsView     = "events:view"
)

// Default policy. Teachers inherit student permissions.
var RolePermissions = map[string][]string{
	"student": {
		PermCatalogView,
		PermAttemptCreate,
		PermAttemptViewOwn,
	},
	"teacher": {
		PermCatalogView,
		PermAttemptCreate,
		PermAttemptViewOwn,
		PermCatalogEdit,
		PermAttemptViewAll,
	},
	"admin": {
		"*", // everything
	},
}
