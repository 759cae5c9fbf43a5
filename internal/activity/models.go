// Package activity is the append-only audit trail of the registry. Every
// mutating operation on groups, passports, and admin accounts produces
// exactly one entry, whether an administrator or the expiration scheduler
// triggered it. Entries are never updated or deleted.
package activity

import (
	"time"

	"github.com/google/uuid"

	id "passreg/pkg/domain"
)

// EntityType tags which kind of record an entry refers to.
type EntityType string

const (
	EntityGroup  EntityType = "group"
	EntityPerson EntityType = "person"
	EntityAdmin  EntityType = "admin"
)

// Action is the machine tag of an audited operation. Display text is
// resolved per tag at read time (see Describe).
type Action string

const (
	ActionGroupCreated Action = "group.created"
	ActionGroupRenamed Action = "group.renamed"
	ActionGroupDeleted Action = "group.deleted"

	ActionPersonCreated         Action = "person.created"
	ActionPersonUpdated         Action = "person.updated"
	ActionPersonDeleted         Action = "person.deleted"
	ActionPersonAutoDeactivated Action = "person.auto_deactivated"

	ActionAdminActivated   Action = "admin.activated"
	ActionAdminDeactivated Action = "admin.deactivated"
)

// descriptions maps action tags to the dashboard's display language. Entries
// store only the tag; localized text is a read-time concern.
var descriptions = map[Action]string{
	ActionGroupCreated: "Группа создана",
	ActionGroupRenamed: "Группа переименована",
	ActionGroupDeleted: "Группа удалена",

	ActionPersonCreated:         "Паспорт создан",
	ActionPersonUpdated:         "Паспорт обновлён",
	ActionPersonDeleted:         "Паспорт удалён",
	ActionPersonAutoDeactivated: "Паспорт деактивирован автоматически: истёк срок действия",

	ActionAdminActivated:   "Администратор активирован",
	ActionAdminDeactivated: "Администратор деактивирован",
}

// Describe resolves an action tag to its localized display text. Unknown
// tags fall back to the raw tag so old entries stay renderable.
func Describe(a Action) string {
	if d, ok := descriptions[a]; ok {
		return d
	}
	return string(a)
}

// Entry is one append-only audit record. PerformedBy is nil when the system
// itself (the expiration scheduler) performed the action; that is the
// "system" sentinel, not a missing value.
type Entry struct {
	ID          uuid.UUID
	Action      Action
	EntityType  EntityType
	EntityID    string
	PerformedBy *id.AdminID
	Details     map[string]any
	CreatedAt   time.Time
}

// IsSystem reports whether the entry was produced by an automated action.
func (e Entry) IsSystem() bool { return e.PerformedBy == nil }
