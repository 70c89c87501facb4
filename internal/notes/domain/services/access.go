package services

import "yanote/internal/notes/domain/entities"

// Operation действие над заметками.
type Operation string

const (
	OpList    Operation = "list"
	OpDetail  Operation = "detail"
	OpAdd     Operation = "add"
	OpEdit    Operation = "edit"
	OpDelete  Operation = "delete"
	OpSuccess Operation = "success"
)

// TargetsNote сообщает, относится ли операция к конкретной заметке.
func (o Operation) TargetsNote() bool {
	switch o {
	case OpDetail, OpEdit, OpDelete:
		return true
	default:
		return false
	}
}

// Role отношение пользователя к заметке.
type Role int

const (
	RoleAnonymous Role = iota
	RoleNonOwner
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleNonOwner:
		return "non-owner"
	default:
		return "anonymous"
	}
}

// Decision результат проверки доступа.
type Decision int

const (
	Allow Decision = iota
	NotFound
	RedirectToLogin
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case NotFound:
		return "not_found"
	default:
		return "redirect_to_login"
	}
}

// RoleOf определяет роль пользователя запроса относительно заметки.
// Для отсутствующей заметки аутентифицированный пользователь считается не автором.
func RoleOf(rc entities.RequestContext, note *entities.Note) Role {
	if !rc.IsAuthenticated() {
		return RoleAnonymous
	}
	if note != nil && note.IsOwnedBy(rc.UserID()) {
		return RoleOwner
	}
	return RoleNonOwner
}

// Authorize решает, разрешена ли операция.
// Чужая заметка выглядит для пользователя так же, как несуществующая.
func Authorize(rc entities.RequestContext, op Operation, note *entities.Note) Decision {
	role := RoleOf(rc, note)
	if role == RoleAnonymous {
		return RedirectToLogin
	}
	if !op.TargetsNote() {
		return Allow
	}
	if role == RoleOwner {
		return Allow
	}
	return NotFound
}
