package entities

import "time"

// Identity аутентифицированный пользователь, восстановленный из сессионного токена.
type Identity struct {
	UserID    string
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// RequestContext данные текущего запроса, передаваемые в сценарии.
// Nil Identity означает анонимного пользователя.
type RequestContext struct {
	Identity *Identity
}

// Anonymous возвращает контекст анонимного запроса.
func Anonymous() RequestContext {
	return RequestContext{}
}

// Authenticated возвращает контекст запроса пользователя.
func Authenticated(identity *Identity) RequestContext {
	return RequestContext{Identity: identity}
}

// IsAuthenticated сообщает, известен ли пользователь.
func (rc RequestContext) IsAuthenticated() bool {
	return rc.Identity != nil && rc.Identity.UserID != ""
}

// UserID возвращает идентификатор пользователя или пустую строку.
func (rc RequestContext) UserID() string {
	if rc.Identity == nil {
		return ""
	}
	return rc.Identity.UserID
}
