package middleware

import "context"

// RoleResolver определяет роль пользователя во внешнем сервисе
type RoleResolver interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
