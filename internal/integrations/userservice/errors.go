package userservice

import "errors"

var (
	// ErrUserNotFound возвращается, когда UserService не знает такого пользователя
	ErrUserNotFound = errors.New("user not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("userservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("userservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Пользователь считается обычным, права администратора не выдаются
	ErrServiceDegraded = errors.New("userservice unavailable: graceful degradation applied")
)
