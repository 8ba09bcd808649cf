package release_slot

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("release_slot: reservation not found")

	// ErrForbidden возвращается, когда пользователь не владелец бронирования и не администратор
	ErrForbidden = errors.New("release_slot: access denied")

	// ErrInvalidState возвращается, когда бронирование уже завершено или отменено
	ErrInvalidState = errors.New("release_slot: reservation is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("release_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("release_slot: internal error")
)
