package cancel_reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("cancel_reservation: reservation not found")

	// ErrForbidden возвращается, когда пользователь не владелец бронирования и не администратор
	ErrForbidden = errors.New("cancel_reservation: access denied")

	// ErrInvalidState возвращается, когда бронирование уже завершено или отменено
	ErrInvalidState = errors.New("cancel_reservation: reservation is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_reservation: internal error")
)
