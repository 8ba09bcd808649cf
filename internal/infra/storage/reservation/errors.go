package reservation

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrActiveReservationExists возвращается, когда на слот уже есть активное бронирование
	ErrActiveReservationExists = errors.New("reservation.repository: slot already has an active reservation")

	// ErrNotActive возвращается, когда бронирование уже завершено или отменено
	ErrNotActive = errors.New("reservation.repository: reservation is not active")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
