package domain

import (
	"errors"
	"time"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// ErrInvalidReservationStatus возвращается при неизвестном статусе бронирования
var ErrInvalidReservationStatus = errors.New("invalid reservation status")

// ReservationStatuses все допустимые статусы бронирования
var ReservationStatuses = []ReservationStatus{
	ReservationActive,
	ReservationCompleted,
	ReservationCancelled,
}

// ParseReservationStatus конвертирует строку в ReservationStatus с валидацией
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(s)
	for _, valid := range ReservationStatuses {
		if status == valid {
			return status, nil
		}
	}
	return "", ErrInvalidReservationStatus
}

// Reservation represents a booking of a parking slot by a user
type Reservation struct {
	ID            int64
	UserID        int64
	SlotID        int64
	VehicleNumber string
	StartTime     time.Time
	EndTime       *time.Time // nil, пока бронирование активно
	Status        ReservationStatus
	Cost          *float64 // Заполняется только при завершении
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive returns true if the reservation still holds its slot
func (r *Reservation) IsActive() bool {
	return r.Status == ReservationActive
}

// IsCompleted returns true if the reservation was released and billed
func (r *Reservation) IsCompleted() bool {
	return r.Status == ReservationCompleted
}

// IsCancelled returns true if the reservation was cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == ReservationCancelled
}

// ReservationFilter фильтр для выборки бронирований
type ReservationFilter struct {
	UserID *int64
	SlotID *int64
	Status *ReservationStatus
}
