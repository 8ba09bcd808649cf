package domain

import (
	"errors"
	"time"
)

// SlotStatus represents the status of a parking slot
type SlotStatus string

const (
	SlotAvailable   SlotStatus = "available"
	SlotOccupied    SlotStatus = "occupied"
	SlotMaintenance SlotStatus = "maintenance"
)

// ErrInvalidSlotStatus возвращается при неизвестном статусе слота
var ErrInvalidSlotStatus = errors.New("invalid slot status")

// SlotStatuses все допустимые статусы слота
var SlotStatuses = []SlotStatus{
	SlotAvailable,
	SlotOccupied,
	SlotMaintenance,
}

// ParseSlotStatus конвертирует строку в SlotStatus с валидацией
func ParseSlotStatus(s string) (SlotStatus, error) {
	status := SlotStatus(s)
	for _, valid := range SlotStatuses {
		if status == valid {
			return status, nil
		}
	}
	return "", ErrInvalidSlotStatus
}

// ParkingSlot represents a single parking slot inside a lot
type ParkingSlot struct {
	ID         int64
	LotID      int64
	SlotNumber string
	Status     SlotStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsBookable returns true if a new reservation may be made for the slot
func (s *ParkingSlot) IsBookable() bool {
	return s.Status == SlotAvailable
}

// IsOccupied returns true if the slot is held by an active reservation
func (s *ParkingSlot) IsOccupied() bool {
	return s.Status == SlotOccupied
}

// IsAdminAssignable returns true if an administrator may set this status directly
// occupied принадлежит только движку бронирования
func IsAdminAssignable(status SlotStatus) bool {
	return status == SlotAvailable || status == SlotMaintenance
}
