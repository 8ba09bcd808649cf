package domain

import "time"

// ParkingLot represents a parking lot that owns slots
type ParkingLot struct {
	ID                   int64
	Name                 string
	Location             string
	Price                *float64 // Почасовой тариф, nil = тариф не задан
	Address              *string
	PinCode              *string
	MaximumNumberOfSpots *int // nil = без ограничения
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// HasPrice returns true if the lot has an hourly rate configured
func (l *ParkingLot) HasPrice() bool {
	return l.Price != nil
}

// HasCapacityFor returns true if one more slot fits into the lot
func (l *ParkingLot) HasCapacityFor(currentSlots int) bool {
	if l.MaximumNumberOfSpots == nil {
		return true
	}
	return currentSlots < *l.MaximumNumberOfSpots
}
