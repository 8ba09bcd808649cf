package models

import (
	"time"

	"github.com/Preton24/VehicleParking/internal/domain"
)

// Request модели

// GetUserReservationsRequest запрос на получение бронирований пользователя
type GetUserReservationsRequest struct {
	Actor  domain.Actor
	UserID int64
	Status *string // Фильтр по статусу (опционально)
}

// Response модели

// ReservationResponse ответ с данными бронирования
type ReservationResponse struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"userId"`
	SlotID        int64      `json:"slotId"`
	SlotNumber    string     `json:"slotNumber,omitempty"`
	LotID         int64      `json:"lotId,omitempty"`
	LotName       string     `json:"lotName,omitempty"`
	VehicleNumber string     `json:"vehicleNumber"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime"`
	Status        string     `json:"status"`
	Cost          *float64   `json:"cost"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Total        int                   `json:"total"`
}

// Конвертеры

// FromDomainReservation конвертирует доменное бронирование в response
func FromDomainReservation(r *domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:            r.ID,
		UserID:        r.UserID,
		SlotID:        r.SlotID,
		VehicleNumber: r.VehicleNumber,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        string(r.Status),
		Cost:          r.Cost,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ToDomainReservationStatus конвертирует строку в статус бронирования
func ToDomainReservationStatus(status string) (domain.ReservationStatus, error) {
	return domain.ParseReservationStatus(status)
}
