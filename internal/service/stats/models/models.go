package models

import (
	"math"

	"github.com/Preton24/VehicleParking/internal/domain"
)

// LotStats статистика одной парковки
type LotStats struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Total         int     `json:"total"`
	Occupied      int     `json:"occupied"`
	Maintenance   int     `json:"maintenance"`
	Available     int     `json:"available"`
	OccupancyRate float64 `json:"occupancyRate"` // Процент занятых слотов
}

// DashboardResponse статистика для панели администратора
type DashboardResponse struct {
	TotalLots            int            `json:"totalLots"`
	TotalSlots           int            `json:"totalSlots"`
	TotalReservations    int            `json:"totalReservations"`
	ReservationsByStatus map[string]int `json:"reservationsByStatus"`
	Revenue              float64        `json:"revenue"`
	Lots                 []LotStats     `json:"lots"`
}

// FromDomainStats конвертирует доменную статистику в response
func FromDomainStats(stats *domain.DashboardStats) *DashboardResponse {
	resp := &DashboardResponse{
		TotalLots:            stats.TotalLots,
		TotalSlots:           stats.TotalSlots,
		TotalReservations:    stats.TotalReservations,
		ReservationsByStatus: make(map[string]int, len(domain.ReservationStatuses)),
		Revenue:              stats.Revenue,
		Lots:                 make([]LotStats, 0, len(stats.Lots)),
	}

	for _, status := range domain.ReservationStatuses {
		resp.ReservationsByStatus[string(status)] = stats.ReservationsByStatus[status]
	}

	for _, lot := range stats.Lots {
		resp.Lots = append(resp.Lots, LotStats{
			ID:            lot.Lot.ID,
			Name:          lot.Lot.Name,
			Total:         lot.Total,
			Occupied:      lot.Occupied,
			Maintenance:   lot.Maintenance,
			Available:     lot.Available(),
			OccupancyRate: math.Round(lot.OccupancyRate()*10) / 10,
		})
	}

	return resp
}
