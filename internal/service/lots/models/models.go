package models

import (
	"time"

	"github.com/Preton24/VehicleParking/internal/domain"
)

// Request модели

// LotRequest запрос на создание или полное обновление парковки
type LotRequest struct {
	Name                 string   `json:"name"`
	Location             string   `json:"location"`
	Price                *float64 `json:"price,omitempty"` // Почасовой тариф, null = не задан
	Address              *string  `json:"address,omitempty"`
	PinCode              *string  `json:"pinCode,omitempty"`
	MaximumNumberOfSpots *int     `json:"maximumNumberOfSpots,omitempty"` // null = без ограничения
}

// ToDomainLot конвертирует request в доменную модель
func (r *LotRequest) ToDomainLot() *domain.ParkingLot {
	return &domain.ParkingLot{
		Name:                 r.Name,
		Location:             r.Location,
		Price:                r.Price,
		Address:              r.Address,
		PinCode:              r.PinCode,
		MaximumNumberOfSpots: r.MaximumNumberOfSpots,
	}
}

// CreateSlotRequest запрос на добавление слота
type CreateSlotRequest struct {
	SlotNumber string `json:"slotNumber"`
}

// UpdateSlotStatusRequest запрос на ручную смену статуса слота администратором
type UpdateSlotStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// LotResponse ответ с данными парковки
type LotResponse struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Location             string    `json:"location"`
	Price                *float64  `json:"price"`
	Address              *string   `json:"address,omitempty"`
	PinCode              *string   `json:"pinCode,omitempty"`
	MaximumNumberOfSpots *int      `json:"maximumNumberOfSpots"`
	TotalSlots           int       `json:"totalSlots"`
	OccupiedSlots        int       `json:"occupiedSlots"`
	MaintenanceSlots     int       `json:"maintenanceSlots"`
	AvailableSlots       int       `json:"availableSlots"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// LotListResponse ответ со списком парковок
type LotListResponse struct {
	Lots  []LotResponse `json:"lots"`
	Total int           `json:"total"`
}

// DeleteLotResponse результат каскадного удаления парковки
type DeleteLotResponse struct {
	ID                  int64 `json:"id"`
	DeletedSlots        int64 `json:"deletedSlots"`
	DeletedReservations int64 `json:"deletedReservations"`
}

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID         int64     `json:"id"`
	LotID      int64     `json:"lotId"`
	SlotNumber string    `json:"slotNumber"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// SlotListResponse ответ со слотами парковки
type SlotListResponse struct {
	LotID int64          `json:"lotId"`
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}

// OverviewSlot слот в обзоре парковок
type OverviewSlot struct {
	ID         int64  `json:"id"`
	SlotNumber string `json:"slotNumber"`
	Status     string `json:"status"`
}

// OverviewLot парковка в обзоре со слотами
type OverviewLot struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Location  string         `json:"location"`
	Price     *float64       `json:"price"`
	Address   *string        `json:"address,omitempty"`
	PinCode   *string        `json:"pinCode,omitempty"`
	Available int            `json:"available"`
	Slots     []OverviewSlot `json:"slots"`
}

// OverviewResponse обзор всех парковок для пользователя
type OverviewResponse struct {
	Lots []OverviewLot `json:"lots"`
}

// Конвертеры

// FromDomainLot конвертирует доменную парковку в response
func FromDomainLot(lot *domain.ParkingLot, occupancy domain.LotOccupancy) LotResponse {
	return LotResponse{
		ID:                   lot.ID,
		Name:                 lot.Name,
		Location:             lot.Location,
		Price:                lot.Price,
		Address:              lot.Address,
		PinCode:              lot.PinCode,
		MaximumNumberOfSpots: lot.MaximumNumberOfSpots,
		TotalSlots:           occupancy.Total,
		OccupiedSlots:        occupancy.Occupied,
		MaintenanceSlots:     occupancy.Maintenance,
		AvailableSlots:       occupancy.Available(),
		CreatedAt:            lot.CreatedAt,
		UpdatedAt:            lot.UpdatedAt,
	}
}

// FromDomainSlot конвертирует доменный слот в response
func FromDomainSlot(slot *domain.ParkingSlot) SlotResponse {
	return SlotResponse{
		ID:         slot.ID,
		LotID:      slot.LotID,
		SlotNumber: slot.SlotNumber,
		Status:     string(slot.Status),
		CreatedAt:  slot.CreatedAt,
		UpdatedAt:  slot.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список слотов в response
func FromDomainSlotList(lotID int64, slots []*domain.ParkingSlot) *SlotListResponse {
	resp := &SlotListResponse{
		LotID: lotID,
		Slots: make([]SlotResponse, 0, len(slots)),
		Total: len(slots),
	}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, FromDomainSlot(slot))
	}
	return resp
}

// FromDomainOverview конвертирует обзор парковок в response
func FromDomainOverview(overview []domain.LotOverview) *OverviewResponse {
	resp := &OverviewResponse{Lots: make([]OverviewLot, 0, len(overview))}
	for _, item := range overview {
		lot := OverviewLot{
			ID:       item.Lot.ID,
			Name:     item.Lot.Name,
			Location: item.Lot.Location,
			Price:    item.Lot.Price,
			Address:  item.Lot.Address,
			PinCode:  item.Lot.PinCode,
			Slots:    make([]OverviewSlot, 0, len(item.Slots)),
		}
		for _, slot := range item.Slots {
			if slot.DisplayStatus == domain.SlotAvailable {
				lot.Available++
			}
			lot.Slots = append(lot.Slots, OverviewSlot{
				ID:         slot.ID,
				SlotNumber: slot.SlotNumber,
				Status:     string(slot.DisplayStatus),
			})
		}
		resp.Lots = append(resp.Lots, lot)
	}
	return resp
}
