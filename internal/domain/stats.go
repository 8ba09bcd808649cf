package domain

// LotOccupancy статистика занятости одной парковки
type LotOccupancy struct {
	Lot         *ParkingLot
	Total       int
	Occupied    int
	Maintenance int
}

// Available количество слотов, доступных для бронирования
func (o LotOccupancy) Available() int {
	available := o.Total - o.Occupied - o.Maintenance
	if available < 0 {
		return 0
	}
	return available
}

// OccupancyRate процент занятых слотов (0-100)
func (o LotOccupancy) OccupancyRate() float64 {
	if o.Total == 0 {
		return 0
	}
	return float64(o.Occupied) / float64(o.Total) * 100
}

// DashboardStats агрегированная статистика для администратора
type DashboardStats struct {
	TotalLots            int
	TotalSlots           int
	TotalReservations    int
	ReservationsByStatus map[ReservationStatus]int
	Revenue              float64
	Lots                 []LotOccupancy
}

// SlotView слот с отображаемым статусом для обзора парковок
type SlotView struct {
	ID            int64
	SlotNumber    string
	DisplayStatus SlotStatus
}

// LotOverview парковка со слотами для обзора пользователем
type LotOverview struct {
	Lot   *ParkingLot
	Slots []SlotView
}

// DisplayStatus вычисляет статус слота для отображения
// Активное бронирование делает слот занятым даже при рассинхронизации статуса
func DisplayStatus(slot *ParkingSlot, hasActiveReservation bool) SlotStatus {
	switch {
	case slot.Status == SlotMaintenance:
		return SlotMaintenance
	case slot.Status == SlotOccupied || hasActiveReservation:
		return SlotOccupied
	default:
		return SlotAvailable
	}
}
