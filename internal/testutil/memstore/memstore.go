// Package memstore хранилище в памяти с семантикой репозиториев PostgreSQL для тестов
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Preton24/VehicleParking/internal/domain"
	lotRepo "github.com/Preton24/VehicleParking/internal/infra/storage/lot"
	reservationRepo "github.com/Preton24/VehicleParking/internal/infra/storage/reservation"
	slotRepo "github.com/Preton24/VehicleParking/internal/infra/storage/slot"
)

type txKey struct{}

// Store общее состояние трёх таблиц
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	lots         map[int64]domain.ParkingLot
	slots        map[int64]domain.ParkingSlot
	reservations map[int64]domain.Reservation
	nextID       int64

	// FailOn заставляет метод с указанным именем вернуть ошибку (например "Reservations.Complete")
	FailOn map[string]error
}

// New создаёт пустое хранилище
func New() *Store {
	return &Store{
		lots:         make(map[int64]domain.ParkingLot),
		slots:        make(map[int64]domain.ParkingSlot),
		reservations: make(map[int64]domain.Reservation),
		FailOn:       make(map[string]error),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) fail(method string) error {
	return s.FailOn[method]
}

// Lots репозиторий парковок
func (s *Store) Lots() *Lots { return &Lots{s: s} }

// Slots репозиторий слотов
func (s *Store) Slots() *Slots { return &Slots{s: s} }

// Reservations репозиторий бронирований
func (s *Store) Reservations() *Reservations { return &Reservations{s: s} }

// TxManager менеджер транзакций: транзакции выполняются последовательно,
// при ошибке состояние откатывается к снимку
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

// SeedLot добавляет парковку напрямую
func (s *Store) SeedLot(lot domain.ParkingLot) *domain.ParkingLot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lot.ID == 0 {
		lot.ID = s.id()
	}
	s.lots[lot.ID] = lot
	return &lot
}

// SeedSlot добавляет слот напрямую
func (s *Store) SeedSlot(slot domain.ParkingSlot) *domain.ParkingSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot.ID == 0 {
		slot.ID = s.id()
	}
	if slot.Status == "" {
		slot.Status = domain.SlotAvailable
	}
	s.slots[slot.ID] = slot
	return &slot
}

// SeedReservation добавляет бронирование напрямую
func (s *Store) SeedReservation(r domain.Reservation) *domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.id()
	}
	s.reservations[r.ID] = r
	return &r
}

// Slot возвращает текущее состояние слота
func (s *Store) Slot(id int64) (domain.ParkingSlot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[id]
	return slot, ok
}

// Reservation возвращает текущее состояние бронирования
func (s *Store) Reservation(id int64) (domain.Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	return r, ok
}

// ActiveCount количество активных бронирований слота
func (s *Store) ActiveCount(slotID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.reservations {
		if r.SlotID == slotID && r.Status == domain.ReservationActive {
			n++
		}
	}
	return n
}

// ReservationCount общее количество бронирований
func (s *Store) ReservationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reservations)
}

type snapshot struct {
	lots         map[int64]domain.ParkingLot
	slots        map[int64]domain.ParkingSlot
	reservations map[int64]domain.Reservation
	nextID       int64
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		lots:         make(map[int64]domain.ParkingLot, len(s.lots)),
		slots:        make(map[int64]domain.ParkingSlot, len(s.slots)),
		reservations: make(map[int64]domain.Reservation, len(s.reservations)),
		nextID:       s.nextID,
	}
	for k, v := range s.lots {
		snap.lots[k] = v
	}
	for k, v := range s.slots {
		snap.slots[k] = v
	}
	for k, v := range s.reservations {
		snap.reservations[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lots = snap.lots
	s.slots = snap.slots
	s.reservations = snap.reservations
	s.nextID = snap.nextID
}

// TxManager последовательный менеджер транзакций
type TxManager struct {
	s *Store

	// Calls количество открытых транзакций верхнего уровня
	Calls int
}

func (t *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()
	t.Calls++

	snap := t.s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// Do выполняет fn в транзакции
func (t *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции
func (t *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции
func (t *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

// Lots парковки в памяти
type Lots struct{ s *Store }

func (l *Lots) Create(_ context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if err := l.s.fail("Lots.Create"); err != nil {
		return nil, err
	}
	for _, existing := range l.s.lots {
		if existing.Name == lot.Name {
			return nil, lotRepo.ErrLotNameTaken
		}
	}
	lot.ID = l.s.id()
	lot.CreatedAt = time.Now()
	lot.UpdatedAt = lot.CreatedAt
	l.s.lots[lot.ID] = *lot
	return lot, nil
}

func (l *Lots) GetByID(_ context.Context, id int64) (*domain.ParkingLot, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if err := l.s.fail("Lots.GetByID"); err != nil {
		return nil, err
	}
	lot, ok := l.s.lots[id]
	if !ok {
		return nil, lotRepo.ErrLotNotFound
	}
	return &lot, nil
}

func (l *Lots) List(_ context.Context) ([]*domain.ParkingLot, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if err := l.s.fail("Lots.List"); err != nil {
		return nil, err
	}
	lots := make([]*domain.ParkingLot, 0, len(l.s.lots))
	for _, lot := range l.s.lots {
		lot := lot
		lots = append(lots, &lot)
	}
	sort.Slice(lots, func(i, j int) bool { return lots[i].Name < lots[j].Name })
	return lots, nil
}

func (l *Lots) Update(_ context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if _, ok := l.s.lots[lot.ID]; !ok {
		return nil, lotRepo.ErrLotNotFound
	}
	for id, existing := range l.s.lots {
		if id != lot.ID && existing.Name == lot.Name {
			return nil, lotRepo.ErrLotNameTaken
		}
	}
	lot.UpdatedAt = time.Now()
	l.s.lots[lot.ID] = *lot
	return lot, nil
}

// Delete удаляет парковку вместе со слотами и бронированиями (ON DELETE CASCADE)
func (l *Lots) Delete(_ context.Context, id int64) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	if err := l.s.fail("Lots.Delete"); err != nil {
		return err
	}
	if _, ok := l.s.lots[id]; !ok {
		return lotRepo.ErrLotNotFound
	}
	delete(l.s.lots, id)
	for slotID, slot := range l.s.slots {
		if slot.LotID == id {
			delete(l.s.slots, slotID)
			l.s.deleteReservationsOf(slotID)
		}
	}
	return nil
}

// Slots слоты в памяти
type Slots struct{ s *Store }

func (sl *Slots) Create(_ context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error) {
	sl.s.mu.Lock()
	defer sl.s.mu.Unlock()
	if _, ok := sl.s.lots[slot.LotID]; !ok {
		return nil, slotRepo.ErrLotNotFound
	}
	for _, existing := range sl.s.slots {
		if existing.LotID == slot.LotID && existing.SlotNumber == slot.SlotNumber {
			return nil, slotRepo.ErrSlotNumberTaken
		}
	}
	slot.ID = sl.s.id()
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = slot.CreatedAt
	sl.s.slots[slot.ID] = *slot
	return slot, nil
}

func (sl *Slots) GetByID(_ context.Context, id int64) (*domain.ParkingSlot, error) {
	sl.s.mu.Lock()
	defer sl.s.mu.Unlock()
	if err := sl.s.fail("Slots.GetByID"); err != nil {
		return nil, err
	}
	slot, ok := sl.s.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return &slot, nil
}

func (sl *Slots) ListByLotID(_ context.Context, lotID int64) ([]*domain.ParkingSlot, error) {
	return sl.list(func(slot domain.ParkingSlot) bool { return slot.LotID == lotID }), nil
}

func (sl *Slots) ListAll(_ context.Context) ([]*domain.ParkingSlot, error) {
	return sl.list(func(domain.ParkingSlot) bool { return true }), nil
}

func (sl *Slots) list(match func(domain.ParkingSlot) bool) []*domain.ParkingSlot {
	sl.s.mu.Lock()
	defer sl.s.mu.Unlock()
	slots := make([]*domain.ParkingSlot, 0)
	for _, slot := range sl.s.slots {
		if match(slot) {
			slot := slot
			slots = append(slots, &slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].LotID != slots[j].LotID {
			return slots[i].LotID < slots[j].LotID
		}
		return strings.Compare(slots[i].SlotNumber, slots[j].SlotNumber) < 0
	})
	return slots
}

func (sl *Slots) CountByLotID(_ context.Context, lotID int64) (int, error) {
	return len(sl.list(func(slot domain.ParkingSlot) bool { return slot.LotID == lotID })), nil
}

func (sl *Slots) CountByStatus(_ context.Context) (map[int64]map[domain.SlotStatus]int, error) {
	sl.s.mu.Lock()
	defer sl.s.mu.Unlock()
	counts := make(map[int64]map[domain.SlotStatus]int)
	for _, slot := range sl.s.slots {
		if counts[slot.LotID] == nil {
			counts[slot.LotID] = make(map[domain.SlotStatus]int)
		}
		counts[slot.LotID][slot.Status]++
	}
	return counts, nil
}

func (sl *Slots) UpdateStatus(_ context.Context, id int64, status domain.SlotStatus) error {
	sl.s.mu.Lock()
	defer sl.s.mu.Unlock()
	if err := sl.s.fail("Slots.UpdateStatus"); err != nil {
		return err
	}
	slot, ok := sl.s.slots[id]
	if !ok {
		return slotRepo.ErrSlotNotFound
	}
	slot.Status = status
	sl.s.slots[id] = slot
	return nil
}

func (sl *Slots) UpdateStatusIf(_ context.Context, id int64, expected, status domain.SlotStatus) error {
	sl.s.mu.Lock()
	defer sl.s.mu.Unlock()
	if err := sl.s.fail("Slots.UpdateStatusIf"); err != nil {
		return err
	}
	slot, ok := sl.s.slots[id]
	if !ok || slot.Status != expected {
		return slotRepo.ErrStatusConflict
	}
	slot.Status = status
	sl.s.slots[id] = slot
	return nil
}

// Delete удаляет слот вместе с его бронированиями (ON DELETE CASCADE)
func (sl *Slots) Delete(_ context.Context, id int64) error {
	sl.s.mu.Lock()
	defer sl.s.mu.Unlock()
	if _, ok := sl.s.slots[id]; !ok {
		return slotRepo.ErrSlotNotFound
	}
	delete(sl.s.slots, id)
	sl.s.deleteReservationsOf(id)
	return nil
}

func (sl *Slots) DeleteByLotID(_ context.Context, lotID int64) (int64, error) {
	sl.s.mu.Lock()
	defer sl.s.mu.Unlock()
	if err := sl.s.fail("Slots.DeleteByLotID"); err != nil {
		return 0, err
	}
	var deleted int64
	for id, slot := range sl.s.slots {
		if slot.LotID == lotID {
			delete(sl.s.slots, id)
			sl.s.deleteReservationsOf(id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *Store) deleteReservationsOf(slotID int64) int64 {
	var deleted int64
	for id, r := range s.reservations {
		if r.SlotID == slotID {
			delete(s.reservations, id)
			deleted++
		}
	}
	return deleted
}

// Reservations бронирования в памяти
type Reservations struct{ s *Store }

// Create повторяет частичный уникальный индекс: одно активное бронирование на слот
func (rs *Reservations) Create(_ context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	if err := rs.s.fail("Reservations.Create"); err != nil {
		return nil, err
	}
	if r.Status == domain.ReservationActive {
		for _, existing := range rs.s.reservations {
			if existing.SlotID == r.SlotID && existing.Status == domain.ReservationActive {
				return nil, reservationRepo.ErrActiveReservationExists
			}
		}
	}
	r.ID = rs.s.id()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	rs.s.reservations[r.ID] = *r
	return r, nil
}

func (rs *Reservations) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	if err := rs.s.fail("Reservations.GetByID"); err != nil {
		return nil, err
	}
	r, ok := rs.s.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return &r, nil
}

func (rs *Reservations) GetActiveBySlotID(_ context.Context, slotID int64) (*domain.Reservation, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	if err := rs.s.fail("Reservations.GetActiveBySlotID"); err != nil {
		return nil, err
	}
	for _, r := range rs.s.reservations {
		if r.SlotID == slotID && r.Status == domain.ReservationActive {
			return &r, nil
		}
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (rs *Reservations) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	return rs.List(ctx, domain.ReservationFilter{UserID: &userID, Status: status})
}

func (rs *Reservations) List(_ context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	if err := rs.s.fail("Reservations.List"); err != nil {
		return nil, err
	}
	result := make([]*domain.Reservation, 0)
	for _, r := range rs.s.reservations {
		if filter.UserID != nil && r.UserID != *filter.UserID {
			continue
		}
		if filter.SlotID != nil && r.SlotID != *filter.SlotID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		r := r
		result = append(result, &r)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].StartTime.After(result[j].StartTime)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (rs *Reservations) ActiveSlotIDs(_ context.Context) (map[int64]struct{}, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	ids := make(map[int64]struct{})
	for _, r := range rs.s.reservations {
		if r.Status == domain.ReservationActive {
			ids[r.SlotID] = struct{}{}
		}
	}
	return ids, nil
}

func (rs *Reservations) Complete(_ context.Context, id int64, endTime time.Time, cost float64) error {
	return rs.transition("Reservations.Complete", id, func(r *domain.Reservation) {
		r.Status = domain.ReservationCompleted
		r.EndTime = &endTime
		r.Cost = &cost
	})
}

func (rs *Reservations) Cancel(_ context.Context, id int64) error {
	return rs.transition("Reservations.Cancel", id, func(r *domain.Reservation) {
		r.Status = domain.ReservationCancelled
	})
}

func (rs *Reservations) transition(method string, id int64, apply func(r *domain.Reservation)) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	if err := rs.s.fail(method); err != nil {
		return err
	}
	r, ok := rs.s.reservations[id]
	if !ok || r.Status != domain.ReservationActive {
		return reservationRepo.ErrNotActive
	}
	apply(&r)
	r.UpdatedAt = time.Now()
	rs.s.reservations[id] = r
	return nil
}

func (rs *Reservations) CountByStatus(_ context.Context) (map[domain.ReservationStatus]int, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	counts := make(map[domain.ReservationStatus]int)
	for _, r := range rs.s.reservations {
		counts[r.Status]++
	}
	return counts, nil
}

func (rs *Reservations) Revenue(_ context.Context) (float64, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	var revenue float64
	for _, r := range rs.s.reservations {
		if r.Status == domain.ReservationCompleted && r.Cost != nil {
			revenue += *r.Cost
		}
	}
	return revenue, nil
}

func (rs *Reservations) DeleteBySlotID(_ context.Context, slotID int64) (int64, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	return rs.s.deleteReservationsOf(slotID), nil
}

func (rs *Reservations) DeleteByLotID(_ context.Context, lotID int64) (int64, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	if err := rs.s.fail("Reservations.DeleteByLotID"); err != nil {
		return 0, err
	}
	var deleted int64
	for _, slot := range rs.s.slots {
		if slot.LotID == lotID {
			deleted += rs.s.deleteReservationsOf(slot.ID)
		}
	}
	return deleted, nil
}
