package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/Preton24/VehicleParking/internal/domain"
	"github.com/Preton24/VehicleParking/pkg/dbmetrics"
	"github.com/Preton24/VehicleParking/pkg/pgerr"
	"github.com/Preton24/VehicleParking/pkg/psqlbuilder"
)

const (
	table = "reservations"

	// activePerSlotIndex частичный уникальный индекс: одно активное бронирование на слот
	activePerSlotIndex = "reservations_one_active_per_slot"
)

var columns = []string{
	"id",
	"user_id",
	"slot_id",
	"vehicle_number",
	"start_time",
	"end_time",
	"status",
	"cost",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Выполняется в транзакции бронирования вместе с обновлением статуса слота.
// Нарушение уникального индекса активных бронирований возвращается как ErrActiveReservationExists.
func (r *Repository) Create(ctx context.Context, reservation *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"user_id",
			"slot_id",
			"vehicle_number",
			"start_time",
			"end_time",
			"status",
			"cost",
		).
		Values(
			reservation.UserID,
			reservation.SlotID,
			reservation.VehicleNumber,
			reservation.StartTime,
			reservation.EndTime,
			reservation.Status,
			reservation.Cost,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&reservation.ID,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if constraint, ok := pgerr.UniqueViolation(err); ok && constraint == activePerSlotIndex {
		return nil, ErrActiveReservationExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return reservation, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до коммита
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	return reservation, nil
}

// GetActiveBySlotID получает активное бронирование слота
// Возвращает ErrReservationNotFound, если слот свободен
func (r *Repository) GetActiveBySlotID(ctx context.Context, slotID int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"slot_id": slotID, "status": domain.ReservationActive}).
		Limit(1)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlotID - build select query: %v", ErrBuildQuery, err)
	}

	reservation, err := scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySlotID - scan reservation: %w", ErrScanRow, err)
	}

	return reservation, nil
}

// List возвращает бронирования по фильтру, новые первыми
// Пустой фильтр возвращает все бронирования (админская выборка)
func (r *Repository) List(ctx context.Context, filter domain.ReservationFilter) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("start_time DESC", "id DESC")

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.SlotID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"slot_id": *filter.SlotID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan reservation: %w", ErrScanRow, err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return reservations, nil
}

// GetByUserID возвращает бронирования пользователя, новые первыми
// status == nil означает все статусы
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error) {
	return r.List(ctx, domain.ReservationFilter{UserID: &userID, Status: status})
}

// ActiveSlotIDs возвращает множество слотов с активным бронированием
func (r *Repository) ActiveSlotIDs(ctx context.Context) (map[int64]struct{}, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_id").
		From(table).
		Where(squirrel.Eq{"status": domain.ReservationActive}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ActiveSlotIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ActiveSlotIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slotIDs := make(map[int64]struct{})
	for rows.Next() {
		var slotID int64
		if err := rows.Scan(&slotID); err != nil {
			return nil, fmt.Errorf("%w: ActiveSlotIDs - scan slot_id: %w", ErrScanRow, err)
		}
		slotIDs[slotID] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ActiveSlotIDs - rows error: %w", ErrScanRow, err)
	}

	return slotIDs, nil
}

// Complete завершает активное бронирование: проставляет время окончания и стоимость
// Возвращает ErrNotActive, если бронирование уже не активно
func (r *Repository) Complete(ctx context.Context, id int64, endTime time.Time, cost float64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.ReservationCompleted).
		Set("end_time", endTime).
		Set("cost", cost).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.ReservationActive}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Complete - build update query: %v", ErrBuildQuery, err)
	}

	return r.execTransition(ctx, executor, "Complete", query, args)
}

// Cancel отменяет активное бронирование, время окончания и стоимость остаются пустыми
// Возвращает ErrNotActive, если бронирование уже не активно
func (r *Repository) Cancel(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.ReservationCancelled).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.ReservationActive}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execTransition(ctx, executor, "Cancel", query, args)
}

func (r *Repository) execTransition(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrNotActive
	}

	return nil
}

// CountByStatus возвращает количество бронирований в разрезе статусов
func (r *Repository) CountByStatus(ctx context.Context) (map[domain.ReservationStatus]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("status", "COUNT(*)").
		From(table).
		GroupBy("status").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[domain.ReservationStatus]int)
	for rows.Next() {
		var (
			status domain.ReservationStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: CountByStatus - scan row: %w", ErrScanRow, err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - rows error: %w", ErrScanRow, err)
	}

	return counts, nil
}

// Revenue возвращает сумму стоимости завершённых бронирований
func (r *Repository) Revenue(ctx context.Context) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(SUM(cost), 0)").
		From(table).
		Where(squirrel.Eq{"status": domain.ReservationCompleted}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Revenue - build select query: %v", ErrBuildQuery, err)
	}

	var revenue float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&revenue); err != nil {
		return 0, fmt.Errorf("%w: Revenue - scan sum: %w", ErrScanRow, err)
	}

	return revenue, nil
}

// DeleteBySlotID удаляет все бронирования слота
func (r *Repository) DeleteBySlotID(ctx context.Context, slotID int64) (int64, error) {
	return r.deleteWhere(ctx, "DeleteBySlotID", squirrel.Eq{"slot_id": slotID})
}

// DeleteByLotID удаляет все бронирования слотов парковки
func (r *Repository) DeleteByLotID(ctx context.Context, lotID int64) (int64, error) {
	where := squirrel.Expr("slot_id IN (SELECT id FROM parking_slots WHERE lot_id = ?)", lotID)
	return r.deleteWhere(ctx, "DeleteByLotID", where)
}

func (r *Repository) deleteWhere(ctx context.Context, op string, where squirrel.Sqlizer) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(where).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: %s - build delete query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute delete: %w", ErrExecQuery, op, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var reservation domain.Reservation

	err := row.Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.SlotID,
		&reservation.VehicleNumber,
		&reservation.StartTime,
		&reservation.EndTime,
		&reservation.Status,
		&reservation.Cost,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &reservation, nil
}
