package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Preton24/VehicleParking/internal/domain"
	"github.com/Preton24/VehicleParking/pkg/dbmetrics"
	"github.com/Preton24/VehicleParking/pkg/pgerr"
	"github.com/Preton24/VehicleParking/pkg/psqlbuilder"
)

const table = "parking_slots"

var columns = []string{
	"id",
	"lot_id",
	"slot_number",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами парковки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет слот в парковку
func (r *Repository) Create(ctx context.Context, slot *domain.ParkingSlot) (*domain.ParkingSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("lot_id", "slot_number", "status").
		Values(slot.LotID, slot.SlotNumber, slot.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if _, ok := pgerr.UniqueViolation(err); ok {
		return nil, ErrSlotNumberTaken
	}
	if pgerr.IsForeignKeyViolation(err) {
		return nil, ErrLotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return slot, nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до коммита
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ParkingSlot, error) {
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

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// ListByLotID возвращает слоты парковки, отсортированные по номеру
func (r *Repository) ListByLotID(ctx context.Context, lotID int64) ([]*domain.ParkingSlot, error) {
	return r.list(ctx, "ListByLotID", squirrel.Eq{"lot_id": lotID})
}

// ListAll возвращает слоты всех парковок, сгруппированные по парковке
func (r *Repository) ListAll(ctx context.Context) ([]*domain.ParkingSlot, error) {
	return r.list(ctx, "ListAll", nil)
}

func (r *Repository) list(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.ParkingSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("lot_id ASC", "slot_number ASC")

	if where != nil {
		selectBuilder = selectBuilder.Where(where)
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	slots := make([]*domain.ParkingSlot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan slot: %w", ErrScanRow, op, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return slots, nil
}

// CountByLotID возвращает количество слотов в парковке
func (r *Repository) CountByLotID(ctx context.Context, lotID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(table).
		Where(squirrel.Eq{"lot_id": lotID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByLotID - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByLotID - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// CountByStatus возвращает количество слотов каждой парковки в разрезе статусов
func (r *Repository) CountByStatus(ctx context.Context) (map[int64]map[domain.SlotStatus]int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("lot_id", "status", "COUNT(*)").
		From(table).
		GroupBy("lot_id", "status").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	counts := make(map[int64]map[domain.SlotStatus]int)
	for rows.Next() {
		var (
			lotID  int64
			status domain.SlotStatus
			count  int
		)
		if err := rows.Scan(&lotID, &status, &count); err != nil {
			return nil, fmt.Errorf("%w: CountByStatus - scan row: %w", ErrScanRow, err)
		}
		if counts[lotID] == nil {
			counts[lotID] = make(map[domain.SlotStatus]int)
		}
		counts[lotID][status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: CountByStatus - rows error: %w", ErrScanRow, err)
	}

	return counts, nil
}

// UpdateStatus безусловно устанавливает статус слота
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.SlotStatus) error {
	return r.updateStatus(ctx, "UpdateStatus", squirrel.Eq{"id": id}, status, ErrSlotNotFound)
}

// UpdateStatusIf устанавливает статус, только если текущий статус равен expected
// Если слот существует, но статус другой, возвращает ErrStatusConflict
func (r *Repository) UpdateStatusIf(ctx context.Context, id int64, expected, status domain.SlotStatus) error {
	where := squirrel.Eq{"id": id, "status": expected}
	return r.updateStatus(ctx, "UpdateStatusIf", where, status, ErrStatusConflict)
}

func (r *Repository) updateStatus(ctx context.Context, op string, where squirrel.Eq, status domain.SlotStatus, notMatched error) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(where).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return notMatched
	}

	return nil
}

// Delete удаляет слот
// Бронирования слота удаляются каскадно (ON DELETE CASCADE)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// DeleteByLotID удаляет все слоты парковки и возвращает их количество
func (r *Repository) DeleteByLotID(ctx context.Context, lotID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"lot_id": lotID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByLotID - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByLotID - execute delete: %w", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByLotID - get rows affected: %w", ErrExecQuery, err)
	}

	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.ParkingSlot, error) {
	var slot domain.ParkingSlot

	err := row.Scan(
		&slot.ID,
		&slot.LotID,
		&slot.SlotNumber,
		&slot.Status,
		&slot.CreatedAt,
		&slot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}
