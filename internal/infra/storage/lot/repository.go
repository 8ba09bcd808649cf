package lot

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

const table = "parking_lots"

var columns = []string{
	"id",
	"name",
	"location",
	"price",
	"address",
	"pin_code",
	"maximum_number_of_spots",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с парковками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория парковок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую парковку
func (r *Repository) Create(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"name",
			"location",
			"price",
			"address",
			"pin_code",
			"maximum_number_of_spots",
		).
		Values(
			lot.Name,
			lot.Location,
			lot.Price,
			lot.Address,
			lot.PinCode,
			lot.MaximumNumberOfSpots,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&lot.ID,
		&lot.CreatedAt,
		&lot.UpdatedAt,
	)
	if _, ok := pgerr.UniqueViolation(err); ok {
		return nil, ErrLotNameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return lot, nil
}

// GetByID получает парковку по ID
// Внутри транзакции строка блокируется FOR SHARE, чтобы тариф не менялся до коммита
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR SHARE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	lot, err := scanLot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan lot: %w", ErrScanRow, err)
	}

	return lot, nil
}

// List возвращает все парковки, отсортированные по имени
func (r *Repository) List(ctx context.Context) ([]*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	lots := make([]*domain.ParkingLot, 0)
	for rows.Next() {
		lot, err := scanLot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan lot: %w", ErrScanRow, err)
		}
		lots = append(lots, lot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return lots, nil
}

// Update обновляет все редактируемые поля парковки
func (r *Repository) Update(ctx context.Context, lot *domain.ParkingLot) (*domain.ParkingLot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("name", lot.Name).
		Set("location", lot.Location).
		Set("price", lot.Price).
		Set("address", lot.Address).
		Set("pin_code", lot.PinCode).
		Set("maximum_number_of_spots", lot.MaximumNumberOfSpots).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": lot.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&lot.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLotNotFound
	}
	if _, ok := pgerr.UniqueViolation(err); ok {
		return nil, ErrLotNameTaken
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return lot, nil
}

// Delete удаляет парковку
// Слоты и бронирования удаляются каскадно (ON DELETE CASCADE)
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
		return ErrLotNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLot(row rowScanner) (*domain.ParkingLot, error) {
	var lot domain.ParkingLot
	var maxSpots sql.NullInt64

	err := row.Scan(
		&lot.ID,
		&lot.Name,
		&lot.Location,
		&lot.Price,
		&lot.Address,
		&lot.PinCode,
		&maxSpots,
		&lot.CreatedAt,
		&lot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if maxSpots.Valid {
		v := int(maxSpots.Int64)
		lot.MaximumNumberOfSpots = &v
	}

	return &lot, nil
}
