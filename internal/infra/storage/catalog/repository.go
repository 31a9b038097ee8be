package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AssistanceService/pkg/psqlbuilder"
)

// Repository репозиторий справочников: типы помощи, шаблоны, витринные персонажи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var typeColumns = []string{
	"id",
	"name",
	"active",
	"display_order",
	"allow_photo_upload",
	"allow_schedule",
	"capacity",
	"created_at",
	"updated_at",
}

// CreateType создает тип помощи
func (r *Repository) CreateType(ctx context.Context, t *domain.AssistanceType) (*domain.AssistanceType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("assistance_types").
		Columns("name", "active", "display_order", "allow_photo_upload", "allow_schedule", "capacity").
		Values(t.Name, t.Active, t.DisplayOrder, t.AllowPhotoUpload, t.AllowSchedule, t.Capacity).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateType - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateType - execute insert: %w", ErrExecQuery, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return t, nil
}

// GetType получает тип помощи по ID
func (r *Repository) GetType(ctx context.Context, id int64) (*domain.AssistanceType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(typeColumns...).
		From("assistance_types").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetType - build select query: %v", ErrBuildQuery, err)
	}

	t, err := scanType(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetType - scan type: %w", ErrScanRow, err)
	}

	return t, nil
}

// UpdateType перезаписывает изменяемые поля типа помощи
func (r *Repository) UpdateType(ctx context.Context, t *domain.AssistanceType) (*domain.AssistanceType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("assistance_types").
		Set("name", t.Name).
		Set("active", t.Active).
		Set("display_order", t.DisplayOrder).
		Set("allow_photo_upload", t.AllowPhotoUpload).
		Set("allow_schedule", t.AllowSchedule).
		Set("capacity", t.Capacity).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateType - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTypeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateType - execute update: %w", ErrExecQuery, err)
	}

	return t, nil
}

// ListTypes возвращает типы помощи в порядке отображения
func (r *Repository) ListTypes(ctx context.Context, activeOnly bool) ([]*domain.AssistanceType, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(typeColumns...).
		From("assistance_types").
		OrderBy("display_order ASC", "id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTypes - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTypes - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	types := make([]*domain.AssistanceType, 0)
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListTypes - scan row: %w", ErrScanRow, err)
		}
		types = append(types, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTypes - rows error: %w", ErrScanRow, err)
	}

	return types, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanType(row rowScanner) (*domain.AssistanceType, error) {
	var (
		t                    domain.AssistanceType
		capacity             sql.NullInt64
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Active,
		&t.DisplayOrder,
		&t.AllowPhotoUpload,
		&t.AllowSchedule,
		&capacity,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if capacity.Valid {
		c := int(capacity.Int64)
		t.Capacity = &c
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}
