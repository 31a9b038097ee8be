package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AssistanceService/pkg/psqlbuilder"
)

var toonColumns = []string{
	"id",
	"character_class",
	"name",
	"image_url",
	"description",
	"display_order",
	"active",
	"created_at",
	"updated_at",
}

// CreateToon добавляет витринного персонажа
func (r *Repository) CreateToon(ctx context.Context, t *domain.FeaturedToon) (*domain.FeaturedToon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("featured_toons").
		Columns("character_class", "name", "image_url", "description", "display_order", "active").
		Values(t.CharacterClass, t.Name, t.ImageURL, t.Description, t.DisplayOrder, t.Active).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateToon - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateToon - execute insert: %w", ErrExecQuery, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return t, nil
}

// ListToons возвращает витринных персонажей в порядке отображения
func (r *Repository) ListToons(ctx context.Context, activeOnly bool) ([]*domain.FeaturedToon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(toonColumns...).
		From("featured_toons").
		OrderBy("display_order ASC", "id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListToons - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListToons - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	toons := make([]*domain.FeaturedToon, 0)
	for rows.Next() {
		var (
			t                    domain.FeaturedToon
			createdAt, updatedAt sql.NullTime
		)
		err := rows.Scan(
			&t.ID,
			&t.CharacterClass,
			&t.Name,
			&t.ImageURL,
			&t.Description,
			&t.DisplayOrder,
			&t.Active,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListToons - scan row: %w", ErrScanRow, err)
		}
		t.CreatedAt = createdAt.Time
		t.UpdatedAt = updatedAt.Time
		toons = append(toons, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListToons - rows error: %w", ErrScanRow, err)
	}

	return toons, nil
}

// DeleteToon удаляет витринного персонажа. На персонажей никто не ссылается.
func (r *Repository) DeleteToon(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("featured_toons").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteToon - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteToon - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteToon - get rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrToonNotFound
	}

	return nil
}
