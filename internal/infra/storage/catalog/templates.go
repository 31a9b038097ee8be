package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AssistanceService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AssistanceService/pkg/types"
)

var templateColumns = []string{
	"id",
	"title",
	"description",
	"assistance_type_id",
	"default_days",
	"default_preset",
	"default_start_time",
	"default_end_time",
	"default_slots",
	"active",
	"display_order",
	"created_at",
	"updated_at",
}

// CreateTemplate создает шаблон заявки
func (r *Repository) CreateTemplate(ctx context.Context, t *domain.AssistanceTemplate) (*domain.AssistanceTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	days, preset, start, end := defaultScheduleColumns(t.DefaultSchedule)

	query, args, err := psqlbuilder.Insert("assistance_templates").
		Columns(
			"title",
			"description",
			"assistance_type_id",
			"default_days",
			"default_preset",
			"default_start_time",
			"default_end_time",
			"default_slots",
			"active",
			"display_order",
		).
		Values(
			t.Title,
			t.Description,
			t.AssistanceTypeID,
			days,
			preset,
			start,
			end,
			t.DefaultSlots,
			t.Active,
			t.DisplayOrder,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateTemplate - execute insert: %w", ErrExecQuery, err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return t, nil
}

// GetTemplate получает шаблон по ID
func (r *Repository) GetTemplate(ctx context.Context, id int64) (*domain.AssistanceTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(templateColumns...).
		From("assistance_templates").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplate - build select query: %v", ErrBuildQuery, err)
	}

	t, err := scanTemplate(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTemplate - scan template: %w", ErrScanRow, err)
	}

	return t, nil
}

// UpdateTemplate перезаписывает поля шаблона
// Созданные из шаблона бронирования не затрагиваются: они хранят копию
func (r *Repository) UpdateTemplate(ctx context.Context, t *domain.AssistanceTemplate) (*domain.AssistanceTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	days, preset, start, end := defaultScheduleColumns(t.DefaultSchedule)

	query, args, err := psqlbuilder.Update("assistance_templates").
		Set("title", t.Title).
		Set("description", t.Description).
		Set("assistance_type_id", t.AssistanceTypeID).
		Set("default_days", days).
		Set("default_preset", preset).
		Set("default_start_time", start).
		Set("default_end_time", end).
		Set("default_slots", t.DefaultSlots).
		Set("active", t.Active).
		Set("display_order", t.DisplayOrder).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateTemplate - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateTemplate - execute update: %w", ErrExecQuery, err)
	}

	return t, nil
}

// ListTemplates возвращает шаблоны в порядке отображения
func (r *Repository) ListTemplates(ctx context.Context, activeOnly bool) ([]*domain.AssistanceTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(templateColumns...).
		From("assistance_templates").
		OrderBy("display_order ASC", "id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListTemplates - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	templates := make([]*domain.AssistanceTemplate, 0)
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListTemplates - scan row: %w", ErrScanRow, err)
		}
		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListTemplates - rows error: %w", ErrScanRow, err)
	}

	return templates, nil
}

// defaultScheduleColumns раскладывает расписание по умолчанию по колонкам
// start/end хранятся только для пресета custom
func defaultScheduleColumns(s *domain.Schedule) (interface{}, interface{}, interface{}, interface{}) {
	if s == nil {
		return nil, nil, nil, nil
	}

	var start, end interface{}
	if s.TimeRange.Custom != nil {
		start = s.TimeRange.Custom.Start
		end = s.TimeRange.Custom.End
	}

	return pq.Array(domain.DayStrings(s.Days)), string(s.TimeRange.Preset), start, end
}

func scanTemplate(row rowScanner) (*domain.AssistanceTemplate, error) {
	var (
		t                    domain.AssistanceTemplate
		days                 []string
		preset               sql.NullString
		start, end           types.TimeString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.AssistanceTypeID,
		pq.Array(&days),
		&preset,
		&start,
		&end,
		&t.DefaultSlots,
		&t.Active,
		&t.DisplayOrder,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if preset.Valid {
		s := &domain.Schedule{TimeRange: domain.TimeRange{Preset: domain.TimeRangePreset(preset.String)}}
		for _, d := range days {
			s.Days = append(s.Days, domain.Weekday(d))
		}
		if !start.IsZero() && !end.IsZero() {
			s.TimeRange.Custom = &domain.Window{Start: start, End: end}
		}
		t.DefaultSchedule = s
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}
