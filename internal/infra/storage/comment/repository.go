package comment

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
)

// SQLSTATE нарушения внешнего ключа
const codeForeignKeyViolation = "23503"

// Repository репозиторий комментариев к бронированиям
// id комментария - BIGSERIAL, он же порядок в ленте
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория комментариев
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет комментарий с is_read = false
func (r *Repository) Append(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("comments").
		Columns("booking_id", "content", "is_admin", "author_name", "is_read").
		Values(c.BookingID, c.Content, c.IsAdmin, c.AuthorName, false).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == codeForeignKeyViolation {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: Append - execute insert: %w", ErrExecQuery, err)
	}

	c.IsRead = false
	return c, nil
}

// ListByBooking возвращает ленту комментариев в порядке добавления
func (r *Repository) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Comment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "booking_id", "content", "is_admin", "author_name", "is_read", "created_at").
		From("comments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.BookingID, &c.Content, &c.IsAdmin, &c.AuthorName, &c.IsRead, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByBooking - scan row: %w", ErrScanRow, err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBooking - rows error: %w", ErrScanRow, err)
	}

	return comments, nil
}

// MarkRead отмечает прочитанными комментарии другой стороны
// Повторный вызов ничего не меняет и возвращает 0
func (r *Repository) MarkRead(ctx context.Context, bookingID int64, viewer domain.ViewerRole) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("comments").
		Set("is_read", true).
		Where(squirrel.Eq{
			"booking_id": bookingID,
			"is_admin":   !viewer.IsAdmin(),
			"is_read":    false,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MarkRead - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: MarkRead - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkRead - get rows affected: %w", ErrExecQuery, err)
	}

	return affected, nil
}

// CountUnread считает непрочитанные комментарии другой стороны
// Для заявителя фильтр ограничивает подсчёт его бронированиями
func (r *Repository) CountUnread(ctx context.Context, filter domain.UnreadFilter) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("comments c").
		Where(squirrel.Eq{
			"c.is_read":  false,
			"c.is_admin": !filter.Role.IsAdmin(),
		})

	if filter.BookingID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"c.booking_id": *filter.BookingID})
	}
	if filter.RequesterID != nil {
		selectBuilder = selectBuilder.
			Join("bookings b ON b.id = c.booking_id").
			Where(squirrel.Eq{"b.requester_character_id": *filter.RequesterID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountUnread - build query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: CountUnread - execute: %w", ErrExecQuery, err)
	}

	return count, nil
}

// DeleteByBooking удаляет ленту бронирования (только при удалении самого бронирования)
func (r *Repository) DeleteByBooking(ctx context.Context, bookingID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("comments").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByBooking - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByBooking - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByBooking - get rows affected: %w", ErrExecQuery, err)
	}

	return affected, nil
}
