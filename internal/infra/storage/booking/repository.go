package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AssistanceService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AssistanceService/pkg/types"
)

var bookingColumns = []string{
	"id",
	"request_number",
	"requester_character_id",
	"requester_contact",
	"assistance_type_id",
	"additional_info",
	"photo_urls",
	"selected_days",
	"time_range_preset",
	"start_time",
	"end_time",
	"slots",
	"donation_intent",
	"status",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
//
// Ошибки драйвера оборачиваются через %w, чтобы txmanager мог распознать
// конфликт сериализации (SQLSTATE 40001) и повторить транзакцию.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Вызывается внутри сериализуемой транзакции допуска заявки.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	days, preset, start, end := scheduleColumns(booking)

	photos := booking.PhotoURLs
	if photos == nil {
		photos = []string{}
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"request_number",
			"requester_character_id",
			"requester_contact",
			"assistance_type_id",
			"additional_info",
			"photo_urls",
			"selected_days",
			"time_range_preset",
			"start_time",
			"end_time",
			"slots",
			"donation_intent",
			"status",
		).
		Values(
			booking.RequestNumber,
			booking.Requester.CharacterID,
			booking.Requester.Contact,
			booking.AssistanceTypeID,
			booking.AdditionalInfo,
			pq.Array(photos),
			days,
			preset,
			start,
			end,
			booking.Slots,
			booking.DonationIntent,
			booking.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.PhotoURLs = photos
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// NextRequestSeq возвращает следующее значение последовательности номеров заявок
// Значения не переиспользуются, даже если заявка удалена или транзакция откатилась
func (r *Repository) NextRequestSeq(ctx context.Context) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(fmt.Sprintf("nextval('%s')", requestNumberSequence)).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: NextRequestSeq - build query: %v", ErrBuildQuery, err)
	}

	var seq int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&seq); err != nil {
		return 0, fmt.Errorf("%w: NextRequestSeq - execute: %w", ErrExecQuery, err)
	}

	return seq, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// ListActiveByType получает неотменённые бронирования типа помощи,
// у которых выбран хотя бы один из дней days.
// Внутри транзакции строки блокируются (FOR UPDATE) до конца допуска заявки.
func (r *Repository) ListActiveByType(ctx context.Context, assistanceTypeID int64, days []domain.Weekday) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"assistance_type_id": assistanceTypeID}).
		Where(squirrel.Eq{"status": domain.ActiveStatuses}).
		Where("selected_days && ?", pq.Array(domain.DayStrings(days))).
		OrderBy("id ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByType - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByType - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// List получает бронирования по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		OrderBy("created_at DESC", "id DESC")

	if filter.RequesterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"requester_character_id": *filter.RequesterID})
	}
	if filter.AssistanceTypeID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"assistance_type_id": *filter.AssistanceTypeID})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		selectBuilder = selectBuilder.Offset(uint64(filter.Offset))
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

	return scanBookings(rows)
}

// CompareAndSetStatus меняет статус, только если текущий статус равен from
// Возвращает ErrStatusConflict, если строка уже в другом статусе (или удалена)
func (r *Repository) CompareAndSetStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": from}).
		Suffix("RETURNING updated_at").
		ToSql()

	if err != nil {
		return time.Time{}, fmt.Errorf("%w: CompareAndSetStatus - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrStatusConflict
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: CompareAndSetStatus - execute update: %w", ErrExecQuery, err)
	}

	return updatedAt, nil
}

// AppendPhotos дописывает ссылки на фото, если бронирование в одном из статусов allowed
// и после добавления фото будет не больше maxPhotos.
// Возвращает ErrStatusConflict, если строка не подошла под условие
func (r *Repository) AppendPhotos(ctx context.Context, id int64, urls []string, allowed []domain.BookingStatus, maxPhotos int) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("photo_urls", squirrel.Expr("photo_urls || ?", pq.Array(urls))).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": allowed}).
		Where(squirrel.Expr("cardinality(photo_urls) + ? <= ?", len(urls), maxPhotos)).
		Suffix("RETURNING photo_urls").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: AppendPhotos - build update query: %v", ErrBuildQuery, err)
	}

	var photos []string
	err = executor.QueryRowContext(ctx, query, args...).Scan(pq.Array(&photos))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStatusConflict
	}
	if err != nil {
		return nil, fmt.Errorf("%w: AppendPhotos - execute update: %w", ErrExecQuery, err)
	}

	return photos, nil
}

// CountByStatus считает бронирования в статусе status
func (r *Repository) CountByStatus(ctx context.Context, status domain.BookingStatus, requesterID *string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"status": status})

	if requesterID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"requester_character_id": *requesterID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountByStatus - build query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByStatus - execute: %w", ErrExecQuery, err)
	}

	return count, nil
}

// CountByType считает все бронирования (любого статуса), ссылающиеся на тип помощи
func (r *Repository) CountByType(ctx context.Context, assistanceTypeID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"assistance_type_id": assistanceTypeID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountByType - build query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountByType - execute: %w", ErrExecQuery, err)
	}

	return count, nil
}

// Delete физически удаляет бронирование
// Комментарии удаляются каскадно (ON DELETE CASCADE); номер заявки не переиспользуется
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
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
		return ErrBookingNotFound
	}

	return nil
}

// scheduleColumns раскладывает расписание по колонкам
// Для бронирований без расписания все значения NULL
func scheduleColumns(b *domain.Booking) (interface{}, interface{}, interface{}, interface{}) {
	if !b.IsScheduled() {
		return nil, nil, nil, nil
	}
	return pq.Array(domain.DayStrings(b.Schedule.Days)),
		string(b.Schedule.TimeRange.Preset),
		b.Window.Start,
		b.Window.End
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		photos               []string
		days                 []string
		preset               sql.NullString
		start, end           types.TimeString
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&booking.ID,
		&booking.RequestNumber,
		&booking.Requester.CharacterID,
		&booking.Requester.Contact,
		&booking.AssistanceTypeID,
		&booking.AdditionalInfo,
		pq.Array(&photos),
		pq.Array(&days),
		&preset,
		&start,
		&end,
		&booking.Slots,
		&booking.DonationIntent,
		&booking.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if photos == nil {
		photos = []string{}
	}
	booking.PhotoURLs = photos

	if preset.Valid && len(days) > 0 {
		weekdays := make([]domain.Weekday, len(days))
		for i, d := range days {
			weekdays[i] = domain.Weekday(d)
		}

		window := domain.Window{Start: start, End: end}
		schedule := domain.Schedule{
			Days:      weekdays,
			TimeRange: domain.TimeRange{Preset: domain.TimeRangePreset(preset.String)},
		}
		if schedule.TimeRange.Preset == domain.PresetCustom {
			custom := window
			schedule.TimeRange.Custom = &custom
		}

		booking.Schedule = &schedule
		booking.Window = &window
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
