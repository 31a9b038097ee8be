package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/catalog"
	commentRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/comment"
)

// Store хранилище в памяти с тем же контрактом, что и репозитории PostgreSQL.
// Возвращает те же ошибки-сентинелы, поэтому сервисы работают с ним без изменений.
// Используется драйвером "memory" и в тестах.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	types     map[int64]*domain.AssistanceType
	templates map[int64]*domain.AssistanceTemplate
	toons     map[int64]*domain.FeaturedToon
	bookings  map[int64]*domain.Booking
	comments  map[int64][]*domain.Comment

	typeSeq, templateSeq, toonSeq int64
	bookingSeq, requestSeq        int64
	commentSeq                    int64
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		now:       time.Now,
		types:     make(map[int64]*domain.AssistanceType),
		templates: make(map[int64]*domain.AssistanceTemplate),
		toons:     make(map[int64]*domain.FeaturedToon),
		bookings:  make(map[int64]*domain.Booking),
		comments:  make(map[int64][]*domain.Comment),
	}
}

// ---- бронирования ----

func (s *Store) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookingSeq++
	now := s.now()

	stored := cloneBooking(b)
	stored.ID = s.bookingSeq
	if stored.PhotoURLs == nil {
		stored.PhotoURLs = []string{}
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.bookings[stored.ID] = stored

	return cloneBooking(stored), nil
}

func (s *Store) NextRequestSeq(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requestSeq++
	return s.requestSeq, nil
}

func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (s *Store) ListActiveByType(ctx context.Context, assistanceTypeID int64, days []domain.Weekday) ([]*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range s.sortedBookings() {
		if b.AssistanceTypeID != assistanceTypeID || !b.IsActive() || !b.IsScheduled() {
			continue
		}
		for _, d := range days {
			if b.Schedule.HasDay(d) {
				result = append(result, cloneBooking(b))
				break
			}
		}
	}
	return result, nil
}

func (s *Store) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.sortedBookings()
	result := make([]*domain.Booking, 0)
	// новые первыми
	for i := len(all) - 1; i >= 0; i-- {
		b := all[i]
		if filter.RequesterID != nil && b.Requester.CharacterID != *filter.RequesterID {
			continue
		}
		if filter.AssistanceTypeID != nil && b.AssistanceTypeID != *filter.AssistanceTypeID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		result = append(result, cloneBooking(b))
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*domain.Booking{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (s *Store) CompareAndSetStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return time.Time{}, bookingRepo.ErrStatusConflict
	}
	b.Status = to
	b.UpdatedAt = s.now()
	return b.UpdatedAt, nil
}

func (s *Store) AppendPhotos(ctx context.Context, id int64, urls []string, allowed []domain.BookingStatus, maxPhotos int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok || !containsStatus(allowed, b.Status) || len(b.PhotoURLs)+len(urls) > maxPhotos {
		return nil, bookingRepo.ErrStatusConflict
	}
	b.PhotoURLs = append(b.PhotoURLs, urls...)
	b.UpdatedAt = s.now()
	return append([]string(nil), b.PhotoURLs...), nil
}

func (s *Store) CountByStatus(ctx context.Context, status domain.BookingStatus, requesterID *string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, b := range s.bookings {
		if b.Status != status {
			continue
		}
		if requesterID != nil && b.Requester.CharacterID != *requesterID {
			continue
		}
		count++
	}
	return count, nil
}

func (s *Store) CountByType(ctx context.Context, assistanceTypeID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, b := range s.bookings {
		if b.AssistanceTypeID == assistanceTypeID {
			count++
		}
	}
	return count, nil
}

// Delete удаляет бронирование вместе с лентой комментариев
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(s.bookings, id)
	delete(s.comments, id)
	return nil
}

func (s *Store) sortedBookings() []*domain.Booking {
	all := make([]*domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// ---- комментарии ----

func (s *Store) Append(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[c.BookingID]; !ok {
		return nil, commentRepo.ErrBookingNotFound
	}

	s.commentSeq++
	stored := *c
	stored.ID = s.commentSeq
	stored.IsRead = false
	stored.CreatedAt = s.now()
	if c.AuthorName != nil {
		name := *c.AuthorName
		stored.AuthorName = &name
	}
	s.comments[c.BookingID] = append(s.comments[c.BookingID], &stored)

	out := stored
	return &out, nil
}

func (s *Store) ListByBooking(ctx context.Context, bookingID int64) ([]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	thread := s.comments[bookingID]
	result := make([]*domain.Comment, 0, len(thread))
	for _, c := range thread {
		out := *c
		result = append(result, &out)
	}
	return result, nil
}

func (s *Store) MarkRead(ctx context.Context, bookingID int64, viewer domain.ViewerRole) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var affected int64
	for _, c := range s.comments[bookingID] {
		if c.IsUnreadFor(viewer) {
			c.IsRead = true
			affected++
		}
	}
	return affected, nil
}

func (s *Store) CountUnread(ctx context.Context, filter domain.UnreadFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for bookingID, thread := range s.comments {
		if filter.BookingID != nil && bookingID != *filter.BookingID {
			continue
		}
		if filter.RequesterID != nil {
			b, ok := s.bookings[bookingID]
			if !ok || b.Requester.CharacterID != *filter.RequesterID {
				continue
			}
		}
		for _, c := range thread {
			if c.IsUnreadFor(filter.Role) {
				count++
			}
		}
	}
	return count, nil
}

func (s *Store) DeleteByBooking(ctx context.Context, bookingID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.comments[bookingID]))
	delete(s.comments, bookingID)
	return n, nil
}

// ---- справочники ----

func (s *Store) CreateType(ctx context.Context, t *domain.AssistanceType) (*domain.AssistanceType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.typeSeq++
	stored := cloneType(t)
	stored.ID = s.typeSeq
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt
	s.types[stored.ID] = stored
	return cloneType(stored), nil
}

func (s *Store) GetType(ctx context.Context, id int64) (*domain.AssistanceType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.types[id]
	if !ok {
		return nil, catalogRepo.ErrTypeNotFound
	}
	return cloneType(t), nil
}

func (s *Store) UpdateType(ctx context.Context, t *domain.AssistanceType) (*domain.AssistanceType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.types[t.ID]
	if !ok {
		return nil, catalogRepo.ErrTypeNotFound
	}
	stored := cloneType(t)
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = s.now()
	s.types[t.ID] = stored
	return cloneType(stored), nil
}

func (s *Store) ListTypes(ctx context.Context, activeOnly bool) ([]*domain.AssistanceType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.AssistanceType, 0, len(s.types))
	for _, t := range s.types {
		if activeOnly && !t.Active {
			continue
		}
		result = append(result, cloneType(t))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayOrder != result[j].DisplayOrder {
			return result[i].DisplayOrder < result[j].DisplayOrder
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) CreateTemplate(ctx context.Context, t *domain.AssistanceTemplate) (*domain.AssistanceTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.templateSeq++
	stored := cloneTemplate(t)
	stored.ID = s.templateSeq
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt
	s.templates[stored.ID] = stored
	return cloneTemplate(stored), nil
}

func (s *Store) GetTemplate(ctx context.Context, id int64) (*domain.AssistanceTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[id]
	if !ok {
		return nil, catalogRepo.ErrTemplateNotFound
	}
	return cloneTemplate(t), nil
}

func (s *Store) UpdateTemplate(ctx context.Context, t *domain.AssistanceTemplate) (*domain.AssistanceTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.templates[t.ID]
	if !ok {
		return nil, catalogRepo.ErrTemplateNotFound
	}
	stored := cloneTemplate(t)
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = s.now()
	s.templates[t.ID] = stored
	return cloneTemplate(stored), nil
}

func (s *Store) ListTemplates(ctx context.Context, activeOnly bool) ([]*domain.AssistanceTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.AssistanceTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		if activeOnly && !t.Active {
			continue
		}
		result = append(result, cloneTemplate(t))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayOrder != result[j].DisplayOrder {
			return result[i].DisplayOrder < result[j].DisplayOrder
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) CreateToon(ctx context.Context, t *domain.FeaturedToon) (*domain.FeaturedToon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.toonSeq++
	stored := *t
	stored.ID = s.toonSeq
	stored.CreatedAt = s.now()
	stored.UpdatedAt = stored.CreatedAt
	s.toons[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (s *Store) ListToons(ctx context.Context, activeOnly bool) ([]*domain.FeaturedToon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.FeaturedToon, 0, len(s.toons))
	for _, t := range s.toons {
		if activeOnly && !t.Active {
			continue
		}
		out := *t
		result = append(result, &out)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayOrder != result[j].DisplayOrder {
			return result[i].DisplayOrder < result[j].DisplayOrder
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) DeleteToon(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.toons[id]; !ok {
		return catalogRepo.ErrToonNotFound
	}
	delete(s.toons, id)
	return nil
}

func containsStatus(list []domain.BookingStatus, s domain.BookingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
