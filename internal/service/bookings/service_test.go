package bookings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AssistanceService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AssistanceService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AssistanceService/pkg/logger"
	"github.com/m04kA/SMC-AssistanceService/pkg/metrics"
)

var (
	admin     = domain.Caller{UserID: "gm", IsAdmin: true}
	requester = domain.Caller{UserID: "Arthas"}
	stranger  = domain.Caller{UserID: "Thrall"}
)

type fixture struct {
	store   *memory.Store
	svc     *Service
	metrics *metrics.Metrics
	typeID  int64
}

func newFixture(t *testing.T, allowPhotos bool) *fixture {
	t.Helper()

	store := memory.NewStore()
	m := metrics.NewWithRegisterer(prometheus.NewRegistry(), "test")

	at, err := store.CreateType(context.Background(), &domain.AssistanceType{
		Name:             "Escort",
		Active:           true,
		AllowSchedule:    true,
		AllowPhotoUpload: allowPhotos,
	})
	require.NoError(t, err)

	return &fixture{
		store:   store,
		svc:     NewService(store, store, store, memory.NewTxManager(), m, logger.NewNop(), 0),
		metrics: m,
		typeID:  at.ID,
	}
}

func (f *fixture) seed(t *testing.T, owner string, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.store.Create(context.Background(), &domain.Booking{
		RequestNumber:    "REQ-000001",
		Requester:        domain.Requester{CharacterID: owner, Contact: "discord"},
		AssistanceTypeID: f.typeID,
		Slots:            1,
		Status:           status,
	})
	require.NoError(t, err)
	return b
}

func TestChangeStatus_Lifecycle(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.seed(t, requester.UserID, domain.StatusPending)

	resp, err := f.svc.Confirm(ctx, admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

	resp, err = f.svc.Complete(ctx, admin, b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), resp.Status)

	// терминальный статус не меняется
	_, err = f.svc.Cancel(ctx, admin, b.ID)
	var transitionErr *domain.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusCompleted, transitionErr.From)
	assert.Equal(t, domain.StatusCancelled, transitionErr.To)

	stored, err := f.store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TransitionsTotal.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TransitionsTotal.WithLabelValues("completed")))
}

func TestChangeStatus_CancelledBookingCannotBeConfirmed(t *testing.T) {
	f := newFixture(t, false)
	b := f.seed(t, requester.UserID, domain.StatusPending)

	_, err := f.svc.Cancel(context.Background(), requester, b.ID)
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), admin, b.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestChangeStatus_PendingCannotComplete(t *testing.T) {
	f := newFixture(t, false)
	b := f.seed(t, requester.UserID, domain.StatusPending)

	_, err := f.svc.Complete(context.Background(), admin, b.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestChangeStatus_AccessControl(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.seed(t, requester.UserID, domain.StatusPending)

	_, err := f.svc.Confirm(ctx, requester, b.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = f.svc.Cancel(ctx, stranger, b.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	resp, err := f.svc.Cancel(ctx, requester, b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
}

func TestChangeStatus_NotFound(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.svc.Confirm(context.Background(), admin, 404)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, domain.EntityBooking, nf.Entity)
	assert.Equal(t, int64(404), nf.ID)
}

func TestChangeStatus_UnknownStatusIsValidation(t *testing.T) {
	f := newFixture(t, false)
	b := f.seed(t, requester.UserID, domain.StatusPending)

	_, err := f.svc.ChangeStatus(context.Background(), admin, b.ID, &models.ChangeStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestChangeStatus_ConcurrentConfirmExactlyOneWins(t *testing.T) {
	f := newFixture(t, false)
	b := f.seed(t, requester.UserID, domain.StatusPending)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Confirm(context.Background(), admin, b.ID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrTransientConflict):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, rejected)
}

// flakyRepo проигрывает гонку на каждом условном обновлении
type flakyRepo struct {
	*memory.Store
}

func (r flakyRepo) CompareAndSetStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (time.Time, error) {
	return time.Time{}, bookingRepo.ErrStatusConflict
}

func TestChangeStatus_GivesUpAfterRetries(t *testing.T) {
	f := newFixture(t, false)
	b := f.seed(t, requester.UserID, domain.StatusPending)

	svc := NewService(flakyRepo{f.store}, f.store, f.store, memory.NewTxManager(), nil, logger.NewNop(), 2)

	_, err := svc.Confirm(context.Background(), admin, b.ID)
	var conflict *domain.TransientConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 2, conflict.Attempts)
}

func TestGetByID_Access(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.seed(t, requester.UserID, domain.StatusPending)

	resp, err := f.svc.GetByID(ctx, requester, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, resp.ID)
	assert.Equal(t, []string{}, resp.PhotoURLs)

	_, err = f.svc.GetByID(ctx, admin, b.ID)
	require.NoError(t, err)

	_, err = f.svc.GetByID(ctx, stranger, b.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestListMine_OnlyOwnNewestFirst(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	first := f.seed(t, requester.UserID, domain.StatusPending)
	f.seed(t, stranger.UserID, domain.StatusPending)
	second := f.seed(t, requester.UserID, domain.StatusPending)

	resp, err := f.svc.ListMine(ctx, requester, &models.ListBookingsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, second.ID, resp.Bookings[0].ID)
	assert.Equal(t, first.ID, resp.Bookings[1].ID)
}

func TestListAll_AdminOnlyWithStatusFilter(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.seed(t, requester.UserID, domain.StatusPending)
	f.seed(t, stranger.UserID, domain.StatusConfirmed)

	_, err := f.svc.ListAll(ctx, requester, &models.ListBookingsRequest{})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	status := string(domain.StatusConfirmed)
	resp, err := f.svc.ListAll(ctx, admin, &models.ListBookingsRequest{Status: &status})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, stranger.UserID, resp.Bookings[0].CharacterID)
}

func TestAddPhotos(t *testing.T) {
	ctx := context.Background()
	photos := &models.AddPhotosRequest{PhotoURLs: []string{"https://cdn.example.com/1.png"}}

	t.Run("appends while pending", func(t *testing.T) {
		f := newFixture(t, true)
		b := f.seed(t, requester.UserID, domain.StatusPending)

		resp, err := f.svc.AddPhotos(ctx, requester, b.ID, photos)
		require.NoError(t, err)
		assert.Equal(t, photos.PhotoURLs, resp.PhotoURLs)
	})

	t.Run("type does not accept photos", func(t *testing.T) {
		f := newFixture(t, false)
		b := f.seed(t, requester.UserID, domain.StatusPending)

		_, err := f.svc.AddPhotos(ctx, requester, b.ID, photos)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("terminal booking", func(t *testing.T) {
		f := newFixture(t, true)
		b := f.seed(t, requester.UserID, domain.StatusCancelled)

		_, err := f.svc.AddPhotos(ctx, requester, b.ID, photos)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("only the requester", func(t *testing.T) {
		f := newFixture(t, true)
		b := f.seed(t, requester.UserID, domain.StatusPending)

		_, err := f.svc.AddPhotos(ctx, admin, b.ID, photos)
		assert.ErrorIs(t, err, domain.ErrAccessDenied)
	})

	t.Run("invalid url", func(t *testing.T) {
		f := newFixture(t, true)
		b := f.seed(t, requester.UserID, domain.StatusPending)

		_, err := f.svc.AddPhotos(ctx, requester, b.ID, &models.AddPhotosRequest{PhotoURLs: []string{"not a url"}})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("limit reached", func(t *testing.T) {
		f := newFixture(t, true)
		b := f.seed(t, requester.UserID, domain.StatusPending)
		_, err := f.svc.AddPhotos(ctx, requester, b.ID, &models.AddPhotosRequest{PhotoURLs: photoURLs(domain.MaxPhotosPerBooking)})
		require.NoError(t, err)

		_, err = f.svc.AddPhotos(ctx, requester, b.ID, photos)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func photoURLs(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://cdn.example.com/%d.png", i)
	}
	return urls
}

// staleRepo всегда отдаёт бронирование в состоянии на момент снимка
type staleRepo struct {
	*memory.Store
	snapshot *domain.Booking
}

func (r staleRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b := *r.snapshot
	b.PhotoURLs = append([]string(nil), r.snapshot.PhotoURLs...)
	return &b, nil
}

func TestAddPhotos_LimitHoldsAgainstConcurrentAppend(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	b := f.seed(t, requester.UserID, domain.StatusPending)

	_, err := f.store.AppendPhotos(ctx, b.ID, photoURLs(domain.MaxPhotosPerBooking-1),
		[]domain.BookingStatus{domain.StatusPending}, domain.MaxPhotosPerBooking)
	require.NoError(t, err)
	snapshot, err := f.store.GetByID(ctx, b.ID)
	require.NoError(t, err)

	// другой запрос успел добавить последнее фото после нашего чтения
	_, err = f.store.AppendPhotos(ctx, b.ID, []string{"https://cdn.example.com/other.png"},
		[]domain.BookingStatus{domain.StatusPending}, domain.MaxPhotosPerBooking)
	require.NoError(t, err)

	svc := NewService(staleRepo{Store: f.store, snapshot: snapshot}, f.store, f.store,
		memory.NewTxManager(), nil, logger.NewNop(), 2)

	_, err = svc.AddPhotos(ctx, requester, b.ID, &models.AddPhotosRequest{PhotoURLs: []string{"https://cdn.example.com/late.png"}})
	require.Error(t, err)

	stored, err := f.store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, stored.PhotoURLs, domain.MaxPhotosPerBooking)
}

func TestAddPhotos_ConcurrentNeverExceedsLimit(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	b := f.seed(t, requester.UserID, domain.StatusPending)

	const workers = 25
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := &models.AddPhotosRequest{PhotoURLs: []string{fmt.Sprintf("https://cdn.example.com/w%d.png", i)}}
			if _, err := f.svc.AddPhotos(ctx, requester, b.ID, req); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	stored, err := f.store.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPhotosPerBooking, accepted)
	assert.Len(t, stored.PhotoURLs, domain.MaxPhotosPerBooking)
}

func TestPurge(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	b := f.seed(t, requester.UserID, domain.StatusCompleted)
	_, err := f.store.Append(ctx, &domain.Comment{BookingID: b.ID, Content: "thanks"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Purge(ctx, requester, b.ID), domain.ErrAccessDenied)

	require.NoError(t, f.svc.Purge(ctx, admin, b.ID))

	_, err = f.svc.GetByID(ctx, admin, b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	comments, err := f.store.ListByBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	assert.ErrorIs(t, f.svc.Purge(ctx, admin, b.ID), domain.ErrNotFound)
}
