package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AssistanceService/internal/service/notifications/models"
	"github.com/m04kA/SMC-AssistanceService/pkg/logger"
)

var (
	admin = domain.Caller{UserID: "gm", IsAdmin: true}
	alice = domain.Caller{UserID: "Alice"}
	bob   = domain.Caller{UserID: "Bob"}
)

type env struct {
	store *memory.Store
	svc   *Service
}

func newEnv() *env {
	store := memory.NewStore()
	return &env{store: store, svc: NewService(store, store, logger.NewNop())}
}

func (e *env) booking(t *testing.T, owner string, status domain.BookingStatus) int64 {
	t.Helper()
	b, err := e.store.Create(context.Background(), &domain.Booking{
		Requester:        domain.Requester{CharacterID: owner},
		AssistanceTypeID: 1,
		Slots:            1,
		Status:           status,
	})
	require.NoError(t, err)
	return b.ID
}

func (e *env) comment(t *testing.T, bookingID int64, byAdmin bool) {
	t.Helper()
	_, err := e.store.Append(context.Background(), &domain.Comment{BookingID: bookingID, Content: "msg", IsAdmin: byAdmin})
	require.NoError(t, err)
}

func unread(t *testing.T, e *env, caller domain.Caller, bookingID *int64) int {
	t.Helper()
	resp, err := e.svc.UnreadCount(context.Background(), caller, &models.UnreadRequest{BookingID: bookingID})
	require.NoError(t, err)
	return resp.Unread
}

func TestUnreadCount_PerRole(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	id := e.booking(t, alice.UserID, domain.StatusPending)

	e.comment(t, id, false)
	e.comment(t, id, true)
	e.comment(t, id, false)

	assert.Equal(t, 2, unread(t, e, admin, nil))
	assert.Equal(t, 1, unread(t, e, alice, nil))

	_, err := e.store.MarkRead(ctx, id, domain.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, 0, unread(t, e, admin, nil))
	assert.Equal(t, 1, unread(t, e, alice, &id))
}

func TestUnreadCount_RequesterSeesOnlyOwnBookings(t *testing.T) {
	e := newEnv()
	mine := e.booking(t, alice.UserID, domain.StatusPending)
	theirs := e.booking(t, bob.UserID, domain.StatusPending)

	e.comment(t, mine, true)
	e.comment(t, theirs, true)
	e.comment(t, theirs, true)

	assert.Equal(t, 1, unread(t, e, alice, nil))
	assert.Equal(t, 2, unread(t, e, bob, nil))

	_, err := e.svc.UnreadCount(context.Background(), alice, &models.UnreadRequest{BookingID: &theirs})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestUnreadCount_ExactCountWithoutCap(t *testing.T) {
	e := newEnv()
	id := e.booking(t, alice.UserID, domain.StatusPending)
	for i := 0; i < 12; i++ {
		e.comment(t, id, false)
	}

	assert.Equal(t, 12, unread(t, e, admin, nil))
}

func TestUnreadCount_MissingBooking(t *testing.T) {
	e := newEnv()
	missing := int64(42)

	_, err := e.svc.UnreadCount(context.Background(), admin, &models.UnreadRequest{BookingID: &missing})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummary(t *testing.T) {
	e := newEnv()
	first := e.booking(t, alice.UserID, domain.StatusPending)
	e.booking(t, alice.UserID, domain.StatusConfirmed)
	e.booking(t, bob.UserID, domain.StatusPending)
	e.comment(t, first, false)

	adminSummary, err := e.svc.Summary(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, &models.SummaryResponse{Role: "admin", UnreadComments: 1, PendingBookings: 2}, adminSummary)

	aliceSummary, err := e.svc.Summary(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, &models.SummaryResponse{Role: "requester", UnreadComments: 0, PendingBookings: 1}, aliceSummary)
}
