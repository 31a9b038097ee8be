package comments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-AssistanceService/internal/service/comments/models"
	"github.com/m04kA/SMC-AssistanceService/pkg/logger"
	"github.com/m04kA/SMC-AssistanceService/pkg/ptr"
)

var (
	admin     = domain.Caller{UserID: "gm", IsAdmin: true}
	requester = domain.Caller{UserID: "Jaina"}
	stranger  = domain.Caller{UserID: "Garrosh"}
)

func setup(t *testing.T, status domain.BookingStatus) (*Service, *memory.Store, int64) {
	t.Helper()
	store := memory.NewStore()
	b, err := store.Create(context.Background(), &domain.Booking{
		RequestNumber:    "REQ-000001",
		Requester:        domain.Requester{CharacterID: requester.UserID},
		AssistanceTypeID: 1,
		Slots:            1,
		Status:           status,
	})
	require.NoError(t, err)
	return NewService(store, store, logger.NewNop()), store, b.ID
}

func add(t *testing.T, svc *Service, caller domain.Caller, bookingID int64, text string) *models.CommentResponse {
	t.Helper()
	c, err := svc.Add(context.Background(), caller, bookingID, &models.AddCommentRequest{Content: text})
	require.NoError(t, err)
	return c
}

func TestThread_OrderAndReadFlags(t *testing.T) {
	svc, _, id := setup(t, domain.StatusPending)
	ctx := context.Background()

	first := add(t, svc, requester, id, "hi")
	second := add(t, svc, admin, id, "hello")
	third := add(t, svc, requester, id, "thanks")

	assert.False(t, first.IsAdmin)
	assert.True(t, second.IsAdmin)

	marked, err := svc.MarkRead(ctx, admin, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked.Marked)

	thread, err := svc.List(ctx, requester, id)
	require.NoError(t, err)
	require.Len(t, thread.Comments, 3)

	assert.Equal(t, []int64{first.ID, second.ID, third.ID},
		[]int64{thread.Comments[0].ID, thread.Comments[1].ID, thread.Comments[2].ID})
	assert.True(t, thread.Comments[0].IsRead)
	assert.False(t, thread.Comments[1].IsRead)
	assert.True(t, thread.Comments[2].IsRead)
}

func TestMarkRead_Idempotent(t *testing.T) {
	svc, _, id := setup(t, domain.StatusPending)
	ctx := context.Background()
	add(t, svc, admin, id, "please confirm your contact")

	marked, err := svc.MarkRead(ctx, requester, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked.Marked)

	marked, err = svc.MarkRead(ctx, requester, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), marked.Marked)
}

func TestMarkRead_OwnCommentsUntouched(t *testing.T) {
	svc, _, id := setup(t, domain.StatusPending)
	ctx := context.Background()
	add(t, svc, requester, id, "anyone?")

	marked, err := svc.MarkRead(ctx, requester, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), marked.Marked)
}

func TestAdd_AllowedOnTerminalBooking(t *testing.T) {
	svc, _, id := setup(t, domain.StatusCompleted)

	c, err := svc.Add(context.Background(), requester, id, &models.AddCommentRequest{
		Content:    "great run",
		AuthorName: ptr.Ptr("Jaina"),
	})
	require.NoError(t, err)
	require.NotNil(t, c.AuthorName)
	assert.Equal(t, "Jaina", *c.AuthorName)
}

func TestAdd_Errors(t *testing.T) {
	svc, _, id := setup(t, domain.StatusPending)
	ctx := context.Background()

	tests := []struct {
		name      string
		caller    domain.Caller
		bookingID int64
		content   string
		wantErr   error
	}{
		{"missing booking", admin, 999, "hello", domain.ErrNotFound},
		{"empty content", requester, id, "", domain.ErrValidation},
		{"blank content", requester, id, "   ", domain.ErrValidation},
		{"foreign booking", stranger, id, "hello", domain.ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tt.caller, tt.bookingID, &models.AddCommentRequest{Content: tt.content})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestList_EmptyThread(t *testing.T) {
	svc, _, id := setup(t, domain.StatusPending)

	thread, err := svc.List(context.Background(), admin, id)
	require.NoError(t, err)
	assert.NotNil(t, thread.Comments)
	assert.Empty(t, thread.Comments)
}
