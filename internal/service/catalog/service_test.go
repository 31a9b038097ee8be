package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/internal/infra/storage/memory"
	bookingModels "github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AssistanceService/internal/service/catalog/models"
	"github.com/m04kA/SMC-AssistanceService/pkg/logger"
	"github.com/m04kA/SMC-AssistanceService/pkg/ptr"
)

var (
	admin = domain.Caller{UserID: "gm", IsAdmin: true}
	user  = domain.Caller{UserID: "Sylvanas"}
)

func newService() (*Service, *memory.Store) {
	store := memory.NewStore()
	return NewService(store, store, memory.NewTxManager(), logger.NewNop()), store
}

func createType(t *testing.T, svc *Service, req *models.CreateTypeRequest) *models.TypeResponse {
	t.Helper()
	resp, err := svc.CreateType(context.Background(), admin, req)
	require.NoError(t, err)
	return resp
}

func TestCreateType(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	resp := createType(t, svc, &models.CreateTypeRequest{
		Name:          "  Dungeon escort ",
		AllowSchedule: true,
		Capacity:      ptr.Ptr(3),
	})
	assert.Equal(t, "Dungeon escort", resp.Name)
	assert.True(t, resp.Active)
	require.NotNil(t, resp.Capacity)
	assert.Equal(t, 3, *resp.Capacity)

	_, err := svc.CreateType(ctx, user, &models.CreateTypeRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = svc.CreateType(ctx, admin, &models.CreateTypeRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateType(ctx, admin, &models.CreateTypeRequest{Name: "Raid", Capacity: ptr.Ptr(0)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateType(ctx, admin, &models.CreateTypeRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateType(ctx, admin, &models.CreateTypeRequest{Name: "Raid", Capacity: ptr.Ptr(domain.MaxCapacity + 1)})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateType_FrozenOnceReferenced(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	at := createType(t, svc, &models.CreateTypeRequest{Name: "Escort", AllowSchedule: true})

	// до первой заявки можно менять всё
	resp, err := svc.UpdateType(ctx, admin, at.ID, &models.UpdateTypeRequest{Name: ptr.Ptr("Escort run")})
	require.NoError(t, err)
	assert.Equal(t, "Escort run", resp.Name)

	_, err = store.Create(ctx, &domain.Booking{AssistanceTypeID: at.ID, Slots: 1, Status: domain.StatusCancelled})
	require.NoError(t, err)

	_, err = svc.UpdateType(ctx, admin, at.ID, &models.UpdateTypeRequest{Name: ptr.Ptr("Renamed")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateType(ctx, admin, at.ID, &models.UpdateTypeRequest{AllowSchedule: ptr.Ptr(false)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	resp, err = svc.UpdateType(ctx, admin, at.ID, &models.UpdateTypeRequest{
		DisplayOrder: ptr.Ptr(5),
		Capacity:     ptr.Ptr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.DisplayOrder)
	assert.Equal(t, 10, *resp.Capacity)
	assert.Equal(t, "Escort run", resp.Name)

	resp, err = svc.UpdateType(ctx, admin, at.ID, &models.UpdateTypeRequest{ClearCapacity: true})
	require.NoError(t, err)
	assert.Nil(t, resp.Capacity)
}

func TestDeactivateType_HiddenFromRequesters(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	visible := createType(t, svc, &models.CreateTypeRequest{Name: "Visible"})
	hidden := createType(t, svc, &models.CreateTypeRequest{Name: "Hidden"})

	resp, err := svc.DeactivateType(ctx, admin, hidden.ID)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	list, err := svc.ListTypes(ctx, user, false)
	require.NoError(t, err)
	require.Len(t, list.Types, 1)
	assert.Equal(t, visible.ID, list.Types[0].ID)

	list, err = svc.ListTypes(ctx, admin, false)
	require.NoError(t, err)
	assert.Len(t, list.Types, 2)

	_, err = svc.GetType(ctx, user, hidden.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetType(ctx, admin, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateTemplate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	scheduled := createType(t, svc, &models.CreateTypeRequest{Name: "Escort", AllowSchedule: true})
	unscheduled := createType(t, svc, &models.CreateTypeRequest{Name: "Advice"})

	resp, err := svc.CreateTemplate(ctx, admin, &models.CreateTemplateRequest{
		Title:            "Weekend mornings",
		AssistanceTypeID: scheduled.ID,
		DefaultSchedule: &bookingModels.ScheduleRequest{
			SelectedDays:    []string{"sun", "sat", "sat"},
			TimeRangePreset: "early",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSlots, resp.DefaultSlots)
	require.NotNil(t, resp.DefaultSchedule)
	assert.Equal(t, []string{"sat", "sun"}, resp.DefaultSchedule.SelectedDays)
	assert.Equal(t, "09:00", resp.DefaultSchedule.StartTime)
	assert.Equal(t, "12:00", resp.DefaultSchedule.EndTime)

	tests := []struct {
		name    string
		req     *models.CreateTemplateRequest
		wantErr error
	}{
		{
			name:    "unknown type",
			req:     &models.CreateTemplateRequest{Title: "x", AssistanceTypeID: 999},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "schedule on unscheduled type",
			req: &models.CreateTemplateRequest{
				Title:            "x",
				AssistanceTypeID: unscheduled.ID,
				DefaultSchedule:  &bookingModels.ScheduleRequest{SelectedDays: []string{"mon"}, TimeRangePreset: "late"},
			},
			wantErr: domain.ErrValidation,
		},
		{
			name: "inverted custom window",
			req: &models.CreateTemplateRequest{
				Title:            "x",
				AssistanceTypeID: scheduled.ID,
				DefaultSchedule: &bookingModels.ScheduleRequest{
					SelectedDays:    []string{"mon"},
					TimeRangePreset: "custom",
					StartTime:       ptr.Ptr("11:00"),
					EndTime:         ptr.Ptr("10:00"),
				},
			},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing title",
			req:     &models.CreateTemplateRequest{AssistanceTypeID: scheduled.ID},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTemplate(ctx, admin, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateTemplate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	at := createType(t, svc, &models.CreateTypeRequest{Name: "Escort", AllowSchedule: true})

	tpl, err := svc.CreateTemplate(ctx, admin, &models.CreateTemplateRequest{Title: "Plain", AssistanceTypeID: at.ID})
	require.NoError(t, err)
	assert.Nil(t, tpl.DefaultSchedule)

	updated, err := svc.UpdateTemplate(ctx, admin, tpl.ID, &models.UpdateTemplateRequest{
		DefaultSlots: ptr.Ptr(2),
		Schedule: &bookingModels.ScheduleRequest{
			SelectedDays:    []string{"wed"},
			TimeRangePreset: "custom",
			StartTime:       ptr.Ptr("18:30"),
			EndTime:         ptr.Ptr("20:00"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.DefaultSlots)
	require.NotNil(t, updated.DefaultSchedule)
	assert.Equal(t, "18:30", updated.DefaultSchedule.StartTime)

	deactivated, err := svc.DeactivateTemplate(ctx, admin, tpl.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	_, err = svc.GetTemplate(ctx, user, tpl.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UpdateTemplate(ctx, user, tpl.ID, &models.UpdateTemplateRequest{Title: ptr.Ptr("x")})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestToons(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	toon, err := svc.CreateToon(ctx, admin, &models.CreateToonRequest{
		CharacterClass: "mage",
		Name:           "Khadgar",
		ImageURL:       "https://cdn.example.com/khadgar.png",
	})
	require.NoError(t, err)

	_, err = svc.CreateToon(ctx, admin, &models.CreateToonRequest{CharacterClass: "mage", Name: "x", ImageURL: "nope"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := svc.ListToons(ctx, user, false)
	require.NoError(t, err)
	assert.Len(t, list.Toons, 1)

	assert.ErrorIs(t, svc.DeleteToon(ctx, user, toon.ID), domain.ErrAccessDenied)
	require.NoError(t, svc.DeleteToon(ctx, admin, toon.ID))
	assert.ErrorIs(t, svc.DeleteToon(ctx, admin, toon.ID), domain.ErrNotFound)
}
