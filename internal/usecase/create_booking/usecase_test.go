package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/internal/infra/storage/memory"
	bookingModels "github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AssistanceService/pkg/keymutex"
	"github.com/m04kA/SMC-AssistanceService/pkg/logger"
	"github.com/m04kA/SMC-AssistanceService/pkg/metrics"
	"github.com/m04kA/SMC-AssistanceService/pkg/ptr"
	"github.com/m04kA/SMC-AssistanceService/pkg/txmanager"
)

type fixture struct {
	store   *memory.Store
	uc      *UseCase
	metrics *metrics.Metrics
}

func newFixture() *fixture {
	store := memory.NewStore()
	m := metrics.NewWithRegisterer(prometheus.NewRegistry(), "test")
	return &fixture{
		store:   store,
		metrics: m,
		uc: NewUseCase(store, store, memory.NewTxManager(), keymutex.New[int64](), m,
			logger.NewNop(), "", txmanager.DefaultMaxRetries),
	}
}

func (f *fixture) escort(t *testing.T, capacity *int) *domain.AssistanceType {
	t.Helper()
	at, err := f.store.CreateType(context.Background(), &domain.AssistanceType{
		Name:          "Escort",
		Active:        true,
		AllowSchedule: true,
		Capacity:      capacity,
	})
	require.NoError(t, err)
	return at
}

func mondayTenToEleven() *bookingModels.ScheduleRequest {
	return &bookingModels.ScheduleRequest{
		SelectedDays:    []string{"mon"},
		TimeRangePreset: "custom",
		StartTime:       ptr.Ptr("10:00"),
		EndTime:         ptr.Ptr("11:00"),
	}
}

func request(typeID int64, slots int, schedule *bookingModels.ScheduleRequest) *Request {
	return &Request{
		CharacterID:      "Uther",
		Contact:          "uther#1234",
		AssistanceTypeID: typeID,
		Schedule:         schedule,
		Slots:            slots,
	}
}

func TestExecute_CapacityScenario(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	at := f.escort(t, ptr.Ptr(2))

	x, err := f.uc.Execute(ctx, request(at.ID, 1, mondayTenToEleven()))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), x.Status)
	assert.Equal(t, "REQ-000001", x.RequestNumber)
	require.NotNil(t, x.Schedule)
	assert.Equal(t, "10:00", x.Schedule.StartTime)

	_, err = f.uc.Execute(ctx, request(at.ID, 2, mondayTenToEleven()))
	var capErr *domain.CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, domain.Monday, capErr.Day)
	assert.Equal(t, 1, capErr.Used)
	assert.Equal(t, 2, capErr.Capacity)

	z, err := f.uc.Execute(ctx, request(at.ID, 1, mondayTenToEleven()))
	require.NoError(t, err)
	assert.Equal(t, "REQ-000002", z.RequestNumber)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.AdmissionsTotal.WithLabelValues(metrics.AdmissionAdmitted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AdmissionsTotal.WithLabelValues(metrics.AdmissionCapacityExceeded)))
}

func TestExecute_CancelReleasesSlots(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	at := f.escort(t, ptr.Ptr(2))

	full, err := f.uc.Execute(ctx, request(at.ID, 2, mondayTenToEleven()))
	require.NoError(t, err)
	_, err = f.store.CompareAndSetStatus(ctx, full.ID, domain.StatusPending, domain.StatusConfirmed)
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(at.ID, 2, mondayTenToEleven()))
	require.ErrorIs(t, err, domain.ErrCapacityExceeded)

	_, err = f.store.CompareAndSetStatus(ctx, full.ID, domain.StatusConfirmed, domain.StatusCancelled)
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(at.ID, 2, mondayTenToEleven()))
	assert.NoError(t, err)
}

func TestExecute_AdjacentWindowsDoNotCollide(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	at := f.escort(t, ptr.Ptr(1))

	_, err := f.uc.Execute(ctx, request(at.ID, 1, mondayTenToEleven()))
	require.NoError(t, err)

	_, err = f.uc.Execute(ctx, request(at.ID, 1, &bookingModels.ScheduleRequest{
		SelectedDays:    []string{"mon"},
		TimeRangePreset: "custom",
		StartTime:       ptr.Ptr("11:00"),
		EndTime:         ptr.Ptr("12:00"),
	}))
	assert.NoError(t, err)
}

func TestExecute_UnscheduledTypeBypassesLedger(t *testing.T) {
	f := newFixture()
	at, err := f.store.CreateType(context.Background(), &domain.AssistanceType{
		Name:     "Advice",
		Active:   true,
		Capacity: ptr.Ptr(1),
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		resp, err := f.uc.Execute(context.Background(), request(at.ID, 1, mondayTenToEleven()))
		require.NoError(t, err)
		assert.Nil(t, resp.Schedule)
	}

	// поля расписания не разбираются и не проверяются
	for name, schedule := range malformedSchedules() {
		t.Run(name, func(t *testing.T) {
			resp, err := f.uc.Execute(context.Background(), request(at.ID, 1, schedule))
			require.NoError(t, err)
			assert.Nil(t, resp.Schedule)
		})
	}
}

func malformedSchedules() map[string]*bookingModels.ScheduleRequest {
	return map[string]*bookingModels.ScheduleRequest{
		"inverted custom window": {
			SelectedDays: []string{"tue"}, TimeRangePreset: "custom", StartTime: ptr.Ptr("12:00"), EndTime: ptr.Ptr("10:00"),
		},
		"unknown weekday": {SelectedDays: []string{"funday"}, TimeRangePreset: "early"},
		"no days":         {SelectedDays: []string{}, TimeRangePreset: "early"},
		"bad time": {
			SelectedDays: []string{"mon"}, TimeRangePreset: "custom", StartTime: ptr.Ptr("25:99"), EndTime: ptr.Ptr("26:00"),
		},
		"unknown preset": {SelectedDays: []string{"mon"}, TimeRangePreset: "dawn"},
	}
}

func TestExecute_MalformedScheduleRejectedForScheduledType(t *testing.T) {
	f := newFixture()
	at := f.escort(t, nil)

	for name, schedule := range malformedSchedules() {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), request(at.ID, 1, schedule))
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestExecute_FromTemplate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	at := f.escort(t, ptr.Ptr(5))

	tpl, err := f.store.CreateTemplate(ctx, &domain.AssistanceTemplate{
		Title:            "Weekend evenings",
		AssistanceTypeID: at.ID,
		DefaultSchedule: &domain.Schedule{
			Days:      []domain.Weekday{domain.Saturday, domain.Sunday},
			TimeRange: domain.TimeRange{Preset: domain.PresetLate},
		},
		DefaultSlots: 2,
		Active:       true,
	})
	require.NoError(t, err)

	resp, err := f.uc.Execute(ctx, &Request{CharacterID: "Uther", Contact: "uther#1234", TemplateID: &tpl.ID})
	require.NoError(t, err)
	assert.Equal(t, at.ID, resp.AssistanceTypeID)
	assert.Equal(t, 2, resp.Slots)
	require.NotNil(t, resp.Schedule)
	assert.Equal(t, []string{"sat", "sun"}, resp.Schedule.SelectedDays)
	assert.Equal(t, "17:00", resp.Schedule.StartTime)
	assert.Equal(t, "22:00", resp.Schedule.EndTime)

	// изменение шаблона не затрагивает созданную заявку
	tpl.DefaultSlots = 4
	_, err = f.store.UpdateTemplate(ctx, tpl)
	require.NoError(t, err)

	stored, err := f.store.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Slots)

	// тип из запроса должен совпадать с типом шаблона
	_, err = f.uc.Execute(ctx, &Request{CharacterID: "Uther", Contact: "c", TemplateID: &tpl.ID, AssistanceTypeID: at.ID + 1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecute_Rejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	at := f.escort(t, nil)
	inactive, err := f.store.CreateType(ctx, &domain.AssistanceType{Name: "Old", AllowSchedule: true})
	require.NoError(t, err)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"no type nor template", request(0, 1, mondayTenToEleven()), domain.ErrValidation},
		{"unknown type", request(999, 1, mondayTenToEleven()), domain.ErrNotFound},
		{"inactive type", request(inactive.ID, 1, mondayTenToEleven()), domain.ErrValidation},
		{"missing schedule", request(at.ID, 1, nil), domain.ErrValidation},
		{"too many slots", request(at.ID, 101, mondayTenToEleven()), domain.ErrValidation},
		{"empty contact", &Request{CharacterID: "Uther", Contact: "  ", AssistanceTypeID: at.ID, Schedule: mondayTenToEleven()}, domain.ErrValidation},
		{"unknown template", &Request{CharacterID: "Uther", Contact: "c", TemplateID: ptr.Ptr(int64(77))}, domain.ErrNotFound},
		{"photos on type without uploads", &Request{
			CharacterID: "Uther", Contact: "c", AssistanceTypeID: at.ID, Schedule: mondayTenToEleven(),
			PhotoURLs: []string{"https://cdn.example.com/a.png"},
		}, domain.ErrValidation},
		{"inverted custom window", request(at.ID, 1, &bookingModels.ScheduleRequest{
			SelectedDays: []string{"tue"}, TimeRangePreset: "custom", StartTime: ptr.Ptr("12:00"), EndTime: ptr.Ptr("10:00"),
		}), domain.ErrValidation},
		{"preset with bounds", request(at.ID, 1, &bookingModels.ScheduleRequest{
			SelectedDays: []string{"tue"}, TimeRangePreset: "early", StartTime: ptr.Ptr("09:00"), EndTime: ptr.Ptr("10:00"),
		}), domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_ConcurrentAdmissionsNeverOverbook(t *testing.T) {
	f := newFixture()
	const capacity, workers = 3, 20
	at := f.escort(t, ptr.Ptr(capacity))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
		rejected int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := request(at.ID, 1, mondayTenToEleven())
			req.CharacterID = fmt.Sprintf("char-%d", i)
			_, err := f.uc.Execute(context.Background(), req)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				admitted++
			case errors.Is(err, domain.ErrCapacityExceeded):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, admitted)
	assert.Equal(t, workers-capacity, rejected)

	existing, err := f.store.ListActiveByType(context.Background(), at.ID, []domain.Weekday{domain.Monday})
	require.NoError(t, err)
	assert.Len(t, existing, capacity)
}

// conflictingTx всегда проигрывает сериализацию
type conflictingTx struct{}

func (conflictingTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fmt.Errorf("%w: after %d attempts", txmanager.ErrSerializationFailure, txmanager.DefaultMaxRetries)
}

func TestExecute_SerializationFailureIsTransient(t *testing.T) {
	f := newFixture()
	at := f.escort(t, ptr.Ptr(1))
	uc := NewUseCase(f.store, f.store, conflictingTx{}, keymutex.New[int64](), nil, logger.NewNop(), "AST-", 3)

	_, err := uc.Execute(context.Background(), request(at.ID, 1, mondayTenToEleven()))
	var conflict *domain.TransientConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 3, conflict.Attempts)
	assert.ErrorIs(t, err, domain.ErrTransientConflict)
}

func TestFormatRequestNumber(t *testing.T) {
	assert.Equal(t, "REQ-000042", formatRequestNumber("REQ-", 42))
	assert.Equal(t, "REQ-1234567", formatRequestNumber("REQ-", 1234567))
}
