package models

import (
	"time"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/pkg/types"
)

// Request модели

// ScheduleRequest расписание заявки или шаблона
// StartTime/EndTime передаются только для пресета custom
type ScheduleRequest struct {
	SelectedDays    []string `json:"selectedDays" validate:"required,min=1,max=7,dive,required"`
	TimeRangePreset string   `json:"timeRangePreset" validate:"required,oneof=early middle late custom"`
	StartTime       *string  `json:"startTime,omitempty"`
	EndTime         *string  `json:"endTime,omitempty"`
}

// ToDomain конвертирует расписание в domain модель
// Время нормализуется к HH:MM; окно и дни проверяются позже, в Slot Ledger
func (r *ScheduleRequest) ToDomain() (*domain.Schedule, error) {
	days := make([]domain.Weekday, 0, len(r.SelectedDays))
	for _, raw := range r.SelectedDays {
		d, err := domain.ParseWeekday(raw)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}

	schedule := &domain.Schedule{
		Days:      days,
		TimeRange: domain.TimeRange{Preset: domain.TimeRangePreset(r.TimeRangePreset)},
	}

	if r.StartTime != nil || r.EndTime != nil {
		if r.StartTime == nil || r.EndTime == nil {
			return nil, domain.NewValidationError("timeRange", "both startTime and endTime are required")
		}
		start, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, domain.NewValidationError("startTime", err.Error())
		}
		end, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, domain.NewValidationError("endTime", err.Error())
		}
		schedule.TimeRange.Custom = &domain.Window{Start: start, End: end}
	}

	return schedule, nil
}

// ListBookingsRequest запрос списка бронирований
type ListBookingsRequest struct {
	Status           *string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	AssistanceTypeID *int64  `json:"assistanceTypeId,omitempty" validate:"omitempty,gt=0"`
	Limit            int     `json:"limit,omitempty" validate:"min=0,max=500"`
	Offset           int     `json:"offset,omitempty" validate:"min=0"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() domain.BookingFilter {
	filter := domain.BookingFilter{
		AssistanceTypeID: r.AssistanceTypeID,
		Limit:            r.Limit,
		Offset:           r.Offset,
	}
	if r.Status != nil {
		status := domain.BookingStatus(*r.Status)
		filter.Status = &status
	}
	return filter
}

// ChangeStatusRequest запрос на смену статуса
type ChangeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed completed cancelled"`
}

// AddPhotosRequest запрос на добавление фото (ссылки выдаёт файловое хранилище)
type AddPhotosRequest struct {
	PhotoURLs []string `json:"photoUrls" validate:"required,min=1,max=10,dive,required,url,max=2048"`
}

// Response модели

// ScheduleResponse расписание с разрешённым окном
type ScheduleResponse struct {
	SelectedDays    []string `json:"selectedDays"`
	TimeRangePreset string   `json:"timeRangePreset"`
	StartTime       string   `json:"startTime"` // "10:00"
	EndTime         string   `json:"endTime"`   // "11:00", не включительно
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID               int64             `json:"id"`
	RequestNumber    string            `json:"requestNumber"`
	CharacterID      string            `json:"characterId"`
	Contact          string            `json:"contact"`
	AssistanceTypeID int64             `json:"assistanceTypeId"`
	AdditionalInfo   *string           `json:"additionalInfo,omitempty"`
	PhotoURLs        []string          `json:"photoUrls"`
	Schedule         *ScheduleResponse `json:"schedule,omitempty"`
	Slots            int               `json:"slots"`
	DonationIntent   bool              `json:"donationIntent"`
	Status           string            `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainSchedule конвертирует расписание и его окно в DTO
func FromDomainSchedule(s *domain.Schedule, w *domain.Window) *ScheduleResponse {
	if s == nil || w == nil {
		return nil
	}
	return &ScheduleResponse{
		SelectedDays:    domain.DayStrings(s.Days),
		TimeRangePreset: string(s.TimeRange.Preset),
		StartTime:       w.Start.String(),
		EndTime:         w.End.String(),
	}
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	photos := b.PhotoURLs
	if photos == nil {
		photos = []string{}
	}

	return &BookingResponse{
		ID:               b.ID,
		RequestNumber:    b.RequestNumber,
		CharacterID:      b.Requester.CharacterID,
		Contact:          b.Requester.Contact,
		AssistanceTypeID: b.AssistanceTypeID,
		AdditionalInfo:   b.AdditionalInfo,
		PhotoURLs:        photos,
		Schedule:         FromDomainSchedule(b.Schedule, b.Window),
		Slots:            b.Slots,
		DonationIntent:   b.DonationIntent,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}
