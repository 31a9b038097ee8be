package create_booking

import (
	bookingModels "github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-AssistanceService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
// Заявитель берётся из заголовка авторизации, а не из тела
type CreateBookingRequest struct {
	Contact          string                         `json:"contact"`
	AssistanceTypeID int64                          `json:"assistanceTypeId,omitempty"`
	TemplateID       *int64                         `json:"templateId,omitempty"`
	AdditionalInfo   *string                        `json:"additionalInfo,omitempty"`
	PhotoURLs        []string                       `json:"photoUrls,omitempty"`
	Schedule         *bookingModels.ScheduleRequest `json:"schedule,omitempty"`
	Slots            int                            `json:"slots,omitempty"`
	DonationIntent   bool                           `json:"donationIntent"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(characterID string) *createBooking.Request {
	return &createBooking.Request{
		CharacterID:      characterID,
		Contact:          r.Contact,
		AssistanceTypeID: r.AssistanceTypeID,
		TemplateID:       r.TemplateID,
		AdditionalInfo:   r.AdditionalInfo,
		PhotoURLs:        r.PhotoURLs,
		Schedule:         r.Schedule,
		Slots:            r.Slots,
		DonationIntent:   r.DonationIntent,
	}
}
