package create_booking

import (
	bookingModels "github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
)

// Request модель запроса на создание заявки
//
// Если указан TemplateID, незаданные поля (тип, расписание, слоты) копируются
// из шаблона в момент создания. Дальше заявка от шаблона не зависит.
type Request struct {
	CharacterID      string                         `json:"-" validate:"required,max=100"` // из заголовка авторизации
	Contact          string                         `json:"contact" validate:"required,max=200"`
	AssistanceTypeID int64                          `json:"assistanceTypeId,omitempty" validate:"omitempty,gt=0"`
	TemplateID       *int64                         `json:"templateId,omitempty" validate:"omitempty,gt=0"`
	AdditionalInfo   *string                        `json:"additionalInfo,omitempty" validate:"omitempty,max=2000"`
	PhotoURLs        []string                       `json:"photoUrls,omitempty" validate:"max=10,dive,required,url,max=2048"`
	Schedule         *bookingModels.ScheduleRequest `json:"schedule,omitempty" validate:"-"` // проверяется, только если тип с расписанием
	Slots            int                            `json:"slots,omitempty" validate:"omitempty,min=1,max=100"`
	DonationIntent   bool                           `json:"donationIntent"`
}

// Response созданная заявка
type Response = bookingModels.BookingResponse
