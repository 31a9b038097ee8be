package get_remaining_capacity

import (
	bookingModels "github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
)

// Request запрос свободной вместимости окна по дням недели
type Request struct {
	AssistanceTypeID int64                         `json:"assistanceTypeId" validate:"required,gt=0"`
	Schedule         bookingModels.ScheduleRequest `json:"schedule"`
	Slots            int                           `json:"slots,omitempty" validate:"omitempty,min=1,max=100"` // для поля fits, по умолчанию 1
}

// Response занятость по каждому запрошенному дню
type Response struct {
	AssistanceTypeID int64         `json:"assistanceTypeId"`
	StartTime        string        `json:"startTime"`
	EndTime          string        `json:"endTime"`
	Unlimited        bool          `json:"unlimited"`
	Days             []DayResponse `json:"days"`
}

// DayResponse занятость одного дня
type DayResponse struct {
	Day           string  `json:"day"`
	Used          int     `json:"used"`
	Capacity      *int    `json:"capacity"`  // nil = без ограничений
	Remaining     *int    `json:"remaining"` // nil = без ограничений
	Fits          bool    `json:"fits"`
	OccupancyRate float64 `json:"occupancyRate"` // 0-100
}
