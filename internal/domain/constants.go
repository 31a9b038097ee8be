package domain

// Default values
const (
	DefaultSlots        = 1
	RequestNumberPrefix = "REQ-"
	RequestNumberDigits = 6
)

// Business validation constants
const (
	MinSlots                = 1
	MaxSlots                = 100
	MaxCapacity             = 10000
	MaxNameLength           = 100
	MaxTitleLength          = 200
	MaxDescriptionLength    = 2000
	MaxAdditionalInfoLength = 2000
	MaxContactLength        = 200
	MaxCommentLength        = 4000
	MaxAuthorNameLength     = 100
	MaxPhotosPerBooking     = 10
	MaxURLLength            = 2048
)

// ActiveStatuses статусы бронирований, занимающих слоты
// Используется при подсчёте занятой вместимости
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
