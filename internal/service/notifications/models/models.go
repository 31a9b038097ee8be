package models

// UnreadRequest область подсчёта; BookingID - только одна лента
type UnreadRequest struct {
	BookingID *int64 `json:"bookingId,omitempty" validate:"omitempty,gt=0"`
}

// UnreadResponse число непрочитанных комментариев для вызывающей стороны
type UnreadResponse struct {
	Role   string `json:"role"`
	Unread int    `json:"unread"`
}

// SummaryResponse бейджи панели: непрочитанные комментарии и заявки в ожидании
type SummaryResponse struct {
	Role            string `json:"role"`
	UnreadComments  int    `json:"unreadComments"`
	PendingBookings int    `json:"pendingBookings"`
}
