package memory

import "github.com/m04kA/SMC-AssistanceService/internal/domain"

func cloneBooking(b *domain.Booking) *domain.Booking {
	out := *b
	out.PhotoURLs = append([]string(nil), b.PhotoURLs...)
	if b.AdditionalInfo != nil {
		info := *b.AdditionalInfo
		out.AdditionalInfo = &info
	}
	if b.Schedule != nil {
		s := b.Schedule.Clone()
		out.Schedule = &s
	}
	if b.Window != nil {
		w := *b.Window
		out.Window = &w
	}
	return &out
}

func cloneType(t *domain.AssistanceType) *domain.AssistanceType {
	out := *t
	if t.Capacity != nil {
		c := *t.Capacity
		out.Capacity = &c
	}
	return &out
}

func cloneTemplate(t *domain.AssistanceTemplate) *domain.AssistanceTemplate {
	out := *t
	if t.Description != nil {
		d := *t.Description
		out.Description = &d
	}
	if t.DefaultSchedule != nil {
		s := t.DefaultSchedule.Clone()
		out.DefaultSchedule = &s
	}
	return &out
}
