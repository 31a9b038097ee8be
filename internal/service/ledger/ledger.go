package ledger

import (
	"fmt"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
)

// Decision результат допуска заявки
// Schedule и Window равны nil, если тип помощи не использует расписание
type Decision struct {
	Schedule *domain.Schedule
	Window   *domain.Window
}

// IsScheduled возвращает true, если заявка занимает слоты
func (d *Decision) IsScheduled() bool {
	return d.Schedule != nil
}

// Admit решает, можно ли принять заявку на тип помощи t
//
// existing - текущие бронирования этого типа; отменённые пропускаются.
// Дни проверяются в порядке mon..sun, ошибка называет первый день без мест.
// Для типа без расписания проверка не выполняется и поля расписания отбрасываются.
func Admit(t *domain.AssistanceType, schedule *domain.Schedule, slots int, existing []*domain.Booking) (*Decision, error) {
	if slots < domain.MinSlots || slots > domain.MaxSlots {
		return nil, domain.NewValidationError("slots", fmt.Sprintf("must be between %d and %d", domain.MinSlots, domain.MaxSlots))
	}

	if !t.AllowSchedule {
		return &Decision{}, nil
	}

	if schedule == nil {
		return nil, domain.NewValidationError("schedule", "schedule is required for this assistance type")
	}

	// Некорректное окно отклоняется до подсчёта пересечений
	normalized, window, err := schedule.Normalize()
	if err != nil {
		return nil, err
	}

	decision := &Decision{Schedule: &normalized, Window: &window}

	if t.Capacity == nil {
		return decision, nil
	}

	for _, day := range normalized.Days {
		used := usedSlots(t.ID, day, window, existing)
		if used+slots > *t.Capacity {
			return nil, &domain.CapacityExceededError{
				Day:       day,
				Window:    window,
				Requested: slots,
				Used:      used,
				Capacity:  *t.Capacity,
			}
		}
	}

	return decision, nil
}

// Remaining считает занятость по каждому дню для окна window
func Remaining(t *domain.AssistanceType, days []domain.Weekday, window domain.Window, existing []*domain.Booking) []domain.DayCapacity {
	result := make([]domain.DayCapacity, 0, len(days))

	for _, day := range days {
		c := domain.DayCapacity{
			Day:    day,
			Window: window,
			Used:   usedSlots(t.ID, day, window, existing),
		}
		if t.Capacity != nil {
			capacity := *t.Capacity
			c.Capacity = &capacity
		}
		result = append(result, c)
	}

	return result
}

// usedSlots суммирует слоты активных бронирований типа typeID,
// которые выбрали день day и чьё окно пересекается с window.
// Граничащие окна (одно заканчивается, когда начинается другое) не пересекаются.
func usedSlots(typeID int64, day domain.Weekday, window domain.Window, existing []*domain.Booking) int {
	used := 0

	for _, b := range existing {
		if b.AssistanceTypeID != typeID || !b.IsActive() || !b.IsScheduled() {
			continue
		}
		if !b.Schedule.HasDay(day) {
			continue
		}
		if b.Window.Overlaps(window) {
			used += b.Slots
		}
	}

	return used
}
