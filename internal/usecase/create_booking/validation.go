package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	"github.com/m04kA/SMC-AssistanceService/internal/validation"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if err := validation.Struct(req); err != nil {
		return err
	}

	if strings.TrimSpace(req.Contact) == "" {
		return domain.NewValidationError("contact", "must not be blank")
	}

	if req.AssistanceTypeID == 0 && req.TemplateID == nil {
		return domain.NewValidationError("assistanceTypeId", "assistanceTypeId or templateId is required")
	}

	return nil
}

// applyTemplate заполняет незаданные поля запроса из шаблона
func applyTemplate(req *Request, tpl *domain.AssistanceTemplate) (typeID int64, schedule *domain.Schedule, slots int, err error) {
	if req.AssistanceTypeID != 0 && req.AssistanceTypeID != tpl.AssistanceTypeID {
		return 0, nil, 0, domain.NewValidationError("assistanceTypeId", "does not match the template")
	}

	if req.Schedule == nil && tpl.DefaultSchedule != nil {
		clone := tpl.DefaultSchedule.Clone()
		schedule = &clone
	}

	slots = req.Slots
	if slots == 0 {
		slots = tpl.DefaultSlots
	}

	return tpl.AssistanceTypeID, schedule, slots, nil
}

// resolveSchedule возвращает расписание заявки для типа t
// Тип без расписания принимает заявку без проверки: поля расписания не разбираются.
// Расписание из запроса важнее расписания шаблона.
func resolveSchedule(t *domain.AssistanceType, req *Request, fromTemplate *domain.Schedule) (*domain.Schedule, error) {
	if !t.AllowSchedule {
		return nil, nil
	}
	if req.Schedule == nil {
		return fromTemplate, nil
	}
	if err := validation.Struct(req.Schedule); err != nil {
		return nil, err
	}
	return req.Schedule.ToDomain()
}

// formatRequestNumber номер заявки из значения последовательности: REQ-000042
func formatRequestNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s%0*d", prefix, domain.RequestNumberDigits, seq)
}
