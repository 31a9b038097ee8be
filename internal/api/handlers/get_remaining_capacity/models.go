package get_remaining_capacity

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-AssistanceService/internal/api/handlers"
	bookingModels "github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
	"github.com/m04kA/SMC-AssistanceService/internal/usecase/get_remaining_capacity"
)

// parseQuery собирает запрос из параметров:
// ?days=mon,tue&preset=custom&start=10:00&end=11:00&slots=2
func parseQuery(r *http.Request, typeID int64) (*get_remaining_capacity.Request, error) {
	q := r.URL.Query()

	var days []string
	for _, part := range strings.Split(q.Get("days"), ",") {
		if part = strings.TrimSpace(part); part != "" {
			days = append(days, part)
		}
	}

	schedule := bookingModels.ScheduleRequest{
		SelectedDays:    days,
		TimeRangePreset: q.Get("preset"),
	}
	if start := q.Get("start"); start != "" {
		schedule.StartTime = &start
	}
	if end := q.Get("end"); end != "" {
		schedule.EndTime = &end
	}

	slots, err := handlers.QueryInt(r, "slots", 0)
	if err != nil {
		return nil, err
	}

	return &get_remaining_capacity.Request{
		AssistanceTypeID: typeID,
		Schedule:         schedule,
		Slots:            slots,
	}, nil
}
