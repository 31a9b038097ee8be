package handlers

import (
	"net/http"

	"github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
)

// ParseListBookingsRequest разбирает фильтры списка из query параметров
// ?status=pending&assistanceTypeId=3&limit=20&offset=40
func ParseListBookingsRequest(r *http.Request) (*models.ListBookingsRequest, error) {
	q := r.URL.Query()
	req := &models.ListBookingsRequest{}

	if status := q.Get("status"); status != "" {
		req.Status = &status
	}

	typeID, err := QueryInt(r, "assistanceTypeId", 0)
	if err != nil {
		return nil, err
	}
	if typeID != 0 {
		id := int64(typeID)
		req.AssistanceTypeID = &id
	}

	if req.Limit, err = QueryInt(r, "limit", 0); err != nil {
		return nil, err
	}
	if req.Offset, err = QueryInt(r, "offset", 0); err != nil {
		return nil, err
	}

	return req, nil
}
