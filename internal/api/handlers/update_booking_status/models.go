package update_booking_status

import (
	"github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"` // confirmed | completed | cancelled
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest() *models.ChangeStatusRequest {
	return &models.ChangeStatusRequest{Status: r.Status}
}
