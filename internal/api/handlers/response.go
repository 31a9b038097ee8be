package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
)

const maxBodyBytes = 1 << 20

const (
	msgInternalError     = "внутренняя ошибка сервера"
	msgValidation        = "некорректные данные запроса"
	msgForbidden         = "доступ запрещен"
	msgNotFound          = "объект не найден"
	msgCapacityExceeded  = "нет свободных мест в выбранное время"
	msgInvalidTransition = "недопустимая смена статуса"
	msgTransient         = "конфликт параллельных изменений, повторите запрос"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// RespondJSON пишет data в формате JSON с кодом statusCode
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError пишет ошибку с кодом statusCode
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError выбирает код ответа по виду доменной ошибки и возвращает его
//
//	ValidationError        400
//	ErrAccessDenied        403
//	NotFoundError          404
//	CapacityExceededError  409
//	InvalidTransitionError 409
//	TransientConflictError 503
//	остальное              500
func RespondDomainError(w http.ResponseWriter, err error) int {
	var (
		validationErr *domain.ValidationError
		capacityErr   *domain.CapacityExceededError
		notFoundErr   *domain.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		RespondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   msgValidation,
			Field:   validationErr.Field,
			Details: validationErr.Reason,
		})
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrAccessDenied):
		RespondForbidden(w, msgForbidden)
		return http.StatusForbidden

	case errors.As(err, &notFoundErr):
		RespondJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   msgNotFound,
			Details: fmt.Sprintf("%s %d", notFoundErr.Entity, notFoundErr.ID),
		})
		return http.StatusNotFound

	case errors.As(err, &capacityErr):
		RespondJSON(w, http.StatusConflict, ErrorResponse{
			Error: msgCapacityExceeded,
			Details: fmt.Sprintf("%s %s: занято %d из %d, запрошено %d",
				capacityErr.Day, capacityErr.Window, capacityErr.Used, capacityErr.Capacity, capacityErr.Requested),
		})
		return http.StatusConflict

	case errors.Is(err, domain.ErrInvalidTransition):
		RespondJSON(w, http.StatusConflict, ErrorResponse{Error: msgInvalidTransition, Details: err.Error()})
		return http.StatusConflict

	case errors.Is(err, domain.ErrTransientConflict):
		w.Header().Set("Retry-After", "1")
		RespondError(w, http.StatusServiceUnavailable, msgTransient)
		return http.StatusServiceUnavailable

	default:
		RespondInternalError(w)
		return http.StatusInternalServerError
	}
}

// DecodeJSON читает тело запроса в v; неизвестные поля отклоняются
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// PathID разбирает положительный int64 из переменной пути name
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// QueryBool разбирает необязательный булев параметр запроса
func QueryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseBool(raw)
}

// QueryInt разбирает необязательный целый параметр запроса
func QueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// Logger минимальный логгер для HandleError
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// HandleError отвечает по доменной ошибке и логирует её: 5xx как Error, остальное как Warn
func HandleError(w http.ResponseWriter, logger Logger, op string, err error) {
	status := RespondDomainError(w, err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s - Failed: status=%d, error=%v", op, status, err)
		return
	}
	logger.Warn("%s - Rejected: status=%d, error=%v", op, status, err)
}
