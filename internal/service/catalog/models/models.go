package models

import (
	"time"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
	bookingModels "github.com/m04kA/SMC-AssistanceService/internal/service/bookings/models"
)

// Request модели

// CreateTypeRequest запрос на создание типа помощи
type CreateTypeRequest struct {
	Name             string `json:"name" validate:"required,max=100"`
	Active           *bool  `json:"active,omitempty"` // по умолчанию true
	DisplayOrder     int    `json:"displayOrder"`
	AllowPhotoUpload bool   `json:"allowPhotoUpload"`
	AllowSchedule    bool   `json:"allowSchedule"`
	Capacity         *int   `json:"capacity,omitempty" validate:"omitempty,min=1,max=10000"` // nil = без ограничений
}

// UpdateTypeRequest частичное обновление типа помощи
// Все поля опциональны - обновляются только переданные значения
type UpdateTypeRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Active           *bool   `json:"active,omitempty"`
	DisplayOrder     *int    `json:"displayOrder,omitempty"`
	AllowPhotoUpload *bool   `json:"allowPhotoUpload,omitempty"`
	AllowSchedule    *bool   `json:"allowSchedule,omitempty"`
	Capacity         *int    `json:"capacity,omitempty" validate:"omitempty,min=1,max=10000"`
	ClearCapacity    bool    `json:"clearCapacity,omitempty"` // снять ограничение вместимости
}

// CreateTemplateRequest запрос на создание шаблона заявки
type CreateTemplateRequest struct {
	Title            string                         `json:"title" validate:"required,max=200"`
	Description      *string                        `json:"description,omitempty" validate:"omitempty,max=2000"`
	AssistanceTypeID int64                          `json:"assistanceTypeId" validate:"required,gt=0"`
	DefaultSchedule  *bookingModels.ScheduleRequest `json:"defaultSchedule,omitempty"`
	DefaultSlots     int                            `json:"defaultSlots" validate:"omitempty,min=1,max=100"`
	Active           *bool                          `json:"active,omitempty"`
	DisplayOrder     int                            `json:"displayOrder"`
}

// UpdateTemplateRequest частичное обновление шаблона
type UpdateTemplateRequest struct {
	Title         *string                        `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description   *string                        `json:"description,omitempty" validate:"omitempty,max=2000"`
	Schedule      *bookingModels.ScheduleRequest `json:"defaultSchedule,omitempty"`
	ClearSchedule bool                           `json:"clearSchedule,omitempty"`
	DefaultSlots  *int                           `json:"defaultSlots,omitempty" validate:"omitempty,min=1,max=100"`
	Active        *bool                          `json:"active,omitempty"`
	DisplayOrder  *int                           `json:"displayOrder,omitempty"`
}

// CreateToonRequest запрос на добавление персонажа на витрину
type CreateToonRequest struct {
	CharacterClass string  `json:"characterClass" validate:"required,max=100"`
	Name           string  `json:"name" validate:"required,max=100"`
	ImageURL       string  `json:"imageUrl" validate:"required,url,max=2048"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	DisplayOrder   int     `json:"displayOrder"`
	Active         *bool   `json:"active,omitempty"`
}

// Response модели

// TypeResponse тип помощи
type TypeResponse struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Active           bool      `json:"active"`
	DisplayOrder     int       `json:"displayOrder"`
	AllowPhotoUpload bool      `json:"allowPhotoUpload"`
	AllowSchedule    bool      `json:"allowSchedule"`
	Capacity         *int      `json:"capacity"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// TypeListResponse список типов помощи
type TypeListResponse struct {
	Types []TypeResponse `json:"types"`
}

// TemplateResponse шаблон заявки
type TemplateResponse struct {
	ID               int64                           `json:"id"`
	Title            string                          `json:"title"`
	Description      *string                         `json:"description,omitempty"`
	AssistanceTypeID int64                           `json:"assistanceTypeId"`
	DefaultSchedule  *bookingModels.ScheduleResponse `json:"defaultSchedule,omitempty"`
	DefaultSlots     int                             `json:"defaultSlots"`
	Active           bool                            `json:"active"`
	DisplayOrder     int                             `json:"displayOrder"`
	CreatedAt        time.Time                       `json:"createdAt"`
	UpdatedAt        time.Time                       `json:"updatedAt"`
}

// TemplateListResponse список шаблонов
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// ToonResponse персонаж витрины
type ToonResponse struct {
	ID             int64     `json:"id"`
	CharacterClass string    `json:"characterClass"`
	Name           string    `json:"name"`
	ImageURL       string    `json:"imageUrl"`
	Description    *string   `json:"description,omitempty"`
	DisplayOrder   int       `json:"displayOrder"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToonListResponse витрина
type ToonListResponse struct {
	Toons []ToonResponse `json:"toons"`
}

// Методы конвертации

// FromDomainType конвертирует domain модель в DTO
func FromDomainType(t *domain.AssistanceType) *TypeResponse {
	if t == nil {
		return nil
	}
	return &TypeResponse{
		ID:               t.ID,
		Name:             t.Name,
		Active:           t.Active,
		DisplayOrder:     t.DisplayOrder,
		AllowPhotoUpload: t.AllowPhotoUpload,
		AllowSchedule:    t.AllowSchedule,
		Capacity:         t.Capacity,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// FromDomainTypeList конвертирует список типов
func FromDomainTypeList(types []*domain.AssistanceType) *TypeListResponse {
	resp := &TypeListResponse{Types: make([]TypeResponse, 0, len(types))}
	for _, t := range types {
		resp.Types = append(resp.Types, *FromDomainType(t))
	}
	return resp
}

// FromDomainTemplate конвертирует шаблон; окно расписания разрешается из пресета
func FromDomainTemplate(t *domain.AssistanceTemplate) *TemplateResponse {
	if t == nil {
		return nil
	}
	resp := &TemplateResponse{
		ID:               t.ID,
		Title:            t.Title,
		Description:      t.Description,
		AssistanceTypeID: t.AssistanceTypeID,
		DefaultSlots:     t.DefaultSlots,
		Active:           t.Active,
		DisplayOrder:     t.DisplayOrder,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
	if t.DefaultSchedule != nil {
		if w, err := t.DefaultSchedule.TimeRange.Resolve(); err == nil {
			resp.DefaultSchedule = bookingModels.FromDomainSchedule(t.DefaultSchedule, &w)
		}
	}
	return resp
}

// FromDomainTemplateList конвертирует список шаблонов
func FromDomainTemplateList(templates []*domain.AssistanceTemplate) *TemplateListResponse {
	resp := &TemplateListResponse{Templates: make([]TemplateResponse, 0, len(templates))}
	for _, t := range templates {
		resp.Templates = append(resp.Templates, *FromDomainTemplate(t))
	}
	return resp
}

// FromDomainToon конвертирует персонажа витрины
func FromDomainToon(t *domain.FeaturedToon) *ToonResponse {
	if t == nil {
		return nil
	}
	return &ToonResponse{
		ID:             t.ID,
		CharacterClass: t.CharacterClass,
		Name:           t.Name,
		ImageURL:       t.ImageURL,
		Description:    t.Description,
		DisplayOrder:   t.DisplayOrder,
		Active:         t.Active,
		CreatedAt:      t.CreatedAt,
	}
}

// FromDomainToonList конвертирует витрину
func FromDomainToonList(toons []*domain.FeaturedToon) *ToonListResponse {
	resp := &ToonListResponse{Toons: make([]ToonResponse, 0, len(toons))}
	for _, t := range toons {
		resp.Toons = append(resp.Toons, *FromDomainToon(t))
	}
	return resp
}
