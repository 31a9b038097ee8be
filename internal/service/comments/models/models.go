package models

import (
	"time"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
)

// AddCommentRequest новый комментарий к бронированию
type AddCommentRequest struct {
	Content    string  `json:"content" validate:"required,max=4000"`
	AuthorName *string `json:"authorName,omitempty" validate:"omitempty,max=100"`
}

// CommentResponse комментарий в ленте
type CommentResponse struct {
	ID         int64     `json:"id"`
	BookingID  int64     `json:"bookingId"`
	Content    string    `json:"content"`
	IsAdmin    bool      `json:"isAdmin"`
	AuthorName *string   `json:"authorName,omitempty"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CommentListResponse лента комментариев в порядке добавления
type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
}

// MarkReadResponse результат отметки о прочтении
type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}

// FromDomainComment конвертирует domain модель в DTO
func FromDomainComment(c *domain.Comment) *CommentResponse {
	if c == nil {
		return nil
	}
	return &CommentResponse{
		ID:         c.ID,
		BookingID:  c.BookingID,
		Content:    c.Content,
		IsAdmin:    c.IsAdmin,
		AuthorName: c.AuthorName,
		IsRead:     c.IsRead,
		CreatedAt:  c.CreatedAt,
	}
}

// FromDomainCommentList конвертирует ленту в DTO
func FromDomainCommentList(comments []*domain.Comment) *CommentListResponse {
	resp := &CommentListResponse{Comments: make([]CommentResponse, 0, len(comments))}
	for _, c := range comments {
		resp.Comments = append(resp.Comments, *FromDomainComment(c))
	}
	return resp
}
