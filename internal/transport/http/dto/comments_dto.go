package dto

import "github.com/Segsoto/EstafadoresCR/internal/domain/model"

type AddCommentRequest struct {
	Author string `json:"author,omitempty"`
	Text   string `json:"text"`
}

type CommentListResponse struct {
	Comments []model.Comment `json:"comments"`
}
