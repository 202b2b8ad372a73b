package handlers

import (
	"errors"
	"net/http"

	"github.com/Segsoto/EstafadoresCR/internal/services/comments"
	"github.com/Segsoto/EstafadoresCR/internal/transport/http/dto"
	httperrors "github.com/Segsoto/EstafadoresCR/internal/transport/http/errors"
)

type CommentsHandler struct {
	service *comments.Service
}

func NewCommentsHandler(service *comments.Service) *CommentsHandler {
	return &CommentsHandler{service: service}
}

func (h *CommentsHandler) Add(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "COMMENTS_SERVICE_UNAVAILABLE", "comments service is unavailable")
		return
	}

	reportID, ok := reportIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}

	var req dto.AddCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	comment, err := h.service.Add(r.Context(), reportID, req.Author, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, comments.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "comment text must be between 3 and 500 characters")
		case errors.Is(err, comments.ErrReportNotFound):
			writeNotFound(w, "REPORT_NOT_FOUND", "report not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to add comment")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, comment)
}

func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "COMMENTS_SERVICE_UNAVAILABLE", "comments service is unavailable")
		return
	}

	reportID, ok := reportIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}

	list, err := h.service.List(r.Context(), reportID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list comments")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.CommentListResponse{Comments: list})
}
