package handlers

import (
	"errors"
	"net/http"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	"github.com/Segsoto/EstafadoresCR/internal/services/votes"
	"github.com/Segsoto/EstafadoresCR/internal/transport/http/dto"
	httperrors "github.com/Segsoto/EstafadoresCR/internal/transport/http/errors"
)

type VotesHandler struct {
	service *votes.Service
}

func NewVotesHandler(service *votes.Service) *VotesHandler {
	return &VotesHandler{service: service}
}

func (h *VotesHandler) Cast(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "VOTES_SERVICE_UNAVAILABLE", "votes service is unavailable")
		return
	}

	reportID, ok := reportIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}

	var req dto.VoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	tally, err := h.service.Cast(r.Context(), reportID, enums.VoteType(req.Type), r.RemoteAddr)
	if err != nil {
		switch {
		case errors.Is(err, votes.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "vote type must be up or down")
		case errors.Is(err, votes.ErrReportNotFound):
			writeNotFound(w, "REPORT_NOT_FOUND", "report not found")
		case errors.Is(err, votes.ErrAlreadyVoted):
			writeConflict(w, "ALREADY_VOTED", "already voted on this report")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to record vote")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.VoteResponse{
		ReportID:  tally.ReportID,
		UpVotes:   tally.UpVotes,
		DownVotes: tally.DownVotes,
	})
}
