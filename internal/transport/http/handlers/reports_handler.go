package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Segsoto/EstafadoresCR/internal/services/reports"
	"github.com/Segsoto/EstafadoresCR/internal/transport/http/dto"
	httperrors "github.com/Segsoto/EstafadoresCR/internal/transport/http/errors"
	"github.com/go-chi/chi/v5"
)

const maxMultipartMemory = 8 << 20

type ReportsHandler struct {
	service *reports.Service
}

func NewReportsHandler(service *reports.Service) *ReportsHandler {
	return &ReportsHandler{service: service}
}

// Submit accepts either a JSON body or a multipart form with an
// optional evidence image.
func (h *ReportsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "REPORTS_SERVICE_UNAVAILABLE", "reports service is unavailable")
		return
	}

	input, ok := h.parseSubmit(w, r)
	if !ok {
		return
	}

	result, err := h.service.Submit(r.Context(), input)
	if err != nil {
		if errors.Is(err, reports.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "phone number and description are required")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to submit report")
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.SubmitReportResponse{
		OK:      true,
		Message: result.Message,
		Report:  result.Report,
		Moderation: dto.ModerationOutcome{
			Status: string(result.Report.ModerationAction),
			Reason: result.Report.ModerationReason,
		},
	})
}

func (h *ReportsHandler) parseSubmit(w http.ResponseWriter, r *http.Request) (reports.SubmitInput, bool) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			writeBadRequest(w, "INVALID_REQUEST", "invalid multipart form")
			return reports.SubmitInput{}, false
		}

		input := reports.SubmitInput{
			PhoneNumber: firstNonEmpty(r.FormValue("phone_number"), r.FormValue("phone")),
			Description: r.FormValue("description"),
			ScamType:    firstNonEmpty(r.FormValue("scam_type"), r.FormValue("company")),
		}

		if file, header, err := r.FormFile("evidence"); err == nil {
			defer func() { _ = file.Close() }()
			input.Evidence = &reports.EvidenceFile{
				FileName:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
				Size:        header.Size,
			}
		}

		return input, true
	}

	var req dto.SubmitReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return reports.SubmitInput{}, false
	}

	return reports.SubmitInput{
		PhoneNumber: firstNonEmpty(req.PhoneNumber, req.Phone),
		Description: req.Description,
		ScamType:    firstNonEmpty(req.ScamType, req.Company),
	}, true
}

func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "REPORTS_SERVICE_UNAVAILABLE", "reports service is unavailable")
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	list, err := h.service.List(r.Context(), page)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list reports")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ReportListResponse{Reports: list, Page: page})
}

func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "REPORTS_SERVICE_UNAVAILABLE", "reports service is unavailable")
		return
	}

	id, ok := reportIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}

	rep, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, reports.ErrReportNotFound) {
			writeNotFound(w, "REPORT_NOT_FOUND", "report not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load report")
		return
	}

	httperrors.Write(w, http.StatusOK, rep)
}

func (h *ReportsHandler) Search(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "REPORTS_SERVICE_UNAVAILABLE", "reports service is unavailable")
		return
	}

	query := r.URL.Query().Get("q")
	list, err := h.service.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, reports.ErrQueryTooShort) {
			writeBadRequest(w, "QUERY_TOO_SHORT", "search query is too short")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to search reports")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SearchResponse{Reports: list, Query: query})
}

func (h *ReportsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "REPORTS_SERVICE_UNAVAILABLE", "reports service is unavailable")
		return
	}

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load stats")
		return
	}

	httperrors.Write(w, http.StatusOK, stats)
}

func reportIDFromURL(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
