package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Segsoto/EstafadoresCR/internal/domain/enums"
	adminsvc "github.com/Segsoto/EstafadoresCR/internal/services/admin"
	"github.com/Segsoto/EstafadoresCR/internal/services/adminauth"
	"github.com/Segsoto/EstafadoresCR/internal/transport/http/dto"
	httperrors "github.com/Segsoto/EstafadoresCR/internal/transport/http/errors"
)

type AdminHandler struct {
	service *adminsvc.Service
	auth    *adminauth.Service
}

func NewAdminHandler(service *adminsvc.Service, auth *adminauth.Service) *AdminHandler {
	return &AdminHandler{service: service, auth: auth}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		writeInternal(w, "ADMIN_AUTH_UNAVAILABLE", "admin auth is unavailable")
		return
	}

	var req dto.AdminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, adminauth.ErrUnauthorized):
			writeUnauthorized(w, "UNAUTHORIZED", "invalid credentials")
		case errors.Is(err, adminauth.ErrUnavailable):
			writeInternal(w, "ADMIN_AUTH_UNAVAILABLE", "admin auth is not configured")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to log in")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminLoginResponse{AccessToken: token})
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if h.auth == nil {
		writeInternal(w, "ADMIN_AUTH_UNAVAILABLE", "admin auth is unavailable")
		return
	}

	token, ok := bearerToken(r)
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if err := h.auth.Logout(r.Context(), token); err != nil {
		writeUnauthorized(w, "UNAUTHORIZED", "invalid access token")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	status := enums.ReportStatus(r.URL.Query().Get("status"))
	limit := intQuery(r, "limit", 50)
	offset := intQuery(r, "offset", 0)

	list, err := h.service.List(r.Context(), status, limit, offset)
	if err != nil {
		if errors.Is(err, adminsvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid status filter")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to list reports")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminListResponse{Reports: dto.NewAdminReports(list)})
}

func (h *AdminHandler) PendingReview(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	queue, err := h.service.PendingReview(r.Context(), intQuery(r, "limit", 50))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load review queue")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminListResponse{Reports: dto.NewAdminReports(queue)})
}

func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	id, ok := reportIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}

	var req dto.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	rep, err := h.service.SetStatus(r.Context(), id, enums.ReportStatus(req.Status), req.Reason)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewAdminReport(rep))
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, func(id int64) (any, error) {
		rep, err := h.service.Approve(r.Context(), id)
		return dto.NewAdminReport(rep), err
	})
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, ok := reportIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}

	var req dto.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	rep, err := h.service.Reject(r.Context(), id, req.Reason)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewAdminReport(rep))
}

func (h *AdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := reportIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}

	var req dto.VerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	rep, err := h.service.Verify(r.Context(), id, req.Verified)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewAdminReport(rep))
}

func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := reportIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AdminHandler) decide(w http.ResponseWriter, r *http.Request, action func(int64) (any, error)) {
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	id, ok := reportIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid report id")
		return
	}

	payload, err := action(id)
	if err != nil {
		h.writeAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, payload)
}

func (h *AdminHandler) writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "request validation failed")
	case errors.Is(err, adminsvc.ErrReportNotFound):
		writeNotFound(w, "REPORT_NOT_FOUND", "report not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "admin operation failed")
	}
}

func intQuery(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
