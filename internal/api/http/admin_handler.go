package http

import (
	"net/http"
	"strconv"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/service"

	"github.com/gorilla/mux"
)

// AdminHandler serves the admin review and diagnostics endpoints.
type AdminHandler struct {
	reviewSvc      service.ReviewService
	consistencySvc service.ConsistencyService
	auditSvc       service.AuditService
}

func NewAdminHandler(reviewSvc service.ReviewService, consistencySvc service.ConsistencyService, auditSvc service.AuditService) *AdminHandler {
	return &AdminHandler{
		reviewSvc:      reviewSvc,
		consistencySvc: consistencySvc,
		auditSvc:       auditSvc,
	}
}

func parseKind(raw string) (domain.ApplicationKind, error) {
	switch raw {
	case "", string(domain.ApplicationKindFull):
		return domain.ApplicationKindFull, nil
	case string(domain.ApplicationKindInitial):
		return domain.ApplicationKindInitial, nil
	default:
		return "", domain.NewValidationError("invalid application kind %q", raw)
	}
}

func queryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(parsed)
}

type pagination struct {
	Total  int32 `json:"total"`
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (h *AdminHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r.URL.Query().Get("kind"))
	if err != nil {
		WriteError(w, err)
		return
	}

	limit := queryInt32(r, "limit", 0)
	offset := queryInt32(r, "offset", 0)
	apps, total, err := h.reviewSvc.ListApplications(r.Context(), kind, r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		WriteError(w, err)
		return
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	if limit <= 0 {
		limit = int32(len(apps))
	}

	WriteSuccess(w, http.StatusOK, "", map[string]any{
		"applications": apps,
		"pagination":   pagination{Total: total, Limit: limit, Offset: offset},
	})
}

type reviewRequest struct {
	Decision   string `json:"decision"`
	AdminNotes string `json:"admin_notes,omitempty"`
	Kind       string `json:"kind,omitempty"`
}

func (h *AdminHandler) ReviewApplication(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	raw := mux.Vars(r)["applicationId"]
	applicationID, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		WriteError(w, domain.NewValidationError("invalid application id %q", raw))
		return
	}

	var req reviewRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	kind, err := parseKind(req.Kind)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.reviewSvc.Review(r.Context(), kind, int32(applicationID), claims.UserID, req.Decision, req.AdminNotes)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "application reviewed", result)
}

type bulkReviewRequest struct {
	ApplicationIDs []int32 `json:"application_ids"`
	Decision       string  `json:"decision"`
	AdminNotes     string  `json:"admin_notes,omitempty"`
	Kind           string  `json:"kind,omitempty"`
}

func (h *AdminHandler) BulkReview(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req bulkReviewRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	kind, err := parseKind(req.Kind)
	if err != nil {
		WriteError(w, err)
		return
	}

	result, err := h.reviewSvc.BulkReview(r.Context(), kind, req.ApplicationIDs, claims.UserID, req.Decision, req.AdminNotes)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "bulk review processed", result)
}

func (h *AdminHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			WriteError(w, domain.NewValidationError("invalid user id %q", raw))
			return
		}
		report, err := h.consistencySvc.CheckUser(r.Context(), int32(userID))
		if err != nil {
			WriteError(w, err)
			return
		}
		WriteSuccess(w, http.StatusOK, "", report)
		return
	}

	reports, err := h.consistencySvc.CheckAll(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	consistent := true
	for _, report := range reports {
		if !report.Consistent {
			consistent = false
			break
		}
	}
	WriteSuccess(w, http.StatusOK, "", map[string]any{
		"consistent": consistent,
		"reports":    reports,
	})
}

func (h *AdminHandler) ListAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := queryInt32(r, "limit", 0)
	offset := queryInt32(r, "offset", 0)
	entries, total, err := h.auditSvc.ListRecent(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.AuditLogEntry{}
	}
	if limit <= 0 {
		limit = int32(len(entries))
	}
	WriteSuccess(w, http.StatusOK, "", map[string]any{
		"entries":    entries,
		"pagination": pagination{Total: total, Limit: limit, Offset: offset},
	})
}
