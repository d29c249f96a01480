package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/security"
	"memberhub-backend/internal/service"

	"github.com/gorilla/mux"
)

// ApplicationHandler serves the applicant-facing endpoints.
type ApplicationHandler struct {
	submissionSvc service.SubmissionService
	statusSvc     service.StatusService
}

func NewApplicationHandler(submissionSvc service.SubmissionService, statusSvc service.StatusService) *ApplicationHandler {
	return &ApplicationHandler{
		submissionSvc: submissionSvc,
		statusSvc:     statusSvc,
	}
}

type submitApplicationRequest struct {
	Answers json.RawMessage `json:"answers"`
	Ticket  string          `json:"ticket,omitempty"`
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("invalid request body: %v", err)
	}
	return nil
}

func answersPayload(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	s := string(raw)
	if s == "null" {
		return ""
	}
	return s
}

type applicationCreatedData struct {
	ApplicationID int32                    `json:"application_id"`
	Status        domain.ApplicationStatus `json:"status"`
	Ticket        string                   `json:"ticket"`
}

func (h *ApplicationHandler) SubmitInitial(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req submitApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	app, err := h.submissionSvc.SubmitInitial(r.Context(), claims.UserID, answersPayload(req.Answers))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteSuccess(w, http.StatusCreated, "application submitted", applicationCreatedData{
		ApplicationID: app.ID,
		Status:        app.Status,
		Ticket:        app.Ticket,
	})
}

func (h *ApplicationHandler) AmendAnswers(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req submitApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.submissionSvc.AmendInitialAnswers(r.Context(), claims.UserID, answersPayload(req.Answers)); err != nil {
		WriteError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "application answers updated", nil)
}

func (h *ApplicationHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	if err := h.submissionSvc.WithdrawInitial(r.Context(), claims.UserID); err != nil {
		WriteError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "application withdrawn", nil)
}

func (h *ApplicationHandler) SubmitFullMembership(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req submitApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	app, err := h.submissionSvc.SubmitFullMembership(r.Context(), claims.UserID, answersPayload(req.Answers), req.Ticket)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteSuccess(w, http.StatusCreated, "full-membership application submitted", applicationCreatedData{
		ApplicationID: app.ID,
		Status:        app.Status,
		Ticket:        app.Ticket,
	})
}

func (h *ApplicationHandler) ReapplyFullMembership(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	var req submitApplicationRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	app, err := h.submissionSvc.ReapplyFullMembership(r.Context(), claims.UserID, answersPayload(req.Answers), req.Ticket)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteSuccess(w, http.StatusCreated, "full-membership re-application submitted", applicationCreatedData{
		ApplicationID: app.ID,
		Status:        app.Status,
		Ticket:        app.Ticket,
	})
}

func (h *ApplicationHandler) GetFullMembershipStatus(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	targetID := claims.UserID
	if raw, ok := mux.Vars(r)["userId"]; ok {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			WriteError(w, domain.NewValidationError("invalid user id %q", raw))
			return
		}
		targetID = int32(parsed)
	}

	if targetID != claims.UserID && !claims.HasRole(security.RoleAdmin) {
		WriteError(w, domain.NewAuthorizationError("cannot read another user's membership status"))
		return
	}

	view, err := h.statusSvc.GetFullMembershipStatus(r.Context(), targetID, targetID == claims.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "", view)
}

func (h *ApplicationHandler) CheckSurveyStatus(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFromContext(r.Context())

	view, err := h.statusSvc.CheckSurveyStatus(r.Context(), claims.UserID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteSuccess(w, http.StatusOK, "", view)
}
