package http

import (
	"net/http"

	"memberhub-backend/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter wires the canonical API surface: one route per operation,
// versioned under /api/v1, with logging and authentication applied once.
func NewRouter(tokenManager security.TokenManager, appHandler *ApplicationHandler, adminHandler *AdminHandler) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(LoggingMiddleware, NewAuthMiddleware(tokenManager))

	api.HandleFunc("/application", appHandler.SubmitInitial).Methods(http.MethodPost)
	api.HandleFunc("/application/answers", appHandler.AmendAnswers).Methods(http.MethodPut)
	api.HandleFunc("/application/withdraw", appHandler.Withdraw).Methods(http.MethodPost)
	api.HandleFunc("/submit-full-membership", appHandler.SubmitFullMembership).Methods(http.MethodPost)
	api.HandleFunc("/reapply-full-membership", appHandler.ReapplyFullMembership).Methods(http.MethodPost)
	api.HandleFunc("/full-membership-status", appHandler.GetFullMembershipStatus).Methods(http.MethodGet)
	api.HandleFunc("/full-membership-status/{userId}", appHandler.GetFullMembershipStatus).Methods(http.MethodGet)
	api.HandleFunc("/survey/check-status", appHandler.CheckSurveyStatus).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(RequireAdmin)
	admin.HandleFunc("/membership/applications", adminHandler.ListApplications).Methods(http.MethodGet)
	admin.HandleFunc("/membership/review/{applicationId}", adminHandler.ReviewApplication).Methods(http.MethodPut)
	admin.HandleFunc("/applications/bulk", adminHandler.BulkReview).Methods(http.MethodPost)
	admin.HandleFunc("/debug/status-consistency", adminHandler.CheckConsistency).Methods(http.MethodGet)
	admin.HandleFunc("/audit", adminHandler.ListAuditLog).Methods(http.MethodGet)

	return r
}
