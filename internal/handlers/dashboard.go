package handlers

import (
	"context"
	"net/http"

	"github.com/recruitdesk/apiserver/types"
)

type DashboardService interface {
	Summary(ctx context.Context, userID string) (types.DashboardSummary, error)
}

// Dashboard returns the caller's headline counts.
func Dashboard(dashboard DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := currentUser(w, r)
		if !ok {
			return
		}
		summary, err := dashboard.Summary(r.Context(), caller.ID)
		if err != nil {
			writeServerError(w, r, "failed to load dashboard", err)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}
