package http

import (
	"errors"
	"net/http"

	"ledgerly/internal/insight"
	"ledgerly/internal/log"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	NewResponse().Data(s.dashboard.Overview(r.Context())).Write(w)
}

// handleInsights asks the configured provider about every stored
// transaction. An empty ledger is answered without a remote call.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if !s.insights.Enabled() {
		writeError(w, r, "Insights Unavailable", insight.ErrNotConfigured)
		return
	}

	result, err := s.insights.Request(r.Context(), s.repo.Transactions())
	if err != nil {
		title := "Insight Generation Failed"
		if errors.Is(err, insight.ErrEmptyInput) {
			title = "Not Enough Data"
		}
		writeError(w, r, title, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Insights generated",
		log.FieldOperation, log.OpInsight)
	NewResponse().Data(result).Write(w)
}
