package server

import (
	"net/http"

	"dealbot/internal/model"
)

func (s Server) landing() http.HandlerFunc {
	type pageData struct {
		WhatsAppNumber      string
		WhatsAppSandboxJoin string
		TotalUsers          int
		TotalProducts       int
	}
	return func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			WhatsAppNumber:      s.WhatsAppNumber,
			WhatsAppSandboxJoin: s.WhatsAppSandboxJoin,
		}

		// The landing page still renders when the store is unreachable;
		// the totals just stay at zero.
		users, products, err := s.DB.StatsCounts(r.Context())
		if err != nil {
			s.Logger.Errorf("landing: Error getting stats counts, err: %v", err)
		} else {
			data.TotalUsers = users
			data.TotalProducts = products
		}

		s.render(w, http.StatusOK, "landing", data)
	}
}

// usersSummary is the session-gated overview of every user and their
// active product count.
func (s Server) usersSummary() http.HandlerFunc {
	type pageData struct {
		Users []model.UserSummary
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := getUserContext(r.Context()); err != nil {
			s.Logger.Errorf("usersSummary: Error getting userContext, err: %v", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		us, err := s.DB.UsersSummary(r.Context())
		if err != nil {
			s.Logger.Errorf("usersSummary: Error getting Users summary, err: %v", err)
			s.renderError(w, http.StatusInternalServerError, "Something went wrong loading the user list.")
			return
		}
		s.render(w, http.StatusOK, "users", pageData{Users: us})
	}
}
