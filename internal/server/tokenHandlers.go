package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"dealbot/internal/database"
)

// generateLink is the JSON API the WhatsApp bot calls to mint a magic link
// for a user. It is the only route authenticated by the shared bot API key.
func (s Server) generateLink() http.HandlerFunc {
	type request struct {
		Phone string `json:"phone"`
	}
	type response struct {
		URL       string `json:"url"`
		ExpiresIn string `json:"expires_in"`
		Phone     string `json:"phone"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get("X-API-Key")
		if err := bcrypt.CompareHashAndPassword(s.BotAPIKeyHash, []byte(apiKey)); err != nil {
			s.Logger.Debugf("generateLink: Invalid API key, err: %v", err)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		req := request{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.Logger.Debugf("generateLink: Error decoding JSON, err: %v", err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		phone := strings.TrimSpace(req.Phone)
		u, err := s.DB.UserFindByPhone(r.Context(), phone)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.Logger.Debugf("generateLink: No User found with phone number: %s", phone)
				http.Error(w, "User not found", http.StatusNotFound)
				return
			}
			s.Logger.Errorf("generateLink: Error finding User with phone number: %s, err: %v", phone, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		at, err := s.DB.AccessTokenCreate(r.Context(), u.ID, s.TokenExpiry)
		if err != nil {
			s.Logger.Errorf("generateLink: Error creating AccessToken for UserID: %d, err: %v", u.ID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		s.writeJsonResponse(w, response{
			URL:       s.DashboardURL + "/d/" + at.Token,
			ExpiresIn: s.TokenExpiry.String(),
			Phone:     phone,
		}, http.StatusOK)
	}
}

type tokenErrorData struct {
	WhatsAppNumber string
}

// magicLinkDashboard consumes a single-use access token, sets the session
// cookie, and renders the owner's dashboard. Any invalid, expired, or
// already-used token gets the same 410 page.
func (s Server) magicLinkDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := mux.Vars(r)["token"]
		if len(token) != 64 {
			s.Logger.Debugf("magicLinkDashboard: Token has wrong length: %d", len(token))
			s.render(w, http.StatusGone, "token_error", tokenErrorData{WhatsAppNumber: s.WhatsAppNumber})
			return
		}

		at, err := s.DB.AccessTokenConsume(r.Context(), token)
		if err != nil {
			if errors.Is(err, database.ErrTokenInvalid) {
				s.Logger.Debugf("magicLinkDashboard: AccessToken rejected, err: %v", err)
				s.render(w, http.StatusGone, "token_error", tokenErrorData{WhatsAppNumber: s.WhatsAppNumber})
				return
			}
			s.Logger.Errorf("magicLinkDashboard: Error consuming AccessToken, err: %v", err)
			s.renderError(w, http.StatusInternalServerError, "Something went wrong opening your dashboard.")
			return
		}

		u, err := s.DB.UserFindByID(r.Context(), at.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.Logger.Debugf("magicLinkDashboard: No User with ID: %d for consumed AccessToken", at.UserID)
				s.render(w, http.StatusGone, "token_error", tokenErrorData{WhatsAppNumber: s.WhatsAppNumber})
				return
			}
			s.Logger.Errorf("magicLinkDashboard: Error finding User with ID: %d, err: %v", at.UserID, err)
			s.renderError(w, http.StatusInternalServerError, "Something went wrong opening your dashboard.")
			return
		}

		st, exp, err := s.createSessionToken(u.ID)
		if err != nil {
			s.Logger.Errorf("magicLinkDashboard: Error creating session token for UserID: %d, err: %v", u.ID, err)
			s.renderError(w, http.StatusInternalServerError, "Something went wrong opening your dashboard.")
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    st,
			Path:     "/",
			Expires:  exp,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})

		ps, err := s.DB.ProductsFindActiveByUser(r.Context(), u.ID)
		if err != nil {
			s.Logger.Errorf("magicLinkDashboard: Error finding TrackedProducts for UserID: %d, err: %v", u.ID, err)
			s.renderError(w, http.StatusInternalServerError, "Something went wrong loading your products.")
			return
		}

		s.render(w, http.StatusOK, "dashboard", dashboardData{
			WhatsAppNumber: s.WhatsAppNumber,
			Phone:          u.PhoneNumber,
			UserFound:      true,
			Products:       ps,
			ViaMagicLink:   true,
		})
	}
}
