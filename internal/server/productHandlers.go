package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"dealbot/internal/misc"
	"dealbot/internal/model"
)

// historyChartLimit caps the number of observations sent to the chart,
// matching the bot-side query.
const historyChartLimit = 60

type dashboardData struct {
	WhatsAppNumber string
	Phone          string
	UserFound      bool
	Products       []model.TrackedProduct
	Error          string
	ViaMagicLink   bool
}

func productIDFromRequest(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["productID"], 10, 64)
}

func (s Server) dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phone := r.URL.Query().Get("phone")
		data := dashboardData{
			WhatsAppNumber: s.WhatsAppNumber,
			Phone:          phone,
		}
		if phone == "" {
			s.render(w, http.StatusOK, "dashboard", data)
			return
		}

		u, err := s.DB.UserFindByPhone(r.Context(), phone)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.Logger.Debugf("dashboard: No User found with phone number: %s", phone)
				data.Error = fmt.Sprintf("No user found with the number %s", phone)
				s.render(w, http.StatusOK, "dashboard", data)
				return
			}
			s.Logger.Errorf("dashboard: Error finding User with phone number: %s, err: %v", phone, err)
			s.renderError(w, http.StatusInternalServerError, "Something went wrong loading your dashboard.")
			return
		}

		ps, err := s.DB.ProductsFindActiveByUser(r.Context(), u.ID)
		if err != nil {
			s.Logger.Errorf("dashboard: Error finding TrackedProducts for UserID: %d, err: %v", u.ID, err)
			s.renderError(w, http.StatusInternalServerError, "Something went wrong loading your products.")
			return
		}

		data.UserFound = true
		data.Products = ps
		s.render(w, http.StatusOK, "dashboard", data)
	}
}

func (s Server) productDetail() http.HandlerFunc {
	type pageData struct {
		Product     model.TrackedProduct
		History     []model.PriceHistory
		ChartLabels template.JS
		ChartPrices template.JS
		UserPhone   string
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDFromRequest(r)
		if err != nil {
			s.renderError(w, http.StatusNotFound, "Product not found.")
			return
		}

		p, err := s.DB.ProductFindActive(r.Context(), id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.Logger.Debugf("productDetail: No active TrackedProduct with ID: %d", id)
				s.renderError(w, http.StatusNotFound, "Product not found.")
				return
			}
			s.Logger.Errorf("productDetail: Error finding TrackedProduct with ID: %d, err: %v", id, err)
			s.renderError(w, http.StatusInternalServerError, "Something went wrong loading this product.")
			return
		}

		phs, err := s.DB.PriceHistoryFind(r.Context(), p.ID, historyChartLimit)
		if err != nil {
			s.Logger.Errorf("productDetail: Error finding PriceHistory for ProductID: %d, err: %v", p.ID, err)
			s.renderError(w, http.StatusInternalServerError, "Something went wrong loading the price history.")
			return
		}

		labels := make([]string, 0, len(phs))
		prices := make([]float64, 0, len(phs))
		for _, ph := range phs {
			labels = append(labels, ph.RecordedAt.Format("2006-01-02"))
			prices = append(prices, ph.Price)
		}
		labelsJSON, err := json.Marshal(labels)
		if err != nil {
			s.Logger.Errorf("productDetail: Error marshalling chart labels for ProductID: %d, err: %v", p.ID, err)
			s.renderError(w, http.StatusInternalServerError, "Something went wrong rendering the chart.")
			return
		}
		pricesJSON, err := json.Marshal(prices)
		if err != nil {
			s.Logger.Errorf("productDetail: Error marshalling chart prices for ProductID: %d, err: %v", p.ID, err)
			s.renderError(w, http.StatusInternalServerError, "Something went wrong rendering the chart.")
			return
		}

		var userPhone string
		if u, err := s.DB.UserFindByID(r.Context(), p.UserID); err != nil {
			s.Logger.Errorf("productDetail: Error finding User with ID: %d, err: %v", p.UserID, err)
		} else {
			userPhone = u.PhoneNumber
		}

		s.render(w, http.StatusOK, "product", pageData{
			Product:     p,
			History:     phs,
			ChartLabels: template.JS(labelsJSON),
			ChartPrices: template.JS(pricesJSON),
			UserPhone:   userPhone,
		})
	}
}

func (s Server) productDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDFromRequest(r)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}

		p, err := s.DB.ProductFindActive(r.Context(), id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				s.Logger.Debugf("productDelete: No active TrackedProduct with ID: %d", id)
				http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
				return
			}
			s.Logger.Errorf("productDelete: Error finding TrackedProduct with ID: %d, err: %v", id, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if err := s.DB.ProductSoftDelete(r.Context(), p.ID); err != nil {
			s.Logger.Errorf("productDelete: Error soft-deleting TrackedProduct with ID: %d, err: %v", p.ID, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.Logger.Infof("productDelete: Soft-deleted TrackedProduct: %s, ID: %d", misc.StringLimit(p.Name, 45), p.ID)

		// HTMX swaps the row for the (empty) response body, so the row
		// disappears in place.
		if isHTMX(r) {
			w.WriteHeader(http.StatusOK)
			return
		}

		var phone string
		if u, err := s.DB.UserFindByID(r.Context(), p.UserID); err != nil {
			s.Logger.Errorf("productDelete: Error finding User with ID: %d, err: %v", p.UserID, err)
		} else {
			phone = u.PhoneNumber
		}
		http.Redirect(w, r, "/dashboard?phone="+url.QueryEscape(phone), http.StatusSeeOther)
	}
}

func (s Server) productTargetUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDFromRequest(r)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}

		if err := r.ParseForm(); err != nil {
			s.Logger.Debugf("productTargetUpdate: Error parsing form for ProductID: %d, err: %v", id, err)
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		price, err := misc.ParsePrice(r.PostFormValue("target_price"))
		if err != nil {
			s.Logger.Debugf("productTargetUpdate: Invalid target price for ProductID: %d, err: %v", id, err)
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		updated, err := s.DB.ProductTargetUpdate(r.Context(), id, price)
		if err != nil {
			s.Logger.Errorf("productTargetUpdate: Error updating target price for ProductID: %d, err: %v", id, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if !updated {
			s.Logger.Debugf("productTargetUpdate: No active TrackedProduct with ID: %d", id)
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}

		if isHTMX(r) {
			p, err := s.DB.ProductFindActive(r.Context(), id)
			if err != nil {
				s.Logger.Errorf("productTargetUpdate: Error reloading TrackedProduct with ID: %d, err: %v", id, err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			s.render(w, http.StatusOK, "product_row", p)
			return
		}
		http.Redirect(w, r, "/product/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
	}
}

func (s Server) productRowPartial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := productIDFromRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusOK)
			return
		}

		p, err := s.DB.ProductFindActive(r.Context(), id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				w.WriteHeader(http.StatusOK)
				return
			}
			s.Logger.Errorf("productRowPartial: Error finding TrackedProduct with ID: %d, err: %v", id, err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		s.render(w, http.StatusOK, "product_row", p)
	}
}
