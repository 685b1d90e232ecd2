package server

import (
	"embed"
	"net/http"

	"github.com/gorilla/mux"
)

//go:embed static
var staticFS embed.FS

func (s Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMw, s.maxBytesMw)

	r.HandleFunc("/", s.landing()).Methods(http.MethodGet)
	r.HandleFunc("/dashboard", s.dashboard()).Methods(http.MethodGet)
	r.HandleFunc("/product/{productID}", s.productDetail()).Methods(http.MethodGet)
	r.HandleFunc("/product/{productID}/delete", s.productDelete()).Methods(http.MethodPost)
	r.HandleFunc("/product/{productID}/target", s.productTargetUpdate()).Methods(http.MethodPost)
	r.HandleFunc("/partials/product-row/{productID}", s.productRowPartial()).Methods(http.MethodGet)
	r.HandleFunc("/d/{token}", s.magicLinkDashboard()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/generate-link", s.generateLink()).Methods(http.MethodPost)
	api.PathPrefix("").Handler(http.NotFoundHandler())

	authed := r.PathPrefix("/users").Subrouter()
	authed.Use(s.sessionAuthMw)
	authed.HandleFunc("", s.usersSummary()).Methods(http.MethodGet)

	r.PathPrefix("/static/").Handler(http.FileServer(http.FS(staticFS)))

	return r
}
