package server

import (
	"html/template"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"

	"dealbot/internal/database"
)

type Server struct {
	DB                  database.Database
	Logger              logger
	Templates           *template.Template
	AuthSecretKey       jwk.Key
	BotAPIKeyHash       []byte
	WhatsAppNumber      string
	WhatsAppSandboxJoin string
	DashboardURL        string
	TokenExpiry         time.Duration
}

type logger interface {
	Debug(v ...any)
	Info(v ...any)
	Error(v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}
