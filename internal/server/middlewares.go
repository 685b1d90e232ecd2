package server

import (
	"context"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/pkg/errors"

	"dealbot/internal/model"
)

const sessionCookieName = "dealbot_session"

type userContextKey struct{}
type userContext struct {
	user model.User
}

type traceContextKey struct{}
type traceContext struct {
	traceID string
}

func setUserContext(ctx context.Context, uc userContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}
func getUserContext(ctx context.Context) (userContext, error) {
	uc, ok := ctx.Value(userContextKey{}).(userContext)
	if !ok {
		return uc, errors.New("failed to get UserContext")
	}
	return uc, nil
}

func setTraceContext(ctx context.Context, tc traceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, tc)
}
func getTraceContext(ctx context.Context) traceContext {
	tc, _ := ctx.Value(traceContextKey{}).(traceContext)
	return tc
}

func (s Server) maxBytesMw(next http.Handler) http.Handler {
	return http.MaxBytesHandler(next, 4096)
}

func (s Server) loggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		traceID := uuid.NewString()
		s.Logger.Debugf("loggingMw: New incoming request %s %s from %s, UA: %s, TraceID: %s",
			r.Method, r.URL.Path, r.RemoteAddr, r.UserAgent(), traceID)

		defer func() {
			if re := recover(); re != nil {
				s.Logger.Errorf("loggingMw: Handler crashed, err: %v, TraceID: %s, stack trace:\n%s", re, traceID, debug.Stack())
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}()

		tc := traceContext{traceID: traceID}
		next.ServeHTTP(w, r.WithContext(setTraceContext(r.Context(), tc)))

		s.Logger.Debugf("loggingMw: Incoming request %s %s took %dms, TraceID: %s",
			r.Method, r.URL.Path, time.Since(start).Milliseconds(), traceID)
	})
}

// sessionAuthMw gates pages behind the signed session cookie that a
// magic-link visit sets.
func (s Server) sessionAuthMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := getTraceContext(r.Context()).traceID
		c, err := r.Cookie(sessionCookieName)
		if err != nil {
			s.Logger.Debugf("sessionAuthMw: No session cookie, TraceID: %s", tid)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse([]byte(c.Value), jwt.WithKey(jwa.HS256, s.AuthSecretKey), jwt.WithValidate(true))
		if err != nil {
			s.Logger.Debugf("sessionAuthMw: Failed to validate session token, err: %v, TraceID: %s", err, tid)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		userID, err := strconv.ParseInt(token.Subject(), 10, 64)
		if err != nil {
			s.Logger.Debugf("sessionAuthMw: Bad subject in session token: %s, err: %v, TraceID: %s", token.Subject(), err, tid)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		u, err := s.DB.UserFindByID(r.Context(), userID)
		if err != nil {
			s.Logger.Debugf("sessionAuthMw: Error finding User from session token, err: %v, TraceID: %s", err, tid)
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		uc := userContext{user: u}
		next.ServeHTTP(w, r.WithContext(setUserContext(r.Context(), uc)))
	})
}

// createSessionToken builds the HS256 session JWT set after a magic link
// is consumed, so the dashboard stays usable once the single-use token is
// burned.
func (s Server) createSessionToken(userID int64) (string, time.Time, error) {
	exp := time.Now().Add(s.TokenExpiry)
	t, err := jwt.NewBuilder().
		Subject(strconv.FormatInt(userID, 10)).
		Issuer("dealbot-dashboard").
		IssuedAt(time.Now()).
		Expiration(exp).
		Build()
	if err != nil {
		return "", exp, errors.Wrapf(err, "error creating session token for UserID: %d", userID)
	}
	st, err := jwt.Sign(t, jwt.WithKey(jwa.HS256, s.AuthSecretKey))
	if err != nil {
		return "", exp, errors.Wrapf(err, "error signing session token for UserID: %d", userID)
	}
	return string(st), exp, nil
}
