package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-roleconnections/internal/tokenstore"
	"github.com/goliatone/go-roleconnections/pkg/client"
	"github.com/goliatone/go-roleconnections/pkg/oauth"
)

// Result labels for the callback, push and refresh counters.
const (
	resultSuccess       = "success"
	resultStateMismatch = "state_mismatch"
	resultDenied        = "denied"
	resultInvalid       = "invalid"
	resultError         = "error"
	resultSkipped       = "skipped"
)

func (s *Server) handleLinkedRole(w http.ResponseWriter, r *http.Request) {
	authURL, state, err := s.client.AuthorizationURL()
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "could not build authorization url", err)
		return
	}
	signed, err := s.state.sign(state)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "could not sign state", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(s.state.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, authURL, http.StatusFound)
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var cookie string
	if c, err := r.Cookie(StateCookie); err == nil {
		cookie = c.Value
	}
	if err := s.state.verify(cookie, query.Get("state")); err != nil {
		s.metrics.RecordCallback(resultStateMismatch)
		s.fail(w, r, http.StatusForbidden, "State verification failed.", err)
		return
	}
	s.clearStateCookie(w)

	if reason := query.Get("error"); reason != "" {
		s.metrics.RecordCallback(resultDenied)
		s.fail(w, r, http.StatusBadRequest, "authorization was not granted: "+reason, nil)
		return
	}
	code := query.Get("code")
	if code == "" {
		s.metrics.RecordCallback(resultInvalid)
		s.fail(w, r, http.StatusBadRequest, "missing authorization code", nil)
		return
	}

	ctx := r.Context()
	token, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		s.metrics.RecordCallback(resultError)
		s.fail(w, r, http.StatusBadGateway, "token exchange failed", err)
		return
	}
	auth, err := s.client.CurrentAuthorization(ctx, token)
	if err != nil {
		s.metrics.RecordCallback(resultError)
		s.fail(w, r, http.StatusBadGateway, "could not read authorization", err)
		return
	}
	if auth.User == nil || auth.User.ID == "" {
		s.metrics.RecordCallback(resultError)
		s.fail(w, r, http.StatusBadGateway, "authorization has no user; is the identify scope granted?", nil)
		return
	}
	userID := auth.User.ID

	if err := s.store.Put(ctx, userID, token); err != nil {
		s.metrics.RecordCallback(resultError)
		s.fail(w, r, http.StatusInternalServerError, "could not store token", err)
		return
	}
	s.logger.Info().Str("user_id", userID).Str("user", auth.User.DisplayName()).Msg("role connection authorized")

	if status, msg, err := s.pushFor(r, userID, token); err != nil && status != http.StatusNotFound {
		s.metrics.RecordCallback(resultError)
		s.fail(w, r, status, msg, err)
		return
	}

	s.metrics.RecordCallback(resultSuccess)
	http.Redirect(w, r, s.successURL, http.StatusFound)
}

func (s *Server) handleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.fail(w, r, http.StatusBadRequest, "invalid form body", err)
		return
	}
	userID := strings.TrimSpace(r.PostForm.Get("userId"))
	if userID == "" {
		s.fail(w, r, http.StatusBadRequest, "userId is required", nil)
		return
	}

	ctx := r.Context()
	token, err := s.store.Get(ctx, userID)
	if errors.Is(err, tokenstore.ErrNotFound) {
		s.fail(w, r, http.StatusNotFound, "no token stored for user", err)
		return
	}
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, "could not load token", err)
		return
	}

	token, status, msg, err := s.freshToken(r, userID, token)
	if err != nil {
		s.fail(w, r, status, msg, err)
		return
	}

	if status, msg, err := s.pushFor(r, userID, token); err != nil {
		s.fail(w, r, status, msg, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// freshToken refreshes an expired token and stores the replacement.
func (s *Server) freshToken(r *http.Request, userID string, token oauth.Token) (oauth.Token, int, string, error) {
	if !token.ExpiredAt(s.now()) {
		return token, 0, "", nil
	}
	if !token.Refreshable() {
		s.metrics.RecordRefresh(resultSkipped)
		return token, http.StatusUnauthorized, "token expired and cannot be refreshed", client.ErrCredentialExpired
	}

	ctx := r.Context()
	refreshed, err := s.client.RefreshToken(ctx, token)
	if err != nil {
		s.metrics.RecordRefresh(resultError)
		return token, http.StatusBadGateway, "token refresh failed", err
	}
	if err := s.store.Put(ctx, userID, refreshed); err != nil {
		s.metrics.RecordRefresh(resultError)
		return token, http.StatusInternalServerError, "could not store refreshed token", err
	}
	s.metrics.RecordRefresh(resultSuccess)
	return refreshed, 0, "", nil
}

// pushFor builds the user's instance from the values provider and pushes it.
// A 404 status means the provider has nothing for the user.
func (s *Server) pushFor(r *http.Request, userID string, token oauth.Token) (int, string, error) {
	ctx := r.Context()
	identity, values, err := s.values.Values(ctx, userID)
	if errors.Is(err, ErrUnknownUser) {
		s.metrics.RecordPush(resultSkipped)
		return http.StatusNotFound, "no metadata values for user", err
	}
	if err != nil {
		s.metrics.RecordPush(resultError)
		return http.StatusInternalServerError, "could not load metadata values", err
	}

	inst, err := s.client.Definition().Instantiate(identity, values)
	if err != nil {
		s.metrics.RecordPush(resultInvalid)
		return http.StatusInternalServerError, "metadata values do not match the definition", err
	}
	if _, err := s.client.PushMetadata(ctx, token, inst); err != nil {
		s.metrics.RecordPush(resultError)
		if errors.Is(err, client.ErrCredentialExpired) {
			return http.StatusUnauthorized, "token expired", err
		}
		return http.StatusBadGateway, "metadata push failed", err
	}
	s.metrics.RecordPush(resultSuccess)
	s.logger.Debug().Str("user_id", userID).Msg("role connection metadata pushed")
	return 0, "", nil
}

func (s *Server) clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	event := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = s.logger.Error()
	}
	if err != nil {
		event = event.Err(err)
		if code := client.StatusCode(err); code != 0 {
			event = event.Int("platform_status", code)
		}
	}
	event.Str("path", r.URL.Path).Int("status", status).Msg(msg)
	http.Error(w, msg, status)
}
