package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/storefront/internal/shop/domain"
	"github.com/aussiebroadwan/storefront/internal/shop/service"
	"github.com/aussiebroadwan/storefront/pkg/httpx"
	"github.com/aussiebroadwan/storefront/pkg/jwtx"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
)

// AuthHandler handles signup, login, second-factor verification, and logout.
type AuthHandler struct {
	Accounts  *service.AccountService
	TwoFactor *service.TwoFactorService
	Sessions  *service.SessionService
	Signer    jwtx.Signer
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Code string `json:"code"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func toUserResponse(id domain.Identity) userResponse {
	return userResponse{
		ID:       id.UserID,
		Username: id.Username,
		Email:    id.Email,
		Role:     id.Role.String(),
	}
}

// HandleSignup handles POST /v1/auth/signup
//
//	@Summary		Create an account
//	@Description	Registers a new user. All validation failures are reported together.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		signupRequest	true	"Account details"
//	@Success		201		{object}	userResponse
//	@Failure		400		{object}	map[string][]string	"Validation failures"
//	@Router			/v1/auth/signup [post].
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Accounts.Register(ctx, service.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			httpx.WriteJSON(w, http.StatusBadRequest, map[string][]string{"errors": verr.Reasons})
			return
		}
		log.Error("signup failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Info("user_registered", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusCreated, userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role.String(),
	})
}

// HandleLogin handles POST /v1/auth/login
//
//	@Summary		Start a login
//	@Description	Checks the primary credentials and, on success, issues a one-time code
//	@Description	and moves the session to the pending-second-factor state.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest		true	"Credentials"
//	@Success		200		{object}	map[string]any		"two_factor_required and expires_in"
//	@Failure		401		{object}	map[string]string	"Invalid credentials"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.TwoFactor.Issue(ctx, user.ID, user.Email); err != nil {
		log.Error("failed to issue one-time code", "user_id", user.ID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Reuse the caller's session when it has one, otherwise mint a fresh
	// one. Either way the login restarts the state machine.
	token, ok := sessionTokenFromContext(ctx)
	if ok {
		if _, err := h.Sessions.Snapshot(token); err != nil {
			ok = false
		}
	}
	if !ok {
		token, err = h.Sessions.Create()
		if err != nil {
			log.Error("failed to create session", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	identity := domain.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
	if err := h.Sessions.Update(token, func(s *domain.ClientSession) error {
		s.BeginPendingFactor(identity)
		return nil
	}); err != nil {
		log.Error("failed to update session", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setSessionCookie(w, r, token, h.Sessions.TTL)

	expiresIn, err := h.TwoFactor.RemainingSeconds(ctx, user.ID)
	if err != nil {
		log.Error("failed to read challenge expiry", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Info("login_pending_second_factor", "user_id", user.ID)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"two_factor_required": true,
		"expires_in":          expiresIn,
	})
}

// HandleTwoFactorStatus handles GET /v1/auth/2fa
//
//	@Summary		Second-factor status
//	@Description	Reports how long the pending one-time code stays valid.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	map[string]any		"pending and expires_in"
//	@Failure		401	{object}	map[string]string	"No login in progress"
//	@Router			/v1/auth/2fa [get].
func (h *AuthHandler) HandleTwoFactorStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	snap := snapshotFromContext(ctx)

	pending, err := h.TwoFactor.HasPendingChallenge(ctx, snap.Identity.UserID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to look up challenge", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !pending {
		httpx.WriteError(w, http.StatusUnauthorized, service.ErrNoChallenge.Error())
		return
	}

	expiresIn, err := h.TwoFactor.RemainingSeconds(ctx, snap.Identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNoChallenge) {
			httpx.WriteError(w, http.StatusUnauthorized, service.ErrNoChallenge.Error())
			return
		}
		slogx.FromContext(ctx).Error("failed to read challenge expiry", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"pending":    true,
		"expires_in": expiresIn,
	})
}

// HandleTwoFactorVerify handles POST /v1/auth/2fa/verify
//
//	@Summary		Verify the one-time code
//	@Description	Completes the login. A correct code promotes the session to authenticated
//	@Description	and returns the user plus a bearer token for non-browser clients.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		verifyRequest		true	"6-digit code"
//	@Success		200		{object}	map[string]any		"user and api_token"
//	@Failure		401		{object}	map[string]string	"Wrong, expired, or exhausted code"
//	@Router			/v1/auth/2fa/verify [post].
func (h *AuthHandler) HandleTwoFactorVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	snap := snapshotFromContext(ctx)

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.TwoFactor.Verify(ctx, snap.Identity.UserID, strings.TrimSpace(req.Code)); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCode),
			errors.Is(err, service.ErrChallengeExpired),
			errors.Is(err, service.ErrTooManyAttempts),
			errors.Is(err, service.ErrNoChallenge):
			log.Warn("second_factor_rejected", "user_id", snap.Identity.UserID, "reason", err.Error())
			httpx.WriteError(w, http.StatusUnauthorized, err.Error())
		default:
			log.Error("second factor verification failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	token, _ := sessionTokenFromContext(ctx)
	if err := h.Sessions.Update(token, func(s *domain.ClientSession) error {
		return s.CompleteAuthentication()
	}); err != nil {
		log.Error("failed to promote session", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	apiToken, err := h.Signer.Mint(snap.Identity.UserID, snap.Identity.Username, snap.Identity.Role.String())
	if err != nil {
		log.Error("failed to mint api token", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	log.Info("login_completed", "user_id", snap.Identity.UserID)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user":      toUserResponse(snap.Identity),
		"api_token": apiToken,
	})
}

// HandleLogout handles POST /v1/auth/logout
//
//	@Summary		Log out
//	@Description	Destroys the session and clears the cookie. Safe to call from any state.
//	@Tags			Auth
//	@Produce		json
//	@Success		204	"No content"
//	@Router			/v1/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := sessionTokenFromContext(r.Context()); ok {
		h.Sessions.Destroy(token)
	}
	clearSessionCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// HandleForgotPassword handles POST /v1/auth/forgot-password
//
//	@Summary		Request a password reset
//	@Description	Always acknowledges, whether or not the email is registered.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		forgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	map[string]string
//	@Router			/v1/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Accounts.RequestPasswordReset(ctx, req.Email); err != nil {
		slogx.FromContext(ctx).Error("password reset lookup failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "if that email is registered, reset instructions are on their way",
	})
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   requestIsSecure(r),
		MaxAge:   int(ttl.Seconds()),
	})
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   requestIsSecure(r),
		MaxAge:   -1,
	})
}

func requestIsSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
