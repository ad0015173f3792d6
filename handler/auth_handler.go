package handler

import (
	"errors"
	"go-account-api/common"
	"go-account-api/logger"
	"go-account-api/model"
	"go-account-api/service"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Response headers carrying freshly issued tokens.
const (
	AccessTokenHeader  = "Access-Token"
	RefreshTokenHeader = "Refresh-Token"
)

// legacyAuthCookie is cleared on logout for clients that still store the token in a cookie.
const legacyAuthCookie = "users_access_token"

// LoginResponse is returned by login and token refresh.
type LoginResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

type AuthHandler struct {
	service *service.AuthService
	now     func() time.Time
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{service: s, now: time.Now}
}

func writeTokens(w http.ResponseWriter, userID uuid.UUID, access, refresh string) {
	w.Header().Set(AccessTokenHeader, access)
	if refresh != "" {
		w.Header().Set(RefreshTokenHeader, refresh)
	}
	common.WriteJSON(w, http.StatusOK, LoginResponse{UserID: userID, AccessToken: access, RefreshToken: refresh})
}

// Login godoc
// @Summary      Log in
// @Description  Verifies username and password and issues an access/refresh token pair scoped to device_id. Earlier tokens of the same device stop working.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Credentials"
// @Success      200  {object}  LoginResponse
// @Header       200  {string}  Access-Token   "Access token"
// @Header       200  {string}  Refresh-Token  "Refresh token"
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, pair, err := h.service.Login(r.Context(), req, h.now().UTC())
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid username or password", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not log in", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"device_id": req.DeviceID,
	}).Info("User logged in")

	writeTokens(w, user.ID, pair.AccessToken, pair.RefreshToken)
	return nil
}

// UpdateTokens godoc
// @Summary      Rotate both tokens
// @Description  Issues a new token pair for the device named in the refresh token.
// @Tags         auth
// @Produce      json
// @Security     RefreshAuth
// @Success      200  {object}  LoginResponse
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /update-tokens [post]
func (h *AuthHandler) UpdateTokens(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.Unauthorized("Authentication required")
	}

	pair, err := h.service.RefreshTokens(r.Context(), identity.User, identity.DeviceID, h.now().UTC())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh tokens", err)
	}

	writeTokens(w, identity.User.ID, pair.AccessToken, pair.RefreshToken)
	return nil
}

// UpdateAccessToken godoc
// @Summary      Refresh the access token
// @Description  Issues a new access token only; the presented refresh token stays valid.
// @Tags         auth
// @Produce      json
// @Security     RefreshAuth
// @Success      200  {object}  LoginResponse
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /update-access-token [post]
func (h *AuthHandler) UpdateAccessToken(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.Unauthorized("Authentication required")
	}

	access, err := h.service.RefreshAccessToken(r.Context(), identity.User, identity.DeviceID, h.now().UTC())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh access token", err)
	}

	writeTokens(w, identity.User.ID, access, "")
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Clears the legacy auth cookie. Issued tokens stay active until they expire or the device logs in again.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	http.SetCookie(w, &http.Cookie{
		Name:     legacyAuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	return nil
}
