package handler

import (
	"errors"
	"go-account-api/common"
	"go-account-api/model"
	"go-account-api/service"
	"net/http"

	"github.com/google/uuid"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// RegisterResponse is returned by a successful registration.
type RegisterResponse struct {
	Message string      `json:"msg"`
	User    *model.User `json:"user"`
}

// Register godoc
// @Summary      Register a user
// @Description  Creates a user. Username and email must both be unused.
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "New user"
// @Success      201  {object}  RegisterResponse
// @Failure      400  {object}  common.AppError
// @Failure      409  {object}  common.AppError
// @Router       /register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			return common.NewAppError(http.StatusConflict, "User already exists", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not register user", err)
	}

	common.WriteJSON(w, http.StatusCreated, RegisterResponse{Message: "You are registered", User: user})
	return nil
}

// Me godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /users/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.Unauthorized("Authentication required")
	}
	common.WriteJSON(w, http.StatusOK, identity.User)
	return nil
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.User
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve users", err)
	}
	common.WriteJSON(w, http.StatusOK, users)
	return nil
}

// GetUser godoc
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  model.User
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user ID in URL path", nil)
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve user", err)
	}
	common.WriteJSON(w, http.StatusOK, user)
	return nil
}

// DeleteMe godoc
// @Summary      Delete the current user
// @Description  Deletes the authenticated user and every token assigned to it.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /users/me [delete]
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.Unauthorized("Authentication required")
	}

	if err := h.service.DeleteUser(r.Context(), identity.User.ID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return common.NewAppError(http.StatusNotFound, "User not found", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not delete user", err)
	}
	common.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
	return nil
}
