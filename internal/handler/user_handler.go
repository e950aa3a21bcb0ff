package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"taccuino-server/internal/domain"
	"taccuino-server/internal/middleware"
	"taccuino-server/internal/service"
	"taccuino-server/pkg/response"

	"github.com/go-playground/validator/v10"
)

type UserHandler struct {
	userService *service.UserService
	validate    *validator.Validate
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Profile not found")
			return
		}
		response.InternalError(w, "Failed to get profile")
		return
	}

	response.Success(w, profile)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	req.Normalize()
	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	profile, err := h.userService.SaveProfile(userID, &req)
	if err != nil {
		response.InternalError(w, "Failed to save profile")
		return
	}

	response.Success(w, profile)
}
