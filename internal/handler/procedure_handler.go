package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"taccuino-server/internal/domain"
	"taccuino-server/internal/middleware"
	"taccuino-server/internal/service"
	"taccuino-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type ProcedureHandler struct {
	service         *service.ProcedureService
	validate        *validator.Validate
	defaultPageSize int
	maxPageSize     int
}

func NewProcedureHandler(service *service.ProcedureService, defaultPageSize, maxPageSize int) *ProcedureHandler {
	return &ProcedureHandler{
		service:         service,
		validate:        validator.New(),
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (h *ProcedureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProcedureRequest
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

	procedure, err := h.service.Create(userID, &req)
	if err != nil {
		response.InternalError(w, "Failed to create procedure")
		return
	}

	response.Created(w, procedure)
}

func (h *ProcedureHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	procedures, err := h.service.List(userID)
	if err != nil {
		response.InternalError(w, "Failed to list procedures")
		return
	}

	params := parsePageParams(r, h.defaultPageSize, h.maxPageSize)
	response.Success(w, paginate(procedures, params))
}

func (h *ProcedureHandler) Get(w http.ResponseWriter, r *http.Request) {
	procedureID := mux.Vars(r)["id"]
	userID := middleware.GetUserID(r)

	procedure, err := h.service.Get(userID, procedureID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Procedure not found")
			return
		}
		response.InternalError(w, "Failed to get procedure")
		return
	}

	response.Success(w, procedure)
}

func (h *ProcedureHandler) Update(w http.ResponseWriter, r *http.Request) {
	procedureID := mux.Vars(r)["id"]

	var req domain.UpdateProcedureRequest
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

	procedure, err := h.service.Update(userID, procedureID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Procedure not found")
			return
		}
		response.InternalError(w, "Failed to update procedure")
		return
	}

	response.Success(w, procedure)
}

func (h *ProcedureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	procedureID := mux.Vars(r)["id"]
	userID := middleware.GetUserID(r)

	if err := h.service.Delete(userID, procedureID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Procedure not found")
			return
		}
		var cascade *service.CascadeError
		if errors.As(err, &cascade) {
			response.Error(w, http.StatusConflict, fmt.Sprintf("Delete aborted: %d techniques could not be removed", cascade.Failed))
			return
		}
		response.InternalError(w, "Failed to delete procedure")
		return
	}

	response.Success(w, map[string]string{"message": "Procedure deleted successfully"})
}

func (h *ProcedureHandler) CreateTechnique(w http.ResponseWriter, r *http.Request) {
	procedureID := mux.Vars(r)["id"]

	var req domain.TechniqueInput
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

	technique, err := h.service.CreateTechnique(userID, procedureID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Procedure not found")
			return
		}
		response.InternalError(w, "Failed to create technique")
		return
	}

	response.Created(w, technique)
}

func (h *ProcedureHandler) ListTechniques(w http.ResponseWriter, r *http.Request) {
	procedureID := mux.Vars(r)["id"]
	userID := middleware.GetUserID(r)

	techniques, err := h.service.ListTechniques(userID, procedureID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Procedure not found")
			return
		}
		response.InternalError(w, "Failed to list techniques")
		return
	}

	params := parsePageParams(r, h.defaultPageSize, h.maxPageSize)
	response.Success(w, paginate(techniques, params))
}

func (h *ProcedureHandler) UpdateTechnique(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	procedureID := vars["id"]
	techniqueID := vars["techniqueId"]

	var req domain.TechniqueInput
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

	technique, err := h.service.UpdateTechnique(userID, procedureID, techniqueID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Technique not found")
			return
		}
		response.InternalError(w, "Failed to update technique")
		return
	}

	response.Success(w, technique)
}

func (h *ProcedureHandler) DeleteTechnique(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	procedureID := vars["id"]
	techniqueID := vars["techniqueId"]

	userID := middleware.GetUserID(r)

	if err := h.service.DeleteTechnique(userID, procedureID, techniqueID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Technique not found")
			return
		}
		response.InternalError(w, "Failed to delete technique")
		return
	}

	response.Success(w, map[string]string{"message": "Technique deleted successfully"})
}
