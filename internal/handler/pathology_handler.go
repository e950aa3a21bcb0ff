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

type PathologyHandler struct {
	service         *service.PathologyService
	validate        *validator.Validate
	defaultPageSize int
	maxPageSize     int
}

func NewPathologyHandler(service *service.PathologyService, defaultPageSize, maxPageSize int) *PathologyHandler {
	return &PathologyHandler{
		service:         service,
		validate:        validator.New(),
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (h *PathologyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePathologyRequest
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

	pathology, err := h.service.Create(userID, &req)
	if err != nil {
		var stale *service.StaleAggregateError
		if errors.As(err, &stale) {
			response.JSONWithWarning(w, http.StatusCreated, pathology, "note count may be stale")
			return
		}
		response.InternalError(w, "Failed to create pathology")
		return
	}

	response.Created(w, pathology)
}

func (h *PathologyHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	pathologies, err := h.service.List(userID)
	if err != nil {
		response.InternalError(w, "Failed to list pathologies")
		return
	}

	params := parsePageParams(r, h.defaultPageSize, h.maxPageSize)
	response.Success(w, paginate(pathologies, params))
}

func (h *PathologyHandler) Get(w http.ResponseWriter, r *http.Request) {
	pathologyID := mux.Vars(r)["id"]
	userID := middleware.GetUserID(r)

	pathology, err := h.service.Get(userID, pathologyID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Pathology not found")
			return
		}
		response.InternalError(w, "Failed to get pathology")
		return
	}

	response.Success(w, pathology)
}

func (h *PathologyHandler) Update(w http.ResponseWriter, r *http.Request) {
	pathologyID := mux.Vars(r)["id"]

	var req domain.UpdatePathologyRequest
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

	pathology, err := h.service.Update(userID, pathologyID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Pathology not found")
			return
		}
		response.InternalError(w, "Failed to update pathology")
		return
	}

	response.Success(w, pathology)
}

func (h *PathologyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pathologyID := mux.Vars(r)["id"]
	userID := middleware.GetUserID(r)

	if err := h.service.Delete(userID, pathologyID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Pathology not found")
			return
		}
		var cascade *service.CascadeError
		if errors.As(err, &cascade) {
			response.Error(w, http.StatusConflict, fmt.Sprintf("Delete aborted: %d notes could not be removed", cascade.Failed))
			return
		}
		response.InternalError(w, "Failed to delete pathology")
		return
	}

	response.Success(w, map[string]string{"message": "Pathology deleted successfully"})
}

func (h *PathologyHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	pathologyID := mux.Vars(r)["id"]

	var req domain.CreateNoteRequest
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

	note, err := h.service.CreateNote(userID, pathologyID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Pathology not found")
			return
		}
		var stale *service.StaleAggregateError
		if errors.As(err, &stale) {
			response.JSONWithWarning(w, http.StatusCreated, note, "note count may be stale")
			return
		}
		response.InternalError(w, "Failed to create note")
		return
	}

	response.Created(w, note)
}

func (h *PathologyHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	pathologyID := mux.Vars(r)["id"]
	userID := middleware.GetUserID(r)

	notes, err := h.service.ListNotes(userID, pathologyID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Pathology not found")
			return
		}
		response.InternalError(w, "Failed to list notes")
		return
	}

	params := parsePageParams(r, h.defaultPageSize, h.maxPageSize)
	response.Success(w, paginate(notes, params))
}

func (h *PathologyHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pathologyID := vars["id"]
	noteID := vars["noteId"]

	var req domain.UpdateNoteRequest
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

	note, err := h.service.UpdateNote(userID, pathologyID, noteID, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Note not found")
			return
		}
		var stale *service.StaleAggregateError
		if errors.As(err, &stale) {
			response.JSONWithWarning(w, http.StatusOK, note, "note count may be stale")
			return
		}
		response.InternalError(w, "Failed to update note")
		return
	}

	response.Success(w, note)
}

func (h *PathologyHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pathologyID := vars["id"]
	noteID := vars["noteId"]

	userID := middleware.GetUserID(r)

	if err := h.service.DeleteNote(userID, pathologyID, noteID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Note not found")
			return
		}
		var stale *service.StaleAggregateError
		if errors.As(err, &stale) {
			response.JSONWithWarning(w, http.StatusOK, map[string]string{"message": "Note deleted successfully"}, "note count may be stale")
			return
		}
		response.InternalError(w, "Failed to delete note")
		return
	}

	response.Success(w, map[string]string{"message": "Note deleted successfully"})
}
