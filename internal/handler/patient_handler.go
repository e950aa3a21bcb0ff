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
	"github.com/gorilla/mux"
)

type PatientHandler struct {
	service         *service.PatientService
	validate        *validator.Validate
	defaultPageSize int
	maxPageSize     int
}

func NewPatientHandler(service *service.PatientService, defaultPageSize, maxPageSize int) *PatientHandler {
	return &PatientHandler{
		service:         service,
		validate:        validator.New(),
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (h *PatientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload domain.PatientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	payload.Normalize()
	if err := h.validate.Struct(payload); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	patient, err := h.service.Create(userID, &payload)
	if err != nil {
		response.InternalError(w, "Failed to create patient")
		return
	}

	response.Created(w, patient)
}

func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	patients, err := h.service.List(userID)
	if err != nil {
		response.InternalError(w, "Failed to list patients")
		return
	}

	params := parsePageParams(r, h.defaultPageSize, h.maxPageSize)
	response.Success(w, paginate(patients, params))
}

func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]
	userID := middleware.GetUserID(r)

	patient, err := h.service.Get(userID, patientID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Patient not found")
			return
		}
		response.InternalError(w, "Failed to get patient")
		return
	}

	response.Success(w, patient)
}

func (h *PatientHandler) Update(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]

	var payload domain.PatientPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		response.BadRequest(w, "Invalid request payload")
		return
	}

	payload.Normalize()
	if err := h.validate.Struct(payload); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	userID := middleware.GetUserID(r)

	patient, err := h.service.Update(userID, patientID, &payload)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Patient not found")
			return
		}
		response.InternalError(w, "Failed to update patient")
		return
	}

	response.Success(w, patient)
}

func (h *PatientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	patientID := mux.Vars(r)["id"]
	userID := middleware.GetUserID(r)

	if err := h.service.Delete(userID, patientID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "Patient not found")
			return
		}
		response.InternalError(w, "Failed to delete patient")
		return
	}

	response.Success(w, map[string]string{"message": "Patient deleted successfully"})
}
