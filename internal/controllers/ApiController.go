package controllers

import (
	"errors"
	"net/http"
	"reviewguard/internal/models"
	"reviewguard/internal/providers"
	"reviewguard/internal/services"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

const maxRequestBodySize = 1 << 20 // 1 MB

type ApiController struct {
	logger  providers.Logger
	service services.SpamServiceInterface
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewApiController(logger providers.Logger, service services.SpamServiceInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}

// Check scores a review submission before it is committed.
func (ac *ApiController) Check(w http.ResponseWriter, r *http.Request) {
	var payload models.CheckRequest
	if err := decodeBody(w, r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	v := validate.Struct(&payload.Submission)
	if !v.Validate() {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: v.Errors.One()})
		return
	}

	res, err := ac.service.Check(r.Context(), &payload)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDeviceID) || errors.Is(err, services.ErrCommentTooLong) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		ac.logger.Errorf(providers.TypeHTTP, "Check failed request_id=%s: %s", r.Header.Get(providers.RequestIDHeader), err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Reset clears stored history of a device, or of every device when the
// device id is empty.
func (ac *ApiController) Reset(w http.ResponseWriter, r *http.Request) {
	var payload models.ResetRequest
	if err := decodeBody(w, r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	err := ac.service.Reset(r.Context(), &payload)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, services.ErrInvalidDeviceID), errors.Is(err, services.ErrInvalidScope):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		ac.logger.Errorf(providers.TypeHTTP, "Reset failed request_id=%s: %s", r.Header.Get(providers.RequestIDHeader), err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
