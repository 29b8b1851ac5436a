package controllers

import (
	"errors"
	"log"
	"net/http"

	"bonded_server/services"
	"bonded_server/utils"
)

// writeServiceError maps service sentinel errors onto HTTP statuses.
// Anything unexpected becomes a 500 with a generic message; details stay
// in the server log.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.JSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		utils.JSONError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.JSONError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("❌ Unexpected error: %v", err)
		utils.JSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}
