package controllers

import (
	"encoding/json"
	"net/http"

	"bonded_server/services"
	"bonded_server/utils"
)

// UploadController handles profile-photo uploads.
type UploadController struct {
	PhotoService *services.PhotoService
}

func NewUploadController(photoService *services.PhotoService) *UploadController {
	return &UploadController{PhotoService: photoService}
}

func (c *UploadController) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
		Data     string `json:"data"` // base64, optionally a data URL
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	url, path, err := c.PhotoService.UploadBase64Photo(r.Context(), utils.CallerID(r), request.FileName, request.FileType, request.Data)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"url": url, "path": path})
}
