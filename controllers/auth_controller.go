package controllers

import (
	"encoding/json"
	"net/http"

	"bonded_server/services"
	"bonded_server/utils"
)

// AuthController handles signup, login, and caller identity.
type AuthController struct {
	AuthService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

func (c *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		School   string `json:"school"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	account, token, err := c.AuthService.Signup(r.Context(), request.Email, request.Password, request.Name, request.School)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"userId":  account.ID,
		"token":   token,
	})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	account, token, err := c.AuthService.Login(r.Context(), request.Email, request.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"userId": account.ID,
		"token":  token,
	})
}

// UserInfo resolves the caller's identity from their bearer token.
func (c *AuthController) UserInfo(w http.ResponseWriter, r *http.Request) {
	account, err := c.AuthService.Account(r.Context(), utils.CallerID(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"id":     account.ID,
		"email":  account.Email,
		"name":   account.Name,
		"school": account.School,
	})
}
