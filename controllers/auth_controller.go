package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"housecleaning-backend/metrics"
	"housecleaning-backend/services"
	"housecleaning-backend/utils"

	"github.com/gin-gonic/gin"
)

type loginPayload struct {
	Password string `json:"password"`
}

type addPasswordPayload struct {
	Password string `json:"password"`
}

type AuthController struct {
	AuthSvc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{AuthSvc: svc}
}

// parseID reads the :id path parameter. It writes a 400 and returns false
// when the value is not a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return uint(id), true
}

// Login (POST /api/auth/login)
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ok, err := ctrl.AuthSvc.ValidatePassword(c.Request.Context(), payload.Password)
	if err != nil {
		_ = c.Error(err)
		utils.JSONInternalError(c)
		return
	}
	metrics.IncLogin(ok)

	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Invalid password")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, nil, "Login successful")
}

// GetPasswords (GET /api/auth/getallpasswords)
func (ctrl *AuthController) GetPasswords(c *gin.Context) {
	passwords, err := ctrl.AuthSvc.ListPasswords(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		utils.JSONInternalError(c)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, passwords, "Fetched successfully")
}

// AddPassword (POST /api/auth/passwords)
func (ctrl *AuthController) AddPassword(c *gin.Context) {
	var payload addPasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	saved, err := ctrl.AuthSvc.AddPassword(c.Request.Context(), payload.Password)
	switch {
	case errors.Is(err, services.ErrPasswordRequired):
		utils.JSONError(c, http.StatusBadRequest, "Password is required")
		return
	case errors.Is(err, services.ErrPasswordTooLong):
		utils.JSONError(c, http.StatusBadRequest, "Password must be at most 72 bytes")
		return
	case err != nil:
		_ = c.Error(err)
		utils.JSONInternalError(c)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, saved, "Password added successfully")
}

// DeletePassword (DELETE /api/auth/passwords/:id)
func (ctrl *AuthController) DeletePassword(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := ctrl.AuthSvc.DeletePassword(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		utils.JSONInternalError(c)
		return
	}
	if !deleted {
		utils.JSONError(c, http.StatusNotFound, "Password not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, nil, "Password deleted successfully")
}
