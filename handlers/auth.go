package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"tripmate-backend/config"
	"tripmate-backend/utils"
)

type LoginRequest struct {
	Traveler string `json:"traveler" binding:"required"`
	Passcode string `json:"passcode" binding:"required"`
}

type AuthResponse struct {
	Token    string `json:"token"`
	Traveler string `json:"traveler"`
}

// POST /auth/login
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if !isTraveler(req.Traveler) {
		utils.Unauthorized(c, "Unknown traveler")
		return
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(config.AppConfig.PasscodeHash), []byte(req.Passcode)); err != nil {
		utils.Unauthorized(c, "Invalid passcode")
		return
	}

	token, err := utils.GenerateToken(req.Traveler)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", AuthResponse{
		Token:    token,
		Traveler: req.Traveler,
	})
}

func isTraveler(id string) bool {
	return id == config.AppConfig.TravelerOne || id == config.AppConfig.TravelerTwo
}
