package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"tripmate-backend/database"
	"tripmate-backend/models"
	"tripmate-backend/utils"
)

// PUT /api/devices/fcm-token
func UpdateFCMToken(c *gin.Context) {
	travelerID := utils.GetCurrentTraveler(c)

	var req models.UpdateFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	device := models.Device{
		TravelerID: travelerID,
		FCMToken:   req.FCMToken,
	}

	if err := database.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&device).Error; err != nil {
		utils.InternalError(c, "Failed to save device token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Device token updated", nil)
}
