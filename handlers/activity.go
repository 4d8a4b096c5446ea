package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmate-backend/database"
	"tripmate-backend/models"
	"tripmate-backend/utils"
)

// GET /api/activity — recent ledger activity, newest first
func GetActivity(c *gin.Context) {
	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var activities []models.Activity
	database.DB.
		Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&activities)

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}
