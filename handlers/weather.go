package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripmate-backend/services"
	"tripmate-backend/utils"
)

var weatherService *services.WeatherService

// SetWeatherService wires the weather client at startup.
func SetWeatherService(s *services.WeatherService) {
	weatherService = s
}

type weatherQuery struct {
	Lat float64 `form:"lat" binding:"required"`
	Lng float64 `form:"lng" binding:"required"`
}

// GET /api/weather?lat=..&lng=..
func GetWeather(c *gin.Context) {
	var query weatherQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.BadRequest(c, "lat and lng query parameters are required")
		return
	}

	weather, err := weatherService.Current(c.Request.Context(), query.Lat, query.Lng)
	if err != nil {
		// Recoverable from the client's point of view: show a retry.
		utils.ErrorResponse(c, http.StatusBadGateway, "Weather is unavailable right now")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", weather)
}
