package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripmate-backend/config"
	"tripmate-backend/database"
	"tripmate-backend/models"
	"tripmate-backend/services"
	"tripmate-backend/settlement"
	"tripmate-backend/utils"
)

func currentRates() settlement.Rates {
	return settlement.Rates{
		HomeCurrency: config.AppConfig.HomeCurrency,
		LocalToHome:  config.AppConfig.LocalToHome,
	}
}

func isCurrency(code string) bool {
	return code == config.AppConfig.HomeCurrency || code == config.AppConfig.LocalCurrency
}

// POST /api/expenses
func CreateExpense(c *gin.Context) {
	travelerID := utils.GetCurrentTraveler(c)

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if !isTraveler(req.PaidBy) {
		utils.BadRequest(c, "paid_by must be one of the two travelers")
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = config.AppConfig.HomeCurrency
	}
	if !isCurrency(currency) {
		utils.BadRequest(c, fmt.Sprintf("currency must be %s or %s",
			config.AppConfig.HomeCurrency, config.AppConfig.LocalCurrency))
		return
	}

	expenseDate := time.Now()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			utils.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		expenseDate = parsed
	}

	expense := models.SharedExpense{
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    currency,
		PaidBy:      req.PaidBy,
		SplitType:   req.SplitType,
		Category:    req.Category,
		Date:        expenseDate,
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		utils.InternalError(c, "Failed to create expense")
		return
	}

	logActivity(travelerID, "expense_added", expense.ID,
		fmt.Sprintf("%s added \"%s\" (%s %.2f)", travelerID, expense.Description, expense.Currency, expense.Amount))

	services.GetFeedHub().Broadcast(services.FeedEvent{Type: services.FeedInsert, Expense: expense})
	go services.GetNotificationService().NotifyExpenseChanged("added", expense)

	utils.SuccessResponse(c, http.StatusCreated, "Expense added", expense)
}

// GET /api/expenses
func GetExpenses(c *gin.Context) {
	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	var expenses []models.SharedExpense
	database.DB.
		Order("date DESC, created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&expenses)

	utils.SuccessResponse(c, http.StatusOK, "", expenses)
}

// GET /api/expenses/:id
func GetExpense(c *gin.Context) {
	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.SharedExpense
	if err := database.DB.First(&expense, expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", expense)
}

// PUT /api/expenses/:id
func UpdateExpense(c *gin.Context) {
	travelerID := utils.GetCurrentTraveler(c)

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.SharedExpense
	if err := database.DB.First(&expense, expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if req.PaidBy != "" && !isTraveler(req.PaidBy) {
		utils.BadRequest(c, "paid_by must be one of the two travelers")
		return
	}
	if req.Currency != "" && !isCurrency(req.Currency) {
		utils.BadRequest(c, fmt.Sprintf("currency must be %s or %s",
			config.AppConfig.HomeCurrency, config.AppConfig.LocalCurrency))
		return
	}

	updates := map[string]interface{}{}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Amount > 0 {
		updates["amount"] = req.Amount
	}
	if req.Currency != "" {
		updates["currency"] = req.Currency
	}
	if req.PaidBy != "" {
		updates["paid_by"] = req.PaidBy
	}
	if req.SplitType != "" {
		updates["split_type"] = req.SplitType
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			utils.BadRequest(c, "date must be YYYY-MM-DD")
			return
		}
		updates["date"] = parsed
	}

	if err := database.DB.Model(&expense).Updates(updates).Error; err != nil {
		utils.InternalError(c, "Failed to update expense")
		return
	}
	database.DB.First(&expense, expenseID)

	logActivity(travelerID, "expense_updated", expense.ID,
		fmt.Sprintf("%s updated \"%s\"", travelerID, expense.Description))

	services.GetFeedHub().Broadcast(services.FeedEvent{Type: services.FeedUpdate, Expense: expense})
	go services.GetNotificationService().NotifyExpenseChanged("updated", expense)

	utils.SuccessResponse(c, http.StatusOK, "Expense updated", expense)
}

// DELETE /api/expenses/:id
func DeleteExpense(c *gin.Context) {
	travelerID := utils.GetCurrentTraveler(c)

	expenseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var expense models.SharedExpense
	if err := database.DB.First(&expense, expenseID).Error; err != nil {
		utils.NotFound(c, "Expense not found")
		return
	}

	if err := database.DB.Delete(&expense).Error; err != nil {
		utils.InternalError(c, "Failed to delete expense")
		return
	}

	logActivity(travelerID, "expense_deleted", expense.ID,
		fmt.Sprintf("%s deleted \"%s\" (%s %.2f)", travelerID, expense.Description, expense.Currency, expense.Amount))

	services.GetFeedHub().Broadcast(services.FeedEvent{Type: services.FeedDelete, Expense: expense})
	go services.GetNotificationService().NotifyExpenseChanged("deleted", expense)

	utils.SuccessResponse(c, http.StatusOK, "Expense deleted", nil)
}

// GET /api/settlement — always recomputed from the full ledger, never stored
func GetSettlement(c *gin.Context) {
	var expenses []models.SharedExpense
	if err := database.DB.Find(&expenses).Error; err != nil {
		utils.InternalError(c, "Failed to load expenses")
		return
	}

	result := settlement.Compute(expenses,
		config.AppConfig.TravelerOne, config.AppConfig.TravelerTwo, currentRates())

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// POST /api/settlement/share — email the current summary
func ShareSettlement(c *gin.Context) {
	travelerID := utils.GetCurrentTraveler(c)

	var req models.ShareSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var expenses []models.SharedExpense
	if err := database.DB.Find(&expenses).Error; err != nil {
		utils.InternalError(c, "Failed to load expenses")
		return
	}

	result := settlement.Compute(expenses,
		config.AppConfig.TravelerOne, config.AppConfig.TravelerTwo, currentRates())

	if err := services.GetNotificationService().SendSettlementEmail(req.Email, result); err != nil {
		utils.InternalError(c, err.Error())
		return
	}

	logActivity(travelerID, "settlement_shared", uuid.Nil,
		fmt.Sprintf("%s emailed the settlement summary to %s", travelerID, req.Email))

	utils.SuccessResponse(c, http.StatusOK, "Settlement summary sent", nil)
}

func logActivity(travelerID, activityType string, referenceID uuid.UUID, description string) {
	database.DB.Create(&models.Activity{
		TravelerID:  travelerID,
		Type:        activityType,
		ReferenceID: referenceID,
		Description: description,
	})
}
