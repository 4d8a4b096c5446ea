package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"tripmate-backend/database"
	"tripmate-backend/models"
	"tripmate-backend/utils"
)

// Checklist entries every traveler starts with. Saved items keep their
// state; only defaults the traveler has never seen are merged in.
var defaultChecklist = []models.ChecklistItem{
	{ID: "passport", Label: "Passport + visa printout"},
	{ID: "insurance", Label: "Travel insurance certificate"},
	{ID: "adapter", Label: "Power adapter"},
	{ID: "cash", Label: "Cash in local currency"},
	{ID: "meds", Label: "Medication kit"},
	{ID: "offline-maps", Label: "Download offline maps"},
}

const checklistKey = "checklist"

func namespacedKey(key string) string {
	return models.StorageSchemaVersion + ":" + key
}

// GET /api/storage/:key
func GetStorageEntry(c *gin.Context) {
	travelerID := utils.GetCurrentTraveler(c)

	var entry models.StorageEntry
	err := database.DB.First(&entry, "traveler_id = ? AND key = ?",
		travelerID, namespacedKey(c.Param("key"))).Error
	if err != nil {
		utils.NotFound(c, "No saved value for this key")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", entry)
}

// PUT /api/storage/:key
func PutStorageEntry(c *gin.Context) {
	travelerID := utils.GetCurrentTraveler(c)

	var req models.PutStorageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	entry := models.StorageEntry{
		TravelerID: travelerID,
		Key:        namespacedKey(c.Param("key")),
		Value:      req.Value,
	}

	if err := database.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error; err != nil {
		utils.InternalError(c, "Failed to save value")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Saved", entry)
}

// DELETE /api/storage/:key
func DeleteStorageEntry(c *gin.Context) {
	travelerID := utils.GetCurrentTraveler(c)

	database.DB.Delete(&models.StorageEntry{},
		"traveler_id = ? AND key = ?", travelerID, namespacedKey(c.Param("key")))

	utils.SuccessResponse(c, http.StatusOK, "Deleted", nil)
}

// GET /api/checklist — saved checklist with any new defaults merged in
func GetChecklist(c *gin.Context) {
	travelerID := utils.GetCurrentTraveler(c)

	var saved []models.ChecklistItem
	var entry models.StorageEntry
	err := database.DB.First(&entry, "traveler_id = ? AND key = ?",
		travelerID, namespacedKey(checklistKey)).Error
	if err == nil {
		if err := json.Unmarshal([]byte(entry.Value), &saved); err != nil {
			utils.InternalError(c, "Saved checklist is corrupted")
			return
		}
	}

	merged := MergeMissingDefaults(saved, defaultChecklist)

	if len(merged) != len(saved) {
		raw, err := json.Marshal(merged)
		if err == nil {
			database.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&models.StorageEntry{
				TravelerID: travelerID,
				Key:        namespacedKey(checklistKey),
				Value:      string(raw),
			})
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", merged)
}

// MergeMissingDefaults prepends every default item the saved list does not
// already contain (matched by ID). Saved items and their state are left
// untouched. Merging the same defaults twice adds nothing, so the call is
// safe on every read.
func MergeMissingDefaults(saved, defaults []models.ChecklistItem) []models.ChecklistItem {
	seen := make(map[string]bool, len(saved))
	for _, item := range saved {
		seen[item.ID] = true
	}

	var missing []models.ChecklistItem
	for _, item := range defaults {
		if !seen[item.ID] {
			missing = append(missing, item)
		}
	}

	if len(missing) == 0 {
		return saved
	}
	return append(missing, saved...)
}
