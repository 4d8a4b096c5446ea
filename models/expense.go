package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Split types for a shared expense. The split decides how the amount is
// allocated as "owed" between the two travelers, independent of who paid.
const (
	SplitEqual     = "equal"      // both travelers owe half
	SplitFullPayer = "full_payer" // payer bears the full cost (personal purchase)
	SplitFullOther = "full_other" // payer fronted money for the other traveler
)

type SharedExpense struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Description string    `gorm:"not null;size:255" json:"description"`
	Amount      float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency    string    `gorm:"not null;size:3" json:"currency"`
	PaidBy      string    `gorm:"not null;size:40;index" json:"paid_by"`
	SplitType   string    `gorm:"not null;size:20" json:"split_type"` // equal, full_payer, full_other
	Category    string    `gorm:"size:50" json:"category"`            // food, transport, activity, shopping, accommodation, other
	Date        time.Time `gorm:"type:date" json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (e *SharedExpense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Request structs
type CreateExpenseRequest struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Currency    string  `json:"currency"`
	PaidBy      string  `json:"paid_by" binding:"required"`
	SplitType   string  `json:"split_type" binding:"required,oneof=equal full_payer full_other"`
	Category    string  `json:"category"`
	Date        string  `json:"date"` // YYYY-MM-DD
}

type UpdateExpenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount" binding:"omitempty,gt=0"`
	Currency    string  `json:"currency"`
	PaidBy      string  `json:"paid_by"`
	SplitType   string  `json:"split_type" binding:"omitempty,oneof=equal full_payer full_other"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}
