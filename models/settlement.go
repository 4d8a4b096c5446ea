package models

// Transfer is a single payment from one traveler to another.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// SettlementResult is recomputed from the full expense list on every read
// and never persisted. All amounts are in the home currency.
type SettlementResult struct {
	TotalSpent     float64            `json:"total_spent"`
	Paid           map[string]float64 `json:"paid"`
	Owes           map[string]float64 `json:"owes"`
	Balance        float64            `json:"balance"` // positive = traveler two owes traveler one
	Settled        bool               `json:"settled"`
	TransferFrom   string             `json:"transfer_from"`
	TransferTo     string             `json:"transfer_to"`
	TransferAmount float64            `json:"transfer_amount"`
	Transfers      []Transfer         `json:"transfers"`
	Currency       string             `json:"currency"`
}

type ShareSettlementRequest struct {
	Email string `json:"email" binding:"required,email"`
}
