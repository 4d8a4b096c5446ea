// Package settlement turns the shared expense ledger into the single net
// payment that balances the two travelers. All computation is pure: the
// engine reads a snapshot list and holds no state of its own.
package settlement

import (
	"math"
	"sort"

	"tripmate-backend/models"
)

const epsilon = 1e-9

// Rates converts recorded amounts into the home currency before
// accumulation. Amounts already in the home currency pass through
// unchanged; everything else is treated as the local currency.
type Rates struct {
	HomeCurrency string
	LocalToHome  float64
}

func (r Rates) ToHome(amount float64, currency string) float64 {
	if currency == r.HomeCurrency {
		return amount
	}
	return amount * r.LocalToHome
}

// Compute accumulates paid and owed amounts per traveler and derives the
// transfer that settles the ledger between the two named travelers.
//
// The accumulation is commutative, so the input order does not matter.
// No rounding is applied here; display formatting is the caller's job.
// Amounts and split types are validated at the API boundary, not here.
func Compute(expenses []models.SharedExpense, one, two string, rates Rates) models.SettlementResult {
	paid := map[string]float64{one: 0, two: 0}
	owes := map[string]float64{one: 0, two: 0}

	for _, e := range expenses {
		amount := rates.ToHome(e.Amount, e.Currency)
		paid[e.PaidBy] += amount

		switch e.SplitType {
		case models.SplitEqual:
			owes[one] += amount / 2
			owes[two] += amount / 2
		case models.SplitFullPayer:
			owes[e.PaidBy] += amount
		case models.SplitFullOther:
			if e.PaidBy == one {
				owes[two] += amount
			} else {
				owes[one] += amount
			}
		}
	}

	// Positive balance: traveler one fronted more than their share.
	balance := paid[one] - owes[one]

	result := models.SettlementResult{
		TotalSpent: paid[one] + paid[two],
		Paid:       paid,
		Owes:       owes,
		Balance:    balance,
		Settled:    math.Abs(balance) < epsilon,
		Currency:   rates.HomeCurrency,
	}

	if balance > 0 {
		result.TransferFrom = two
		result.TransferTo = one
		result.TransferAmount = balance
	} else {
		result.TransferFrom = one
		result.TransferTo = two
		result.TransferAmount = math.Abs(balance)
	}

	net := make(map[string]float64, len(paid))
	for id := range paid {
		net[id] = paid[id] - owes[id]
	}
	result.Transfers = Simplify(net)

	return result
}

// Simplify reduces a set of net balances (positive = is owed money) to a
// minimal list of transfers via greedy largest-debtor-to-largest-creditor
// matching. With two participants this yields at most one transfer; the
// same code settles any fixed group.
func Simplify(net map[string]float64) []models.Transfer {
	type stake struct {
		id     string
		amount float64
	}

	ids := make([]string, 0, len(net))
	for id := range net {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var creditors, debtors []stake
	for _, id := range ids {
		switch amount := net[id]; {
		case amount > epsilon:
			creditors = append(creditors, stake{id, amount})
		case amount < -epsilon:
			debtors = append(debtors, stake{id, -amount})
		}
	}

	// Largest amounts first; the id pre-sort keeps ties deterministic.
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount > creditors[j].amount })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount > debtors[j].amount })

	var transfers []models.Transfer
	i, j := 0, 0

	for i < len(debtors) && j < len(creditors) {
		amount := math.Min(debtors[i].amount, creditors[j].amount)

		transfers = append(transfers, models.Transfer{
			From:   debtors[i].id,
			To:     creditors[j].id,
			Amount: amount,
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		if debtors[i].amount < epsilon {
			i++
		}
		if creditors[j].amount < epsilon {
			j++
		}
	}

	return transfers
}
