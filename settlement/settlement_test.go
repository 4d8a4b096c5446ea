package settlement

import (
	"math"
	"math/rand"
	"testing"

	"tripmate-backend/models"
)

const tolerance = 1e-6

var testRates = Rates{HomeCurrency: "KRW", LocalToHome: 16.39}

func expense(paidBy, splitType string, amount float64, currency string) models.SharedExpense {
	return models.SharedExpense{
		Description: "test",
		Amount:      amount,
		Currency:    currency,
		PaidBy:      paidBy,
		SplitType:   splitType,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestComputeDinnerAndHotel(t *testing.T) {
	// one pays 10000 for dinner split equally; two fronts 50000 for a
	// booking that is entirely one's cost.
	expenses := []models.SharedExpense{
		expense("one", models.SplitEqual, 10000, "KRW"),
		expense("two", models.SplitFullOther, 50000, "KRW"),
	}

	result := Compute(expenses, "one", "two", testRates)

	if !almostEqual(result.Paid["one"], 10000) {
		t.Errorf("paid[one] = %v, want 10000", result.Paid["one"])
	}
	if !almostEqual(result.Paid["two"], 50000) {
		t.Errorf("paid[two] = %v, want 50000", result.Paid["two"])
	}
	if !almostEqual(result.Owes["one"], 55000) {
		t.Errorf("owes[one] = %v, want 55000", result.Owes["one"])
	}
	if !almostEqual(result.Owes["two"], 5000) {
		t.Errorf("owes[two] = %v, want 5000", result.Owes["two"])
	}
	if !almostEqual(result.Balance, -45000) {
		t.Errorf("balance = %v, want -45000", result.Balance)
	}
	if result.TransferFrom != "one" || result.TransferTo != "two" {
		t.Errorf("transfer %s -> %s, want one -> two", result.TransferFrom, result.TransferTo)
	}
	if !almostEqual(result.TransferAmount, 45000) {
		t.Errorf("transfer amount = %v, want 45000", result.TransferAmount)
	}
	if result.Settled {
		t.Error("result should not be settled")
	}
}

func TestComputeSplitInvariant(t *testing.T) {
	// owes[one] + owes[two] must equal total spent for every mix of
	// split types and currencies.
	tests := []struct {
		name     string
		expenses []models.SharedExpense
	}{
		{
			name:     "single equal split",
			expenses: []models.SharedExpense{expense("one", models.SplitEqual, 12345, "KRW")},
		},
		{
			name:     "single full_payer",
			expenses: []models.SharedExpense{expense("two", models.SplitFullPayer, 900, "INR")},
		},
		{
			name:     "single full_other",
			expenses: []models.SharedExpense{expense("one", models.SplitFullOther, 777, "INR")},
		},
		{
			name: "mixed ledger",
			expenses: []models.SharedExpense{
				expense("one", models.SplitEqual, 10000, "KRW"),
				expense("two", models.SplitEqual, 350, "INR"),
				expense("one", models.SplitFullPayer, 4200, "KRW"),
				expense("two", models.SplitFullOther, 1200, "INR"),
				expense("one", models.SplitFullOther, 60000, "KRW"),
			},
		},
		{
			name:     "empty ledger",
			expenses: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compute(tt.expenses, "one", "two", testRates)
			owed := result.Owes["one"] + result.Owes["two"]
			if !almostEqual(owed, result.TotalSpent) {
				t.Errorf("owes sum = %v, total spent = %v", owed, result.TotalSpent)
			}
		})
	}
}

func TestComputeEqualSplitSymmetry(t *testing.T) {
	result := Compute([]models.SharedExpense{
		expense("one", models.SplitEqual, 9000, "KRW"),
	}, "one", "two", testRates)

	if !almostEqual(result.Owes["one"], 4500) || !almostEqual(result.Owes["two"], 4500) {
		t.Errorf("owes = %v / %v, want 4500 each", result.Owes["one"], result.Owes["two"])
	}
}

func TestComputeFullPayerFullOtherComplementarity(t *testing.T) {
	// For the same payer and amount, full_payer and full_other assign the
	// full cost to opposite travelers and never touch the same one.
	payerOnly := Compute([]models.SharedExpense{
		expense("one", models.SplitFullPayer, 5000, "KRW"),
	}, "one", "two", testRates)
	otherOnly := Compute([]models.SharedExpense{
		expense("one", models.SplitFullOther, 5000, "KRW"),
	}, "one", "two", testRates)

	if !almostEqual(payerOnly.Owes["one"], 5000) || !almostEqual(payerOnly.Owes["two"], 0) {
		t.Errorf("full_payer owes = %v / %v, want 5000 / 0", payerOnly.Owes["one"], payerOnly.Owes["two"])
	}
	if !almostEqual(otherOnly.Owes["one"], 0) || !almostEqual(otherOnly.Owes["two"], 5000) {
		t.Errorf("full_other owes = %v / %v, want 0 / 5000", otherOnly.Owes["one"], otherOnly.Owes["two"])
	}
}

func TestComputeZeroBalanceIsSettled(t *testing.T) {
	// Both travelers pay the same amount split equally: nothing to transfer.
	result := Compute([]models.SharedExpense{
		expense("one", models.SplitEqual, 20000, "KRW"),
		expense("two", models.SplitEqual, 20000, "KRW"),
	}, "one", "two", testRates)

	if !result.Settled {
		t.Error("expected settled state")
	}
	if !almostEqual(result.TransferAmount, 0) {
		t.Errorf("transfer amount = %v, want 0", result.TransferAmount)
	}
	if len(result.Transfers) != 0 {
		t.Errorf("transfers = %v, want none", result.Transfers)
	}
}

func TestComputeOrderIndependence(t *testing.T) {
	expenses := []models.SharedExpense{
		expense("one", models.SplitEqual, 10000, "KRW"),
		expense("two", models.SplitEqual, 350, "INR"),
		expense("one", models.SplitFullPayer, 4200, "KRW"),
		expense("two", models.SplitFullOther, 1200, "INR"),
		expense("one", models.SplitFullOther, 60000, "KRW"),
		expense("two", models.SplitFullPayer, 88632, "KRW"),
	}

	want := Compute(expenses, "one", "two", testRates)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]models.SharedExpense, len(expenses))
		copy(shuffled, expenses)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := Compute(shuffled, "one", "two", testRates)

		if !almostEqual(got.Balance, want.Balance) ||
			!almostEqual(got.TotalSpent, want.TotalSpent) ||
			!almostEqual(got.TransferAmount, want.TransferAmount) ||
			got.TransferFrom != want.TransferFrom ||
			got.TransferTo != want.TransferTo {
			t.Fatalf("trial %d: result diverged: got %+v, want %+v", trial, got, want)
		}
	}
}

func TestRatesConversion(t *testing.T) {
	if got := testRates.ToHome(100, "INR"); !almostEqual(got, 1639) {
		t.Errorf("ToHome(100, INR) = %v, want 1639", got)
	}
	if got := testRates.ToHome(100, "KRW"); !almostEqual(got, 100) {
		t.Errorf("ToHome(100, KRW) = %v, want 100", got)
	}
}

func TestSimplifyThreeParty(t *testing.T) {
	// Simplify generalizes beyond two travelers: a owed 300, b owes 100,
	// c owes 200 settles in two transfers, largest debtor first.
	net := map[string]float64{"a": 300, "b": -100, "c": -200}

	transfers := Simplify(net)

	if len(transfers) != 2 {
		t.Fatalf("got %d transfers, want 2", len(transfers))
	}
	if transfers[0].From != "c" || transfers[0].To != "a" || !almostEqual(transfers[0].Amount, 200) {
		t.Errorf("first transfer = %+v, want c -> a 200", transfers[0])
	}
	if transfers[1].From != "b" || transfers[1].To != "a" || !almostEqual(transfers[1].Amount, 100) {
		t.Errorf("second transfer = %+v, want b -> a 100", transfers[1])
	}
}
