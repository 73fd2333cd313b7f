package sale

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchedule_MonthlyDueDates(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)

	installments := buildSchedule("sale-1", 3, decimal.NewFromInt(400), start, InstallmentPending, now)
	require.Len(t, installments, 3)

	for i, inst := range installments {
		assert.Equal(t, "sale-1", inst.SaleID)
		assert.Equal(t, i+1, inst.Number)
		assert.True(t, inst.Value.Equal(decimal.NewFromInt(400)))
		assert.Equal(t, InstallmentPending, inst.Status)
		assert.Nil(t, inst.PaidAt)
	}

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), installments[0].DueDate)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), installments[1].DueDate)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), installments[2].DueDate)

	for i := 1; i < len(installments); i++ {
		prev := installments[i-1].DueDate
		assert.Equal(t, prev.AddDate(0, 1, 0), installments[i].DueDate)
	}
}

func TestBuildSchedule_MonthOverflowNormalizes(t *testing.T) {
	start := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	installments := buildSchedule("sale-1", 2, decimal.NewFromInt(100), start, InstallmentPending, start)
	require.Len(t, installments, 2)

	// Jan 31 + 1 month = Mar 2 in a leap year (AddDate normalization).
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), installments[1].DueDate)
}

func TestBuildSchedule_ForcedPaid(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	installments := buildSchedule("sale-1", 1, decimal.NewFromInt(500), time.Time{}, InstallmentPaid, now)
	require.Len(t, installments, 1)

	assert.Equal(t, InstallmentPaid, installments[0].Status)
	require.NotNil(t, installments[0].PaidAt)
	assert.Equal(t, now, *installments[0].PaidAt)
	// Zero start date falls back to now.
	assert.Equal(t, now, installments[0].DueDate)
}

func TestBuildSchedule_CountBelowOne(t *testing.T) {
	assert.Empty(t, buildSchedule("sale-1", 0, decimal.NewFromInt(100), time.Now(), InstallmentPending, time.Now()))
	assert.Empty(t, buildSchedule("sale-1", -3, decimal.NewFromInt(100), time.Now(), InstallmentPending, time.Now()))
}

func TestReconcile(t *testing.T) {
	paid := func() *Installment { return &Installment{Status: InstallmentPaid} }
	pending := func() *Installment { return &Installment{Status: InstallmentPending} }

	tests := []struct {
		name         string
		installments []*Installment
		wantPaid     int
		wantStatus   Status
	}{
		{name: "NonePaid", installments: []*Installment{pending(), pending()}, wantPaid: 0, wantStatus: StatusOpen},
		{name: "SomePaid", installments: []*Installment{paid(), pending(), pending()}, wantPaid: 1, wantStatus: StatusPartial},
		{name: "AllPaid", installments: []*Installment{paid(), paid()}, wantPaid: 2, wantStatus: StatusPaid},
		{name: "Empty", installments: nil, wantPaid: 0, wantStatus: StatusOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := reconcile(tt.installments)
			assert.Equal(t, tt.wantPaid, rec.Paid)
			assert.Equal(t, len(tt.installments), rec.Total)
			assert.Equal(t, tt.wantStatus, rec.Status)
		})
	}
}
