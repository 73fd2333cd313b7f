package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// buildSchedule produces the installment records for a sale, numbered 1..count.
// Installment i falls due (i-1) calendar months after start; time.AddDate
// normalizes overflow days, so Jan 31 plus one month lands in early March.
// A zero start falls back to now. count < 1 yields no installments.
func buildSchedule(saleID string, count int, value decimal.Decimal, start time.Time, status InstallmentStatus, now time.Time) []*Installment {
	if count < 1 {
		return nil
	}

	if start.IsZero() {
		start = now
	}

	installments := make([]*Installment, 0, count)

	for i := 1; i <= count; i++ {
		inst := &Installment{
			SaleID:  saleID,
			Number:  i,
			Value:   value,
			DueDate: start.AddDate(0, i-1, 0),
			Status:  status,
		}

		if status == InstallmentPaid {
			paidAt := now
			inst.PaidAt = &paidAt
		}

		installments = append(installments, inst)
	}

	return installments
}
