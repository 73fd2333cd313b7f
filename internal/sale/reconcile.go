package sale

// Reconciliation is the result of recomputing a sale's status from its
// installments.
type Reconciliation struct {
	Paid   int
	Total  int
	Status Status
}

// reconcile derives the aggregate status from the given installment snapshot.
// A sale with no installments counts as open.
func reconcile(installments []*Installment) Reconciliation {
	rec := Reconciliation{Total: len(installments)}

	for _, inst := range installments {
		if inst.Status == InstallmentPaid {
			rec.Paid++
		}
	}

	switch {
	case rec.Paid == 0:
		rec.Status = StatusOpen
	case rec.Paid < rec.Total:
		rec.Status = StatusPartial
	default:
		rec.Status = StatusPaid
	}

	return rec
}
