package roster

import "fmt"

// Costs holds the configured enrollment fees in soles. The amounts come from
// process configuration; only the policy of which fields yield which fee
// belongs to the domain.
type Costs struct {
	// Enrollment is the one-time enrollment (matrícula) fee.
	Enrollment int

	// MonthlyInstallment is the monthly pension amount.
	MonthlyInstallment int
}

// PaymentSummary describes a student's pending payments.
type PaymentSummary struct {
	// Items are the short payment labels ("Matrícula", "Pensiones (3)").
	Items []string

	// Detail are the per-item breakdown lines with amounts.
	Detail []string

	// Total is the full amount due in soles.
	Total int
}

// HasPending reports whether anything is owed.
func (p PaymentSummary) HasPending() bool { return len(p.Items) > 0 }

// PendingPayments computes the pending-payment summary for one student:
// the enrollment fee when flagged, plus installments times the monthly amount.
func PendingPayments(s Student, costs Costs) PaymentSummary {
	var summary PaymentSummary

	if s.EnrollmentFeePending {
		summary.Items = append(summary.Items, "Matrícula")
		summary.Detail = append(summary.Detail, fmt.Sprintf("Matrícula: S/ %d", costs.Enrollment))
		summary.Total += costs.Enrollment
	}

	if n := s.PendingInstallments; n > 0 {
		summary.Items = append(summary.Items, fmt.Sprintf("Pensiones (%d)", n))
		summary.Detail = append(summary.Detail, fmt.Sprintf(
			"Pensiones: %d x S/ %d = S/ %d", n, costs.MonthlyInstallment, n*costs.MonthlyInstallment))
		summary.Total += n * costs.MonthlyInstallment
	}

	return summary
}
