package billing

import (
	"math"

	"github.com/casedesk/casedesk-backend/pkg/models"
)

// round2 rounds a monetary amount to two decimals, half away from zero.
// Derived fields are stored rounded; inputs (hours, rate, taxRate) are kept
// as submitted.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DeriveInvoice recomputes every derived financial field on an invoice from
// its items and tax rate, overwriting whatever the caller supplied:
//
//	item.total = quantity * rate
//	subtotal   = sum of item totals
//	taxAmount  = subtotal * taxRate / 100
//	total      = subtotal + taxAmount
//
// It runs unconditionally before every persist; clients cannot set these
// fields directly.
func DeriveInvoice(inv *models.Invoice) {
	var subtotal float64
	for i := range inv.Items {
		it := &inv.Items[i]
		it.Total = round2(it.Quantity * it.Rate)
		subtotal += it.Quantity * it.Rate
	}
	inv.Subtotal = round2(subtotal)
	inv.TaxAmount = round2(subtotal * inv.TaxRate / 100)
	inv.Total = round2(inv.Subtotal + inv.TaxAmount)
}

// DeriveTimeEntry recomputes totalAmount = hours * rate, overwriting any
// caller-supplied value.
func DeriveTimeEntry(t *models.TimeEntry) {
	t.TotalAmount = round2(t.Hours * t.Rate)
}
