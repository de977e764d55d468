package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/casedesk/casedesk-backend/pkg/models"
)

func TestDeriveInvoice(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.InvoiceItem
		taxRate      float64
		wantSubtotal float64
		wantTax      float64
		wantTotal    float64
		wantItems    []float64
	}{
		{
			name: "two units at 500 with 18 percent tax",
			items: []models.InvoiceItem{
				{Description: "Svc", Quantity: 2, Rate: 500},
			},
			taxRate:      18,
			wantSubtotal: 1000,
			wantTax:      180,
			wantTotal:    1180,
			wantItems:    []float64{1000},
		},
		{
			name: "multiple lines",
			items: []models.InvoiceItem{
				{Quantity: 1, Rate: 250},
				{Quantity: 3, Rate: 100.50},
			},
			taxRate:      10,
			wantSubtotal: 551.50,
			wantTax:      55.15,
			wantTotal:    606.65,
			wantItems:    []float64{250, 301.50},
		},
		{
			name:         "no items",
			items:        nil,
			taxRate:      18,
			wantSubtotal: 0,
			wantTax:      0,
			wantTotal:    0,
		},
		{
			name: "fractional quantities round to two decimals",
			items: []models.InvoiceItem{
				{Quantity: 0.3, Rate: 0.1},
			},
			taxRate:      5,
			wantSubtotal: 0.03,
			wantTax:      0,
			wantTotal:    0.03,
			wantItems:    []float64{0.03},
		},
		{
			name: "zero tax rate",
			items: []models.InvoiceItem{
				{Quantity: 4, Rate: 75},
			},
			taxRate:      0,
			wantSubtotal: 300,
			wantTax:      0,
			wantTotal:    300,
			wantItems:    []float64{300},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := models.Invoice{Items: tt.items, TaxRate: tt.taxRate}
			// Caller-supplied derived values must be overwritten.
			inv.Subtotal = 9999
			inv.TaxAmount = 9999
			inv.Total = 9999

			DeriveInvoice(&inv)

			assert.Equal(t, tt.wantSubtotal, inv.Subtotal, "subtotal")
			assert.Equal(t, tt.wantTax, inv.TaxAmount, "taxAmount")
			assert.Equal(t, tt.wantTotal, inv.Total, "total")
			for i, want := range tt.wantItems {
				assert.Equal(t, want, inv.Items[i].Total, "item %d total", i)
			}
		})
	}
}

func TestDeriveTimeEntry(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		rate  float64
		want  float64
	}{
		{"whole hours", 3, 200, 600},
		{"fractional hours", 1.5, 350, 525},
		{"zero hours", 0, 500, 0},
		{"repeating fraction rounds", 1.0 / 3, 300, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := models.TimeEntry{Hours: tt.hours, Rate: tt.rate, TotalAmount: 9999}
			DeriveTimeEntry(&entry)
			assert.Equal(t, tt.want, entry.TotalAmount)
		})
	}
}
