package dto

import (
	"github.com/invixio/invixio/internal/types"
	"github.com/shopspring/decimal"
)

// DashboardSummaryResponse aggregates the headline numbers shown on load.
type DashboardSummaryResponse struct {
	TotalInvoices     int                         `json:"total_invoices"`
	InvoicesThisMonth int                         `json:"invoices_this_month"`
	StatusBreakdown   map[types.InvoiceStatus]int `json:"status_breakdown"`
	TotalRevenue      decimal.Decimal             `json:"total_revenue"`
	OutstandingAmount decimal.Decimal             `json:"outstanding_amount"`
	FreePlanLimit     int                         `json:"free_plan_limit,omitempty"`
	PlanActive        bool                        `json:"plan_active"`
}

// MonthlyRevenuePoint is one month of paid revenue, keyed by "YYYY-MM".
type MonthlyRevenuePoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MonthlyRevenueResponse is the trailing-year revenue series, oldest first.
type MonthlyRevenueResponse struct {
	Points []MonthlyRevenuePoint `json:"points"`
}
