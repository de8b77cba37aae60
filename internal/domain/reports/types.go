// Package reports provides report generation services.
package reports

import (
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/registers/usage"
)

// SalesTotals aggregates delivery or miscellaneous records of one moderator.
type SalesTotals struct {
	ModeratorID id.ID       `db:"moderator_id" json:"moderatorId"`
	Count       int64       `db:"count" json:"count"`
	Filled      int64       `db:"filled_bottles" json:"filledBottles"`
	FOC         int64       `db:"foc" json:"foc"`
	Empty       int64       `db:"empty_bottles" json:"emptyBottles"`
	Damaged     int64       `db:"damaged_bottles" json:"damagedBottles"`
	Billed      types.Money `db:"billed" json:"billed"`
	Payments    types.Money `db:"payments" json:"payments"`
}

// ExpenseTotals aggregates expenses of one moderator.
type ExpenseTotals struct {
	ModeratorID id.ID       `db:"moderator_id" json:"moderatorId"`
	Count       int64       `db:"count" json:"count"`
	Amount      types.Money `db:"amount" json:"amount"`
}

// ModeratorSummary is one moderator's day.
type ModeratorSummary struct {
	ModeratorID   id.ID  `json:"moderatorId"`
	ModeratorName string `json:"moderatorName"`

	Deliveries    SalesTotals   `json:"deliveries"`
	Miscellaneous SalesTotals   `json:"miscellaneous"`
	Expenses      ExpenseTotals `json:"expenses"`

	// NetCash is payments + miscellaneous payments - expenses.
	NetCash types.Money `json:"netCash"`

	Usage *usage.BottleUsage `json:"usage,omitempty"`
}

// DailySummary is the report for one business day.
type DailySummary struct {
	Day        types.Day          `json:"day"`
	Moderators []ModeratorSummary `json:"moderators"`

	TotalFilled   int64       `json:"totalFilled"`
	TotalBilled   types.Money `json:"totalBilled"`
	TotalPayments types.Money `json:"totalPayments"`
	TotalExpenses types.Money `json:"totalExpenses"`
	NetCash       types.Money `json:"netCash"`
}
