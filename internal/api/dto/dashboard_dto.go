package dto

import "time"

// StatusCounts tallies tickets per status.
type StatusCounts struct {
	Total   int `json:"total"`
	Open    int `json:"open"`
	Pending int `json:"pending"`
	Closed  int `json:"closed"`
}

// UnitCounts is StatusCounts for one support unit.
type UnitCounts struct {
	UnitID   string `json:"unit_id"`
	UnitName string `json:"unit_name"`
	StatusCounts
}

// DashboardResponse is the admin panel overview.
type DashboardResponse struct {
	Counts      StatusCounts    `json:"counts"`
	Units       []UnitCounts    `json:"units"`
	Recent      []TicketSummary `json:"recent"`
	GeneratedAt time.Time       `json:"generated_at"`
}
