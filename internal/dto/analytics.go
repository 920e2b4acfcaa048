package dto

import "github.com/GregMSThompson/finance-tracker/internal/period"

type SpendBreakdownItem struct {
	Key   string `json:"key"`
	Total string `json:"total"`
	Count int    `json:"count"`
}

// SpendSummary totals a period's transactions. Items break down OUT spend only.
type SpendSummary struct {
	Period   period.Context       `json:"period"`
	GroupBy  string               `json:"groupBy"`
	TotalOut string               `json:"totalOut"`
	TotalIn  string               `json:"totalIn"`
	Items    []SpendBreakdownItem `json:"items"`
}
