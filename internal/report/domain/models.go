// Package domain defines the financial reporting query and result shapes.
package domain

import (
	"github.com/bwmarrin/snowflake"
)

// Granularity is the time-bucket size for reporting.
type Granularity string

const (
	GranularityWeek  Granularity = "WEEK"
	GranularityMonth Granularity = "MONTH"
	GranularityYear  Granularity = "YEAR"
)

// Valid reports whether the granularity is one of the supported buckets.
func (g Granularity) Valid() bool {
	switch g {
	case GranularityWeek, GranularityMonth, GranularityYear:
		return true
	}
	return false
}

// TrendMode selects which invoice set feeds the trend series. Historical
// ignores the query's date window so the series shows full history; windowed
// buckets only the invoices inside the window.
type TrendMode string

const (
	TrendModeHistorical TrendMode = "historical"
	TrendModeWindowed   TrendMode = "windowed"
)

// Query narrows a report to an optional property, provider and inclusive
// date window. An empty From or To disables date filtering entirely.
type Query struct {
	PropertyID  *snowflake.ID
	ProviderID  *snowflake.ID
	From        string
	To          string
	Granularity Granularity
	TrendMode   TrendMode
}

// Windowed reports whether the query carries a usable date window.
func (q Query) Windowed() bool {
	return q.From != "" && q.To != ""
}

// GroupMetrics is one aggregated row for a property or provider.
type GroupMetrics struct {
	PropertyID      string  `json:"propertyId,omitempty"`
	ProviderID      string  `json:"providerId,omitempty"`
	Name            string  `json:"name"`
	Revenue         float64 `json:"revenue"`
	Expenses        float64 `json:"expenses"`
	Profit          float64 `json:"profit"`
	MarginPct       float64 `json:"marginPct"`
	InvoicesPaidPct float64 `json:"invoicesPaidPct"`
	PaidCount       int     `json:"paidCount"`
	InvoiceCount    int     `json:"invoiceCount"`
}

// Summary is the whole-query aggregate. MarginPct is nil rather than zero
// when there is no revenue, so consumers can tell "no data" from "0% margin".
type Summary struct {
	Revenue         float64  `json:"revenue"`
	Expenses        float64  `json:"expenses"`
	Profit          float64  `json:"profit"`
	MarginPct       *float64 `json:"marginPct"`
	InvoicesPaidPct float64  `json:"invoicesPaidPct"`
	PaidCount       int      `json:"paidCount"`
	InvoiceCount    int      `json:"invoiceCount"`
}

// TrendPoint is one non-zero period of an entity's trend series.
type TrendPoint struct {
	PeriodKey string  `json:"periodKey"`
	Revenue   float64 `json:"revenue"`
	Profit    float64 `json:"profit"`
}

// SeriesEntry pairs an entity's aggregate metrics with its trend points.
type SeriesEntry struct {
	GroupMetrics
	Trend []TrendPoint `json:"trend"`
}

// CombinedRow is one property x provider cross-tabulation cell.
type CombinedRow struct {
	PropertyID      string  `json:"propertyId"`
	ProviderID      string  `json:"providerId"`
	PropertyName    string  `json:"propertyName"`
	ProviderName    string  `json:"providerName"`
	Revenue         float64 `json:"revenue"`
	Expenses        float64 `json:"expenses"`
	Profit          float64 `json:"profit"`
	MarginPct       float64 `json:"marginPct"`
	InvoicesPaidPct float64 `json:"invoicesPaidPct"`
	PaidCount       int     `json:"paidCount"`
	InvoiceCount    int     `json:"invoiceCount"`
}

// Report is the facade response. Field names are part of the wire contract
// consumed by the dashboard and the CSV exporter.
type Report struct {
	Summary      Summary        `json:"summary"`
	ByProperty   []GroupMetrics `json:"byProperty"`
	ByProvider   []GroupMetrics `json:"byProvider"`
	Series       []SeriesEntry  `json:"series"`
	CombinedData []CombinedRow  `json:"combinedData"`
}

// EmptyReport returns a well-formed all-zero report. "No data" is a valid
// result, never an error.
func EmptyReport() Report {
	return Report{
		ByProperty:   []GroupMetrics{},
		ByProvider:   []GroupMetrics{},
		Series:       []SeriesEntry{},
		CombinedData: []CombinedRow{},
	}
}
