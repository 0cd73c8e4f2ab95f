package engine

import (
	"sort"

	"github.com/propfolio/propfolio/internal/report/domain"
)

// RankByRevenue orders rows by revenue descending. Ties keep their original
// relative order; rank position is implied by the slice index.
func RankByRevenue(rows []domain.GroupMetrics) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Revenue > rows[j].Revenue
	})
}

// RankCombined orders cross-tab rows by revenue descending, stable on ties.
func RankCombined(rows []domain.CombinedRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Revenue > rows[j].Revenue
	})
}
