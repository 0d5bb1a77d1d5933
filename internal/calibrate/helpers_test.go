package calibrate

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// day returns a UTC date n days after 2024-01-01
func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// moneylineRecord builds a settled record with a single moneyline market
func moneylineRecord(date time.Time, homeWon bool, price, opposing float64) *models.HistoricalRecord {
	homeScore, awayScore := 100, 90
	if !homeWon {
		homeScore, awayScore = 90, 100
	}
	won := homeWon
	return &models.HistoricalRecord{
		ID:        uuid.New(),
		League:    "nba",
		Sport:     "basketball",
		Date:      date,
		HomeTeam:  "home",
		AwayTeam:  "away",
		HomeScore: homeScore,
		AwayScore: awayScore,
		Markets: map[models.MarketType]models.MarketLine{
			models.MarketMoneyline: {
				Price:         decimal.NewFromFloat(price),
				OpposingPrice: decimal.NewFromFloat(opposing),
				Won:           &won,
			},
		},
	}
}

// recordSeries builds n moneyline records on consecutive days with the
// given win pattern repeated
func recordSeries(n int, pattern []bool, price, opposing float64) []*models.HistoricalRecord {
	records := make([]*models.HistoricalRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, moneylineRecord(day(i), pattern[i%len(pattern)], price, opposing))
	}
	return records
}

// tableFor assigns a fixed model probability to every record's moneyline
func tableFor(records []*models.HistoricalRecord, p float64) ProbabilityTable {
	table := make(ProbabilityTable, len(records))
	for _, rec := range records {
		table.Set(rec.ID, models.MarketMoneyline, p)
	}
	return table
}
