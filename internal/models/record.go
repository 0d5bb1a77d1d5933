package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarketType represents the type of betting market
type MarketType string

const (
	MarketMoneyline MarketType = "moneyline"
	MarketSpread    MarketType = "spread"
	MarketTotal     MarketType = "total"
)

// AllMarketTypes lists every supported market in canonical order
func AllMarketTypes() []MarketType {
	return []MarketType{MarketMoneyline, MarketSpread, MarketTotal}
}

// MarketLine holds the two-sided odds and settled outcome for one market.
// Price is the decimal odds for the modeled side (home team, home cover,
// or over); OpposingPrice is the decimal odds for the other side.
type MarketLine struct {
	Price         decimal.Decimal `db:"price" json:"price"`
	OpposingPrice decimal.Decimal `db:"opposing_price" json:"opposing_price"`
	Line          *float64        `db:"line" json:"line,omitempty"`
	Won           *bool           `db:"won" json:"won"` // nil for push or void
}

// Available reports whether both sides of the market carry usable odds
func (m MarketLine) Available() bool {
	one := decimal.NewFromInt(1)
	return m.Price.GreaterThan(one) && m.OpposingPrice.GreaterThan(one)
}

// HistoricalRecord represents one settled game with its market odds and
// outcome. Records are immutable once loaded.
type HistoricalRecord struct {
	ID                 uuid.UUID                  `db:"id" json:"id" validate:"required,uuid4"`
	ExternalID         string                     `db:"external_id" json:"external_id"`
	League             string                     `db:"league" json:"league" validate:"required"`
	Sport              string                     `db:"sport" json:"sport" validate:"required"`
	Date               time.Time                  `db:"game_date" json:"date" validate:"required"`
	HomeTeam           string                     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam           string                     `db:"away_team" json:"away_team" validate:"required"`
	HomeScore          int                        `db:"home_score" json:"home_score"`
	AwayScore          int                        `db:"away_score" json:"away_score"`
	Markets            map[MarketType]MarketLine  `json:"markets"`
	ModelProbabilities map[MarketType]float64     `json:"model_probabilities,omitempty"`
}

// Market returns the line for the given market type and whether it exists
func (r *HistoricalRecord) Market(mt MarketType) (MarketLine, bool) {
	line, ok := r.Markets[mt]
	return line, ok
}

// ModelProbability returns the externally supplied model probability for a
// market, if one was attached to the record
func (r *HistoricalRecord) ModelProbability(mt MarketType) (float64, bool) {
	p, ok := r.ModelProbabilities[mt]
	return p, ok
}

// MoneylineOutcome reports whether the home side won outright
func MoneylineOutcome(homeScore, awayScore int) *bool {
	if homeScore == awayScore {
		return nil
	}
	won := homeScore > awayScore
	return &won
}

// SpreadOutcome reports whether the home side covered the handicap.
// Line follows the home-handicap convention: a favorite carries a negative
// line, so the home side covers when margin + line > 0.
func SpreadOutcome(homeScore, awayScore int, line float64) *bool {
	adjusted := float64(homeScore-awayScore) + line
	if adjusted == 0 {
		return nil
	}
	won := adjusted > 0
	return &won
}

// TotalOutcome reports whether the combined score went over the line
func TotalOutcome(homeScore, awayScore int, line float64) *bool {
	combined := float64(homeScore + awayScore)
	if combined == line {
		return nil
	}
	won := combined > line
	return &won
}
