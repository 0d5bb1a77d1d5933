package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/yourusername/edge-calibrator/internal/database"
	"github.com/yourusername/edge-calibrator/internal/models"
	"github.com/yourusername/edge-calibrator/internal/odds"
)

const errScanRecord = "failed to scan historical record: %w"

// PostgresRecordRepository implements RecordRepository for PostgreSQL
type PostgresRecordRepository struct {
	db *database.DB
}

// NewPostgresRecordRepository creates a new record repository
func NewPostgresRecordRepository(db *database.DB) RecordRepository {
	return &PostgresRecordRepository{db: db}
}

// recordRow mirrors one historical_records row before market assembly.
// Book prices are stored as American integer quotes.
type recordRow struct {
	ID              uuid.UUID
	ExternalID      string
	League          string
	Sport           string
	GameDate        time.Time
	HomeTeam        string
	AwayTeam        string
	HomeScore       int
	AwayScore       int
	MLHomePrice     *int
	MLAwayPrice     *int
	SpreadLine      *float64
	SpreadHomePrice *int
	SpreadAwayPrice *int
	TotalLine       *float64
	OverPrice       *int
	UnderPrice      *int
	MLProb          *float64
	SpreadProb      *float64
	TotalProb       *float64
}

// decimalPrice converts a stored American quote to a decimal price
func decimalPrice(american *int) decimal.Decimal {
	return decimal.NewFromFloat(odds.AmericanToDecimal(*american))
}

// GetByLeagueAndDateRange returns settled records for a league ordered by
// game date ascending. Only settled games carry outcomes, so unsettled
// rows are filtered at the query.
func (r *PostgresRecordRepository) GetByLeagueAndDateRange(ctx context.Context, league string, start, end time.Time) ([]*models.HistoricalRecord, error) {
	query := `
		SELECT id, external_id, league, sport, game_date, home_team, away_team,
		       home_score, away_score,
		       ml_home_price, ml_away_price,
		       spread_line, spread_home_price, spread_away_price,
		       total_line, over_price, under_price,
		       ml_model_prob, spread_model_prob, total_model_prob
		FROM historical_records
		WHERE league = $1 AND game_date >= $2 AND game_date <= $3 AND settled = TRUE
		ORDER BY game_date ASC, id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, league, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query historical records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.HistoricalRecord, 0)
	for rows.Next() {
		var row recordRow
		err := rows.Scan(
			&row.ID, &row.ExternalID, &row.League, &row.Sport, &row.GameDate,
			&row.HomeTeam, &row.AwayTeam, &row.HomeScore, &row.AwayScore,
			&row.MLHomePrice, &row.MLAwayPrice,
			&row.SpreadLine, &row.SpreadHomePrice, &row.SpreadAwayPrice,
			&row.TotalLine, &row.OverPrice, &row.UnderPrice,
			&row.MLProb, &row.SpreadProb, &row.TotalProb,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanRecord, err)
		}
		records = append(records, buildRecord(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate historical records: %w", err)
	}

	return records, nil
}

// CountByLeague returns the number of settled records for a league
func (r *PostgresRecordRepository) CountByLeague(ctx context.Context, league string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM historical_records WHERE league = $1 AND settled = TRUE`
	if err := r.db.GetPool().QueryRow(ctx, query, league).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count historical records: %w", err)
	}
	return count, nil
}

// buildRecord assembles a domain record: markets with both prices present
// get a line and a derived outcome; partial quotes are omitted so the
// synthesizer reports them as unavailable.
func buildRecord(row recordRow) *models.HistoricalRecord {
	markets := make(map[models.MarketType]models.MarketLine)

	if row.MLHomePrice != nil && row.MLAwayPrice != nil {
		markets[models.MarketMoneyline] = models.MarketLine{
			Price:         decimalPrice(row.MLHomePrice),
			OpposingPrice: decimalPrice(row.MLAwayPrice),
			Won:           models.MoneylineOutcome(row.HomeScore, row.AwayScore),
		}
	}
	if row.SpreadLine != nil && row.SpreadHomePrice != nil && row.SpreadAwayPrice != nil {
		markets[models.MarketSpread] = models.MarketLine{
			Price:         decimalPrice(row.SpreadHomePrice),
			OpposingPrice: decimalPrice(row.SpreadAwayPrice),
			Line:          row.SpreadLine,
			Won:           models.SpreadOutcome(row.HomeScore, row.AwayScore, *row.SpreadLine),
		}
	}
	if row.TotalLine != nil && row.OverPrice != nil && row.UnderPrice != nil {
		markets[models.MarketTotal] = models.MarketLine{
			Price:         decimalPrice(row.OverPrice),
			OpposingPrice: decimalPrice(row.UnderPrice),
			Line:          row.TotalLine,
			Won:           models.TotalOutcome(row.HomeScore, row.AwayScore, *row.TotalLine),
		}
	}

	probs := make(map[models.MarketType]float64)
	if row.MLProb != nil {
		probs[models.MarketMoneyline] = *row.MLProb
	}
	if row.SpreadProb != nil {
		probs[models.MarketSpread] = *row.SpreadProb
	}
	if row.TotalProb != nil {
		probs[models.MarketTotal] = *row.TotalProb
	}
	if len(probs) == 0 {
		probs = nil
	}

	return &models.HistoricalRecord{
		ID:                 row.ID,
		ExternalID:         row.ExternalID,
		League:             row.League,
		Sport:              row.Sport,
		Date:               row.GameDate,
		HomeTeam:           row.HomeTeam,
		AwayTeam:           row.AwayTeam,
		HomeScore:          row.HomeScore,
		AwayScore:          row.AwayScore,
		Markets:            markets,
		ModelProbabilities: probs,
	}
}
