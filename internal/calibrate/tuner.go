package calibrate

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/yourusername/edge-calibrator/internal/models"
)

// DefaultMinBetsPerCandidate is the bet-count floor a candidate threshold
// must clear to be eligible for selection
const DefaultMinBetsPerCandidate = 20

// flatStake is the fixed unit stake used while tuning thresholds, so the
// objective compares thresholds and nothing else
const flatStake = 1.0

// ProbabilityTable holds the externally supplied model probabilities for
// every record/market pair, resolved once per run so tuning stays a pure
// function of its inputs.
type ProbabilityTable map[uuid.UUID]map[models.MarketType]float64

// Lookup returns the model probability for a record/market pair
func (t ProbabilityTable) Lookup(id uuid.UUID, mt models.MarketType) (float64, bool) {
	p, ok := t[id][mt]
	return p, ok
}

// Set records a probability for a record/market pair
func (t ProbabilityTable) Set(id uuid.UUID, mt models.MarketType, p float64) {
	if t[id] == nil {
		t[id] = make(map[models.MarketType]float64)
	}
	t[id][mt] = p
}

// ThresholdCandidate is one evaluated grid point
type ThresholdCandidate struct {
	Threshold float64  `json:"threshold"`
	ROI       *float64 `json:"roi"`
	NBets     int      `json:"n_bets"`
}

// TunerResult is the tuning outcome for one market type
type TunerResult struct {
	Market        models.MarketType    `json:"market"`
	Threshold     float64              `json:"threshold"`
	ROI           *float64             `json:"roi"`
	NBets         int                  `json:"n_bets"`
	LowConfidence bool                 `json:"low_confidence"`
	Candidates    []ThresholdCandidate `json:"candidates"`
}

// TunerConfig configures the threshold grid search
type TunerConfig struct {
	Grid    []float64
	MinBets int
}

// DefaultThresholdGrid returns the documented candidate set: 0.5% to 10%
// edge in 0.5% steps
func DefaultThresholdGrid() []float64 {
	grid := make([]float64, 0, 20)
	for i := 1; i <= 20; i++ {
		grid = append(grid, float64(i)*0.005)
	}
	return grid
}

// TuneThresholds grid-searches the edge threshold for each market type
// independently over the training window, maximizing flat-stake ROI.
// Candidates are evaluated concurrently; selection reduces over the grid
// in ascending threshold order so the tie-break is deterministic.
func TuneThresholds(
	train []*models.HistoricalRecord,
	markets []models.MarketType,
	probs ProbabilityTable,
	scalars map[models.MarketType]float64,
	cfg TunerConfig,
) map[models.MarketType]TunerResult {
	if len(cfg.Grid) == 0 {
		cfg.Grid = DefaultThresholdGrid()
	} else {
		// Selection assumes ascending order for the lowest-threshold tie-break.
		grid := make([]float64, len(cfg.Grid))
		copy(grid, cfg.Grid)
		sort.Float64s(grid)
		cfg.Grid = grid
	}
	if cfg.MinBets <= 0 {
		cfg.MinBets = DefaultMinBetsPerCandidate
	}

	results := make(map[models.MarketType]TunerResult, len(markets))
	for _, market := range markets {
		scalar := 1.0
		if s, ok := scalars[market]; ok {
			scalar = s
		}
		candidates := evaluateGrid(train, market, probs, scalar, cfg.Grid)
		results[market] = selectThreshold(market, candidates, cfg.MinBets)
	}
	return results
}

// evaluateGrid scores every candidate threshold for one market. Each
// candidate is independent, so they fan out across goroutines; results
// land in their grid slot, keeping the output order fixed.
func evaluateGrid(
	train []*models.HistoricalRecord,
	market models.MarketType,
	probs ProbabilityTable,
	scalar float64,
	grid []float64,
) []ThresholdCandidate {
	candidates := make([]ThresholdCandidate, len(grid))
	var wg sync.WaitGroup
	for i, threshold := range grid {
		wg.Add(1)
		go func(slot int, threshold float64) {
			defer wg.Done()
			candidates[slot] = evaluateCandidate(train, market, probs, scalar, threshold)
		}(i, threshold)
	}
	wg.Wait()
	return candidates
}

func evaluateCandidate(
	train []*models.HistoricalRecord,
	market models.MarketType,
	probs ProbabilityTable,
	scalar, threshold float64,
) ThresholdCandidate {
	staked := 0.0
	profit := 0.0
	nBets := 0
	for _, rec := range train {
		prob, ok := probs.Lookup(rec.ID, market)
		if !ok {
			continue
		}
		bet, _ := Synthesize(rec, market, prob, scalar, threshold, flatStake)
		if bet == nil {
			continue
		}
		nBets++
		staked += bet.StakeFraction
		profit += bet.Profit
	}
	return ThresholdCandidate{Threshold: threshold, ROI: ratio(profit, staked), NBets: nBets}
}

// selectThreshold reduces the candidate slice to a single choice: the
// highest ROI among candidates meeting the bet-count minimum, with ties
// broken toward the lowest threshold (strict improvement required to move
// up the grid). When nothing qualifies the lowest threshold wins and the
// result is flagged low-confidence instead of failing.
func selectThreshold(market models.MarketType, candidates []ThresholdCandidate, minBets int) TunerResult {
	var best *ThresholdCandidate
	for i := range candidates {
		c := &candidates[i]
		if c.NBets < minBets || c.ROI == nil {
			continue
		}
		if best == nil || *c.ROI > *best.ROI {
			best = c
		}
	}
	if best != nil {
		return TunerResult{
			Market:     market,
			Threshold:  best.Threshold,
			ROI:        best.ROI,
			NBets:      best.NBets,
			Candidates: candidates,
		}
	}

	fallback := candidates[0]
	return TunerResult{
		Market:        market,
		Threshold:     fallback.Threshold,
		ROI:           fallback.ROI,
		NBets:         fallback.NBets,
		LowConfidence: true,
		Candidates:    candidates,
	}
}
