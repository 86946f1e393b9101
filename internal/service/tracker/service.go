package tracker

import (
	"database/sql"
	"errors"
	"fmt"

	"sentracker/internal/analysis"
	"sentracker/internal/redis"
	"sentracker/internal/risk"
)

// Sentinel errors the HTTP boundary branches on.
var (
	// ErrInvalidInput marks input rejected before any computation or
	// write takes place.
	ErrInvalidInput = errors.New("invalid input")
	// ErrProfileNotFound is returned for queries naming an unknown
	// customer.
	ErrProfileNotFound = errors.New("customer profile not found")
	// ErrAlertNotFound is returned when resolving a nonexistent alert.
	ErrAlertNotFound = errors.New("alert not found")
)

func invalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Service owns the scoring pipeline and all persistence for customer
// profiles, conversations, and risk alerts.
type Service struct {
	db             *sql.DB
	scorer         *analysis.Scorer
	detector       *risk.Detector
	predictor      *risk.Predictor
	trendThreshold float64
	cache          *statsCache
}

// Options configures a Service; nil or zero fields fall back to the
// stock pipeline components.
type Options struct {
	Scorer         *analysis.Scorer
	Detector       *risk.Detector
	Predictor      *risk.Predictor
	TrendThreshold float64
	Cache          *redis.Client
}

// NewService builds a tracker service over an opened database.
func NewService(db *sql.DB, opts Options) *Service {
	scorer := opts.Scorer
	if scorer == nil {
		scorer = analysis.NewScorer(analysis.DefaultLexicon(), analysis.NewVaderScorer())
	}
	detector := opts.Detector
	if detector == nil {
		detector = risk.DefaultDetector()
	}
	predictor := opts.Predictor
	if predictor == nil {
		predictor = risk.NewPredictor(risk.DefaultConfig())
	}
	threshold := opts.TrendThreshold
	if threshold <= 0 {
		threshold = analysis.DefaultTrendThreshold
	}
	return &Service{
		db:             db,
		scorer:         scorer,
		detector:       detector,
		predictor:      predictor,
		trendThreshold: threshold,
		cache:          newStatsCache(opts.Cache),
	}
}
