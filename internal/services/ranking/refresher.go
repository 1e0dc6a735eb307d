package ranking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/marketlens/marketlens/internal/models"
	"github.com/marketlens/marketlens/internal/services/aggregator"
)

// SnapshotAppender records the daily summed portfolio value.
type SnapshotAppender interface {
	Append(value float64) error
}

// Refresher owns the two polling loops: a full opportunity refresh on the
// long cadence and a lightweight quote-strip refresh on the short one.
// Handlers read the latest snapshot; they never trigger upstream calls.
type Refresher struct {
	agg     *aggregator.Service
	history SnapshotAppender
	logger  arbor.ILogger
	cron    *cron.Cron

	mu            sync.RWMutex
	opportunities []models.Opportunity
	best          *models.Opportunity
	ticker        []models.Stock
	lastRefreshed time.Time

	jobMu         sync.Mutex
	opportunityIn bool
	tickerIn      bool

	running bool
}

// NewRefresher creates a refresher over the aggregation service. history
// may be nil when snapshot recording is disabled.
func NewRefresher(agg *aggregator.Service, history SnapshotAppender, logger arbor.ILogger) *Refresher {
	return &Refresher{
		agg:     agg,
		history: history,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start registers the two cron jobs and runs an initial opportunity
// refresh in the background so the API has data before the first tick.
func (r *Refresher) Start(opportunityInterval, tickerInterval time.Duration) error {
	if r.running {
		return fmt.Errorf("refresher already running")
	}

	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", opportunityInterval), func() {
		r.runOpportunityRefresh(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to schedule opportunity refresh: %w", err)
	}

	if _, err := r.cron.AddFunc(fmt.Sprintf("@every %s", tickerInterval), func() {
		r.runTickerRefresh(context.Background())
	}); err != nil {
		return fmt.Errorf("failed to schedule ticker refresh: %w", err)
	}

	r.cron.Start()
	r.running = true

	r.logger.Info().
		Str("opportunity_interval", opportunityInterval.String()).
		Str("ticker_interval", tickerInterval.String()).
		Msg("Refresh jobs scheduled")

	go r.runOpportunityRefresh(context.Background())

	return nil
}

// Stop halts the cron scheduler and waits for in-flight jobs to finish.
func (r *Refresher) Stop() {
	if !r.running {
		return
	}
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.running = false
	r.logger.Info().Msg("Refresh jobs stopped")
}

// runOpportunityRefresh guards RefreshOpportunities against overlapping
// runs; a tick that fires while the previous one is still in flight is
// skipped, not queued.
func (r *Refresher) runOpportunityRefresh(ctx context.Context) {
	r.jobMu.Lock()
	if r.opportunityIn {
		r.jobMu.Unlock()
		r.logger.Debug().Msg("Opportunity refresh still in flight, skipping tick")
		return
	}
	r.opportunityIn = true
	r.jobMu.Unlock()

	defer func() {
		r.jobMu.Lock()
		r.opportunityIn = false
		r.jobMu.Unlock()
	}()

	if err := r.RefreshOpportunities(ctx); err != nil {
		// The previous snapshot stays in place; the next tick retries.
		r.logger.Warn().Err(err).Msg("Opportunity refresh failed")
	}
}

func (r *Refresher) runTickerRefresh(ctx context.Context) {
	r.jobMu.Lock()
	if r.tickerIn {
		r.jobMu.Unlock()
		r.logger.Debug().Msg("Ticker refresh still in flight, skipping tick")
		return
	}
	r.tickerIn = true
	r.jobMu.Unlock()

	defer func() {
		r.jobMu.Lock()
		r.tickerIn = false
		r.jobMu.Unlock()
	}()

	if err := r.RefreshTicker(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("Ticker refresh failed")
	}
}

// RefreshOpportunities runs a full aggregation pass, re-ranks the result
// and records the daily portfolio snapshot.
func (r *Refresher) RefreshOpportunities(ctx context.Context) error {
	start := time.Now()

	opportunities, err := r.agg.Opportunities(ctx)
	if err != nil {
		return err
	}

	sorted := ByDrawdown(opportunities)
	best := Best(opportunities)

	r.mu.Lock()
	r.opportunities = sorted
	r.best = best
	r.lastRefreshed = time.Now()
	r.mu.Unlock()

	r.logger.Info().
		Int("symbols", len(opportunities)).
		Dur("duration", time.Since(start)).
		Msg("Opportunity refresh completed")

	r.recordSnapshot(opportunities)

	return nil
}

// RefreshTicker rebuilds the lightweight quote strip. It reuses the full
// aggregation pass; the news cache absorbs the extra lookups, so the only
// repeated upstream traffic is quotes, which is the point of the strip.
func (r *Refresher) RefreshTicker(ctx context.Context) error {
	opportunities, err := r.agg.Opportunities(ctx)
	if err != nil {
		return err
	}

	quotes := make([]models.Stock, len(opportunities))
	for i, o := range opportunities {
		quotes[i] = o.Stock
	}

	r.mu.Lock()
	r.ticker = quotes
	r.mu.Unlock()

	return nil
}

// recordSnapshot appends the summed current price of all symbols with a
// live quote. The store itself enforces the one-point-per-day rule.
func (r *Refresher) recordSnapshot(opportunities []models.Opportunity) {
	if r.history == nil {
		return
	}

	var total float64
	var quoted int
	for _, o := range opportunities {
		if o.CurrentPrice != nil {
			total += *o.CurrentPrice
			quoted++
		}
	}

	if quoted == 0 {
		r.logger.Debug().Msg("No live quotes in refresh, skipping snapshot")
		return
	}

	if err := r.history.Append(total); err != nil {
		r.logger.Warn().Err(err).Msg("Failed to record daily snapshot")
	}
}

// Opportunities returns the latest drawdown-sorted list and the time it
// was built. The slice is a copy.
func (r *Refresher) Opportunities() ([]models.Opportunity, time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Opportunity, len(r.opportunities))
	copy(out, r.opportunities)
	return out, r.lastRefreshed
}

// Best returns the latest top-scored record, or nil before the first
// successful refresh.
func (r *Refresher) Best() *models.Opportunity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.best == nil {
		return nil
	}
	best := *r.best
	return &best
}

// Ticker returns the latest quote strip. The slice is a copy.
func (r *Refresher) Ticker() []models.Stock {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Stock, len(r.ticker))
	copy(out, r.ticker)
	return out
}
