// internal/app/system/workers/donationsweep.go
package workers

import (
	"context"
	"sync"
	"time"

	donationstore "github.com/sevahub/sevahub/internal/app/store/donations"
	"github.com/sevahub/sevahub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// DonationSweep is a background worker that fails pending donations whose
// payment handshake was never completed. Without it, abandoned checkouts
// would sit in the ledger as pending forever.
type DonationSweep struct {
	donations  *donationstore.Store
	log        *zap.Logger
	interval   time.Duration
	pendingTTL time.Duration
	stopCh     chan struct{}
	wg         sync.WaitGroup
}

// NewDonationSweep creates a new sweep worker.
//
// Parameters:
//   - donationStore: the donations store
//   - logger: zap logger for logging
//   - interval: how often to run the sweep (e.g., 1 hour)
//   - pendingTTL: how long a donation may stay pending before it is failed (e.g., 24 hours)
func NewDonationSweep(donationStore *donationstore.Store, logger *zap.Logger, interval, pendingTTL time.Duration) *DonationSweep {
	return &DonationSweep{
		donations:  donationStore,
		log:        logger,
		interval:   interval,
		pendingTTL: pendingTTL,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *DonationSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("donation sweep worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("pending_ttl", w.pendingTTL))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *DonationSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("donation sweep worker stopped")
}

func (w *DonationSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *DonationSweep) sweep() {
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Batch(), w.log, "stale pending donation sweep")
	defer cancel()

	count, err := w.donations.FailStalePending(ctx, w.pendingTTL)
	if err != nil {
		w.log.Error("failed to sweep stale pending donations", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("failed stale pending donations", zap.Int64("count", count))
	}
}
