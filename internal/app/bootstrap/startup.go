// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/sevahub/sevahub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// donationSweep is started here and stopped in Shutdown.
var donationSweep *workers.DonationSweep

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. SevaHub
// starts the donation sweep here so stale pending ledger entries are failed
// even when no verify request ever arrives.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	donationSweep = workers.NewDonationSweep(deps.Donations, logger,
		appCfg.DonationSweepInterval, appCfg.DonationPendingTTL)
	donationSweep.Start()
	return nil
}
