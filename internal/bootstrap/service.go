package bootstrap

import (
	"github.com/fernbank/core/common"
	"github.com/fernbank/core/common/mlog"
)

// Service is the application glue: every long-running component the core
// needs registered on one Launcher. This is the only code main.go needs to
// run the app.
type Service struct {
	*Server
	Ticker *NEFTBatchTicker
	mlog.Logger
}

// Run starts the HTTP server and the NEFT batch ticker together.
func (s *Service) Run() {
	common.NewLauncher(
		common.WithLogger(s.Logger),
		common.RunApp("http-server", s.Server),
		common.RunApp("neft-batch-ticker", s.Ticker),
	).Run()
}
