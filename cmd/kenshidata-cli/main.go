package main

import (
	"errors"
	"log/slog"
	"os"

	"kenshidata/cmd/kenshidata-cli/commands"
	"kenshidata/lib/serviceutil"
	"kenshidata/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)
	tel, err := telemetry.SetupFromEnv(ctx, "kenshidata-cli")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not set up telemetry", "err", err)
	}
	defer tel.Shutdown(ctx)
	telemetry.InstrumentPerfStats(ctx)

	commands.ExecuteContext(ctx)
}
