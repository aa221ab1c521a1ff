package main

import (
	"fellowharvest/cmd/fellows-cli/commands"
	"fellowharvest/lib/serviceutil"
	"fellowharvest/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "fellows-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(ctx)
}
