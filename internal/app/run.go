package app

import (
	"context"
	"fmt"

	"github.com/vk/bigantr/internal/bigantr"
	"github.com/vk/bigantr/internal/ctxlog"
)

// Run executes the main application logic: load parameters, build the model
// and run it to the end of its clock.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	params, err := a.LoadParams(ctx, appConfig.ConfigPath)
	if err != nil {
		return err
	}

	lem, err := bigantr.New(ctx, params, a.registry)
	if err != nil {
		return fmt.Errorf("failed to build model: %w", err)
	}

	a.logger.Info("🚀 Starting model run.", "run_id", lem.RunID.String(), "duration", lem.RunDuration, "dt", lem.DT)
	if err := lem.Run(ctx); err != nil {
		return fmt.Errorf("model run failed: %w", err)
	}
	a.logger.Info("🏁 Model run finished.", "time", lem.CurrentTime(), "saves", lem.SaveNumber())

	a.logger.Debug("App.Run method finished.")
	return nil
}
