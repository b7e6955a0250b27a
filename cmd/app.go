package cmd

import (
	"context"
	"sync"

	"github.com/stefanologica/firebear-importexport/app"
)

var (
	appOnce   sync.Once
	sharedApp *app.App
	appErr    error
)

// loadApp wires services once per process; cron runs share the instance.
func loadApp(ctx context.Context) (*app.App, error) {
	appOnce.Do(func() {
		sharedApp, appErr = app.New(ctx)
	})
	return sharedApp, appErr
}
