package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/remvst/asset-catalog/internal/watch"
	"go.uber.org/zap"
)

// watchAndBuild rebuilds until interrupted.
func watchAndBuild(parent context.Context, dir string, build func(context.Context) error, outputs ...string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("watching", zap.String("dir", dir))
	w := &watch.Watcher{Root: dir, Ignore: outputs, Log: logger}
	return w.Run(ctx, build)
}
