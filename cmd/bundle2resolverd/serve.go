package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hgserve/bundle2push"
	"github.com/hgserve/bundle2push/metrics"
	"github.com/hgserve/bundle2push/resolver"
	"github.com/hgserve/bundle2push/wire"
)

func serve(configPath string) error {
	config, err := resolveConfiguration(configPath)
	if err != nil {
		return err
	}

	configureLogging(config)
	configureDebugServer(config.HTTP.Addr)

	transport, err := newTransport(config)
	if err != nil {
		return fmt.Errorf("starting resolver daemon: %w", err)
	}

	rec := metrics.NewRecorder()

	// deps.Repo, deps.Pushrebase, deps.Hooks, and deps.ReplyEncoder are
	// backed by the blob repository this daemon is deployed against; a
	// concrete build supplies both them and a Transport together, since
	// neither makes sense without the other.
	handle := func(ctx context.Context, heads []bundle2push.HgChangesetID, items wire.Source) ([]byte, error) {
		deps := resolver.Dependencies{
			Metrics: rec,
		}
		return resolver.Resolve(ctx, deps, heads, items)
	}

	logrus.Info("bundle2resolverd starting")
	return transport.Serve(context.Background(), handle)
}
