package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/wandrix/internal/server"
	"github.com/desertthunder/wandrix/internal/shared"
	"github.com/urfave/cli/v3"
)

// Stub serves the in-memory travel API until interrupted.
func (r *Runner) Stub(ctx context.Context, cmd *cli.Command) error {
	host := r.config.Server.Host
	if cmd.IsSet("host") {
		host = cmd.String("host")
	}
	port := r.config.Server.Port
	if cmd.IsSet("port") {
		port = cmd.Int("port")
	}
	if port < 0 || port > 65535 {
		return fmt.Errorf("%w: port %d", shared.ErrInvalidFlag, port)
	}

	opts := []server.StubOption{
		server.WithStubLogger(shared.WithLogger(r.logger, "component", "stub")),
		server.WithTokenTTL(cmd.Duration("ttl")),
	}
	if secret := cmd.String("secret"); secret != "" {
		opts = append(opts, server.WithSecret(secret))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ready := make(chan string, 1)
	defer close(ready)
	go func() {
		if addr, ok := <-ready; ok {
			r.writePlain("Stub API listening on http://%s/api (ctrl+c to stop)\n", addr)
		}
	}()

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	return server.Serve(ctx, addr, server.NewStubRouter(r.logger, opts...), r.logger, ready)
}
