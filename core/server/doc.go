// Package server runs an http.Handler with production timeouts and graceful
// shutdown.
//
// A Server binds its address when started, logs a "listening" line with the
// browsable URL, and serves until its context is cancelled. Shutdown waits up
// to the configured timeout for in-flight requests to finish.
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//	return g.Wait()
//
// Config is populated from SERVER_* environment variables by the config
// package; DefaultConfig returns the same defaults for code-built servers.
// Addr reports the bound address, which is useful when starting on port 0.
package server
