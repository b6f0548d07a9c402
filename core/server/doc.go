// Package server wraps http.Server with graceful shutdown and
// environment-driven configuration.
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, router))
//	return g.Wait()
//
// Run returns a function for errgroup: it serves until ctx is canceled and
// then shuts down within the configured timeout. Start binds the listener
// before serving, so a bad address fails immediately with ErrListen.
//
// TLS is terminated in front of the service and is not handled here.
package server
