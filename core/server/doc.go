// Package server wraps http.Server with graceful shutdown, environment
// configuration, and errgroup-friendly lifecycle management.
//
// # Usage
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, app.Handler()))
//	return g.Wait()
//
// Start blocks until the context is canceled or the listener fails; Stop
// drains in-flight requests within the configured shutdown timeout. TLS can
// be enabled from certificate files, though deployments normally terminate
// TLS at the platform load balancer and run the gateway over plain HTTP.
package server
