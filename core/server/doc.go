// Package server runs the portal's HTTP listener with graceful shutdown.
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	return srv.Run(ctx, router)
//
// Run blocks until the context is canceled and then gives in-flight
// requests up to the shutdown timeout to finish.
package server
