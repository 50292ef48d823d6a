// Package mcpsrv provides the public API for running the ZenTao MCP
// server, either standalone or embedded with custom tools.
//
// Minimal usage:
//
//	zc := client.New()
//	srv, err := mcpsrv.NewServer(zc)
//	if err != nil { ... }
//	defer srv.Close()
//	srv.Run(ctx)
//
// Custom tools register through WithTool or, when they need access to the
// client and image pipeline, WithDepsTool.
package mcpsrv
