package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener a Server accepts on, with or without TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is one of the process's network front ends (gRPC or HTTP).
// Start blocks until the server stops and returns nil after a Stop.
// Stop drains in-flight requests until ctx is done.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
