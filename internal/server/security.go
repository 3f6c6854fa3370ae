// Package server provides the transport security shared by the gRPC and
// HTTP listeners.
package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/memoria-server/internal/model"
)

// NewSecurityLayer returns a TLS listener factory when enableHTTPS is set,
// a plain one otherwise. nextProtos is advertised over ALPN.
func NewSecurityLayer(enableHTTPS bool, certFileName, privateKeyFileName string, nextProtos ...string) model.SecurityLayer {
	if enableHTTPS {
		return NewTLSListener(certFileName, privateKeyFileName, nextProtos...)
	}
	return NewPlainListener()
}

// TLSListener opens TLS listeners from a certificate and key on disk.
// The files are read on every Listen so a restart picks up renewed
// certificates.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
	nextProtos         []string
}

var _ model.SecurityLayer = (*TLSListener)(nil)

// NewTLSListener creates a new TLSListener instance.
func NewTLSListener(certFileName, privateKeyFileName string, nextProtos ...string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
		nextProtos:         nextProtos,
	}
}

// Listen creates a TLS listener on addr. TLS 1.2 is the minimum version.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		NextProtos:   l.nextProtos,
	}
	ln, err := tls.Listen(protocol, addr, tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}

// PlainListener opens unencrypted listeners, for local development and
// deployments behind a TLS-terminating proxy.
type PlainListener struct{}

var _ model.SecurityLayer = (*PlainListener)(nil)

// NewPlainListener creates a new PlainListener instance.
func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

// Listen creates a plain listener on addr.
func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	ln, err := net.Listen(protocol, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}
