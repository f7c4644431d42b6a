package server

import (
	"crypto/tls"
	"fmt"
	"net"

	"github.com/dtroode/flower-server/internal/model"
)

// TLSListener opens listeners that terminate TLS with a certificate loaded
// from disk on every Listen call.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string
}

func NewTLSListener(certFileName, privateKeyFileName string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Listen loads the key pair and listens on addr. TLS 1.2 is the minimum
// accepted version.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	return tls.Listen(protocol, addr, tlsConfig)
}

// PlainListener opens unencrypted listeners.
type PlainListener struct{}

func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	return net.Listen(protocol, addr)
}

// NewSecurityLayer returns a TLSListener when both files are set and a
// PlainListener otherwise. Setting only one of them is an error.
func NewSecurityLayer(certFileName, privateKeyFileName string) (model.SecurityLayer, error) {
	switch {
	case certFileName == "" && privateKeyFileName == "":
		return NewPlainListener(), nil
	case certFileName == "" || privateKeyFileName == "":
		return nil, fmt.Errorf("both certificate and private key are required for TLS")
	default:
		return NewTLSListener(certFileName, privateKeyFileName), nil
	}
}
