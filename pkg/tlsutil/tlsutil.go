// Package tlsutil loads TLS credentials for the gRPC server and its clients.
package tlsutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/grpc/credentials"
)

// Files names the PEM files of one TLS identity. CAFile is the authority the
// peer is checked against.
type Files struct {
	CertFile string
	KeyFile  string
	CAFile   string
}

// Enabled reports whether a certificate and key are configured.
func (f Files) Enabled() bool {
	return f.CertFile != "" && f.KeyFile != ""
}

// Mutual reports whether peers must present a certificate signed by CAFile.
func (f Files) Mutual() bool {
	return f.Enabled() && f.CAFile != ""
}

// ServerCredentials builds server credentials from f. With a CA file set,
// clients must present a certificate it signed.
func ServerCredentials(f Files) (credentials.TransportCredentials, error) {
	cert, err := tls.LoadX509KeyPair(f.CertFile, f.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: load server key pair: %w", err)
	}
	cfg := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	if f.CAFile != "" {
		pool, err := loadCAPool(f.CAFile)
		if err != nil {
			return nil, err
		}
		cfg.ClientCAs = pool
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return credentials.NewTLS(cfg), nil
}

// ClientCredentials builds client credentials trusting f.CAFile (or the
// system pool when empty) and presenting f's certificate when one is set.
func ClientCredentials(f Files, serverName string) (credentials.TransportCredentials, error) {
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: serverName,
	}
	if f.CAFile != "" {
		pool, err := loadCAPool(f.CAFile)
		if err != nil {
			return nil, err
		}
		cfg.RootCAs = pool
	}
	if f.Enabled() {
		cert, err := tls.LoadX509KeyPair(f.CertFile, f.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("tlsutil: load client key pair: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}
	return credentials.NewTLS(cfg), nil
}

func loadCAPool(caFile string) (*x509.CertPool, error) {
	caPEM, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("tlsutil: failed to parse CA certificate from %s", caFile)
	}
	return pool, nil
}

// DevCertificates are the identities written by WriteDevCertificates.
type DevCertificates struct {
	Server Files
	Client Files
}

// WriteDevCertificates issues a throwaway CA plus a server certificate for
// hosts and a client certificate, all signed by that CA, into dir. Both
// returned identities use the CA as their peer authority.
func WriteDevCertificates(dir string, hosts ...string) (DevCertificates, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return DevCertificates{}, fmt.Errorf("tlsutil: mkdir %s: %w", dir, err)
	}

	ca, err := newIssuer()
	if err != nil {
		return DevCertificates{}, err
	}
	caFile := filepath.Join(dir, "ca.pem")
	if err := writePEM(caFile, "CERTIFICATE", ca.der); err != nil {
		return DevCertificates{}, err
	}

	server := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "loanflowd", Organization: []string{"LoanFlow Dev"}},
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			server.IPAddresses = append(server.IPAddresses, ip)
		} else {
			server.DNSNames = append(server.DNSNames, h)
		}
	}
	client := &x509.Certificate{
		SerialNumber: big.NewInt(3),
		Subject:      pkix.Name{CommonName: "loanflow-client", Organization: []string{"LoanFlow Dev"}},
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}

	out := DevCertificates{
		Server: Files{CertFile: filepath.Join(dir, "server.pem"), KeyFile: filepath.Join(dir, "server-key.pem"), CAFile: caFile},
		Client: Files{CertFile: filepath.Join(dir, "client.pem"), KeyFile: filepath.Join(dir, "client-key.pem"), CAFile: caFile},
	}
	if err := ca.issue(server, out.Server); err != nil {
		return DevCertificates{}, err
	}
	if err := ca.issue(client, out.Client); err != nil {
		return DevCertificates{}, err
	}
	return out, nil
}

type issuer struct {
	cert *x509.Certificate
	key  *ecdsa.PrivateKey
	der  []byte
}

func newIssuer() (*issuer, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: generate CA key: %w", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{Organization: []string{"LoanFlow Dev CA"}},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: create CA cert: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("tlsutil: parse CA cert: %w", err)
	}
	return &issuer{cert: cert, key: key, der: der}, nil
}

// issue signs tmpl with a fresh key and writes the pair to f.
func (i *issuer) issue(tmpl *x509.Certificate, f Files) error {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("tlsutil: generate key for %s: %w", tmpl.Subject.CommonName, err)
	}
	tmpl.NotBefore = i.cert.NotBefore
	tmpl.NotAfter = i.cert.NotAfter
	tmpl.KeyUsage = x509.KeyUsageDigitalSignature

	der, err := x509.CreateCertificate(rand.Reader, tmpl, i.cert, &key.PublicKey, i.key)
	if err != nil {
		return fmt.Errorf("tlsutil: sign %s: %w", tmpl.Subject.CommonName, err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return fmt.Errorf("tlsutil: marshal key for %s: %w", tmpl.Subject.CommonName, err)
	}
	if err := writePEM(f.CertFile, "CERTIFICATE", der); err != nil {
		return err
	}
	return writePEM(f.KeyFile, "EC PRIVATE KEY", keyDER)
}

func writePEM(path, blockType string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("tlsutil: write %s: %w", path, err)
	}
	defer f.Close()
	return pem.Encode(f, &pem.Block{Type: blockType, Bytes: data})
}
