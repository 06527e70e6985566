package identity

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// resolvePEM applies the "inline literal wins over file path" precedence
// spec.md §4.A calls out for every key/cert/trust-bundle field. provided
// reports whether either source was configured at all, distinguishing
// "nothing configured" from "configured but empty/unreadable".
func resolvePEM(literal, file string) (data []byte, provided bool, err error) {
	if literal != "" {
		return []byte(literal), true, nil
	}
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, true, fmt.Errorf("reading %s: %w", file, err)
		}
		return b, true, nil
	}
	return nil, false, nil
}

// parsePrivateKey tries PKCS#8, SEC1 EC, and legacy RSA PKCS#1 in that
// order, per spec.md §4.A "the first recognized key object wins". It
// scans every PEM block present so a key delivered alongside other PEM
// material (e.g. appended to a cert file) is still found.
func parsePrivateKey(pemBytes []byte) (crypto.Signer, error) {
	rest := pemBytes
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}

		if k, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
			if signer, ok := k.(crypto.Signer); ok {
				return signer, nil
			}
		}
		if k, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
			return k, nil
		}
		if k, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
			return k, nil
		}
	}
	return nil, fmt.Errorf("no recognized private key (PKCS#8, SEC1 EC, PKCS#1) found in PEM data")
}

// parseCertChain decodes every CERTIFICATE PEM block in order, returning
// both the raw DER (for tls.Certificate.Certificate) and the parsed
// leaf/chain (for trust-bundle building).
func parseCertChain(pemBytes []byte) (der [][]byte, certs []*x509.Certificate, err error) {
	rest := pemBytes
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing certificate: %w", err)
		}
		der = append(der, block.Bytes)
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, nil, fmt.Errorf("no CERTIFICATE PEM blocks found")
	}
	return der, certs, nil
}
