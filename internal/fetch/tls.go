package fetch

import (
	"crypto/tls"
	"net/http"
)

// RestrictedCipherSuites are the only suites Shell's price endpoint completes a
// handshake with.
var RestrictedCipherSuites = []uint16{
	tls.TLS_RSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA256,
	tls.TLS_RSA_WITH_AES_256_CBC_SHA,
}

// RestrictedTLSTransport returns a copy of http.DefaultTransport limited to
// RestrictedCipherSuites with TLS versions below 1.2 disabled. The default transport
// is not modified.
func RestrictedTLSTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()

	suites := make([]uint16, len(RestrictedCipherSuites))
	copy(suites, RestrictedCipherSuites)

	t.TLSClientConfig = &tls.Config{
		MinVersion:   tls.VersionTLS12,
		CipherSuites: suites,
	}
	return t
}
