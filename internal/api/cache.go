package api

import (
	"net/http"

	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
)

// newBaseTransport builds the transport the refresh transport delegates to.
// When a cache directory is configured, GET endpoints that send
// Cache-Control headers (the client and invoice catalogs) are served from a
// disk-backed cache across CLI invocations.
func newBaseTransport(cacheDir string) http.RoundTripper {
	if cacheDir == "" {
		return http.DefaultTransport
	}
	return httpcache.NewTransport(diskcache.New(cacheDir))
}
