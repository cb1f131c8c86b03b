// Package dsproxy is ds-proxy's HTTP reverse proxy: it dispatches by
// method, encoding PUT request bodies on their way to the upstream
// object store and decoding GET response bodies on their way back to
// the client, relaying every other method straight through unmodified.
package dsproxy

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/betagouv/ds-proxy/internal/dscipher"
)

// userAgent identifies ds-proxy to the upstream, same role as the
// original's actix-web client default.
const userAgent = "ds-proxy"

// Server is a configured ds-proxy reverse proxy.
type Server struct {
	Key             *dscipher.Key
	ChunkSize       uint32
	UpstreamBaseURL string
	// Noop disables the codec entirely, forwarding bytes unchanged, for
	// benchmarking the proxy's transport overhead in isolation.
	Noop   bool
	Client *http.Client
	Log    *logrus.Logger
}

// Handler builds the proxy's http.Handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/*", s.fetch)
	r.Put("/*", s.forward)
	r.NotFound(s.relay)
	r.MethodNotAllowed(s.relay)
	return r
}

func (s *Server) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

func (s *Server) logger() *logrus.Logger {
	if s.Log != nil {
		return s.Log
	}
	return logrus.StandardLogger()
}

func (s *Server) upstreamURL(r *http.Request) string {
	return s.UpstreamBaseURL + r.URL.RequestURI()
}

// forward handles PUT: encrypt the client's request body on the way to
// the upstream store.
func (s *Server) forward(w http.ResponseWriter, r *http.Request) {
	var body io.Reader = r.Body
	if !s.Noop {
		enc, err := dscipher.NewEncoder(s.Key, s.ChunkSize, r.Body)
		if err != nil {
			http.Error(w, "ds-proxy: failed to start encoder", http.StatusInternalServerError)
			return
		}
		body = enc
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPut, s.upstreamURL(r), body)
	if err != nil {
		http.Error(w, "ds-proxy: bad upstream request", http.StatusBadGateway)
		return
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", r.Header.Get("Content-Type"))

	resp, err := s.client().Do(req)
	if err != nil {
		s.logger().WithError(err).Error("ds-proxy: upstream PUT failed")
		http.Error(w, "ds-proxy: upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

// fetch handles GET: decrypt the upstream response body on its way to
// the client.
func (s *Server) fetch(w http.ResponseWriter, r *http.Request) {
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, s.upstreamURL(r), nil)
	if err != nil {
		http.Error(w, "ds-proxy: bad upstream request", http.StatusBadGateway)
		return
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client().Do(req)
	if err != nil {
		s.logger().WithError(err).Error("ds-proxy: upstream GET failed")
		http.Error(w, "ds-proxy: upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	var body io.Reader = resp.Body
	if !s.Noop {
		body = dscipher.NewDecoder(s.Key, resp.Body)
	}

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, body); err != nil {
		// Headers and status are already on the wire; all we can do is
		// log and let the connection end abruptly.
		s.logger().WithError(err).Error("ds-proxy: response body terminated early")
	}
}

// relay passes any method ds-proxy doesn't special-case straight through
// to the upstream, neither encoding nor decoding the body.
func (s *Server) relay(w http.ResponseWriter, r *http.Request) {
	req, err := http.NewRequestWithContext(r.Context(), r.Method, s.upstreamURL(r), r.Body)
	if err != nil {
		http.Error(w, "ds-proxy: bad upstream request", http.StatusBadGateway)
		return
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client().Do(req)
	if err != nil {
		s.logger().WithError(err).Error("ds-proxy: upstream relay failed")
		http.Error(w, "ds-proxy: upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

// copyHeaders copies src into dst, dropping the hop-by-hop Connection
// header.
func copyHeaders(dst, src http.Header) {
	for k, vv := range src {
		if strings.EqualFold(k, "Connection") {
			continue
		}
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}

// Run starts the proxy listening on addr, blocking until it stops.
func (s *Server) Run(addr string) error {
	s.logger().Infof("ds-proxy listening on %s, upstream %s, chunk size %d, noop=%v", addr, s.UpstreamBaseURL, s.ChunkSize, s.Noop)
	return http.ListenAndServe(addr, s.Handler())
}
