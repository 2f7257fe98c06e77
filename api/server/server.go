// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package server is the HTTP front door for the governance VM. It mounts the
// VM's handlers under a common base path and owns the listener lifecycle.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const (
	baseURL              = "/dao"
	maxConcurrentStreams = 64
)

var _ Server = (*server)(nil)

// Server maintains the HTTP router.
type Server interface {
	// AddRoute registers a handler under baseURL+endpoint.
	AddRoute(handler http.Handler, endpoint string) error

	// Dispatch starts serving and blocks until the listener closes.
	Dispatch() error

	// Shutdown drains in-flight requests, then closes the server.
	Shutdown() error
}

type HTTPConfig struct {
	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeHeaderTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
}

type server struct {
	log log.Logger

	shutdownTimeout time.Duration

	metrics *serverMetrics

	lock   sync.RWMutex
	routes map[string]http.Handler
	mux    *http.ServeMux

	srv      *http.Server
	listener net.Listener
}

// New returns a Server over listener. handlers maps endpoint suffixes to
// handlers, the way the VM's CreateHandlers does.
func New(
	log log.Logger,
	listener net.Listener,
	allowedOrigins []string,
	shutdownTimeout time.Duration,
	registerer metric.Registerer,
	httpConfig HTTPConfig,
	allowedHosts []string,
	handlers map[string]http.Handler,
) (Server, error) {
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}

	s := &server{
		log:             log,
		shutdownTimeout: shutdownTimeout,
		metrics:         m,
		routes:          make(map[string]http.Handler),
		mux:             http.NewServeMux(),
		listener:        listener,
	}

	handler := filterInvalidHosts(s.mux, allowedHosts)
	handler = cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
	}).Handler(handler)

	s.srv = &http.Server{
		Handler: h2c.NewHandler(
			handler,
			&http2.Server{
				MaxConcurrentStreams: maxConcurrentStreams,
			}),
		ReadTimeout:       httpConfig.ReadTimeout,
		ReadHeaderTimeout: httpConfig.ReadHeaderTimeout,
		WriteTimeout:      httpConfig.WriteTimeout,
		IdleTimeout:       httpConfig.IdleTimeout,
	}

	for endpoint, handler := range handlers {
		if err := s.AddRoute(handler, endpoint); err != nil {
			return nil, err
		}
	}

	log.Info("API created with allowed origins: " + strings.Join(allowedOrigins, ","))
	return s, nil
}

func (s *server) Dispatch() error {
	return s.srv.Serve(s.listener)
}

func (s *server) AddRoute(handler http.Handler, endpoint string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	url := baseURL + endpoint
	if _, ok := s.routes[url]; ok {
		return fmt.Errorf("route %q is already registered", url)
	}
	s.log.Info("adding route",
		"url", url,
	)
	handler = s.metrics.wrapHandler(url, handler)
	s.routes[url] = handler
	s.mux.Handle(url, handler)
	return nil
}

func (s *server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	err := s.srv.Shutdown(ctx)
	cancel()

	// If shutdown times out, make sure the server is still shutdown.
	_ = s.srv.Close()
	return err
}

// filterInvalidHosts rejects requests whose Host header names a host outside
// allowedHosts. An empty list or a "*" entry allows everything.
func filterInvalidHosts(handler http.Handler, allowedHosts []string) http.Handler {
	allowAll := len(allowedHosts) == 0
	allowed := make(map[string]struct{}, len(allowedHosts))
	for _, host := range allowedHosts {
		if host == "*" {
			allowAll = true
		}
		allowed[strings.ToLower(host)] = struct{}{}
	}
	if allowAll {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if h, _, err := net.SplitHostPort(r.Host); err == nil {
			host = h
		}
		if _, ok := allowed[strings.ToLower(host)]; !ok {
			http.Error(w, "invalid host", http.StatusForbidden)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
