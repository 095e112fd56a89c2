package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"finframe/internal/shared/config"
	"finframe/internal/shared/middleware"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second
)

// servers is the API listener plus, when TLS redirects are on, a plain
// HTTP listener on :80 that points clients at HTTPS.
type servers struct {
	api      *http.Server
	redirect *http.Server
	tls      *config.TLSConfig
}

func newServers(handler http.Handler, cfg *config.Config) *servers {
	s := &servers{
		api: newHTTPServer(net.JoinHostPort(cfg.Server.Host, cfg.Server.Port), handler),
		tls: &cfg.TLS,
	}
	if cfg.TLS.Enabled && cfg.TLS.RedirectHTTP {
		s.redirect = newHTTPServer(":80", redirectToHTTPS(middleware.Hosts(cfg.Server.AllowedHosts)))
	}
	return s
}

func newHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
}

// run serves until ctx is cancelled or a listener fails, then drains
// in-flight requests for at most shutdownTimeout.
func (s *servers) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", s.api.Addr).Bool("tls", s.tls.Enabled).Msg("api server starting")
		var err error
		if s.tls.Enabled {
			err = s.api.ListenAndServeTLS(s.tls.CertPath, s.tls.KeyPath)
		} else {
			err = s.api.ListenAndServe()
		}
		return ignoreClosed(err)
	})

	if s.redirect != nil {
		g.Go(func() error {
			log.Info().Str("addr", s.redirect.Addr).Msg("https redirect server starting")
			return ignoreClosed(s.redirect.ListenAndServe())
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("server shutting down")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		if s.redirect != nil {
			errs = append(errs, s.redirect.Shutdown(sctx))
		}
		errs = append(errs, s.api.Shutdown(sctx))
		if err := errors.Join(errs...); err != nil {
			log.Error().Err(err).Msg("failed to shut down cleanly")
			return err
		}
		log.Info().Msg("server stopped")
		return nil
	})

	return g.Wait()
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// redirectToHTTPS sends every request to the same URL over HTTPS. Hosts
// outside allowed are refused so the redirect cannot be pointed elsewhere.
func redirectToHTTPS(allowed middleware.Hosts) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Header.Get("X-Forwarded-Host")
		if host == "" {
			host = r.Host
		}
		if !allowed.Allow(host) {
			http.Error(w, "Invalid host", http.StatusBadRequest)
			return
		}

		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
			if strings.Contains(h, ":") {
				host = "[" + h + "]"
			}
		}
		http.Redirect(w, r, "https://"+host+r.RequestURI, http.StatusMovedPermanently)
	})
}
