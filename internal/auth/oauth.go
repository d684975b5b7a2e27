package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/brizzai/google-signin/internal/auth/handlers"
	"github.com/brizzai/google-signin/internal/config"
	"github.com/brizzai/google-signin/internal/logger"
	"go.uber.org/zap"
)

const (
	// shutdownTimeout is the maximum time to wait for the receiver to stop
	shutdownTimeout = 2 * time.Second

	readHeaderTimeout = 10 * time.Second
)

// CallbackServer receives the loopback redirect of a single sign-in attempt
type CallbackServer struct {
	server      *http.Server
	listener    net.Listener
	redirectURI string
	results     chan handlers.CallbackResult
	errChan     chan error
}

// StartCallbackServer binds the configured loopback address and starts serving the redirect path
func StartCallbackServer(cfg *config.OAuthConfig) (*CallbackServer, error) {
	host := cfg.CallbackHost
	if host == "" {
		host = config.DefaultCallbackHost
	}
	path := cfg.CallbackPath
	if path == "" {
		path = config.DefaultCallbackPath
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(cfg.CallbackPort)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen for redirect: %w", err)
	}

	s := &CallbackServer{
		listener: listener,
		results:  make(chan handlers.CallbackResult, 1),
		errChan:  make(chan error, 1),
	}
	s.redirectURI = fmt.Sprintf("http://%s%s", listener.Addr().String(), path)

	mux := http.NewServeMux()
	s.RegisterRoutes(mux, path)
	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Debug("Starting redirect receiver", zap.String("redirect_uri", s.redirectURI))
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.errChan <- fmt.Errorf("redirect receiver error: %w", err)
		}
	}()

	return s, nil
}

// RegisterRoutes registers the redirect route on mux
func (s *CallbackServer) RegisterRoutes(mux *http.ServeMux, path string) {
	mux.Handle(path, handlers.NewCallback(s.results))
}

// RedirectURI is the redirect_uri to send to the authorization server
func (s *CallbackServer) RedirectURI() string {
	return s.redirectURI
}

// Wait blocks until the redirect arrives, the receiver fails, or ctx is done
func (s *CallbackServer) Wait(ctx context.Context) (handlers.CallbackResult, error) {
	select {
	case result := <-s.results:
		return result, nil
	case err := <-s.errChan:
		return handlers.CallbackResult{}, err
	case <-ctx.Done():
		return handlers.CallbackResult{}, ctx.Err()
	}
}

// Shutdown stops the receiver, letting an in-flight redirect response finish
func (s *CallbackServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("redirect receiver shutdown error: %w", err)
	}
	return nil
}
