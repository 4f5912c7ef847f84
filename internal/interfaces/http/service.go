package httpinterface

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/core/application"
	"github.com/tdex-network/passkey-wallet/internal/interfaces"
)

const shutdownTimeout = 5 * time.Second

type service struct {
	opts   ServiceOpts
	server *http.Server
}

type ServiceOpts struct {
	Addr            string
	RateLimit       int
	ProvisioningSvc application.ProvisioningService
}

func (o ServiceOpts) validate() error {
	if o.Addr == "" {
		return fmt.Errorf("missing listening address")
	}
	if _, _, err := net.SplitHostPort(o.Addr); err != nil {
		return fmt.Errorf("invalid listening address %s: %w", o.Addr, err)
	}
	if o.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if o.ProvisioningSvc == nil {
		return fmt.Errorf("missing provisioning service")
	}
	return nil
}

func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %s", err)
	}
	return &service{
		opts: opts,
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           NewRouter(opts.ProvisioningSvc, opts.RateLimit),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("provisioning server stopped")
		}
	}()

	log.Infof("provisioning server listening on %s", lis.Addr())
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop provisioning server")
	}
	log.Debug("stopped provisioning server")
}
