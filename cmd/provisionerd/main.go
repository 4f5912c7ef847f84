package main

import (
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/passkey-wallet/internal/config"
	"github.com/tdex-network/passkey-wallet/internal/core/application"
	"github.com/tdex-network/passkey-wallet/internal/infrastructure/keyservice"
	httpinterface "github.com/tdex-network/passkey-wallet/internal/interfaces/http"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	organizationID := config.GetString(config.OrganizationIDKey)
	if organizationID == "" {
		log.Fatalf("missing PKW_%s", config.OrganizationIDKey)
	}

	stamper, err := keyservice.NewAPIKeyStamper(
		config.GetString(config.APIPublicKeyKey), config.GetString(config.APIPrivateKeyKey),
	)
	if err != nil {
		log.WithError(err).Fatal("invalid API key")
	}
	creator, err := keyservice.NewSubOrganizationCreator(
		config.GetString(config.KeyServiceURLKey),
		config.GetDuration(config.RequestTimeoutKey),
		organizationID, stamper,
	)
	if err != nil {
		log.WithError(err).Fatal("failed to init key service client")
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Addr:            config.GetString(config.ListenAddrKey),
		RateLimit:       config.GetInt(config.RateLimitKey),
		ProvisioningSvc: application.NewProvisioningService(creator),
	})
	if err != nil {
		log.WithError(err).Fatal("failed to init provisioning server")
	}

	log.Info("starting provisioning backend")
	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start provisioning server")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	<-sigChan

	log.Info("shutting down provisioning backend")
	svc.Stop()
}
