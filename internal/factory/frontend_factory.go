package factory

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/spam-ensemble/internal/adapters/filter"
	"github.com/mikey/spam-ensemble/internal/adapters/http/handler"
	"github.com/mikey/spam-ensemble/internal/adapters/http/router"
	"github.com/mikey/spam-ensemble/internal/adapters/selector"
	"github.com/mikey/spam-ensemble/internal/config"
	"github.com/mikey/spam-ensemble/internal/instrument"
	"github.com/mikey/spam-ensemble/internal/ports"
	"github.com/mikey/spam-ensemble/internal/whitelist"
)

// FrontendFactory creates the enabled front ends based on configuration
type FrontendFactory struct {
	cfg         *config.Config
	logger      *zap.Logger
	service     ports.EnsembleService
	reader      ports.BatchReader
	charts      ports.ChartRenderer
	metrics     *instrument.Metrics
	classifiers *ClassifierFactory
}

// NewFrontendFactory creates a new front end factory
func NewFrontendFactory(
	cfg *config.Config,
	logger *zap.Logger,
	service ports.EnsembleService,
	reader ports.BatchReader,
	charts ports.ChartRenderer,
	metrics *instrument.Metrics,
	classifiers *ClassifierFactory,
) *FrontendFactory {
	return &FrontendFactory{
		cfg:         cfg,
		logger:      logger,
		service:     service,
		reader:      reader,
		charts:      charts,
		metrics:     metrics,
		classifiers: classifiers,
	}
}

// CreateFrontends creates every enabled front end
func (f *FrontendFactory) CreateFrontends() ([]ports.Frontend, error) {
	var frontends []ports.Frontend

	httpServer, err := f.CreateHTTPServer()
	if err != nil {
		return nil, err
	}
	if httpServer != nil {
		frontends = append(frontends, httpServer)
	}

	smtpFilter, err := f.CreateSMTPFilter()
	if err != nil {
		return nil, err
	}
	if smtpFilter != nil {
		frontends = append(frontends, smtpFilter)
	}

	if len(frontends) == 0 {
		return nil, fmt.Errorf("no front end enabled: set server.enabled or smtp.enabled")
	}
	return frontends, nil
}

// CreateHTTPServer creates the JSON API and UI server, or nil when disabled
func (f *FrontendFactory) CreateHTTPServer() (*router.Server, error) {
	serverCfg, err := f.cfg.GetServer()
	if err != nil {
		return nil, err
	}
	if !serverCfg.Enabled {
		return nil, nil
	}

	if serverCfg.Mode != "" {
		gin.SetMode(serverCfg.Mode)
	}

	handlers := router.Handlers{
		API:    handler.NewAPIHandler(f.service, f.reader, f.charts, serverCfg.MaxUploadBytes, f.logger),
		Health: handler.NewHealthHandler(f.classifiers.Backends()),
	}
	if serverCfg.UIEnabled {
		handlers.UI = handler.NewUIHandler(f.service, f.reader, f.charts, serverCfg.MaxUploadBytes, f.logger)
	}
	if f.metrics != nil {
		handlers.Metrics = f.metrics.Handler()
	}

	engine := router.Setup(handlers, serverCfg.AllowedOrigins, f.logger)
	return router.NewServer(
		serverCfg.ListenAddress,
		engine,
		serverCfg.ReadTimeout,
		serverCfg.WriteTimeout,
		f.logger,
	), nil
}

// CreateSMTPFilter creates the SMTP content filter, or nil when disabled
func (f *FrontendFactory) CreateSMTPFilter() (*filter.SMTPFilter, error) {
	smtpCfg, err := f.cfg.GetSMTP()
	if err != nil {
		return nil, err
	}
	if !smtpCfg.Enabled {
		return nil, nil
	}

	model, err := selector.Any(smtpCfg.Model)
	if err != nil {
		return nil, fmt.Errorf("smtp.model: %w", err)
	}

	return filter.NewSMTPFilter(
		f.service,
		whitelist.NewChecker(smtpCfg.TrustedSenders, f.logger),
		filter.Options{
			ListenAddress: smtpCfg.ListenAddress,
			Model:         model,
			BlockSpam:     smtpCfg.BlockSpam,
			SpamHeader:    smtpCfg.SpamHeader,
			ScoreHeader:   smtpCfg.ScoreHeader,
			ModelHeader:   smtpCfg.ModelHeader,
			RelayEnabled:  smtpCfg.RelayEnabled,
			RelayAddress:  smtpCfg.RelayAddress,
			RelayPort:     smtpCfg.RelayPort,
			SubjectPrefix: smtpCfg.SubjectPrefix,
			ModifySubject: smtpCfg.ModifySubject,
			Timeout:       smtpCfg.Timeout,
		},
		f.logger,
	), nil
}
