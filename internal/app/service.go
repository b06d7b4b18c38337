package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/campuscheers/cheerd/internal/events"
	"github.com/campuscheers/cheerd/internal/identity"
	"github.com/campuscheers/cheerd/internal/polling"
	"github.com/campuscheers/cheerd/internal/retention"
	"github.com/campuscheers/cheerd/internal/store"
)

// Service wires the store-backed components together. One Service per
// process; handlers and the scheduler share it.
type Service struct {
	Config   *Config
	Store    store.PollStore
	Events   *events.Publisher
	Identity *identity.Service
	Catalog  *polling.Catalog
	Ledger   *polling.Ledger
	Tally    *polling.Tally
	Sweeper  *retention.Sweeper
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pollStore, err := NewStore(config.Database.DSN, "")
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	publisher, err := events.NewPublisher(
		config.Events.Enabled,
		config.Events.RedisURL,
		config.Events.ChannelTemplate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init event publisher: %w", err)
	}

	catalog, err := polling.NewCatalog(
		pollStore,
		polling.DefaultTemplates,
		config.Poll.WindowStart,
		config.Poll.WindowMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init poll catalog: %w", err)
	}

	return &Service{
		Config:   config,
		Store:    pollStore,
		Events:   publisher,
		Identity: identity.NewService(pollStore),
		Catalog:  catalog,
		Ledger:   polling.NewLedger(pollStore),
		Tally:    polling.NewTally(pollStore),
		Sweeper:  retention.NewSweeper(pollStore, config.Retention.Days),
	}, nil
}

func (s *Service) ValidateHeaders(headers map[string][]string) bool {
	for _, required := range s.Config.API.RequiredHeaders {
		value := headers[http.CanonicalHeaderKey(required.Name)]
		if len(value) == 0 || !strings.EqualFold(value[0], required.Value) {
			return false
		}
	}
	return true
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Events.Close(); err != nil {
		errs = append(errs, fmt.Errorf("events: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
