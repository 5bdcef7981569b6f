package library

import (
	"log/slog"
	"time"

	"github.com/AntonStoeckl/library-catalog-go/eventstore/memengine"
	"github.com/AntonStoeckl/library-catalog-go/library/accounting"
	"github.com/AntonStoeckl/library-catalog-go/library/catalog"
	"github.com/AntonStoeckl/library-catalog-go/library/circulation"
	"github.com/AntonStoeckl/library-catalog-go/library/directory"
	"github.com/AntonStoeckl/library-catalog-go/library/report"
	"github.com/AntonStoeckl/library-catalog-go/library/shell"
)

// Library holds the wired components.
type Library struct {
	Store       *memengine.EventStore
	Journal     *shell.Journal
	Catalog     *catalog.Catalog
	Directory   *directory.Directory
	Ledger      *accounting.Ledger
	Circulation *circulation.Service
	Reports     *report.Reports
}

type settings struct {
	logger           *slog.Logger
	metricsCollector shell.MetricsCollector
	retryOptions     []shell.RetryOption
	clock            func() time.Time
}

// Option defines a functional option for Setup.
type Option func(*settings) error

// WithLogger sets the logger of all components, the event store included.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			return shell.ErrNilOption
		}

		s.logger = logger

		return nil
	}
}

// WithMetrics sets the metrics collector of all components, the event store included.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(s *settings) error {
		if collector == nil {
			return shell.ErrNilOption
		}

		s.metricsCollector = collector

		return nil
	}
}

// WithRetryOptions configures the retry of appends that hit a concurrency conflict.
func WithRetryOptions(options ...shell.RetryOption) Option {
	return func(s *settings) error {
		s.retryOptions = append(s.retryOptions, options...)

		return nil
	}
}

// WithClock replaces time.Now as the source of event timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *settings) error {
		if clock == nil {
			return shell.ErrNilOption
		}

		s.clock = clock

		return nil
	}
}

// Setup constructs an empty library.
func Setup(options ...Option) (*Library, error) {
	s := settings{
		logger: slog.New(slog.DiscardHandler),
		clock:  time.Now,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return nil, err
		}
	}

	storeOptions := []memengine.Option{memengine.WithLogger(s.logger), memengine.WithContextualLogger(s.logger)}
	journalOptions := []shell.JournalOption{shell.WithRetryOptions(s.retryOptions...)}
	catalogOptions := []catalog.Option{catalog.WithLogger(s.logger), catalog.WithClock(s.clock)}
	directoryOptions := []directory.Option{directory.WithLogger(s.logger), directory.WithClock(s.clock)}
	circulationOptions := []circulation.Option{circulation.WithLogger(s.logger), circulation.WithClock(s.clock)}

	if s.metricsCollector != nil {
		storeOptions = append(storeOptions, memengine.WithMetrics(s.metricsCollector))
		journalOptions = append(journalOptions, shell.WithJournalMetrics(s.metricsCollector))
		catalogOptions = append(catalogOptions, catalog.WithMetrics(s.metricsCollector))
		directoryOptions = append(directoryOptions, directory.WithMetrics(s.metricsCollector))
		circulationOptions = append(circulationOptions, circulation.WithMetrics(s.metricsCollector))
	}

	store, err := memengine.NewEventStore(storeOptions...)
	if err != nil {
		return nil, err
	}

	journal, err := shell.NewJournal(store, journalOptions...)
	if err != nil {
		return nil, err
	}

	c, err := catalog.New(journal, catalogOptions...)
	if err != nil {
		return nil, err
	}

	d, err := directory.New(journal, directoryOptions...)
	if err != nil {
		return nil, err
	}

	ledger, err := accounting.NewLedger(journal, accounting.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	service, err := circulation.NewService(journal, c, ledger, circulationOptions...)
	if err != nil {
		return nil, err
	}

	reports, err := report.New(report.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	return &Library{
		Store:       store,
		Journal:     journal,
		Catalog:     c,
		Directory:   d,
		Ledger:      ledger,
		Circulation: service,
		Reports:     reports,
	}, nil
}
