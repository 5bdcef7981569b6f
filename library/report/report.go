// Package report generates the library reports. Both reports are placeholders, nothing is aggregated yet.
package report

import (
	"context"

	"github.com/AntonStoeckl/library-catalog-go/library/shell"
)

const (
	bookPopularityReport = "Generating book report"
	readerActivityReport = "Generating reader report"
	logAttrReport        = "report"
)

// Reports sends a notification for every report it generates.
type Reports struct {
	logger shell.ContextualLogger
}

// Option defines a functional option for configuring Reports.
type Option func(*Reports) error

// WithLogger sets the logger that receives the report notifications.
func WithLogger(logger shell.ContextualLogger) Option {
	return func(r *Reports) error {
		if logger == nil {
			return shell.ErrNilOption
		}

		r.logger = logger

		return nil
	}
}

// New creates Reports that notify a discarding logger unless WithLogger is given.
func New(options ...Option) (*Reports, error) {
	r := &Reports{logger: shell.NopLogger()}

	for _, option := range options {
		if err := option(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// BookPopularityReport returns the book popularity report and sends a notification for it.
func (r *Reports) BookPopularityReport(ctx context.Context) string {
	return r.generate(ctx, "book_popularity", bookPopularityReport)
}

// ReaderActivityReport returns the reader activity report and sends a notification for it.
func (r *Reports) ReaderActivityReport(ctx context.Context) string {
	return r.generate(ctx, "reader_activity", readerActivityReport)
}

func (r *Reports) generate(ctx context.Context, name string, text string) string {
	r.logger.InfoContext(ctx, text, logAttrReport, name)

	return text
}
