// Package loader implements declaration.Loader over files, fs.FS entries and
// HTTP endpoints.
package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-roleconnections/pkg/declaration"
)

// maxDocumentSize bounds declaration bodies from every source. A declaration
// holds at most five fields, so anything near this is not one.
const maxDocumentSize = 1 << 20

var (
	// ErrHTTPDisabled is returned for URL sources when neither an HTTP client
	// nor the HTTP fallback was configured.
	ErrHTTPDisabled = errors.New("declaration loader: http support disabled")
	// ErrUnsupportedSource is returned for source kinds with no fetcher.
	ErrUnsupportedSource = errors.New("declaration loader: unsupported source kind")
	// ErrEmptyDocument is returned when a source yields no bytes.
	ErrEmptyDocument = errors.New("declaration loader: empty document")
	// ErrDocumentTooLarge is returned when a source exceeds maxDocumentSize.
	ErrDocumentTooLarge = errors.New("declaration loader: document too large")
)

// LoadError records which source failed.
type LoadError struct {
	Kind     declaration.SourceKind
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("declaration loader: %s %q: %v", e.Kind, e.Location, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type fetcher func(ctx context.Context, location string) ([]byte, error)

// Loader reads declaration documents, picking a fetcher by source kind.
type Loader struct {
	fetchers map[declaration.SourceKind]fetcher
	logger   zerolog.Logger
}

var _ declaration.Loader = (*Loader)(nil)

// Option tunes the implementation beyond declaration.LoaderOptions.
type Option func(*Loader)

// WithLogger sets the logger used for load events.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New builds a Loader. URL sources are only fetched when options carry an
// HTTP client or enable the fallback client.
func New(options declaration.LoaderOptions, opts ...Option) *Loader {
	l := &Loader{
		fetchers: map[declaration.SourceKind]fetcher{
			declaration.SourceKindFile: readFile,
			declaration.SourceKindFS:   fsReader(options.FileSystem),
			declaration.SourceKindURL:  httpReader(remoteClient(options), options.RequestTimeout),
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches src and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src declaration.Source) (declaration.Document, error) {
	if src == nil {
		return declaration.Document{}, errors.New("declaration loader: source is nil")
	}
	log := l.logger.With().Str("kind", string(src.Kind())).Str("location", src.Location()).Logger()

	data, err := l.fetch(ctx, src)
	if err != nil {
		log.Debug().Err(err).Msg("declaration load failed")
		return declaration.Document{}, err
	}
	log.Debug().Int("bytes", len(data)).Msg("declaration loaded")
	return declaration.NewDocument(src, data)
}

func (l *Loader) fetch(ctx context.Context, src declaration.Source) ([]byte, error) {
	wrap := func(err error) error {
		return &LoadError{Kind: src.Kind(), Location: src.Location(), Err: err}
	}

	fetch, ok := l.fetchers[src.Kind()]
	if !ok {
		return nil, wrap(ErrUnsupportedSource)
	}
	if src.Location() == "" {
		return nil, wrap(errors.New("location is required"))
	}
	if err := ctx.Err(); err != nil {
		return nil, wrap(err)
	}

	data, err := fetch(ctx, src.Location())
	switch {
	case err != nil:
		return nil, wrap(err)
	case len(data) == 0:
		return nil, wrap(ErrEmptyDocument)
	case len(data) > maxDocumentSize:
		return nil, wrap(ErrDocumentTooLarge)
	}
	return data, nil
}

func remoteClient(options declaration.LoaderOptions) *http.Client {
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if options.RequestTimeout > 0 && clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		return &clone
	case options.AllowHTTPFallback:
		return &http.Client{Timeout: options.RequestTimeout}
	default:
		return nil
	}
}

// timeoutContext applies d when positive.
func timeoutContext(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
