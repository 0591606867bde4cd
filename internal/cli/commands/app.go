package commands

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	roleconnections "github.com/goliatone/go-roleconnections"
	"github.com/goliatone/go-roleconnections/internal/config"
	internalloader "github.com/goliatone/go-roleconnections/internal/declaration/loader"
	"github.com/goliatone/go-roleconnections/internal/logger"
	"github.com/goliatone/go-roleconnections/internal/tokenstore"
	"github.com/goliatone/go-roleconnections/pkg/client"
	"github.com/goliatone/go-roleconnections/pkg/declaration"
	"github.com/goliatone/go-roleconnections/pkg/metadata"
)

// examplePrefix selects a declaration bundled with the binary.
const examplePrefix = "example:"

// flagKeys maps command flags onto configuration keys.
var flagKeys = map[string]string{
	"declaration":        "declaration",
	"timestamp-encoding": "timestamp_encoding",
	"log-level":          "log.level",
	"log-pretty":         "log.pretty",
	"client-id":          "oauth.client_id",
	"client-secret":      "oauth.client_secret",
	"redirect-uri":       "oauth.redirect_uri",
	"bot-token":          "platform.bot_token",
	"base-url":           "platform.base_url",
	"addr":               "server.addr",
	"store":              "store.driver",
	"values":             "server.values_file",
}

type rootOptions struct {
	configPath string
}

// app is the per-invocation state shared by the commands.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func (o *rootOptions) load(cmd *cobra.Command) (*app, error) {
	v := config.New(o.configPath)
	if err := config.BindFlags(v, cmd.Flags(), flagKeys); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log}, nil
}

// declarationSource resolves a location, where example:<name> reads the
// bundled declarations.
func declarationSource(location string) (declaration.Source, []declaration.LoaderOption, error) {
	if name, ok := strings.CutPrefix(location, examplePrefix); ok {
		return declaration.SourceFromFS(name), []declaration.LoaderOption{
			declaration.WithFileSystem(roleconnections.ExampleDeclarationsFS()),
		}, nil
	}
	src, err := declaration.ResolveSource(location)
	if err != nil {
		return nil, nil, err
	}
	return src, []declaration.LoaderOption{declaration.WithHTTPFallback(15 * time.Second)}, nil
}

// loadDefinition loads location and applies the configuration overrides.
func (a *app) loadDefinition(ctx context.Context, location string) (*metadata.Definition, error) {
	src, options, err := declarationSource(location)
	if err != nil {
		return nil, err
	}
	ldr := internalloader.New(
		declaration.NewLoaderOptions(options...),
		internalloader.WithLogger(logger.Component(a.log, "declaration")),
	)
	doc, err := ldr.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	file, err := declaration.Decode(doc.Raw())
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, doc.Location())
	}
	a.cfg.ApplyOverrides(&file)

	def, err := file.Definition()
	if err != nil {
		return nil, fmt.Errorf("declaration: %s: %w", doc.Location(), err)
	}
	return def, nil
}

func (a *app) definition(ctx context.Context) (*metadata.Definition, error) {
	if err := a.cfg.RequireDeclaration(); err != nil {
		return nil, err
	}
	return a.loadDefinition(ctx, a.cfg.Declaration)
}

func (a *app) client(def *metadata.Definition, observer client.Observer) (*client.Client, error) {
	options := []client.Option{
		client.WithHTTPClient(&http.Client{Timeout: a.cfg.Platform.Timeout}),
		client.WithBaseURL(a.cfg.Platform.BaseURL),
		client.WithBotToken(a.cfg.Platform.BotToken),
		client.WithLogger(logger.Component(a.log, "client")),
	}
	if observer != nil {
		options = append(options, client.WithObserver(observer))
	}
	if a.cfg.Platform.LenientValues {
		options = append(options, client.WithLenientValues())
	}
	return client.New(a.cfg.OAuthClient(), def, options...)
}

// openStore returns the configured token store and its release function.
func (a *app) openStore(ctx context.Context) (tokenstore.Store, func() error, error) {
	sc := a.cfg.Store
	switch sc.Driver {
	case config.DriverSQLite:
		db, err := tokenstore.OpenSQLite(sc.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := tokenstore.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return tokenstore.NewSQLite(db), db.Close, nil
	case config.DriverRedis:
		store, err := tokenstore.NewRedis(ctx, tokenstore.RedisConfig{
			Addr:      sc.RedisAddr,
			Password:  sc.RedisPassword,
			DB:        sc.RedisDB,
			KeyPrefix: sc.KeyPrefix,
			TTL:       sc.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return tokenstore.NewMemory(), func() error { return nil }, nil
	}
}
