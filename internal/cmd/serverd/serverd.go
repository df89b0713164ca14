// Package serverd parses server command flags and starts the HTTP
// service.
package serverd

import (
	"context"
	"flag"
	"fmt"
	"log"

	campaignservice "github.com/classfund/classfund/internal/campaign/service"
	"github.com/classfund/classfund/internal/contribution"
	"github.com/classfund/classfund/internal/faculty"
	"github.com/classfund/classfund/internal/hierarchy"
	"github.com/classfund/classfund/internal/platform/config"
	"github.com/classfund/classfund/internal/platform/otel"
	"github.com/classfund/classfund/internal/server"
	"github.com/classfund/classfund/internal/server/adminauth"
	"github.com/classfund/classfund/internal/storage/sqlite"
)

// Config holds server command configuration.
type Config struct {
	Port   int    `env:"CLASSFUND_PORT"    envDefault:"8080"`
	Addr   string `env:"CLASSFUND_ADDR"`
	DBPath string `env:"CLASSFUND_DB_PATH" envDefault:"classfund.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The HTTP server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The HTTP listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the HTTP service and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "classfund")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("shutdown tracing: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close storage: %v", err)
		}
	}()

	adminCfg, err := adminauth.LoadConfigFromEnv(nil)
	if err != nil {
		return fmt.Errorf("load admin auth config: %w", err)
	}
	if !adminCfg.Enabled() {
		log.Print("admin grant verification is disabled")
	}

	addr := cfg.Addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.Port)
	}

	srv, err := server.NewServer(server.Config{
		HTTPAddr:  addr,
		Hierarchy: hierarchy.NewService(store, store, store),
		Faculty:   faculty.NewService(store, store),
		Campaigns: campaignservice.New(campaignservice.Stores{
			Campaigns:     store,
			States:        store,
			Districts:     store,
			Schools:       store,
			Teachers:      store,
			Contributions: store,
		}),
		Contributions: contribution.NewService(store, store),
		AdminAuth:     adminCfg,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.ListenAndServe(ctx)
}
