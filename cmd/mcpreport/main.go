// Command mcpreport loads a capability manifest into a registry, lists it the
// way an MCP client would, and prints the resulting capability report as
// JSON. Reports can optionally be saved as profiles in memory or Redis.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ggoodman/mcp-registry-go/internal/logctx"
	"github.com/ggoodman/mcp-registry-go/manifest"
	"github.com/ggoodman/mcp-registry-go/mcp"
	"github.com/ggoodman/mcp-registry-go/observe"
	"github.com/ggoodman/mcp-registry-go/registry"
	"github.com/ggoodman/mcp-registry-go/storage"
	"github.com/ggoodman/mcp-registry-go/storage/memory"
	redisstorage "github.com/ggoodman/mcp-registry-go/storage/redis"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "mcpreport:", err)
		os.Exit(2)
	}
	if err := run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "mcpreport:", err)
		os.Exit(1)
	}
}

// output is the document printed for each report.
type output struct {
	Discovery    registry.DiscoveryState `json:"discovery"`
	TotalCount   int                     `json:"totalCount"`
	Report       observe.Snapshot        `json:"report"`
	ProfileToken string                  `json:"profileToken,omitempty"`
}

func run(ctx context.Context, cfg Config, stdout, stderr io.Writer) error {
	lv := new(slog.LevelVar)
	if err := logctx.SetLevel(lv, mcp.LoggingLevel(cfg.LogLevel)); err != nil {
		return fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	log := slog.New(logctx.Handler{Handler: slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lv})})

	reg := registry.New(registry.WithLogger(log))
	defer reg.Close()

	loader := &manifest.Loader{Registry: reg, Logger: log}
	if _, err := loader.Load(ctx, cfg.Manifest); err != nil {
		return err
	}

	var profiles *observe.ProfileStore
	if cfg.Save {
		store, err := openStorage(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			_ = store.Close()
		}()
		profiles = observe.NewProfileStore(store,
			observe.WithProfileTTL(cfg.ProfileTTL),
			observe.WithProfileLogger(log),
		)
	}

	emit := func() error {
		report, err := collect(reg, cfg.PageSize, log)
		if err != nil {
			return err
		}
		out := output{
			Discovery:  reg.DiscoveryState(),
			TotalCount: report.TotalCount(),
			Report:     report.Snapshot(),
		}
		if profiles != nil {
			p, err := profiles.Save(ctx, cfg.Server, report)
			if err != nil {
				return err
			}
			out.ProfileToken = p.Token
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if err := emit(); err != nil {
		return err
	}
	if !cfg.Watch {
		return nil
	}
	return loader.Watch(ctx, cfg.Manifest, func() {
		if err := emit(); err != nil {
			log.ErrorContext(ctx, "mcpreport: report failed", slog.String("err", err.Error()))
		}
	})
}

// collect issues one listing call per category through an observing
// decorator, as a client request would, and reports what those calls saw.
func collect(reg registry.Registry, pageSize int, log *slog.Logger) (*observe.Report, error) {
	obs := observe.Wrap(reg, observe.WithLogger(log))
	if _, err := obs.ListTools(pageSize, nil); err != nil {
		return nil, fmt.Errorf("list tools: %w", err)
	}
	if _, err := obs.ListPrompts(pageSize, nil); err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	if _, err := obs.ListResources(pageSize, nil); err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	if _, err := obs.ListResourceTemplates(pageSize, nil); err != nil {
		return nil, fmt.Errorf("list resource templates: %w", err)
	}
	report := observe.NewReport(obs)
	report.Compute()
	return report, nil
}

func openStorage(ctx context.Context, cfg Config) (storage.Storage, error) {
	if cfg.RedisAddr == "" {
		s, err := memory.New(256)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	s, err := redisstorage.New(redisstorage.Config{Client: client})
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return s, nil
}
