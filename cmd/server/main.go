package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"dixit/internal/app"
	"dixit/internal/config"
	"dixit/internal/deck"
	"dixit/internal/store"
	httpTransport "dixit/internal/transport/http"
)

const releaseVersion = "0.1.0"

func main() {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	cfg := config.Default()
	cobra.CheckErr(newCmd(cfg).Execute())
}

func newCmd(cfg *config.Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DIXIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "dixit-server",
		Short:         "Real-time server for a Dixit-style card party game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Server.Host, "bind", "b", cfg.Server.Host, "address to bind to (env: DIXIT_BIND)")
	fs.IntVarP(&cfg.Server.Port, "port", "p", cfg.Server.Port, "port to listen on (env: DIXIT_PORT)")
	fs.StringVar(&cfg.Server.Env, "env", cfg.Server.Env, "environment: development or production (env: DIXIT_ENV)")
	fs.IntVar(&cfg.Game.MinPlayers, "min-players", cfg.Game.MinPlayers, "minimum players per room (env: DIXIT_MIN_PLAYERS)")
	fs.IntVar(&cfg.Game.MaxPlayers, "max-players", cfg.Game.MaxPlayers, "maximum players per room (env: DIXIT_MAX_PLAYERS)")
	fs.IntVar(&cfg.Game.CardsPerPlayer, "cards-per-player", cfg.Game.CardsPerPlayer, "cards dealt per player (env: DIXIT_CARDS_PER_PLAYER)")
	fs.IntVar(&cfg.Game.WinningScore, "winning-score", cfg.Game.WinningScore, "score that ends the game (env: DIXIT_WINNING_SCORE)")
	fs.IntVar(&cfg.Game.RoomCodeLength, "room-code-length", cfg.Game.RoomCodeLength, "length of generated room codes (env: DIXIT_ROOM_CODE_LENGTH)")
	fs.StringVar(&cfg.Game.CardsDir, "cards-dir", cfg.Game.CardsDir, "directory card images are served from (env: DIXIT_CARDS_DIR)")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "log level: debug, info, warn, error (env: DIXIT_LOG_LEVEL)")
	fs.StringVar(&cfg.Logging.Format, "log-format", cfg.Logging.Format, "log format: text or json (env: DIXIT_LOG_FORMAT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("dixit-server v{{.Version}}\n")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting dixit server",
		"version", releaseVersion,
		"env", cfg.Server.Env,
		"addr", cfg.Addr(),
	)

	rooms := store.NewMemoryRooms()
	players := store.NewMemoryPlayers()
	conns := store.NewConnections()
	provider := deck.NewStaticProvider()

	hub := app.NewHub(rooms, players, conns, provider, cfg.Settings(), cfg.Game.RoomCodeLength, logger)
	defer hub.Close()

	server := httpTransport.NewServer(cfg, hub, logger)

	errs := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errs:
		return err
	case <-quit:
	case <-ctx.Done():
	}

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Logging.Level)}

	if cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
