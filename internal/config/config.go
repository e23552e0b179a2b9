package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"dixit/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration.
type GameConfig struct {
	MinPlayers     int
	MaxPlayers     int
	CardsPerPlayer int
	WinningScore   int
	RoomCodeLength int
	CardsDir       string // directory card images are served from
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Default returns the configuration used when no flag or environment
// variable overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Env:  "development",
		},
		Game: GameConfig{
			MinPlayers:     3,
			MaxPlayers:     8,
			CardsPerPlayer: 6,
			WinningScore:   20,
			RoomCodeLength: 4,
			CardsDir:       "assets/cards",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Server.Port)
	}
	if c.Game.MinPlayers < 2 {
		return errors.New("min-players must be at least 2")
	}
	if c.Game.MaxPlayers < c.Game.MinPlayers {
		return errors.New("max-players must not be below min-players")
	}
	if c.Game.CardsPerPlayer < 1 {
		return errors.New("cards-per-player must be positive")
	}
	if c.Game.WinningScore < 1 {
		return errors.New("winning-score must be positive")
	}
	return nil
}

// Settings translates the game configuration into the engine's rule set.
func (c *Config) Settings() domain.Settings {
	s := domain.DefaultSettings()
	s.MinPlayers = c.Game.MinPlayers
	s.MaxPlayers = c.Game.MaxPlayers
	s.CardsPerPlayer = c.Game.CardsPerPlayer
	s.WinningScore = c.Game.WinningScore
	return s
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Addr returns the server address in host:port format.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
