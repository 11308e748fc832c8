package api

import (
	"fmt"
	"time"

	"github.com/FocuswithJustin/randverse/internal/loader"
)

// Config holds server configuration.
type Config struct {
	Host              string
	Port              int
	Version           string
	Corpus            loader.Options // Corpus to serve
	Loader            loader.Func    // Overrides Corpus when set
	CacheTTL          time.Duration  // How long a loaded corpus is served before reloading (0 = forever)
	FeedInterval      time.Duration  // Websocket verse feed period (0 = disabled)
	RateLimitRequests int            // Requests per minute (0 = disabled)
	RateLimitBurst    int            // Burst size
	AllowedOrigins    []string       // Websocket origins (empty = allow all)
	ShutdownTimeout   time.Duration
}

// DefaultConfig returns the settings used by `verse serve`.
func DefaultConfig() Config {
	return Config{
		Port:            8080,
		Version:         "dev",
		CacheTTL:        5 * time.Minute,
		FeedInterval:    30 * time.Second,
		RateLimitBurst:  10,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c Config) loadFunc() loader.Func {
	if c.Loader != nil {
		return c.Loader
	}
	return loader.FuncFor(c.Corpus)
}
