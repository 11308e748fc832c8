// Package api serves random and cited verses over HTTP and pushes a
// random-verse feed to websocket clients.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/FocuswithJustin/randverse/core/asset"
	"github.com/FocuswithJustin/randverse/core/bible"
	"github.com/FocuswithJustin/randverse/core/errors"
	"github.com/FocuswithJustin/randverse/internal/cache"
	"github.com/FocuswithJustin/randverse/internal/loader"
	"github.com/FocuswithJustin/randverse/internal/logging"
)

// Server holds the shared state behind the HTTP handlers. The corpus it
// serves is read-only once loaded and is replaced wholesale on reload.
type Server struct {
	cfg      Config
	load     loader.Func
	corpora  *cache.TTLCache[string, *loader.Loaded]
	selector *bible.Selector
	hub      *Hub
	limiter  *RateLimiter
	started  time.Time
}

// NewServer creates a Server. A nil selector draws from a random seed.
func NewServer(cfg Config, selector *bible.Selector) *Server {
	if selector == nil {
		selector = bible.NewSelector(nil)
	}
	s := &Server{
		cfg:      cfg,
		load:     cfg.loadFunc(),
		corpora:  cache.New[string, *loader.Loaded](cfg.CacheTTL),
		selector: selector,
		hub:      NewHub(),
		started:  time.Now(),
	}
	if cfg.RateLimitRequests > 0 {
		burst := cfg.RateLimitBurst
		if burst == 0 {
			burst = 10
		}
		s.limiter = NewRateLimiter(RateLimiterConfig{
			RequestsPerMinute: cfg.RateLimitRequests,
			BurstSize:         burst,
		})
	}
	return s
}

// Start listens on cfg.Addr() and serves until ctx is canceled.
func Start(ctx context.Context, cfg Config, selector *bible.Selector) error {
	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return errors.NewIO("listen", cfg.Addr(), err)
	}
	return NewServer(cfg, selector).Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully. The corpus is loaded before the first request so a broken
// source fails startup.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loaded, err := s.corpus(ctx)
	if err != nil {
		ln.Close()
		return err
	}

	go s.hub.Run(ctx)
	go s.feed(ctx)
	if s.limiter != nil {
		go s.limiter.cleanup(ctx)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logging.ServerStartup("rest_api", ln.Addr().String(),
		"corpus", loaded.Source,
		"fingerprint", loaded.Fingerprint,
		"cache_ttl", s.cfg.CacheTTL.String(),
		"feed_interval", s.cfg.FeedInterval.String(),
		"rate_limit", s.cfg.RateLimitRequests)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), timeout)
	defer stop()
	logging.Info("shutting down", "addr", ln.Addr().String())
	return srv.Shutdown(shutdownCtx)
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.routes()
	if s.limiter != nil {
		handler = s.limiter.Middleware(handler)
	}
	return logging.CombinedMiddleware(handler)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/v1/verses/random", s.handleRandomVerse)
	mux.HandleFunc("GET /api/v1/verses/{ref}", s.handleVerseByRef)
	mux.HandleFunc("GET /api/v1/books", s.handleBooks)
	mux.HandleFunc("GET /api/v1/stats", s.handleStats)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
	})

	return mux
}

// corpus returns the cached corpus, reloading it once the TTL has passed.
func (s *Server) corpus(ctx context.Context) (*loader.Loaded, error) {
	key := asset.Describe(s.cfg.Corpus.Source)
	previous, hadPrevious := s.corpora.Stale(key)

	loaded, err := s.corpora.GetOrLoad(key, func() (*loader.Loaded, error) {
		return s.load(ctx)
	})
	if err != nil {
		if hadPrevious {
			logging.Warn("corpus reload failed, serving previous copy", "source", key, "error", err)
			return previous, nil
		}
		return nil, err
	}

	if hadPrevious && previous != loaded && previous.Fingerprint != loaded.Fingerprint {
		logging.Info("corpus changed", "source", key,
			"old_fingerprint", previous.Fingerprint,
			"new_fingerprint", loaded.Fingerprint)
	}
	return loaded, nil
}

// feed broadcasts a random verse every FeedInterval until ctx is done.
func (s *Server) feed(ctx context.Context) {
	if s.cfg.FeedInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.FeedInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.hub.ClientCount() == 0 {
				continue
			}
			msg, err := s.randomMessage(ctx)
			if err != nil {
				logging.Error("verse feed pick failed", "error", err)
				continue
			}
			s.hub.Broadcast(msg)
		}
	}
}
