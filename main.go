package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ekaya-inc/honeycomb-mcp/pkg/analysis"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/cache"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/config"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/honeycomb"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/logging"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/mcp"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/mcp/tools"
	"github.com/ekaya-inc/honeycomb-mcp/pkg/middleware"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Best effort; a missing .env file is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// On the stdio transport stdout belongs to the MCP protocol, so logs
	// must stay on stderr.
	logger, err := logging.New(cfg.Env, cfg.LogLevel, cfg.Transport == config.TransportStdio)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	client := honeycomb.NewClient(cfg.Honeycomb, logger)
	analyzer := analysis.NewAnalyzer(client, logger)

	var metadataCache *cache.Cache
	if !cfg.Cache.Disabled {
		metadataCache = cache.New(time.Duration(cfg.Cache.TTLSeconds) * time.Second)
	}

	srv := mcp.NewServer("honeycomb-mcp", cfg.Version, logger)
	tools.RegisterAll(srv.MCP(), &tools.Deps{
		API:      client,
		Analyzer: analyzer,
		Cache:    metadataCache,
		Logger:   logger,
	})

	logger.Info("starting honeycomb-mcp",
		zap.String("version", cfg.Version),
		zap.String("transport", cfg.Transport),
		zap.Strings("environments", client.Environments()),
	)

	switch cfg.Transport {
	case config.TransportHTTP:
		serveHTTP(cfg, srv, logger)
	default:
		if err := srv.ServeStdio(); err != nil {
			logger.Fatal("stdio server failed", zap.Error(err))
		}
	}
}

// serveHTTP runs the streamable HTTP transport with request logging and a
// health endpoint.
func serveHTTP(cfg *config.Config, srv *mcp.Server, logger *zap.Logger) {
	mux := http.NewServeMux()

	httpServer := srv.NewStreamableHTTPServer()
	mux.Handle("/mcp", middleware.MCPRequestLogger(logger)(httpServer))

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"` + cfg.Version + `"}`))
	})

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}
