package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/statelessgames/tictactoe/api"
	"github.com/statelessgames/tictactoe/config"
	"github.com/statelessgames/tictactoe/game/service"
	"github.com/statelessgames/tictactoe/game/session"
	"github.com/statelessgames/tictactoe/transport/mcp"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Tic-Tac-Toe Backend"
)

// Configuration flags override the environment-derived config.
var (
	addr         = flag.String("addr", "", "HTTP listen address (overrides ADDR)")
	storeKind    = flag.String("store", "", "game store backend: memory, file, or redis (overrides STORE)")
	debug        = flag.Bool("debug", false, "Enable debug logging")
	version      = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", false, "Enable ngrok tunnel")
	ngrokAuth    = flag.String("ngrok-auth", "", "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain  = flag.String("ngrok-domain", "", "Custom ngrok domain (optional)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                         # Memory store on :8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -store redis            # Redis store from REDIS_URL\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -addr :9090 stdio-mcp   # MCP stdio server\n", os.Args[0])
	}
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	flag.Parse()

	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	applyFlagOverrides(cfg)

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	mode := "server"
	if args := flag.Args(); len(args) > 0 {
		mode = args[0]
	}

	logger.Info("starting",
		zap.String("app", AppName),
		zap.String("version", Version),
		zap.String("mode", mode),
		zap.String("store", cfg.Store))

	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal("failed to create game store", zap.Error(err))
	}
	defer store.Close()

	gameService := service.NewGameService(store, logger)

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		runStdioMCP(cfg, gameService, logger)
	case "server", "http":
		runHTTPServer(cfg, gameService, logger)
	default:
		logger.Fatal("unknown mode, use 'server' (default) or 'stdio-mcp'",
			zap.String("mode", mode))
	}
}

// applyFlagOverrides lets explicit flags win over environment values.
func applyFlagOverrides(cfg *config.Config) {
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *storeKind != "" {
		cfg.Store = *storeKind
	}
	if *debug {
		cfg.Debug = true
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newStore builds the configured store adapter.
func newStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return session.NewMemoryStore(), nil
	case config.StoreFile:
		return session.NewFileStore(cfg.GamesDir)
	case config.StoreRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return session.NewRedisStore(ctx, cfg.RedisURL, cfg.GameTTL)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store)
	}
}

// newRouter combines the REST API with the /mcp endpoint.
func newRouter(apiServer *api.Server, mcpClient *mcp.Client) *http.ServeMux {
	router := http.NewServeMux()
	router.Handle("/", apiServer)
	router.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})
	return router
}

// apiOptions derives server options from configuration.
func apiOptions(cfg *config.Config) []api.Option {
	var opts []api.Option
	if cfg.LegacyGameID != "" {
		opts = append(opts, api.WithLegacyGame(cfg.LegacyGameID))
	}
	return opts
}

// runHTTPServer starts the HTTP server with the REST API and /mcp endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a
// public tunnel.
func runHTTPServer(cfg *config.Config, gameService service.GameService, logger *zap.Logger) {
	apiServer := api.NewServer(gameService, logger, apiOptions(cfg)...)
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", listenHost(cfg.Addr)))
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("HTTP server listening",
			zap.String("addr", cfg.Addr),
			zap.String("api", fmt.Sprintf("http://%s/api", listenHost(cfg.Addr))),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", listenHost(cfg.Addr))))

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	ngrokShouldRun := *ngrokEnabled
	if !ngrokShouldRun {
		if envEnabled := os.Getenv("NGROK_ENABLED"); envEnabled == "true" || envEnabled == "1" {
			ngrokShouldRun = true
		}
	}

	if ngrokShouldRun {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, mainRouter, logger)
		}()
	}

	sig := <-stop
	logger.Info("shutting down", zap.String("signal", sig.String()))
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("server stopped")
}

// runNgrokTunnel serves the router through a public ngrok endpoint.
func runNgrokTunnel(ctx context.Context, handler http.Handler, logger *zap.Logger) {
	authToken := *ngrokAuth
	if authToken == "" {
		authToken = os.Getenv("NGROK_AUTHTOKEN")
	}
	if authToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	domain := *ngrokDomain
	if domain == "" {
		domain = os.Getenv("NGROK_DOMAIN")
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}
	defer tun.Close()

	logger.Info("ngrok tunnel established", zap.String("url", tun.URL()))

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed {
		logger.Error("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// runStdioMCP runs an MCP stdio server. It reuses an external API at the
// configured address when one is reachable; otherwise it starts a minimal
// internal HTTP API on a random loopback port and targets that.
func runStdioMCP(cfg *config.Config, gameService service.GameService, logger *zap.Logger) {
	externalURL := fmt.Sprintf("http://%s", listenHost(cfg.Addr))

	var baseURL string
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/healthz")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		logger.Info("using external API server for MCP", zap.String("url", externalURL))
		baseURL = externalURL
	} else {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			logger.Fatal("failed to get available port", zap.Error(err))
		}

		apiServer := api.NewServer(gameService, logger, apiOptions(cfg)...)
		httpServer := &http.Server{Handler: apiServer}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		logger.Info("started internal API server for MCP stdio", zap.String("url", baseURL))
	}

	mcpClient := mcp.NewClient(baseURL)
	if err := mcpserver.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		logger.Fatal("MCP stdio server error", zap.Error(err))
	}
}

// listenHost turns a listen address like ":8080" into a dialable host:port.
func listenHost(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	if host == "" || host == "::" || host == "0.0.0.0" {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
