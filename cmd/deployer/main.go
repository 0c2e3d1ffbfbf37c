package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"secretharness/internal/cache"
	"secretharness/internal/config"
	"secretharness/internal/daemon"
	"secretharness/internal/harness"
	"secretharness/internal/retry"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	fmt.Println("🚀 Starting contract deployer...")

	// 1. Parse flags
	var (
		contractPath = flag.String("contract", "", "Path to the contract wasm file (required)")
		sender       = flag.String("sender", "a", "Key name that signs the transactions")
		label        = flag.String("label", "", "Contract label (default contract-<uuid>)")
		initMsg      = flag.String("init", "{}", "Instantiate message as a JSON string")
		cacheName    = flag.String("name", "", "Cache name for the deployment (empty disables caching)")
		storeGas     = flag.String("store-gas", "", "Gas for the store tx")
		initGas      = flag.String("init-gas", "", "Gas for the instantiate tx")
		backend      = flag.String("backend", "", "Keyring backend")
	)
	flag.Parse()

	if *contractPath == "" {
		log.Fatal("❌ -contract is required")
	}
	if *label == "" {
		*label = "contract-" + uuid.NewString()
	}

	// 2. Load configuration
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// 3. Configure logger
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("Configuration loaded",
		"daemon", cfg.DaemonBinary,
		"cache_dir", cfg.CacheDir,
		"log_level", cfg.LogLevel,
	)

	// 4. Optionally expose prometheus metrics
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			slog.Info("Metrics endpoint listening", "addr", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				slog.Error("Metrics endpoint failed", "error", err)
			}
		}()
	}

	// 5. Wire the harness
	strategy := retry.NewStrategy(retry.LoadConfig())
	runner := daemon.NewCLIRunner(cfg.DaemonBinary, strategy)
	client := harness.NewClient(runner, cache.NewStore(cfg.CacheDir))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 6. Deploy
	var initDoc json.RawMessage
	if err := json.Unmarshal([]byte(*initMsg), &initDoc); err != nil {
		log.Fatalf("❌ -init is not valid JSON: %v", err)
	}

	contract, err := client.InstantiateResolve(ctx, initDoc, *contractPath, *label, *sender, harness.ResolveOpts{
		StoreGas:  *storeGas,
		InitGas:   *initGas,
		Backend:   *backend,
		CacheName: *cacheName,
	})
	if err != nil {
		log.Fatalf("❌ Deployment failed: %v", err)
	}

	if !contract.Resolved() {
		slog.Warn("Deployment is only partially resolved",
			"id", contract.ID,
			"address", contract.Address,
			"code_hash", contract.CodeHash,
		)
	}

	out, err := json.MarshalIndent(contract, "", "  ")
	if err != nil {
		log.Fatalf("❌ Failed to render contract: %v", err)
	}
	fmt.Println(string(out))
}
