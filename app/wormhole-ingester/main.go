package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/ardanlabs/conf/v3"
	"github.com/bridgescan/wormhole-ingester/business/domain/transfer"
	"github.com/bridgescan/wormhole-ingester/external/kafka"
	"github.com/bridgescan/wormhole-ingester/external/postgres"
	"github.com/bridgescan/wormhole-ingester/external/wormholescan"
	"github.com/bridgescan/wormhole-ingester/infrastructure/api"
	"github.com/bridgescan/wormhole-ingester/infrastructure/metrics"
	"github.com/bridgescan/wormhole-ingester/infrastructure/store/file"
	"github.com/bridgescan/wormhole-ingester/infrastructure/store/pebbledb"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const envPrefix = "WORMHOLE_INGESTER"

type checkpointStore interface {
	GetLastProcessedDate() (time.Time, error)
	SetLastProcessedDate(date time.Time) error
	Close() error
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("main: exited with error: %s", err.Error())
	}
}

func run() error {
	log.SetOutput(os.Stdout)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env file: %w", err)
	}

	config := zap.NewProductionConfig()
	// this is just for sugar, to display a readable date instead of an epoch time
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()
	sLogger := logger.Sugar()

	var cfg struct {
		DB struct {
			Name     string        `conf:"default:wormhole"`
			User     string        `conf:"default:postgres"`
			Password string        `conf:"mask"`
			Host     string        `conf:"default:localhost"`
			Port     int           `conf:"default:5432"`
			SSLMode  string        `conf:"default:disable"`
			Timeout  time.Duration `conf:"default:30s"`
		}
		Source struct {
			BaseURL   string        `conf:"default:https://api.wormholescan.io"`
			PageSize  int           `conf:"default:50"`
			Timeout   time.Duration `conf:"default:30s"`
			PageDelay time.Duration `conf:"default:500ms"`
			DayDelay  time.Duration `conf:"default:1s"`
		}
		Broker struct {
			BootstrapServers []string `conf:"optional"`
			ProduceTopic     string   `conf:"default:wormhole-transfers"`
		}
		Sync struct {
			BridgeName                string `conf:"default:https://wormholescan.io/"`
			StartDate                 string `conf:"default:2022-03-01"`
			OverrideLastProcessedDate string `conf:"optional"`
			CheckpointBackend         string `conf:"default:file"`
			CheckpointFile            string `conf:"default:data/last_processed_date.txt"`
			InternalStoreFolder       string `conf:"default:store"`
			ServerPort                int    `conf:"default:8000"`
			MetricsPort               int    `conf:"default:9999"`
			MetricsNamespace          string `conf:"default:wormhole_ingester"`
		}
	}

	help, err := conf.Parse(envPrefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	startDate, err := time.Parse(time.DateOnly, cfg.Sync.StartDate)
	if err != nil {
		return fmt.Errorf("parsing start date: %w", err)
	}

	store, err := newCheckpointStore(cfg.Sync.CheckpointBackend, cfg.Sync.CheckpointFile, cfg.Sync.InternalStoreFolder)
	if err != nil {
		return fmt.Errorf("creating checkpoint store: %w", err)
	}
	defer store.Close()

	if cfg.Sync.OverrideLastProcessedDate != "" {
		overrideDate, err := time.Parse(time.DateOnly, cfg.Sync.OverrideLastProcessedDate)
		if err != nil {
			return fmt.Errorf("parsing override date: %w", err)
		}
		sLogger.Infow("Overriding last processed date", "date", cfg.Sync.OverrideLastProcessedDate)
		if err = store.SetLastProcessedDate(overrideDate); err != nil {
			return fmt.Errorf("setting last processed date: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, postgres.Config{
		Name:     cfg.DB.Name,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		SSLMode:  cfg.DB.SSLMode,
		Timeout:  cfg.DB.Timeout,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	sink := postgres.NewStore(db)
	defer sink.Close()

	sourceClient, err := wormholescan.NewClient(cfg.Source.BaseURL, cfg.Source.PageSize, cfg.Source.Timeout)
	if err != nil {
		return fmt.Errorf("creating source client: %w", err)
	}

	var publisher transfer.Publisher
	if len(cfg.Broker.BootstrapServers) > 0 {
		m := kprom.NewMetrics(cfg.Sync.MetricsNamespace,
			kprom.Registerer(prometheus.DefaultRegisterer),
			kprom.Gatherer(prometheus.DefaultGatherer))
		kcl, err := kgo.NewClient(
			kgo.WithHooks(m),
			kgo.SeedBrokers(cfg.Broker.BootstrapServers...),
			kgo.DefaultProduceTopic(cfg.Broker.ProduceTopic),
			kgo.ProducerBatchCompression(kgo.ZstdCompression()),
		)
		if err != nil {
			return fmt.Errorf("creating kafka client: %w", err)
		}
		defer kcl.Close()
		publisher = kafka.NewClient(kcl)
	}

	procMetrics := metrics.NewProcessingMetrics(cfg.Sync.MetricsNamespace, prometheus.DefaultRegisterer)

	processor := transfer.NewProcessor(sourceClient, sink, publisher, store, transfer.Settings{
		BridgeName: cfg.Sync.BridgeName,
		StartDate:  startDate,
		PageDelay:  cfg.Source.PageDelay,
		DayDelay:   cfg.Source.DayDelay,
	}, sLogger, procMetrics)

	// status and metrics endpoint
	apiError := make(chan error, 1)
	go func() {
		mux := http.NewServeMux()
		handler := api.NewHandler(store, sLogger)
		mux.HandleFunc("/health", handler.GetHealth)
		mux.HandleFunc("/v1/status", handler.GetStatus)
		log.Printf("main: Starting server on port [%d].", cfg.Sync.ServerPort)
		apiError <- http.ListenAndServe(fmt.Sprintf(":%d", cfg.Sync.ServerPort), mux)
	}()

	metricsError := make(chan error, 1)
	go func() {
		log.Printf("main: Starting metrics server on port [%d].", cfg.Sync.MetricsPort)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsError <- http.ListenAndServe(fmt.Sprintf(":%d", cfg.Sync.MetricsPort), mux)
	}()

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	type runOutcome struct {
		result transfer.RunResult
		err    error
	}
	runDone := make(chan runOutcome, 1)
	go func() {
		result, err := processor.Run(runCtx)
		runDone <- runOutcome{result: result, err: err}
	}()

	var outcome runOutcome
	var serverErr error
	select {
	case outcome = <-runDone:
	case err := <-apiError:
		serverErr = fmt.Errorf("api server: %w", err)
	case err := <-metricsError:
		serverErr = fmt.Errorf("metrics server: %w", err)
	}
	if serverErr != nil {
		cancelRun()
		outcome = <-runDone
	}

	result := outcome.result
	sLogger.Infow("Run finished", "state", result.State, "valueTransfers", result.ValueTransfers,
		"transportTransfers", result.TransportTransfers, "daysProcessed", result.DaysProcessed,
		"lastProcessedDate", formatDate(result.LastProcessedDate))

	if serverErr != nil {
		return serverErr
	}
	if result.State == transfer.StateInterrupted {
		sLogger.Infow("Received shutdown signal, stopped processing")
		return nil
	}
	if outcome.err != nil {
		return fmt.Errorf("running processor: %w", outcome.err)
	}

	return nil
}

func newCheckpointStore(backend, filePath, storeFolder string) (checkpointStore, error) {
	switch backend {
	case "file":
		return file.NewProcessorStore(filePath)
	case "pebble":
		return pebbledb.NewProcessorStore(storeFolder)
	default:
		return nil, fmt.Errorf("unknown checkpoint backend [%s]", backend)
	}
}

func formatDate(date time.Time) string {
	if date.IsZero() {
		return "none"
	}
	return date.Format(time.DateOnly)
}
