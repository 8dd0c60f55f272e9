package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/mattn/go-isatty"

	"persona_fetcher/internal/config"
	"persona_fetcher/internal/domain"
	"persona_fetcher/internal/persona"
	"persona_fetcher/internal/publisher"
	"persona_fetcher/internal/ratelimit"
	"persona_fetcher/internal/scheduler"
	"persona_fetcher/internal/service"
	"persona_fetcher/internal/source/reddit"
	"persona_fetcher/internal/storage/postgres"
	"persona_fetcher/internal/transcript"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	handleFlag := flag.String("handle", "", "Reddit profile URL or username; read from stdin when empty")
	format := flag.String("format", defaultFormat(), "output format: text or json")
	watch := flag.Bool("watch", false, "rerun schedule.handles every schedule.interval")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	if *format != formatText && *format != formatJSON {
		logger.Error("unknown output format", "format", *format)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	var (
		records   service.ActivityStore
		runs      service.PersonaRunStore
		txManager service.TransactionManager
		pub       service.Publisher
	)

	if cfg.Database.Enabled {
		db, err := sqlx.Connect("postgres", cfg.Database.DSN())
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		logger.Info("connected to database")

		records = postgres.NewActivityStore(db)
		runs = postgres.NewPersonaRunStore(db)
		txManager = postgres.NewTransactionManager(db)
	}

	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	redditSource := reddit.New(reddit.Config{
		ClientID:     cfg.Reddit.ClientID,
		ClientSecret: cfg.Reddit.ClientSecret,
		UserAgent:    cfg.Reddit.UserAgent,
		BaseURL:      cfg.Reddit.BaseURL,
		TokenURL:     cfg.Reddit.TokenURL,
		Timeout:      cfg.Reddit.Timeout,
	}, logger)

	fetcher := service.NewActivityFetcher(
		redditSource,
		ratelimit.NewLimiter(cfg.Fetch.MinInterval),
		cfg.Fetch.PageSize,
		logger,
	)

	personaService := service.NewPersonaService(
		fetcher,
		transcript.NewWriter(cfg.Output.Dir, redditSource.Name(), logger),
		records,
		runs,
		txManager,
		pub,
		logger,
		cfg.Fetch,
	)

	if *watch {
		if len(cfg.Schedule.Handles) == 0 {
			logger.Error("watch mode needs schedule.handles in the config")
			os.Exit(1)
		}

		handles := make([]string, 0, len(cfg.Schedule.Handles))
		for _, h := range cfg.Schedule.Handles {
			handle, err := service.ParseHandle(h)
			if err != nil {
				logger.Error("invalid handle in schedule", "input", h, "error", err)
				os.Exit(1)
			}
			handles = append(handles, handle)
		}

		logger.Info("starting persona watcher",
			"source", redditSource.Name(),
			"interval", cfg.Schedule.Interval,
			"handles", handles,
		)

		sched := scheduler.NewScheduler(personaService, handles, cfg.Schedule.Interval, logger)
		if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("scheduler error", "error", err)
			os.Exit(1)
		}
		return
	}

	input := *handleFlag
	if input == "" {
		input, err = promptHandle(os.Stdin, os.Stdout)
		if err != nil {
			logger.Error("failed to read profile URL", "error", err)
			os.Exit(1)
		}
	}

	handle, err := service.ParseHandle(input)
	if err != nil {
		logger.Error("invalid profile URL", "input", input, "error", err)
		os.Exit(1)
	}

	report, err := personaService.Run(ctx, handle)
	if service.IsNoActivity(err) {
		if report != nil && report.FetchErr != nil {
			logger.Error("failed to fetch activity", "handle", handle, "error", report.FetchErr)
		}
		fmt.Println("No public Reddit activity found.")
		return
	}
	if err != nil {
		logger.Error("persona run failed", "handle", handle, "error", err)
		os.Exit(1)
	}

	if err := printReport(os.Stdout, *format, report); err != nil {
		logger.Error("failed to print report", "error", err)
		os.Exit(1)
	}
}

// loadConfig falls back to defaults and environment variables when the
// config file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func defaultFormat() string {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return formatText
	}
	return formatJSON
}

// promptHandle reads one line from in. The prompt is only shown when in is
// an interactive terminal.
func promptHandle(in *os.File, out io.Writer) (string, error) {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		fmt.Fprint(out, "Enter Reddit profile URL: ")
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printReport(out io.Writer, format string, report *domain.Report) error {
	if format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintln(out, persona.Render(report.Handle, report.Summary, time.Local))
	fmt.Fprintf(out, "Raw data saved to: %s\n", report.TranscriptPath)
	return nil
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}
