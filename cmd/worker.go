package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/muhammadolammi/careermatchworker/internal/analysis"
	"github.com/muhammadolammi/careermatchworker/internal/database"
	"github.com/muhammadolammi/careermatchworker/internal/document"
	"github.com/muhammadolammi/careermatchworker/internal/logger"
	"github.com/muhammadolammi/careermatchworker/internal/storage"
	"github.com/muhammadolammi/careermatchworker/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume session messages and analyze their resumes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runWorker(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)

	workerCmd.Flags().IntP("workers", "w", 0, "number of concurrent consumers (default from WORKERS or 3)")
	viper.BindPFlag("workers", workerCmd.Flags().Lookup("workers"))
}

func runWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer log.Sync()

	cfg, err := getConfig()
	if err != nil {
		return err
	}
	if err := cfg.Worker.Validate(); err != nil {
		return err
	}

	careers, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.DBURL)
	if err != nil {
		return fmt.Errorf("error opening db: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("error connecting to db: %w", err)
	}

	bucket, err := storage.NewR2(ctx, cfg.R2())
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	defer conn.Close()

	publisher, err := worker.NewAMQPPublisher(conn, cfg.UpdatesExchange)
	if err != nil {
		return err
	}

	w := &worker.Worker{
		DB:        database.New(db),
		Files:     bucket,
		Analyzer:  analysis.New(careers, document.NewTextExtractor()),
		Publisher: publisher,
		Logger:    log,
	}

	log.Info("starting consumer pool",
		zap.String("version", version),
		zap.Int("workers", cfg.Workers),
		zap.String("queue", cfg.QueueName),
	)
	if err := w.Run(ctx, cfg.RabbitMQURL, cfg.QueueName, cfg.Workers); err != nil {
		return err
	}
	log.Info("consumer pool stopped")
	return nil
}
