package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/lnkday/page-engine/internal/analytics"
	"github.com/lnkday/page-engine/internal/config"
	"github.com/lnkday/page-engine/internal/seo"
	"github.com/lnkday/page-engine/internal/server"
	"github.com/lnkday/page-engine/internal/store"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the page-engine HTTP server.

The server provides:
  - Rendered pages at /p/<slug> (append ?variant=<id> to pin a variant)
  - Click beacon endpoint at /b
  - Experiment administration under /api/pages/<slug>
  - Health check endpoint

Redis caching and RabbitMQ/Kafka analytics activate when REDIS_URL,
RABBITMQ_URL or KAFKA_BROKERS are set; the server runs fine without them.

Example:
  page-engine serve --port 8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = dbPath
	}

	sqlite, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	var st store.Store = sqlite
	if cfg.RedisURL != "" {
		cached, err := store.NewCachedStore(sqlite, cfg.RedisURL, cfg.CacheTTL)
		if err != nil {
			log.Printf("Warning: %v. Continuing without cache.", err)
		} else {
			st = cached
		}
	}
	defer st.Close()

	recorder := analytics.NewPublisher(analytics.Config{
		RabbitMQURL:  cfg.RabbitMQURL,
		KafkaBrokers: cfg.KafkaBrokers,
	})
	defer recorder.Close()

	head := &seo.MetaProvider{SiteName: cfg.SiteName}

	srv := server.New(st, recorder, head, cfg.Port)
	return srv.Start()
}
