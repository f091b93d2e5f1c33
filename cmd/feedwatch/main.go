// Command feedwatch polls a notification feed and logs its summary on every delivery.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"compliancedocs/internal/client"
	"compliancedocs/internal/config"
	"compliancedocs/internal/logger"
	"compliancedocs/internal/model"
)

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.Log)

	baseURL := flag.String("api", envOr("API_BASE_URL", "http://"+cfg.AppHost), "API base URL")
	subject := flag.String("subject", "", "subject id to watch")
	admin := flag.Bool("admin", false, "watch the admin review queue instead of a subject feed")
	interval := flag.Duration("interval", cfg.Compliance.PollInterval, "poll interval")
	flag.Parse()

	if !*admin && *subject == "" {
		log.Error("feedwatch_invalid_args", "error", "either -subject or -admin is required")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(*baseURL, client.WithToken(os.Getenv("API_TOKEN")))
	deliver := func(feed model.NotificationFeed) {
		log.Info("feed_delivered",
			"total", feed.Summary.TotalCount,
			"unread", feed.Summary.UnreadCount,
			"urgent", feed.Summary.HasUrgentNotifications,
			"action_required", feed.Summary.ActionRequiredCount,
			"stale", feed.Stale,
		)
	}
	opts := []client.PollerOption{
		client.WithInterval(*interval),
		client.WithPollerLogger(log),
		client.WithErrorHandler(func(err error) {
			log.Error("feed_unavailable", "error", err)
		}),
	}

	var p *client.Poller
	if *admin {
		p = c.AdminFeedPoller(deliver, opts...)
	} else {
		p = c.SubjectFeedPoller(*subject, deliver, opts...)
	}

	log.Info("feedwatch_start", "api", *baseURL, "subject", *subject, "admin", *admin, "interval", interval.String())
	p.Start(ctx)
	<-ctx.Done()
	p.Stop()
	log.Info("feedwatch_stop")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
