package utils

import (
	"context"
	"time"

	"learnly/config"
	"learnly/database"
	"learnly/logger"
	"learnly/services/leads"
	"learnly/services/payments"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 5 * time.Minute

// InitializeScheduler registers the background jobs and starts the cron runner.
func InitializeScheduler() (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)))

	// Every 10 minutes: redeliver leads whose sheet sync is pending or failed
	if _, err := c.AddFunc("*/10 * * * *", RetryLeadDeliveries); err != nil {
		return nil, err
	}

	// Every hour: expire checkouts that were never paid
	if _, err := c.AddFunc("0 * * * *", ExpirePendingPayments); err != nil {
		return nil, err
	}

	c.Start()
	logger.Log.Info("scheduler started", "jobs", len(c.Entries()))
	return c, nil
}

// RetryLeadDeliveries retries leads created more than a minute ago.
func RetryLeadDeliveries() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := leads.FromGlobals().RetryPending(ctx, time.Now().Add(-time.Minute))
	if err != nil {
		logger.Log.Error("lead retry job failed", "error", err)
		return
	}
	if n > 0 {
		logger.Log.Info("lead retry job finished", "leads", n)
	}
}

// ExpirePendingPayments marks stale PENDING payments as EXPIRED.
func ExpirePendingPayments() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	ttl := time.Duration(config.AppConfig.PaymentPendingTTLHours) * time.Hour
	n, err := payments.ExpireStale(ctx, database.Database.Db, time.Now().Add(-ttl))
	if err != nil {
		logger.Log.Error("payment expiry job failed", "error", err)
		return
	}
	if n > 0 {
		logger.Log.Info("expired pending payments", "count", n)
	}
}
