// Package leads delivers captured leads to their landing page owner by
// email and to the configured spreadsheet.
package leads

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"learnly/config"
	"learnly/database"
	"learnly/logger"
	"learnly/models"
	"learnly/services/mailer"
	"learnly/services/sheets"

	"gorm.io/gorm"
)

const (
	deliveryTimeout = 30 * time.Second
	retryBatch      = 100
	maxErrorLen     = 500

	// staleClaim frees leads whose SYNCING claim outlived its delivery.
	staleClaim = 2 * deliveryTimeout
)

// Go starts background deliveries. Tests replace it to run inline.
var Go = func(fn func()) { go fn() }

type Deliverer struct {
	DB           *gorm.DB
	Mailer       mailer.Mailer
	Sheets       sheets.Appender
	DefaultRange string
}

// FromGlobals builds a Deliverer over the process-wide database and clients.
func FromGlobals() *Deliverer {
	return &Deliverer{
		DB:           database.Database.Db,
		Mailer:       mailer.Default,
		Sheets:       sheets.Default,
		DefaultRange: config.AppConfig.SheetsDefaultRange,
	}
}

// DeliverAsync runs Deliver in the background with its own timeout.
func (d *Deliverer) DeliverAsync(leadID uint) {
	Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()
		if err := d.Deliver(ctx, leadID); err != nil {
			logger.Log.Warn("lead delivery failed", "lead_id", leadID, "error", err)
		}
	})
}

// Deliver notifies the owner and syncs the lead to the sheet. Failures are
// recorded on the lead; only lookup errors are returned.
func (d *Deliverer) Deliver(ctx context.Context, leadID uint) error {
	db := d.DB.WithContext(ctx)

	var lead models.Lead
	if err := db.First(&lead, leadID).Error; err != nil {
		return err
	}
	var page models.LandingPage
	if err := db.First(&page, lead.LandingPageID).Error; err != nil {
		return err
	}

	if page.NotifyEmail && lead.NotifiedAt == nil {
		d.notify(ctx, &page, &lead)
	}
	if lead.SyncStatus != models.SyncSynced && lead.SyncStatus != models.SyncSkipped {
		d.sync(ctx, &page, &lead)
	}
	return nil
}

func (d *Deliverer) notify(ctx context.Context, page *models.LandingPage, lead *models.Lead) {
	to := page.NotifyAddress
	var owner models.User
	if err := d.DB.WithContext(ctx).First(&owner, page.UserID).Error; err != nil {
		logger.Log.Warn("lead owner lookup failed", "lead_id", lead.ID, "error", err)
		return
	}
	if to == "" {
		to = owner.Email
	}

	msg := mailer.LeadNotification(owner.Name, to, page.Title, Fields(lead))
	if err := d.Mailer.Send(ctx, msg); err != nil {
		if !errors.Is(err, mailer.ErrDisabled) {
			logger.Log.Warn("lead email failed", "lead_id", lead.ID, "error", err)
		}
		return
	}

	now := time.Now()
	lead.NotifiedAt = &now
	if err := d.DB.WithContext(ctx).Model(lead).Update("notified_at", now).Error; err != nil {
		logger.Log.Error("lead notified_at update failed", "lead_id", lead.ID, "error", err)
	}
}

func (d *Deliverer) sync(ctx context.Context, page *models.LandingPage, lead *models.Lead) {
	db := d.DB.WithContext(ctx)
	if !page.SheetSync || page.SpreadsheetID == "" {
		lead.SyncStatus = models.SyncSkipped
		if err := db.Model(lead).Update("sync_status", models.SyncSkipped).Error; err != nil {
			logger.Log.Error("lead sync status update failed", "lead_id", lead.ID, "error", err)
		}
		return
	}

	claimed, err := d.claim(ctx, lead.ID)
	if err != nil {
		logger.Log.Error("lead sync claim failed", "lead_id", lead.ID, "error", err)
		return
	}
	if !claimed {
		return
	}

	rng := page.SheetRange
	if rng == "" {
		rng = d.DefaultRange
	}

	if err := d.Sheets.AppendRow(ctx, page.SpreadsheetID, rng, Row(page, lead)); err != nil {
		lead.SyncAttempts++
		lead.SyncStatus = models.SyncFailed
		lead.SyncError = truncate(err.Error(), maxErrorLen)
		logger.Log.Warn("lead sheet sync failed", "lead_id", lead.ID, "attempt", lead.SyncAttempts, "error", err)
		if err := db.Model(lead).Updates(map[string]interface{}{
			"sync_status":   lead.SyncStatus,
			"sync_attempts": lead.SyncAttempts,
			"sync_error":    lead.SyncError,
		}).Error; err != nil {
			logger.Log.Error("lead sync failure update failed", "lead_id", lead.ID, "error", err)
		}
		return
	}

	now := time.Now()
	lead.SyncStatus = models.SyncSynced
	lead.SyncedAt = &now
	if err := db.Model(lead).Updates(map[string]interface{}{
		"sync_status": models.SyncSynced,
		"synced_at":   now,
		"sync_error":  "",
	}).Error; err != nil {
		logger.Log.Error("lead synced update failed", "lead_id", lead.ID, "error", err)
	}
}

// claim moves the lead to SYNCING. Only one delivery wins; a claim older
// than staleClaim can be taken over.
func (d *Deliverer) claim(ctx context.Context, leadID uint) (bool, error) {
	now := time.Now()
	res := d.DB.WithContext(ctx).Model(&models.Lead{}).
		Where("id = ? AND (sync_status IN ? OR (sync_status = ? AND updated_at < ?))",
			leadID, []string{models.SyncPending, models.SyncFailed}, models.SyncSyncing, now.Add(-staleClaim)).
		Updates(map[string]interface{}{"sync_status": models.SyncSyncing, "updated_at": now})
	return res.RowsAffected == 1, res.Error
}

// RetryPending redelivers leads still waiting for a sheet sync. Leads newer
// than olderThan are left to their own background delivery.
func (d *Deliverer) RetryPending(ctx context.Context, olderThan time.Time) (int, error) {
	var ids []uint
	err := d.DB.WithContext(ctx).Model(&models.Lead{}).
		Where("sync_status IN ? AND sync_attempts < ? AND created_at < ?",
			[]string{models.SyncPending, models.SyncFailed, models.SyncSyncing}, models.MaxSyncAttempts, olderThan).
		Order("id asc").
		Limit(retryBatch).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := d.Deliver(ctx, id); err != nil {
			logger.Log.Warn("lead retry failed", "lead_id", id, "error", err)
		}
	}
	return len(ids), nil
}

// Fields lists the lead's values in display order.
func Fields(lead *models.Lead) []mailer.LeadField {
	return []mailer.LeadField{
		{Label: "Name", Value: lead.Name},
		{Label: "Email", Value: lead.Email},
		{Label: "Phone", Value: lead.Phone},
		{Label: "Message", Value: lead.Message},
		{Label: "Extra", Value: extra(lead)},
	}
}

// Row is the spreadsheet row of a lead. Visitor input goes through Cell.
func Row(page *models.LandingPage, lead *models.Lead) []interface{} {
	return []interface{}{
		lead.CreatedAt.UTC().Format(time.RFC3339),
		page.Slug,
		Cell(lead.Name),
		Cell(lead.Email),
		Cell(lead.Phone),
		Cell(lead.Message),
		Cell(extra(lead)),
		lead.ID,
	}
}

// Cell quotes v so spreadsheet apps do not evaluate it as a formula.
func Cell(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func extra(lead *models.Lead) string {
	if len(lead.Extra) == 0 || string(lead.Extra) == "null" {
		return ""
	}
	return string(lead.Extra)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
