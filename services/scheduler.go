package services

import (
	"context"
	"time"

	"skilloria/utils"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler runs the email retry job on retrySpec and purges expired
// verification tokens daily. Stop the returned cron on shutdown.
func StartScheduler(db *gorm.DB, mailer utils.Mailer, retrySpec string) (*cron.Cron, error) {
	utils.Log.Info("[SCHEDULER] initializing")

	c := cron.New()

	if _, err := c.AddFunc(retrySpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		sent, err := DeliverPending(ctx, db, mailer, 50)
		if err != nil {
			utils.Log.Errorw("[SCHEDULER] email retry", "error", err)
			return
		}
		if sent > 0 {
			utils.Log.Infow("[SCHEDULER] delivered queued emails", "sent", sent)
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc("@daily", func() {
		purged, err := PurgeExpiredTokens(db, time.Now())
		if err != nil {
			utils.Log.Errorw("[SCHEDULER] purge tokens", "error", err)
			return
		}
		utils.Log.Infow("[SCHEDULER] purged expired verification tokens", "count", purged)
	}); err != nil {
		return nil, err
	}

	c.Start()
	utils.Log.Infow("[SCHEDULER] started", "email_retry", retrySpec)
	return c, nil
}
