package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skilloria/models"
	"skilloria/utils"

	"gorm.io/gorm"
)

// QueueEmail stores a notification for delivery. Call it inside the
// transaction that produced the notification.
func QueueEmail(db *gorm.DB, to, subject, html string) (*models.OutboundEmail, error) {
	email := models.OutboundEmail{Recipient: to, Subject: subject, HTML: html}
	if err := db.Create(&email).Error; err != nil {
		return nil, fmt.Errorf("queue email: %w", err)
	}
	return &email, nil
}

// EmailClaimLease is how long a claimed email is left to its sender before
// another instance may retry it. It must outlast a send.
var EmailClaimLease = 2 * time.Minute

// DeliverEmail claims the email, makes one delivery attempt and records its
// outcome. It returns ErrEmailClaimed without sending when the row was sent
// already, is held by another sender, or has moved on from email.Attempts.
// The send error is returned after the attempt has been recorded.
func DeliverEmail(ctx context.Context, db *gorm.DB, mailer utils.Mailer, email *models.OutboundEmail) error {
	if err := claimEmail(db, email, time.Now()); err != nil {
		return err
	}

	sendErr := mailer.Send(ctx, email.Recipient, email.Subject, email.HTML)

	fields := map[string]interface{}{"claimed_at": nil}
	if sendErr != nil {
		fields["last_error"] = sendErr.Error()
	} else {
		now := time.Now()
		fields["sent_at"] = now
		fields["last_error"] = ""
		email.SentAt = &now
	}
	email.ClaimedAt = nil
	if err := db.Model(&models.OutboundEmail{}).Where("id = ?", email.ID).Updates(fields).Error; err != nil {
		utils.Log.Errorw("record email attempt", "email_id", email.ID, "error", err)
	}
	return sendErr
}

// claimEmail takes the row for one attempt. Only one caller can move
// attempts past the value it read, so concurrent senders never both send.
func claimEmail(db *gorm.DB, email *models.OutboundEmail, now time.Time) error {
	res := db.Model(&models.OutboundEmail{}).
		Where("id = ? AND attempts = ? AND sent_at IS NULL", email.ID, email.Attempts).
		Where("(claimed_at IS NULL OR claimed_at < ?)", now.Add(-EmailClaimLease)).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"claimed_at": now,
		})
	if res.Error != nil {
		return fmt.Errorf("claim email: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrEmailClaimed
	}
	email.Attempts++
	email.ClaimedAt = &now
	return nil
}

// DeliverPending retries queued emails that have not been sent, still have
// attempts left and are not held by another sender. It returns how many were
// sent.
func DeliverPending(ctx context.Context, db *gorm.DB, mailer utils.Mailer, limit int) (int, error) {
	var pending []models.OutboundEmail
	if err := db.Where("sent_at IS NULL AND attempts < ?", models.MaxEmailAttempts).
		Where("(claimed_at IS NULL OR claimed_at < ?)", time.Now().Add(-EmailClaimLease)).
		Order("id asc").
		Limit(limit).
		Find(&pending).Error; err != nil {
		return 0, fmt.Errorf("load pending emails: %w", err)
	}

	sent := 0
	for i := range pending {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		err := DeliverEmail(ctx, db, mailer, &pending[i])
		if errors.Is(err, ErrEmailClaimed) {
			continue
		}
		if err != nil {
			utils.Log.Warnw("email retry failed", "email_id", pending[i].ID, "attempts", pending[i].Attempts, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}

// PurgeExpiredTokens deletes verification tokens that expired before now.
func PurgeExpiredTokens(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Unscoped().Where("expires_at < ?", now).Delete(&models.VerificationToken{})
	return res.RowsAffected, res.Error
}
