package utils

import (
	"log"
	"time"

	"renteo/database"
	"renteo/models"

	"github.com/robfig/cron/v3"
)

// InitializeReviewScheduler sets up the recurring verification housekeeping jobs
func InitializeReviewScheduler() {
	log.Println("[REVIEW-SCHEDULER] Initializing review scheduler...")

	c := cron.New()

	// Hourly: purge expired, unused OTP codes
	c.AddFunc("@hourly", func() {
		CleanupExpiredOTPs()
	})

	// Daily at 9 AM: remind ops about submissions stuck in review
	c.AddFunc("0 9 * * *", func() {
		log.Println("[REVIEW-SCHEDULER] Running daily pending-review check...")
		RemindPendingReviews()
	})

	c.Start()
	log.Println("[REVIEW-SCHEDULER] Review scheduler started")
}

// CleanupExpiredOTPs soft-deletes OTP rows whose validity window has passed
func CleanupExpiredOTPs() {
	db := database.Database.Db

	result := db.Model(&models.OTP{}).
		Where("expires_at < ? AND is_deleted = ?", time.Now(), false).
		Update("is_deleted", true)

	if result.Error != nil {
		log.Printf("[REVIEW-SCHEDULER] Error cleaning up OTPs: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[REVIEW-SCHEDULER] Cleaned up %d expired OTPs", result.RowsAffected)
	}
}

// RemindPendingReviews emails the ops inbox when submissions sit unreviewed for over a day
func RemindPendingReviews() {
	db := database.Database.Db
	cutoff := time.Now().Add(-24 * time.Hour)

	var pending int64
	err := db.Model(&models.VerificationRecord{}).
		Where("overall_status = ? AND submitted_at < ? AND is_deleted = ?", "pending_review", cutoff, false).
		Count(&pending).Error
	if err != nil {
		log.Printf("[REVIEW-SCHEDULER] Error counting pending reviews: %v", err)
		return
	}

	if pending == 0 {
		return
	}

	if err := SendPendingReviewReminder(pending); err != nil {
		log.Printf("[REVIEW-SCHEDULER] Error sending reminder email: %v", err)
		return
	}
	log.Printf("[REVIEW-SCHEDULER] Reminder sent for %d pending reviews", pending)
}
