package verificationController

import (
	"log"
	"strconv"

	"renteo/database"
	"renteo/middleware"
	"renteo/models"
	"renteo/utils"
	"renteo/verification"

	"github.com/gofiber/fiber/v2"
)

// storeForRecordUser rebuilds a store around another user's record for the
// admin review actions.
func storeForRecordUser(userID uint, role string) (*verification.Store, error) {
	store := verification.NewStore(database.Database.Db)
	if _, err := store.Initialize(userID, role); err != nil {
		return nil, err
	}
	return store, nil
}

// ListPendingReviews returns submissions waiting in the review queue.
func ListPendingReviews(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var records []models.VerificationRecord
	var total int64

	db := database.Database.Db
	query := db.Model(&models.VerificationRecord{}).
		Where("overall_status = ? AND is_deleted = ?", string(verification.StatusPendingReview), false)

	query.Count(&total)
	if err := query.Order("submitted_at asc").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load review queue!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending reviews.", fiber.Map{
		"records": records,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetReviewDetail returns the full record and its documents for one user.
func GetReviewDetail(c *fiber.Ctx) error {
	targetID, err := strconv.Atoi(c.Params("userId"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	var rec models.VerificationRecord
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", targetID, false).First(&rec).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Verification record not found!", nil)
	}

	var docs []models.VerificationDocument
	database.Database.Db.Where("record_id = ? AND is_deleted = ?", rec.ID, false).Find(&docs)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification detail.", fiber.Map{
		"record":    rec,
		"documents": docs,
	})
}

// ApproveVerification completes a pending submission. This is the external
// transition the processing step polls for.
func ApproveVerification(c *fiber.Ctx) error {
	reviewerID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID, err := strconv.Atoi(c.Params("userId"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	store, err := storeForRecordUser(user.ID, user.Role)
	if err != nil {
		return respondStoreError(c, err)
	}

	if err := store.ApproveProcessing(reviewerID); err != nil {
		return respondStoreError(c, err)
	}

	// Unlock gated marketplace actions for the verified user
	user.IsIdentityVerified = true
	if err := database.Database.Db.Save(&user).Error; err != nil {
		log.Printf("Error flagging user %d as verified: %v", user.ID, err)
	}

	notifyUser(user.ID, "verification_completed", "Identity verified",
		"Your identity verification is complete. Gated actions are now unlocked.")
	if err := utils.SendVerificationCompletedEmail(user.Email, user.Name); err != nil {
		log.Printf("Error sending completion email: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification approved.", store.Record())
}

// RejectVerification sends a pending submission back with a reason.
func RejectVerification(c *fiber.Ctx) error {
	reviewerID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID, err := strconv.Atoi(c.Params("userId"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData := new(struct {
		Reason string `json:"reason"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}
	if reqData.Reason == "" {
		return middleware.ValidationErrorResponse(c, map[string]string{"reason": "A rejection reason is required!"})
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	store, err := storeForRecordUser(user.ID, user.Role)
	if err != nil {
		return respondStoreError(c, err)
	}

	if err := store.RejectProcessing(reviewerID, reqData.Reason); err != nil {
		return respondStoreError(c, err)
	}

	notifyUser(user.ID, "verification_rejected", "Verification needs attention", reqData.Reason)
	if err := utils.SendVerificationRejectedEmail(user.Email, user.Name, reqData.Reason); err != nil {
		log.Printf("Error sending rejection email: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification rejected.", store.Record())
}
