package claimController

import (
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"renteo/config"
	"renteo/database"
	"renteo/middleware"
	"renteo/models"
	"renteo/utils"
	claimValidator "renteo/validators/claim"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/datatypes"
)

// allowedTransitions maps a claim status to the statuses it may move to.
var allowedTransitions = map[models.ClaimStatus][]models.ClaimStatus{
	models.ClaimStatusSubmitted:   {models.ClaimStatusUnderReview, models.ClaimStatusRejected},
	models.ClaimStatusUnderReview: {models.ClaimStatusApproved, models.ClaimStatusRejected},
	models.ClaimStatusApproved:    {models.ClaimStatusSettled},
}

func canTransition(from, to models.ClaimStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// FileClaim creates a new insurance claim with optional photo uploads.
func FileClaim(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedClaim").(*claimValidator.ClaimRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	incidentDate, err := time.Parse("2006-01-02", reqData.IncidentDate)
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"incidentDate": "Incident date must be in YYYY-MM-DD format!"})
	}
	if incidentDate.After(time.Now()) {
		return middleware.ValidationErrorResponse(c, map[string]string{"incidentDate": "Incident date cannot be in the future!"})
	}

	// Save any attached photos
	var photoURLs []string
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, file := range form.File["photos"] {
			ext := strings.ToLower(filepath.Ext(file.Filename))
			if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
				return middleware.ValidationErrorResponse(c, map[string]string{"photos": "Photos must be JPG or PNG images!"})
			}
			savedPath, err := utils.SaveUploadedFile(file, filepath.Join(config.AppConfig.UploadDir, "claims"))
			if err != nil {
				log.Printf("Error saving claim photo: %v", err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store claim photo!", nil)
			}
			photoURLs = append(photoURLs, utils.GetFileURL(savedPath))
		}
	}

	photosJSON, _ := json.Marshal(photoURLs)

	claim := models.InsuranceClaim{
		UserID:       userId,
		ReferenceNo:  fmt.Sprintf("CLM-%s", strings.ToUpper(uuid.NewString()[:8])),
		BookingRef:   reqData.BookingRef,
		VehicleDesc:  reqData.VehicleDesc,
		IncidentDate: incidentDate,
		IncidentType: reqData.IncidentType,
		Description:  reqData.Description,
		Photos:       datatypes.JSON(photosJSON),
		ClaimAmount:  reqData.ClaimAmount,
		Status:       models.ClaimStatusSubmitted,
	}

	if err := database.Database.Db.Create(&claim).Error; err != nil {
		log.Printf("Error saving claim: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to file claim!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Claim filed successfully.", claim)
}

// MyClaims lists the caller's claims with pagination.
func MyClaims(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	var claims []models.InsuranceClaim
	var total int64

	db := database.Database.Db
	db.Model(&models.InsuranceClaim{}).Where("user_id = ? AND is_deleted = ?", userId, false).Count(&total)

	if err := db.Where("user_id = ? AND is_deleted = ?", userId, false).
		Order("created_at desc").
		Offset(offset).Limit(limit).
		Find(&claims).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load claims!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Claims list.", fiber.Map{
		"claims": claims,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetClaim returns one claim, owner or admin only.
func GetClaim(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("userRole").(string)

	claimID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid claim id!", nil)
	}

	var claim models.InsuranceClaim
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", claimID, false).First(&claim).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Claim not found!", nil)
	}

	if claim.UserID != userId && role != "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have access to this claim!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Claim detail.", claim)
}

// ListClaims is the admin claims dashboard: filter by status, paginate.
func ListClaims(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	status := c.Query("status")

	db := database.Database.Db
	query := db.Model(&models.InsuranceClaim{}).Where("is_deleted = ?", false)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var claims []models.InsuranceClaim
	var total int64

	query.Count(&total)
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&claims).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load claims!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Claims dashboard.", fiber.Map{
		"claims": claims,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// UpdateClaimStatus transitions a claim through its lifecycle.
func UpdateClaimStatus(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	claimID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid claim id!", nil)
	}

	reqData := new(struct {
		Status     string `json:"status"`
		AdminNotes string `json:"adminNotes"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var claim models.InsuranceClaim
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", claimID, false).First(&claim).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Claim not found!", nil)
	}

	newStatus := models.ClaimStatus(reqData.Status)
	if !canTransition(claim.Status, newStatus) {
		return middleware.JsonResponse(c, fiber.StatusPreconditionFailed, false,
			fmt.Sprintf("Cannot move claim from %s to %s!", claim.Status, newStatus), nil)
	}

	nowTime := time.Now()
	claim.Status = newStatus
	claim.AdminNotes = reqData.AdminNotes
	claim.ReviewedBy = &adminID
	claim.ReviewedAt = &nowTime
	if newStatus == models.ClaimStatusSettled {
		claim.SettledAt = &nowTime
	}

	if err := database.Database.Db.Save(&claim).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update claim!", nil)
	}

	// Notify the claimant
	var user models.User
	if err := database.Database.Db.First(&user, claim.UserID).Error; err == nil {
		notification := models.Notification{
			UserID: user.ID,
			Type:   "claim_status",
			Title:  "Claim " + claim.ReferenceNo + " updated",
			Body:   "Your claim status is now " + string(newStatus) + ".",
		}
		if err := database.Database.Db.Create(&notification).Error; err != nil {
			log.Printf("Error saving claim notification: %v", err)
		}
		if err := utils.SendClaimStatusEmail(user.Email, user.Name, claim.ReferenceNo, string(newStatus)); err != nil {
			log.Printf("Error sending claim status email: %v", err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Claim updated.", claim)
}

// ClaimStats summarizes the dashboard counters for the current month.
func ClaimStats(c *fiber.Ctx) error {
	db := database.Database.Db

	monthStart := now.BeginningOfMonth()

	var total, pending, monthly int64
	db.Model(&models.InsuranceClaim{}).Where("is_deleted = ?", false).Count(&total)
	db.Model(&models.InsuranceClaim{}).
		Where("status IN ? AND is_deleted = ?", []string{string(models.ClaimStatusSubmitted), string(models.ClaimStatusUnderReview)}, false).
		Count(&pending)
	db.Model(&models.InsuranceClaim{}).
		Where("created_at >= ? AND is_deleted = ?", monthStart, false).
		Count(&monthly)

	var settledAmount float64
	db.Model(&models.InsuranceClaim{}).
		Where("status = ? AND is_deleted = ?", string(models.ClaimStatusSettled), false).
		Select("COALESCE(SUM(claim_amount), 0)").
		Scan(&settledAmount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Claim stats.", fiber.Map{
		"total":         total,
		"pending":       pending,
		"thisMonth":     monthly,
		"settledAmount": settledAmount,
	})
}
