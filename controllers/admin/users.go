package adminController

import (
	"log"
	"strconv"
	"time"

	"renteo/database"
	"renteo/middleware"
	"renteo/models"
	"renteo/verification"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
)

// UserList returns users with optional role/status filters and search.
func UserList(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.User{}).Where("is_deleted = ?", false)

	if role := c.Query("role"); role != "" {
		db = db.Where("role = ?", role)
	}
	if c.Query("blocked") == "true" {
		db = db.Where("is_blocked = ?", true)
	}
	if c.Query("verified") == "true" {
		db = db.Where("is_identity_verified = ?", true)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		db = db.Where("name LIKE ? OR email LIKE ? OR mobile LIKE ?", like, like, like)
	}

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load users!", nil)
	}

	// Never expose password hashes
	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User list.", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetUser returns one user together with their verification overview.
func GetUser(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	user.Password = ""

	payload := fiber.Map{"user": user}

	var record models.VerificationRecord
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", user.ID, false).First(&record).Error; err == nil {
		var documents []models.VerificationDocument
		database.Database.Db.Where("record_id = ? AND is_deleted = ?", record.ID, false).Find(&documents)
		payload["verification"] = record
		payload["documents"] = documents
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User detail.", payload)
}

// BlockUser blocks or unblocks an account.
func BlockUser(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData := new(struct {
		Blocked bool   `json:"blocked"`
		Reason  string `json:"reason"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	user.IsBlocked = reqData.Blocked
	if !reqData.Blocked {
		user.FailedLoginAttempts = 0
		user.BlockedUntil = nil
	}

	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	message := "User unblocked."
	if reqData.Blocked {
		message = "User blocked."
	}
	log.Printf("Admin set blocked=%v for user %d (%s)", reqData.Blocked, user.ID, reqData.Reason)

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, nil)
}

// ChangeUserRole switches a user between RENTER and HOST.
func ChangeUserRole(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData := new(struct {
		Role string `json:"role"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}
	if reqData.Role != verification.RoleRenter && reqData.Role != verification.RoleHost {
		return middleware.ValidationErrorResponse(c, map[string]string{"role": "Role must be RENTER or HOST!"})
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	if user.Role == "ADMIN" {
		return middleware.JsonResponse(c, fiber.StatusPreconditionFailed, false, "Cannot change the role of an admin account!", nil)
	}

	// Hosts need extra documents, so a role change sends identity
	// verification back through the document step.
	if user.Role != reqData.Role && reqData.Role == verification.RoleHost && user.IsIdentityVerified {
		user.IsIdentityVerified = false
	}
	user.Role = reqData.Role

	if err := database.Database.Db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Role updated.", nil)
}

// PlatformStats returns headline counts for the admin dashboard.
func PlatformStats(c *fiber.Ctx) error {
	db := database.Database.Db
	monthStart := now.BeginningOfMonth()

	var totalUsers, hosts, renters, blocked int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", "HOST", false).Count(&hosts)
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", "RENTER", false).Count(&renters)
	db.Model(&models.User{}).Where("is_blocked = ? AND is_deleted = ?", true, false).Count(&blocked)

	var verified, pendingReview, newThisMonth int64
	db.Model(&models.User{}).Where("is_identity_verified = ? AND is_deleted = ?", true, false).Count(&verified)
	db.Model(&models.VerificationRecord{}).Where("overall_status = ? AND is_deleted = ?", "pending_review", false).Count(&pendingReview)
	db.Model(&models.User{}).Where("created_at >= ? AND is_deleted = ?", monthStart, false).Count(&newThisMonth)

	var openClaims int64
	db.Model(&models.InsuranceClaim{}).
		Where("status IN ? AND is_deleted = ?", []models.ClaimStatus{models.ClaimStatusSubmitted, models.ClaimStatusUnderReview}, false).
		Count(&openClaims)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Platform stats.", fiber.Map{
		"totalUsers":        totalUsers,
		"hosts":             hosts,
		"renters":           renters,
		"blockedUsers":      blocked,
		"verifiedUsers":     verified,
		"pendingReviews":    pendingReview,
		"newUsersThisMonth": newThisMonth,
		"openClaims":        openClaims,
	})
}

// GetMaintenance reports the maintenance flag.
func GetMaintenance(c *fiber.Ctx) error {
	var maintenance models.Maintenance
	if err := database.Database.Db.Order("id desc").First(&maintenance).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Maintenance status.", fiber.Map{"enabled": false})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Maintenance status.", maintenance)
}

// SetMaintenance toggles the maintenance flag.
func SetMaintenance(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		Enabled bool   `json:"enabled"`
		Message string `json:"message"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	maintenance := models.Maintenance{
		Enabled:   reqData.Enabled,
		Message:   reqData.Message,
		UpdatedBy: adminID,
		SetAt:     time.Now(),
	}
	if err := database.Database.Db.Create(&maintenance).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update maintenance flag!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Maintenance flag updated.", maintenance)
}
