package walletController

import (
	"log"
	"strconv"
	"time"

	"renteo/database"
	"renteo/middleware"
	"renteo/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetWalletBalance returns the caller's deposit balance
func GetWalletBalance(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Access Denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet balance.", fiber.Map{
		"balance": user.DepositBalance,
	})
}

// recordTransaction writes a wallet movement and the new balance atomically
func recordTransaction(db *gorm.DB, user *models.User, txType models.TransactionType, amount float64, bookingRef, description string, adminID uint, reason string) (*models.WalletTransaction, error) {
	balanceBefore := user.DepositBalance
	var balanceAfter float64

	switch txType {
	case models.TransactionTypeDeposit, models.TransactionTypeRelease, models.TransactionTypeRefund, models.TransactionTypeAdminCredit:
		balanceAfter = balanceBefore + amount
	default:
		balanceAfter = balanceBefore - amount
	}

	transaction := models.WalletTransaction{
		UserID:          user.ID,
		TransactionType: txType,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		Status:          models.TransactionStatusCompleted,
		Description:     description,
		BookingRef:      bookingRef,
		AdminID:         adminID,
		Reason:          reason,
		TransactionDate: time.Now(),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}
		user.DepositBalance = balanceAfter
		return tx.Save(user).Error
	})
	if err != nil {
		return nil, err
	}

	return &transaction, nil
}

// DepositToWallet credits the caller's deposit balance
func DepositToWallet(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedWallet").(*struct {
		Amount     float64 `json:"amount"`
		BookingRef string  `json:"bookingRef"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Access Denied!", nil)
	}

	transaction, err := recordTransaction(database.Database.Db, &user, models.TransactionTypeDeposit,
		reqData.Amount, reqData.BookingRef, "Security deposit top-up", 0, "")
	if err != nil {
		log.Printf("Error recording deposit: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record deposit!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit recorded.", transaction)
}

// HoldDeposit places a booking hold against the caller's balance
func HoldDeposit(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedWallet").(*struct {
		Amount     float64 `json:"amount"`
		BookingRef string  `json:"bookingRef"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Access Denied!", nil)
	}

	if user.DepositBalance < reqData.Amount {
		return middleware.JsonResponse(c, fiber.StatusPreconditionFailed, false, "Insufficient deposit balance!", nil)
	}

	transaction, err := recordTransaction(database.Database.Db, &user, models.TransactionTypeHold,
		reqData.Amount, reqData.BookingRef, "Deposit hold for booking", 0, "")
	if err != nil {
		log.Printf("Error recording hold: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to place hold!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit held.", transaction)
}

// GetWalletHistory lists the caller's wallet transactions
func GetWalletHistory(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var transactions []models.WalletTransaction
	var total int64

	db := database.Database.Db
	db.Model(&models.WalletTransaction{}).Where("user_id = ? AND is_deleted = ?", userId, false).Count(&total)

	if err := db.Where("user_id = ? AND is_deleted = ?", userId, false).
		Order("transaction_date desc").
		Offset(offset).Limit(limit).
		Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load wallet history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet history.", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ReleaseDeposit releases a booking hold back to the user (admin)
func ReleaseDeposit(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		UserID     uint    `json:"userId"`
		Amount     float64 `json:"amount"`
		BookingRef string  `json:"bookingRef"`
		Reason     string  `json:"reason"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}
	if reqData.Amount <= 0 {
		return middleware.ValidationErrorResponse(c, map[string]string{"amount": "Amount must be greater than 0!"})
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	transaction, err := recordTransaction(database.Database.Db, &user, models.TransactionTypeRelease,
		reqData.Amount, reqData.BookingRef, "Deposit hold released", adminID, reqData.Reason)
	if err != nil {
		log.Printf("Error recording release: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to release deposit!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit released.", transaction)
}

// AdminAdjustBalance credits or debits a user's balance manually (admin)
func AdminAdjustBalance(c *fiber.Ctx) error {
	adminID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		UserID uint    `json:"userId"`
		Amount float64 `json:"amount"`
		Credit bool    `json:"credit"`
		Reason string  `json:"reason"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}
	if reqData.Amount <= 0 {
		return middleware.ValidationErrorResponse(c, map[string]string{"amount": "Amount must be greater than 0!"})
	}
	if reqData.Reason == "" {
		return middleware.ValidationErrorResponse(c, map[string]string{"reason": "A reason is required for manual adjustments!"})
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.UserID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	txType := models.TransactionTypeAdminDebit
	if reqData.Credit {
		txType = models.TransactionTypeAdminCredit
	}
	if !reqData.Credit && user.DepositBalance < reqData.Amount {
		return middleware.JsonResponse(c, fiber.StatusPreconditionFailed, false, "Insufficient balance to debit!", nil)
	}

	transaction, err := recordTransaction(database.Database.Db, &user, txType,
		reqData.Amount, "", "Manual balance adjustment", adminID, reqData.Reason)
	if err != nil {
		log.Printf("Error recording adjustment: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to adjust balance!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Balance adjusted.", transaction)
}
