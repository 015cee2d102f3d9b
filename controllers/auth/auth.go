package authController

import (
	"context"
	"errors"
	"time"

	"learnly/apperrors"
	"learnly/config"
	"learnly/database"
	"learnly/logger"
	"learnly/middleware"
	"learnly/models"
	"learnly/services/mailer"
	authValidator "learnly/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLogins = 3
	lockoutWindow   = 15 * time.Minute
)

func Signup(c *fiber.Ctx) error {
	req, ok := c.Locals(authValidator.KeySignup).(*authValidator.SignupRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())

	// Check if email already exists
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if count > 0 {
		return middleware.ErrorResponse(c, apperrors.Conflict("Email is already registered!"))
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	newUser := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     models.RoleUser,
		Password: string(hashedPassword),
	}
	if err := db.Create(&newUser).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return middleware.ErrorResponse(c, apperrors.Conflict("Email is already registered!"))
		}
		return middleware.ErrorResponse(c, err)
	}

	go func(name, email string) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := mailer.Default.Send(ctx, mailer.Welcome(name, email)); err != nil && !errors.Is(err, mailer.ErrDisabled) {
			logger.Log.Warn("welcome email failed", "email", email, "error", err)
		}
	}(newUser.Name, newUser.Email)

	logger.Log.Info("user signed up", "user_id", newUser.ID, "email", newUser.Email)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Signup successful.", newUser)
}

func Login(c *fiber.Ctx) error {
	req, ok := c.Locals(authValidator.KeyLogin).(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.WithContext(c.UserContext())

	var user models.User
	if err := models.Active(db).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if database.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
		}
		return middleware.ErrorResponse(c, err)
	}

	now := time.Now()

	// Check if the user is blocked
	if user.IsBlocked(now) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	if user.LastFailedLogin != nil && now.Sub(*user.LastFailedLogin) > lockoutWindow {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
	}

	// Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		user.FailedLoginAttempts++
		user.LastFailedLogin = &now

		// Block user after repeated failed attempts
		if user.FailedLoginAttempts >= maxFailedLogins {
			unblockTime := now.Add(lockoutWindow)
			user.BlockedUntil = &unblockTime
			logger.Log.Warn("user blocked after failed logins", "user_id", user.ID, "attempts", user.FailedLoginAttempts)
		}

		if err := saveLoginState(db, &user); err != nil {
			logger.Log.Error("saving failed login", "user_id", user.ID, "error", err)
		}
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	user.LastLogin = &now
	user.FailedLoginAttempts = 0
	user.LastFailedLogin = nil
	user.BlockedUntil = nil
	if err := saveLoginState(db, &user); err != nil {
		logger.Log.Error("saving last login time", "user_id", user.ID, "error", err)
	}

	ip := middleware.ClientIP(c)

	// Capture login tracking details
	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: now,
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		logger.Log.Error("saving login tracking", "user_id", user.ID, "error", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("user logged in", "user_id", user.ID, "ip", ip)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func saveLoginState(db *gorm.DB, user *models.User) error {
	return db.Model(user).Select("last_login", "failed_login_attempts", "last_failed_login", "blocked_until").
		Updates(user).Error
}

// Me returns the authenticated user
func Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", user)
}

// UpdateMe updates the caller's name and phone
func UpdateMe(c *fiber.Ctx) error {
	req, ok := c.Locals(authValidator.KeyProfile).(*authValidator.UpdateProfileRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	user, err := currentUser(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if err := database.Database.Db.WithContext(c.UserContext()).Model(user).
		Select("name", "phone").Updates(user).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}

// ChangePassword replaces the caller's password after checking the current one
func ChangePassword(c *fiber.Ctx) error {
	req, ok := c.Locals(authValidator.KeyChangePassword).(*authValidator.ChangePasswordRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}
	user, err := currentUser(c)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"current_password": "Current password is incorrect!"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	if err := database.Database.Db.WithContext(c.UserContext()).Model(user).Update("password", string(hashed)).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	logger.Log.Info("password changed", "user_id", user.ID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully!", nil)
}

// LoginHistoryList lists the caller's logins, newest first
func LoginHistoryList(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	paging := middleware.ResolvePaging(c)

	q := database.Database.Db.WithContext(c.UserContext()).Model(&models.LoginTracking{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}

	var history []models.LoginTracking
	if err := q.Order("timestamp desc").Offset(paging.Offset).Limit(paging.PerPage).Find(&history).Error; err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.PagedResponse(c, "Login History List.", history, total, paging)
}

func currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return nil, apperrors.NotFound("User not found!")
	}
	var user models.User
	err := models.Active(database.Database.Db.WithContext(c.UserContext())).First(&user, userID).Error
	if database.IsNotFound(err) {
		return nil, apperrors.NotFound("User not found!")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
