package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/fnd-app/fnd-api/initializers"
	"github.com/fnd-app/fnd-api/middlewares"
	"github.com/fnd-app/fnd-api/models"
	"github.com/fnd-app/fnd-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	msgUserAlreadyExists     = "User with this email already exists"
	msgInvalidCredentials    = "Invalid credentials"
	msgFailedToGenerateToken = "Failed to generate token"
	msgUserNotFound          = "User with this email does not exist"
	msgResetLinkSent         = "Check your email for a password reset link."
	msgUnableToResetPassword = "Unable to reset password"
)

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func generateJWT(user models.User, lifetime time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(lifetime).Unix(),
	})

	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func generateTokenPair(user models.User) (accessToken, refreshToken string, err error) {
	accessToken, err = generateJWT(user, 24*time.Hour)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = generateJWT(user, 7*24*time.Hour)
	return accessToken, refreshToken, err
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func Register(ctx *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
		Address  string `json:"address"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var existing models.User
	if err := initializers.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		sendErrorResponse(ctx, http.StatusConflict, msgUserAlreadyExists)
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		Password: hashed,
		Role:     models.RoleClient,
	}

	if err := initializers.DB.Create(&user).Error; err != nil {
		log.Println("Create error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to create user")
		return
	}

	accessToken, refreshToken, err := generateTokenPair(user)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":      "Account created successfully",
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func Login(ctx *gin.Context) {
	var input models.LoginData
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var user models.User
	if err := initializers.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, input.Password); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	accessToken, refreshToken, err := generateTokenPair(user)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func RefreshToken(ctx *gin.Context) {
	var input struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	claims, err := middlewares.ParseToken(input.RefreshToken)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	var user models.User
	if err := initializers.DB.First(&user, uint(userID)).Error; err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	accessToken, refreshToken, err := generateTokenPair(user)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func GetMe(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)
	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func UpdateProfile(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var input struct {
		Name    *string `json:"name"`
		Phone   *string `json:"phone"`
		Address *string `json:"address"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}

	if err := initializers.DB.Model(&user).Updates(updates).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func ChangePassword(ctx *gin.Context) {
	user, _ := middlewares.CurrentUser(ctx)

	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	if err := comparePasswords(user.Password, input.CurrentPassword); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	hashed, err := hashPassword(input.NewPassword)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if err := initializers.DB.Model(&user).Update("password", hashed).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Failed to change password")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func sendPasswordResetEmail(user models.User, resetToken string) error {
	emailData := utils.EmailData{
		Name:      user.Name,
		Message:   "You requested a password reset. Click the button below to reset your password.",
		ActionURL: os.Getenv("FRONTEND_URL") + "/auth/reset-password?token=" + url.QueryEscape(resetToken),
		LogoURL:   os.Getenv("FRONTEND_URL") + "/images/logo.png",
	}

	templatePath := filepath.Join("templates", "reset_password.html")
	return utils.SendEmail(user.Email, "FND Account Password Reset", emailData, templatePath)
}

func ForgotPassword(ctx *gin.Context) {
	var input struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var user models.User
	if err := initializers.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
		} else {
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		}
		return
	}

	token, err := randomToken()
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	expiry := time.Now().Add(time.Hour)
	if err := initializers.DB.Model(&user).Updates(map[string]any{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to save reset token")
		return
	}

	if err := sendPasswordResetEmail(user, token); err != nil {
		log.Println("Mail error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "There was an error sending the reset link. Try again later.")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgResetLinkSent})
}

func ResetPassword(ctx *gin.Context) {
	var input struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var user models.User
	err := initializers.DB.
		Where("reset_token = ? AND reset_token_expiry > ?", input.Token, time.Now()).
		First(&user).Error
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid or expired reset link")
		return
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgUnableToResetPassword)
		return
	}

	if err := initializers.DB.Model(&user).Updates(map[string]any{
		"password":           hashed,
		"reset_token":        nil,
		"reset_token_expiry": nil,
	}).Error; err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgUnableToResetPassword)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}
