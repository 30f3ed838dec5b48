package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/samrat222/calorieTracker-BE/models"
	"github.com/samrat222/calorieTracker-BE/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService struct {
	db       *gorm.DB
	mailer   *utils.Mailer // nil when SES is not configured
	notifier *NotificationService
}

func NewAuthService(db *gorm.DB, mailer *utils.Mailer, notifier *NotificationService) *AuthService {
	return &AuthService{db: db, mailer: mailer, notifier: notifier}
}

func (a *AuthService) Register(ctx context.Context, email, password, fullName string) (*models.User, error) {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		PublicID: uuid.NewString(),
		Email:    email,
		Password: hashed,
		FullName: fullName,
		Goal:     GoalMaintain,
	}
	if err := a.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type LoginResult struct {
	Token       string `json:"token,omitempty"`
	MFARequired bool   `json:"mfa_required"`
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var user models.User
	if err := a.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, errors.New("invalid email or password")
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, errors.New("invalid email or password")
	}

	if user.MFAEnabled {
		code := fmt.Sprintf("%06d", rand.Intn(1000000))
		user.MFACode = code
		if err := a.db.WithContext(ctx).Save(&user).Error; err != nil {
			return nil, err
		}
		if a.mailer == nil {
			return nil, errors.New("MFA enabled but mail delivery is not configured")
		}
		if err := a.mailer.SendMFAEmail(ctx, user.Email, code); err != nil {
			return nil, errors.New("failed to send MFA code")
		}
		return &LoginResult{MFARequired: true}, nil
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return nil, errors.New("could not generate token")
	}
	a.greet(&user)
	return &LoginResult{Token: token}, nil
}

func (a *AuthService) VerifyMFA(ctx context.Context, email, code string) (string, error) {
	var user models.User
	if err := a.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return "", errors.New("invalid MFA code")
	}
	if user.MFACode == "" || user.MFACode != code {
		return "", errors.New("invalid MFA code")
	}

	token, err := utils.GenerateJWT(user.ID, user.Email)
	if err != nil {
		return "", errors.New("could not generate token")
	}

	user.MFACode = ""
	if err := a.db.WithContext(ctx).Save(&user).Error; err != nil {
		return "", err
	}
	a.greet(&user)
	return token, nil
}

// ForgotPassword never reveals whether the email exists.
func (a *AuthService) ForgotPassword(ctx context.Context, email string) error {
	var user models.User
	if err := a.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil
	}

	token := utils.GenerateRandomToken(6)
	user.ResetToken = token
	user.ResetTokenExp = time.Now().Add(15 * time.Minute)
	if err := a.db.WithContext(ctx).Save(&user).Error; err != nil {
		return err
	}

	if a.mailer != nil {
		_ = a.mailer.SendResetEmail(ctx, user.Email, token)
	}
	return nil
}

func (a *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	var user models.User
	if err := a.db.WithContext(ctx).Where("reset_token = ?", token).First(&user).Error; err != nil {
		return errors.New("invalid or expired token")
	}
	if time.Now().After(user.ResetTokenExp) {
		return errors.New("invalid or expired token")
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hashed
	user.ResetToken = ""
	user.ResetTokenExp = time.Time{}
	return a.db.WithContext(ctx).Save(&user).Error
}

func (a *AuthService) greet(user *models.User) {
	if a.notifier == nil {
		return
	}
	name := user.FullName
	if name == "" {
		name = "there"
	}
	a.notifier.Emit(user.ID, models.NotificationLoginGreeting,
		"Welcome back",
		fmt.Sprintf("Hi %s, don't forget to log your meals today.", name),
		nil)
}
