package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strconv"
	"strings"
	"time"

	"ai-travelplanner-be/internal/dto"
	"ai-travelplanner-be/internal/entity"
	"ai-travelplanner-be/internal/pkg/mailer"
	"ai-travelplanner-be/internal/repository/memory"
	"ai-travelplanner-be/internal/repository/specification"
	"ai-travelplanner-be/internal/repository/unitofwork"

	"ai-travelplanner-be/pkg/events"
	pktNats "ai-travelplanner-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	authCodePurposeRegister = "register"
	authCodePurposeReset    = "reset"
	authCodeTTL             = 10 * time.Minute
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	emailService   mailer.IEmailService
	throttle       *memory.ThrottleRepository
	eventPublisher *pktNats.Publisher
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, emailService mailer.IEmailService, throttle *memory.ThrottleRepository, eventPublisher *pktNats.Publisher) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		emailService:   emailService,
		throttle:       throttle,
		eventPublisher: eventPublisher,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

func accessTokenTTL() time.Duration {
	// Default one week
	minutes := 10080
	if raw := os.Getenv("JWT_EXPIRE_MINUTES"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			minutes = v
		}
	}
	return time.Duration(minutes) * time.Minute
}

func signAccessToken(userId uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userId.String(),
		"exp":     time.Now().Add(accessTokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	return token.SignedString([]byte(secret))
}

func (s *authService) issueCode(ctx context.Context, uow unitofwork.UnitOfWork, email, purpose string) (string, error) {
	if s.throttle != nil && !s.throttle.Allow(email+":"+purpose) {
		return "", errors.New("a code was sent recently, try again later")
	}

	code, err := generateOTP()
	if err != nil {
		return "", err
	}

	authCode := &entity.AuthCode{
		Id:        uuid.New(),
		Email:     email,
		CodeHash:  hashCode(code),
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(authCodeTTL),
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreateAuthCode(ctx, authCode); err != nil {
		return "", err
	}
	return code, nil
}

func (s *authService) consumeCode(ctx context.Context, uow unitofwork.UnitOfWork, email, purpose, code string) error {
	latest, err := uow.UserRepository().FindLatestAuthCode(ctx, email, purpose)
	if err != nil {
		return err
	}
	if latest == nil {
		return errors.New("invalid code")
	}
	if time.Now().After(latest.ExpiresAt) {
		return errors.New("code expired")
	}
	if latest.CodeHash != hashCode(code) {
		return errors.New("invalid code")
	}
	return uow.UserRepository().DeleteAuthCode(ctx, latest.Id)
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, _ := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:            uuid.New(),
		Email:         email,
		FullName:      req.FullName,
		PasswordHash:  &hashStr,
		Status:        entity.UserStatusPending,
		EmailVerified: false,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	code, err := s.issueCode(ctx, uow, email, authCodePurposeRegister)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	go func() {
		if emailErr := s.emailService.SendVerificationCode(user.Email, code); emailErr != nil {
			fmt.Printf("Error sending registration email: %v\n", emailErr)
		}
	}()

	s.publish(ctx, events.BaseEvent{
		Type: events.TypeUserRegister,
		Data: map[string]interface{}{
			"user_id": user.Id,
			"email":   user.Email,
		},
		OccurredAt: time.Now(),
	})

	return &dto.RegisterResponse{Id: user.Id, Email: user.Email}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil || user == nil {
		return errors.New("user not found")
	}

	if user.Status == entity.UserStatusActive {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := s.consumeCode(ctx, uow, email, authCodePurposeRegister, req.Code); err != nil {
		return err
	}

	if err := uow.UserRepository().ActivateUser(ctx, user.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil || user == nil {
		return nil, errors.New("invalid credentials")
	}

	if user.PasswordHash == nil {
		return nil, errors.New("user registered via OAuth")
	}

	if user.Status == entity.UserStatusPending || !user.EmailVerified {
		return nil, errors.New("email not verified. please check your inbox for the code")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	signedToken, err := signAccessToken(user.Id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.BaseEvent{
		Type: events.TypeUserLogin,
		Data: map[string]interface{}{
			"user_id": user.Id,
			"time":    time.Now().Format(time.RFC822),
		},
		OccurredAt: time.Now(),
	})

	return &dto.LoginResponse{
		AccessToken: signedToken,
		User: dto.UserDTO{
			Id:       user.Id,
			Email:    user.Email,
			FullName: user.FullName,
		},
	}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req *dto.ForgotPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil || user == nil {
		// Silent on unknown addresses
		return nil
	}

	code, err := s.issueCode(ctx, uow, email, authCodePurposeReset)
	if err != nil {
		return err
	}

	go func() {
		if emailErr := s.emailService.SendResetCode(user.Email, code); emailErr != nil {
			fmt.Printf("Error sending reset email: %v\n", emailErr)
		}
	}()

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil || user == nil {
		return errors.New("invalid code")
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := s.consumeCode(ctx, uow, email, authCodePurposeReset, req.Code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := uow.UserRepository().UpdatePassword(ctx, user.Id, string(hash)); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *authService) publish(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", event.EventType(), err)
	}
}
