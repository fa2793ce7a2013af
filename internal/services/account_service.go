package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripcanvas/internal/models/db_models"
	"tripcanvas/internal/models/request_models"
	"tripcanvas/internal/models/response_models"
	"tripcanvas/internal/repositories"
	mem "tripcanvas/pkg/memcache"
	"tripcanvas/pkg/utils"
)

// Session is an issued token and its expiry.
type Session struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

type AccountServiceInterface interface {
	SignUp(ctx context.Context, request request_models.SignUpRequest) (*Session, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*Session, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	Profile(ctx context.Context, accountID string) (*response_models.AccountResponse, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	jwt         *utils.JWTManager
	revoked     mem.RevokedTokenStore
	logger      *zap.Logger
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	jwt *utils.JWTManager,
	revoked mem.RevokedTokenStore,
	logger *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		jwt:         jwt,
		revoked:     revoked,
		logger:      logger,
	}
}

func (a *AccountService) SignUp(ctx context.Context, request request_models.SignUpRequest) (*Session, error) {
	userID := strings.TrimSpace(request.UserID)
	email := strings.ToLower(strings.TrimSpace(request.Email))
	nickname := strings.TrimSpace(request.Nickname)

	if err := a.conflict(ctx, userID, nickname, email); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %v", utils.ErrDatabaseError, err)
	}

	account := &db_models.Account{
		UserID:       userID,
		Email:        email,
		Nickname:     nickname,
		Username:     strings.TrimSpace(request.Username),
		PasswordHash: hashedPassword,
		ProfileImage: db_models.DefaultProfileImage,
		Interests:    request.Interests,
	}
	if err := a.accountRepo.InsertTx(account, ctx); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// a concurrent signup won the unique index
			if cerr := a.conflict(ctx, userID, nickname, email); cerr != nil {
				return nil, cerr
			}
			return nil, utils.ErrAccountExists
		}
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	a.logger.Info("account created", zap.String("user_id", userID))
	return a.issue(account)
}

// conflict reports which unique field is already taken, checked in user id,
// nickname, email order.
func (a *AccountService) conflict(ctx context.Context, userID, nickname, email string) error {
	checks := []struct {
		find func(context.Context, string) (*db_models.Account, error)
		arg  string
		err  error
	}{
		{a.accountRepo.FindByUserID, userID, utils.ErrUserIDAlreadyExists},
		{a.accountRepo.FindByNickname, nickname, utils.ErrNicknameTaken},
		{a.accountRepo.FindByEmail, email, utils.ErrEmailAlreadyExists},
	}
	for _, c := range checks {
		existing, err := c.find(ctx, c.arg)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
		}
		if existing != nil {
			return c.err
		}
	}
	return nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*Session, error) {
	startTime := time.Now()

	account, err := a.accountRepo.FindByUserID(ctx, strings.TrimSpace(request.UserID))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	a.logger.Debug("login verified", zap.String("user_id", account.UserID), zap.Duration("took", time.Since(startTime)))
	return a.issue(account)
}

func (a *AccountService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return utils.ErrUnauthorized
	}
	return a.revoked.Revoke(ctx, tokenID, time.Until(expiresAt))
}

func (a *AccountService) Profile(ctx context.Context, accountID string) (*response_models.AccountResponse, error) {
	account, err := a.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	interests := []string(account.Interests)
	if interests == nil {
		interests = []string{}
	}
	return &response_models.AccountResponse{
		ID:           account.ID.String(),
		UserID:       account.UserID,
		Email:        account.Email,
		Nickname:     account.Nickname,
		ProfileImage: account.ProfileImage,
		Interests:    interests,
		CreatedAt:    account.CreatedAt,
	}, nil
}

func (a *AccountService) issue(account *db_models.Account) (*Session, error) {
	token, claims, err := a.jwt.CreateToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}
