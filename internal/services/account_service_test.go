package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tripcanvas/internal/models/db_models"
	"tripcanvas/internal/models/request_models"
	mem "tripcanvas/pkg/memcache"
	"tripcanvas/pkg/utils"
)

type fakeAccountRepo struct {
	accounts []*db_models.Account
	// insertErr, when set, is returned by the next insert instead of storing the row.
	insertErr func(f *fakeAccountRepo) error
}

func (f *fakeAccountRepo) InsertTx(account *db_models.Account, _ context.Context) error {
	if f.insertErr != nil {
		return f.insertErr(f)
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	f.accounts = append(f.accounts, account)
	return nil
}

func (f *fakeAccountRepo) find(match func(*db_models.Account) bool) (*db_models.Account, error) {
	for _, a := range f.accounts {
		if match(a) {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) FindById(_ context.Context, id string) (*db_models.Account, error) {
	return f.find(func(a *db_models.Account) bool { return a.ID.String() == id })
}

func (f *fakeAccountRepo) FindByUserID(_ context.Context, userID string) (*db_models.Account, error) {
	return f.find(func(a *db_models.Account) bool { return a.UserID == userID })
}

func (f *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*db_models.Account, error) {
	return f.find(func(a *db_models.Account) bool { return a.Email == email })
}

func (f *fakeAccountRepo) FindByNickname(_ context.Context, nickname string) (*db_models.Account, error) {
	return f.find(func(a *db_models.Account) bool { return a.Nickname == nickname })
}

func newAccountService(t *testing.T) (AccountServiceInterface, *utils.JWTManager, *mem.RevokedTokens) {
	t.Helper()
	jwt, err := utils.NewJWTManager("secret", time.Hour)
	require.NoError(t, err)
	store := mem.NewRevokedTokens()
	return NewAccountService(&fakeAccountRepo{}, jwt, store, zap.NewNop()), jwt, store
}

func signUpRequest() request_models.SignUpRequest {
	return request_models.SignUpRequest{
		UserID:    "traveler01",
		Email:     "Traveler@Example.com",
		Nickname:  "wanderer",
		Password:  "s3cret!",
		Interests: []string{"food"},
	}
}

func TestAccountService_SignUpAndLogin(t *testing.T) {
	svc, jwt, _ := newAccountService(t)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)
	claims, err := jwt.ValidateToken(session.Token)
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "traveler@example.com", profile.Email)
	assert.Equal(t, db_models.DefaultProfileImage, profile.ProfileImage)
	assert.Equal(t, []string{"food"}, profile.Interests)

	_, err = svc.Login(ctx, request_models.LoginRequest{UserID: "traveler01", Password: "s3cret!"})
	assert.NoError(t, err)

	_, err = svc.Login(ctx, request_models.LoginRequest{UserID: "traveler01", Password: "wrong!!"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = svc.Login(ctx, request_models.LoginRequest{UserID: "nobody", Password: "s3cret!"})
	assert.ErrorIs(t, err, utils.ErrAccountNotFound)
}

func TestAccountService_SignUpDuplicates(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	dupUser := signUpRequest()
	dupUser.Email, dupUser.Nickname = "other@example.com", "other"
	_, err = svc.SignUp(ctx, dupUser)
	assert.ErrorIs(t, err, utils.ErrUserIDAlreadyExists)

	dupNick := signUpRequest()
	dupNick.UserID, dupNick.Email = "other", "other@example.com"
	_, err = svc.SignUp(ctx, dupNick)
	assert.ErrorIs(t, err, utils.ErrNicknameTaken)

	dupEmail := signUpRequest()
	dupEmail.UserID, dupEmail.Nickname = "other", "other"
	dupEmail.Email = "TRAVELER@example.com"
	_, err = svc.SignUp(ctx, dupEmail)
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
}

func TestAccountService_Logout(t *testing.T) {
	svc, _, store := newAccountService(t)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, signUpRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.TokenID, session.ExpiresAt))
	revoked, err := store.IsRevoked(ctx, session.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.ErrorIs(t, svc.Logout(ctx, "", session.ExpiresAt), utils.ErrUnauthorized)
}

func TestAccountService_SignUpLosesInsertRace(t *testing.T) {
	jwt, err := utils.NewJWTManager("secret", time.Hour)
	require.NoError(t, err)
	ctx := context.Background()

	// another request stores the same user id between the checks and the insert
	repo := &fakeAccountRepo{insertErr: func(f *fakeAccountRepo) error {
		f.accounts = append(f.accounts, &db_models.Account{
			BaseModel: db_models.BaseModel{ID: uuid.New()},
			UserID:    "traveler01",
			Email:     "racer@example.com",
			Nickname:  "racer",
		})
		return gorm.ErrDuplicatedKey
	}}
	svc := NewAccountService(repo, jwt, mem.NewRevokedTokens(), zap.NewNop())
	_, err = svc.SignUp(ctx, signUpRequest())
	assert.ErrorIs(t, err, utils.ErrUserIDAlreadyExists)

	// the conflicting row is not visible, e.g. soft deleted
	repo = &fakeAccountRepo{insertErr: func(*fakeAccountRepo) error { return gorm.ErrDuplicatedKey }}
	svc = NewAccountService(repo, jwt, mem.NewRevokedTokens(), zap.NewNop())
	_, err = svc.SignUp(ctx, signUpRequest())
	assert.ErrorIs(t, err, utils.ErrAccountExists)
	assert.NotErrorIs(t, err, utils.ErrDatabaseError)
}
