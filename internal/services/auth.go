package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/majormatch-backend/internal/data/pgerr"
	"github.com/yungbote/majormatch-backend/internal/data/repos"
	userrepo "github.com/yungbote/majormatch-backend/internal/data/repos/user"
	types "github.com/yungbote/majormatch-backend/internal/domain"
	"github.com/yungbote/majormatch-backend/internal/pkg/dbctx"
	pkgErrors "github.com/yungbote/majormatch-backend/internal/pkg/errors"
	"github.com/yungbote/majormatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

const (
	MsgCheckInput      = "입력 정보를 확인해주세요"
	msgStudentIDFormat = "학번은 9자리 숫자여야 합니다"
	msgStudentIDYear   = "학번의 첫 4자리는 유효한 년도여야 합니다"
	msgUsernameShort   = "사용자명은 최소 3자 이상이어야 합니다"
	msgPasswordShort   = "비밀번호는 최소 6자 이상이어야 합니다"

	minStudentYear = 2020
	minUsername    = 3
	minPassword    = 6
)

var studentIDPattern = regexp.MustCompile(`^\d{9}$`)

type RegisterInput struct {
	StudentID string
	Username  string
	Password  string
}

// Tokens is an issued access/refresh pair.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, username, password string) (*types.User, Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (Tokens, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (as *authService) GetAccessTTL() time.Duration { return as.accessTTL }

func (as *authService) validateRegistration(in RegisterInput) error {
	fields := map[string]string{}
	if !studentIDPattern.MatchString(in.StudentID) {
		fields["studentId"] = msgStudentIDFormat
	} else {
		year, _ := strconv.Atoi(in.StudentID[:4])
		if year < minStudentYear || year > as.now().Year()+1 {
			fields["studentId"] = msgStudentIDYear
		}
	}
	if utf8.RuneCountInString(in.Username) < minUsername {
		fields["username"] = msgUsernameShort
	}
	if utf8.RuneCountInString(in.Password) < minPassword {
		fields["password"] = msgPasswordShort
	}
	if len(fields) > 0 {
		return &InputError{Message: MsgCheckInput, Fields: fields}
	}
	return nil
}

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.Username = strings.TrimSpace(in.Username)
	if err := as.validateRegistration(in); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:        uuid.New(),
		StudentID: in.StudentID,
		Username:  in.Username,
		Password:  string(hash),
	}
	err = inTx(ctx, as.db, func(dbc dbctx.Context) error {
		nameTaken, idTaken, err := as.userRepo.Taken(dbc, in.Username, in.StudentID)
		if err != nil {
			return err
		}
		switch {
		case nameTaken:
			return ErrUsernameTaken
		case idTaken:
			return ErrStudentIDTaken
		}
		_, err = as.userRepo.Create(dbc, []*types.User{user})
		return err
	})
	switch {
	case err == nil:
	case pgerr.ConflictOn(err, userrepo.UsernameIndex):
		return nil, ErrUsernameTaken
	case pgerr.ConflictOn(err, userrepo.StudentIDIndex):
		return nil, ErrStudentIDTaken
	default:
		return nil, err
	}
	as.log.Info("Registered user", "user_id", user.ID)
	return user, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (*types.User, Tokens, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, Tokens{}, ErrInvalidCredentials
	}

	var (
		user   *types.User
		tokens Tokens
	)
	err := inTx(ctx, as.db, func(dbc dbctx.Context) error {
		u, err := as.userRepo.GetByUsername(dbc, username)
		if errors.Is(err, pkgErrors.ErrNotFound) {
			return ErrInvalidCredentials
		}
		if err != nil {
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			return ErrInvalidCredentials
		}
		if err := as.pruneExpired(dbc, u.ID); err != nil {
			return err
		}
		tokens, err = as.issue(dbc, u)
		user = u
		return err
	})
	if err != nil {
		return nil, Tokens{}, err
	}
	return user, tokens, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		if rd := ctxutil.GetRequestData(ctx); rd != nil {
			refreshToken = rd.RefreshToken
		}
	}
	if refreshToken == "" {
		return Tokens{}, ErrInvalidCredentials
	}

	existing, err := as.userTokenRepo.GetByRefreshToken(dbctx.New(ctx), refreshToken)
	if errors.Is(err, pkgErrors.ErrNotFound) {
		return Tokens{}, ErrInvalidCredentials
	}
	if err != nil {
		return Tokens{}, err
	}
	if existing.Expired(as.now()) {
		if err := as.userTokenRepo.FullDeleteByIDs(dbctx.New(ctx), []uuid.UUID{existing.ID}); err != nil {
			as.log.Warn("Failed to delete expired refresh token", "error", err)
		}
		return Tokens{}, ErrTokenExpired
	}

	var tokens Tokens
	err = inTx(ctx, as.db, func(dbc dbctx.Context) error {
		users, err := as.userRepo.GetByIDs(dbc, []uuid.UUID{existing.UserID})
		if err != nil {
			return err
		}
		if len(users) == 0 {
			return ErrInvalidCredentials
		}
		if tokens, err = as.issue(dbc, users[0]); err != nil {
			return err
		}
		return as.userTokenRepo.FullDeleteByIDs(dbc, []uuid.UUID{existing.ID})
	})
	if err != nil {
		as.log.Warn("Refresh failed", "error", err)
		return Tokens{}, err
	}
	return tokens, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return ErrMissingUser
	}
	return inTx(ctx, as.db, func(dbc dbctx.Context) error {
		tok, err := as.userTokenRepo.GetByAccessToken(dbc, rd.TokenString)
		if errors.Is(err, pkgErrors.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return as.userTokenRepo.FullDeleteByIDs(dbc, []uuid.UUID{tok.ID})
	})
}

// SetContextFromToken verifies an access token and attaches the caller to ctx.
// A token that was logged out is rejected even before it expires.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, ErrMissingUser
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", pkgErrors.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, fmt.Errorf("%w: invalid token", pkgErrors.ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("%w: invalid subject", pkgErrors.ErrUnauthorized)
	}
	tok, err := as.userTokenRepo.GetByAccessToken(dbctx.New(ctx), tokenString)
	if errors.Is(err, pkgErrors.ErrNotFound) {
		return ctx, fmt.Errorf("%w: token revoked", pkgErrors.ErrUnauthorized)
	}
	if err != nil {
		return ctx, err
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString:  tokenString,
		RefreshToken: tok.RefreshToken,
		UserID:       userID,
	}), nil
}

func (as *authService) pruneExpired(dbc dbctx.Context, userID uuid.UUID) error {
	existing, err := as.userTokenRepo.GetByUserIDs(dbc, []uuid.UUID{userID})
	if err != nil {
		return err
	}
	now := as.now()
	var stale []uuid.UUID
	for _, t := range existing {
		if t != nil && t.Expired(now) {
			stale = append(stale, t.ID)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	return as.userTokenRepo.FullDeleteByIDs(dbc, stale)
}

func (as *authService) issue(dbc dbctx.Context, user *types.User) (Tokens, error) {
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return Tokens{}, fmt.Errorf("sign access token: %w", err)
	}
	t := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    now.Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(dbc, []*types.UserToken{t}); err != nil {
		return Tokens{}, fmt.Errorf("create user token: %w", err)
	}
	return Tokens{AccessToken: access, RefreshToken: t.RefreshToken, ExpiresIn: as.accessTTL}, nil
}
