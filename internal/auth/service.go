package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasafe/tasafe-api/pkg/common"
	"github.com/tasafe/tasafe-api/pkg/middleware"
	"github.com/tasafe/tasafe-api/pkg/models"
)

const uniqueViolation = "23505"

// Service owns registration and login. Accounts are restricted to a
// single institutional email domain.
type Service struct {
	repo          RepositoryInterface
	jwtSecret     string
	tokenLifetime time.Duration
	allowedDomain string
}

// NewService creates a new auth service
func NewService(repo RepositoryInterface, jwtSecret string, tokenLifetime time.Duration, allowedDomain string) *Service {
	return &Service{
		repo:          repo,
		jwtSecret:     jwtSecret,
		tokenLifetime: tokenLifetime,
		allowedDomain: allowedDomain,
	}
}

// Register creates an account and logs it in. The email must belong to
// the allowed domain and not be taken; the role defaults to STUDENT.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if !strings.HasSuffix(email, "@"+s.allowedDomain) {
		return nil, common.NewValidationError(common.ReasonEmailDomainNotAllowed,
			"registration is restricted to @"+s.allowedDomain+" emails")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalError("failed to hash password", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Course:       req.Course,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.NewConflictError(common.ReasonEmailTaken,
				"an account with this email already exists")
		}
		return nil, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{User: user, Token: token}, nil
}

// Login verifies the credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewUnauthorizedError("invalid email or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, common.NewUnauthorizedError("invalid email or password")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	return &models.LoginResponse{User: user, Token: token}, nil
}

func (s *Service) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := middleware.Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenLifetime)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", common.NewInternalError("failed to sign token", err)
	}
	return token, nil
}
