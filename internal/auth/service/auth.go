package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tenurehq/tenure-backend/internal/auth/jwt"
	"github.com/tenurehq/tenure-backend/internal/auth/repository"
	"github.com/tenurehq/tenure-backend/internal/hr/domain"
	"github.com/tenurehq/tenure-backend/internal/hr/events"
	hrrepo "github.com/tenurehq/tenure-backend/internal/hr/repository"
	hrservice "github.com/tenurehq/tenure-backend/internal/hr/service"
	"github.com/tenurehq/tenure-backend/pkg/config"
	"github.com/tenurehq/tenure-backend/pkg/database"
	"github.com/tenurehq/tenure-backend/pkg/errors"
	"github.com/tenurehq/tenure-backend/pkg/logger"
)

// AuthService handles login sessions and account management
type AuthService struct {
	db         *database.DB
	sessions   *repository.SessionRepository
	users      *hrrepo.UserRepository
	employees  *hrrepo.EmployeeRepository
	jwtManager *jwt.Manager
	audit      *hrservice.AuditService
	events     *events.Publisher
	config     *config.Config
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	db *database.DB,
	sessions *repository.SessionRepository,
	users *hrrepo.UserRepository,
	employees *hrrepo.EmployeeRepository,
	jwtManager *jwt.Manager,
	audit *hrservice.AuditService,
	publisher *events.Publisher,
	cfg *config.Config,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		db:         db,
		sessions:   sessions,
		users:      users,
		employees:  employees,
		jwtManager: jwtManager,
		audit:      audit,
		events:     publisher,
		config:     cfg,
		logger:     log.WithComponent("auth"),
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username   string `json:"username" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
	User         *UserInfo `json:"user"`
}

// UserInfo represents the authenticated user
type UserInfo struct {
	EmpNo    int    `json:"emp_no"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Login verifies credentials and opens a session. Remember-me stretches the
// session lifetime from the default to the extended policy window.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest, userAgent, ipAddress string) (*LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.InvalidCredentials()
		}
		return nil, err
	}

	if !VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errors.InvalidCredentials()
	}

	emp, err := s.employees.GetByNo(ctx, user.EmpNo)
	if err != nil {
		return nil, err
	}

	lifetime := s.config.Auth.SessionLifetime
	if req.RememberMe {
		lifetime = s.config.Auth.RememberedLifetime
	}
	expiresAt := time.Now().Add(lifetime)

	tokenInfo := &jwt.UserInfo{
		EmpNo:    user.EmpNo,
		Username: user.Username,
		Name:     emp.FullName(),
	}

	sessionID := uuid.New().String()

	tokens, err := s.jwtManager.GenerateTokenPair(tokenInfo, sessionID, lifetime)
	if err != nil {
		return nil, errors.Internal("failed to generate tokens")
	}

	_, err = s.sessions.CreateWithID(ctx, sessionID, user.EmpNo, tokens.RefreshToken, expiresAt, userAgent, ipAddress)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create session")
		return nil, errors.Internal("failed to create session")
	}

	return &LoginResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt,
		TokenType:    tokens.TokenType,
		User: &UserInfo{
			EmpNo:    user.EmpNo,
			Username: user.Username,
			Name:     emp.FullName(),
		},
	}, nil
}

// Logout invalidates a session. Failures are logged and swallowed so logout
// always looks successful to the caller.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.sessions.RevokeByRefreshToken(ctx, refreshToken); err != nil {
		s.logger.Warn().Err(err).Msg("failed to revoke session")
	}
	return nil
}

// Refresh rotates the token pair bound to a live session
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*jwt.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.Unauthorized("invalid session")
	}

	if session.RevokedAt != nil {
		return nil, errors.Unauthorized("session revoked")
	}

	user, err := s.users.GetByEmpNo(ctx, claims.EmpNo)
	if err != nil {
		return nil, errors.Unauthorized("invalid session")
	}

	emp, err := s.employees.GetByNo(ctx, user.EmpNo)
	if err != nil {
		return nil, err
	}

	tokenInfo := &jwt.UserInfo{
		EmpNo:    user.EmpNo,
		Username: user.Username,
		Name:     emp.FullName(),
	}

	tokens, err := s.jwtManager.GenerateTokenPair(tokenInfo, session.ID, time.Until(session.ExpiresAt))
	if err != nil {
		return nil, errors.Internal("failed to generate tokens")
	}

	if err := s.sessions.UpdateRefreshTokenHash(ctx, session.ID, tokens.RefreshToken); err != nil {
		s.logger.Error().Err(err).Msg("failed to rotate refresh token")
		return nil, errors.Internal("failed to refresh session")
	}

	return tokens, nil
}

// RegisterRequest carries the employee record and credentials for a new account
type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Password   string `json:"password" validate:"required,min=8"`
	FirstName  string `json:"first_name" validate:"required,max=50"`
	LastName   string `json:"last_name" validate:"required,max=50"`
	Gender     string `json:"gender" validate:"required,oneof=M F O"`
	BirthDate  string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	HireDate   string `json:"hire_date" validate:"required,datetime=2006-01-02"`
	NationalID string `json:"national_id" validate:"required,max=20"`
	Email      string `json:"email" validate:"required,email"`
}

// Register creates an employee record together with its user account. Both
// rows are written in one transaction so a half-registered account cannot
// exist.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*domain.Employee, error) {
	exists, err := s.users.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("username already taken")
	}

	exists, err = s.employees.EmailExists(ctx, req.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("email already in use")
	}

	exists, err = s.employees.NationalIDExists(ctx, req.NationalID, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("national ID already registered")
	}

	birthDate, err := domain.ParseDate(req.BirthDate)
	if err != nil {
		return nil, errors.BadRequest("invalid birth date")
	}
	hireDate, err := domain.ParseDate(req.HireDate)
	if err != nil {
		return nil, errors.BadRequest("invalid hire date")
	}

	passwordHash, err := HashPassword(req.Password, s.config.Auth.BcryptCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	empNo, err := s.employees.NextEmpNo(ctx)
	if err != nil {
		return nil, err
	}

	emp := &domain.Employee{
		EmpNo:      empNo,
		NationalID: req.NationalID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Gender:     req.Gender,
		BirthDate:  birthDate,
		HireDate:   hireDate,
		Email:      req.Email,
	}

	user := &domain.User{
		EmpNo:        empNo,
		Username:     req.Username,
		PasswordHash: passwordHash,
	}

	err = s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if err := s.employees.CreateTx(ctx, tx, emp); err != nil {
			return err
		}
		return s.users.CreateTx(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	s.audit.RecordChange(ctx, hrservice.ChangeRecord{
		Operation:   domain.OpCreate,
		Table:       domain.TableEmployees,
		Description: fmt.Sprintf("Registered employee %s (#%d)", emp.FullName(), emp.EmpNo),
		EmpNo:       &emp.EmpNo,
	})
	s.audit.RecordChange(ctx, hrservice.ChangeRecord{
		Operation:   domain.OpCreate,
		Table:       domain.TableUsers,
		Description: fmt.Sprintf("Created user account %q for employee #%d", user.Username, emp.EmpNo),
		EmpNo:       &emp.EmpNo,
	})
	s.events.EmployeeCreated(ctx, emp)

	return emp, nil
}

// ChangePasswordRequest carries a password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword verifies the current password and replaces the hash. All
// existing sessions for the account are revoked afterwards.
func (s *AuthService) ChangePassword(ctx context.Context, empNo int, req *ChangePasswordRequest) error {
	user, err := s.users.GetByEmpNo(ctx, empNo)
	if err != nil {
		return err
	}

	if !VerifyPassword(user.PasswordHash, req.CurrentPassword) {
		return errors.InvalidCredentials()
	}

	newHash, err := HashPassword(req.NewPassword, s.config.Auth.BcryptCost)
	if err != nil {
		return errors.Internal("failed to hash password")
	}

	if err := s.users.UpdatePassword(ctx, empNo, newHash); err != nil {
		return err
	}

	if err := s.sessions.RevokeAllForEmployee(ctx, empNo); err != nil {
		s.logger.Warn().Err(err).Int("emp_no", empNo).Msg("failed to revoke sessions after password change")
	}

	s.audit.RecordChange(ctx, hrservice.ChangeRecord{
		Operation:   domain.OpUpdate,
		Table:       domain.TableUsers,
		Description: fmt.Sprintf("Password changed for employee #%d", empNo),
		EmpNo:       &empNo,
	})

	return nil
}

// GetCurrentUser returns the account info for an employee number
func (s *AuthService) GetCurrentUser(ctx context.Context, empNo int) (*UserInfo, error) {
	user, err := s.users.GetByEmpNo(ctx, empNo)
	if err != nil {
		return nil, err
	}

	emp, err := s.employees.GetByNo(ctx, empNo)
	if err != nil {
		return nil, err
	}

	return &UserInfo{
		EmpNo:    user.EmpNo,
		Username: user.Username,
		Name:     emp.FullName(),
	}, nil
}
