package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/thunderbolt-trucking/dispatch-api/internal/constants"
	"github.com/thunderbolt-trucking/dispatch-api/internal/metrics"
	"github.com/thunderbolt-trucking/dispatch-api/internal/models"
	"github.com/thunderbolt-trucking/dispatch-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken     = errors.New("username already exists")
	ErrEmailTaken        = errors.New("email already exists")
	ErrUsernameRequired  = errors.New("username is required")
	ErrEmailRequired     = errors.New("email is required")
	ErrPasswordTooShort  = errors.New("password too short")
	ErrInvalidRole       = errors.New("invalid role")
	ErrActionRequired    = errors.New("action is required")
	ErrFailedToWriteUser = errors.New("failed to save user")
)

const (
	AuditUserCreated = "User created"
	AuditUserUpdated = "User updated"
	AuditUserDeleted = "User deleted"
)

// AdminService handles user management and the activity log.
type AdminService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	log       logrus.FieldLogger
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo repository.UserRepository, auditRepo repository.AuditRepository, log logrus.FieldLogger) *AdminService {
	return &AdminService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		log:       log,
	}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Username string
	Password string
	Email    string
	Role     models.UserRole
}

// UpdateUserInput represents a partial user update; nil fields are left unchanged
type UpdateUserInput struct {
	Username *string
	Password *string
	Email    *string
	Role     *models.UserRole
}

// LogActivityInput represents a client supplied activity entry
type LogActivityInput struct {
	Action  string
	UserID  *uint64
	Details string
}

// ListUsers returns users newest first, optionally filtered by role
func (s *AdminService) ListUsers(role *models.UserRole) ([]models.User, error) {
	if role != nil && !role.Valid() {
		return nil, ErrInvalidRole
	}

	users, err := s.userRepo.List(role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID
func (s *AdminService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateUser validates and stores a new user, then appends a "User created" entry.
func (s *AdminService) CreateUser(input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if username == "" {
		return nil, ErrUsernameRequired
	}
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if err := s.ensureUnique(username, email, 0); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashed,
		Role:         input.Role,
		Email:        email,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteUser, err)
	}

	s.audit(AuditUserCreated, &user.ID, fmt.Sprintf("New %s user created: %s", user.Role, user.Username))

	return user, nil
}

// UpdateUser applies a partial update, re-hashing the password when one is supplied.
func (s *AdminService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	username := user.Username
	email := user.Email

	if input.Username != nil {
		username = strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, ErrUsernameRequired
		}
	}
	if input.Email != nil {
		email = strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if err := s.ensureUnique(username, email, user.ID); err != nil {
		return nil, err
	}
	user.Username = username
	user.Email = email

	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, ErrPasswordTooShort
		}
		hashed, err := hashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteUser, err)
	}

	s.audit(AuditUserUpdated, &user.ID, fmt.Sprintf("User %s was updated", user.Username))

	return user, nil
}

// DeleteUser removes a user. Jobs and audit entries referencing the user are
// kept with the reference cleared. The resulting audit entry has no user_id
// because the row no longer exists.
func (s *AdminService) DeleteUser(id uint64) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.audit(AuditUserDeleted, nil, fmt.Sprintf("User %s was deleted (ID: %d)", user.Username, user.ID))

	return nil
}

// RecentActivity returns the newest audit entries. limit is clamped to
// [1, MaxActivityLimit]; zero or negative means the default.
func (s *AdminService) RecentActivity(limit int) ([]models.Audit, error) {
	if limit <= 0 {
		limit = constants.DefaultActivityLimit
	}
	if limit > constants.MaxActivityLimit {
		limit = constants.MaxActivityLimit
	}

	audits, err := s.auditRepo.ListRecent(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return audits, nil
}

// LogActivity appends a client supplied entry. Unlike the entries written by
// user management, a failure here is returned to the caller.
func (s *AdminService) LogActivity(input LogActivityInput) (*models.Audit, error) {
	action := strings.TrimSpace(input.Action)
	if action == "" {
		return nil, ErrActionRequired
	}
	if input.UserID != nil {
		if _, err := s.GetUser(*input.UserID); err != nil {
			return nil, err
		}
	}

	entry := &models.Audit{
		Action:  action,
		UserID:  input.UserID,
		Details: input.Details,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		metrics.RecordAuditWrite(false)
		return nil, fmt.Errorf("failed to log activity: %w", err)
	}
	metrics.RecordAuditWrite(true)

	return entry, nil
}

// ensureUnique rejects a username or email already held by a user other than selfID.
func (s *AdminService) ensureUnique(username, email string, selfID uint64) error {
	if existing, err := s.userRepo.FindByUsername(username); err == nil {
		if existing.ID != selfID {
			return ErrUsernameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check username: %w", err)
	}

	if existing, err := s.userRepo.FindByEmail(email); err == nil {
		if existing.ID != selfID {
			return ErrEmailTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	return nil
}

// audit appends an entry for a completed mutation. Failures are logged and
// counted but never returned; the mutation has already been committed.
func (s *AdminService) audit(action string, userID *uint64, details string) {
	entry := &models.Audit{
		Action:  action,
		UserID:  userID,
		Details: details,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		metrics.RecordAuditWrite(false)
		s.log.WithError(err).WithField("action", action).Warn("failed to write audit entry")
		return
	}
	metrics.RecordAuditWrite(true)
}
