package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/trailtalk/forum-backend/internal/dto"
	"github.com/trailtalk/forum-backend/internal/models"
	"gorm.io/gorm"
)

// BlockDuration is how long both automatic and manual blocks last.
const BlockDuration = 7 * 24 * time.Hour

// UserService owns the block state of accounts.
type UserService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db, now: time.Now}
}

func (s *UserService) Find(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Block marks the user blocked until the given time.
func (s *UserService) Block(userID uint, until time.Time) error {
	result := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_blocked":    true,
			"blocked_until": until,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to block user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// BlockFor blocks the user for BlockDuration from now and returns the expiry.
func (s *UserService) BlockFor(userID uint) (time.Time, error) {
	until := s.now().Add(BlockDuration)
	if err := s.Block(userID, until); err != nil {
		return time.Time{}, err
	}
	return until, nil
}

func (s *UserService) Unblock(userID uint) error {
	result := s.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_blocked":    false,
			"blocked_until": nil,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to unblock user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListStaff returns the accounts holding the moderator role.
func (s *UserService) ListStaff() ([]models.User, error) {
	var staff []models.User
	err := s.db.Select("id", "username", "email", "role").
		Where("role = ?", models.RoleModerator).
		Order("username").
		Find(&staff).Error
	return staff, err
}

// Promote makes the named account a moderator. Only the moderator role can
// be granted this way; admins are left alone.
func (s *UserService) Promote(req *dto.AssignStaffRequest) (*models.User, error) {
	verr := &ValidationError{}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		verr.add("username", "username is required")
	}
	if models.Role(strings.TrimSpace(req.Role)) != models.RoleModerator {
		verr.add("role", "role must be moderator")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.Role != models.RoleUser {
		return nil, ErrAlreadyModerator
	}
	if err := s.setRole(&user, models.RoleUser, models.RoleModerator); err != nil {
		return nil, err
	}
	return &user, nil
}

// Demote returns a moderator to the plain user role.
func (s *UserService) Demote(userID uint) (*models.User, error) {
	user, err := s.Find(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleModerator {
		return nil, ErrNotModerator
	}
	if err := s.setRole(user, models.RoleModerator, models.RoleUser); err != nil {
		return nil, err
	}
	return user, nil
}

// setRole moves user from one role to another, failing if the role changed
// underneath us.
func (s *UserService) setRole(user *models.User, from, to models.Role) error {
	result := s.db.Model(&models.User{}).
		Where("id = ? AND role = ?", user.ID, from).
		Update("role", to)
	if result.Error != nil {
		return fmt.Errorf("failed to update role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if to == models.RoleModerator {
			return ErrAlreadyModerator
		}
		return ErrNotModerator
	}
	user.Role = to
	return nil
}

// EnforceAccess applies lazy block expiry: a lapsed temporary block is
// cleared, an active one is returned as *BlockedError, and banned accounts
// get ErrAccountBanned.
func (s *UserService) EnforceAccess(user *models.User) error {
	if user.IsBanned() {
		return ErrAccountBanned
	}

	now := s.now()
	if user.BlockExpired(now) {
		if err := s.Unblock(user.ID); err != nil {
			return err
		}
		slog.Info("expired block cleared", "user_id", user.ID)
		user.IsBlocked = false
		user.BlockedUntil = nil
		return nil
	}
	if user.IsEffectivelyBlocked(now) {
		return &BlockedError{Until: user.BlockedUntil}
	}
	return nil
}

// CheckAccess loads the user and runs EnforceAccess on it.
func (s *UserService) CheckAccess(userID uint) (*models.User, error) {
	user, err := s.Find(userID)
	if err != nil {
		return nil, err
	}
	if err := s.EnforceAccess(user); err != nil {
		return user, err
	}
	return user, nil
}
