package services

import (
	"errors"
	"strings"

	"github.com/trailtalk/forum-backend/internal/models"
	"gorm.io/gorm"
)

// UserBrief is the public projection of an account inside moderation payloads.
type UserBrief struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type CategoryBrief struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type DiscussionBrief struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type DiscussionSnapshot struct {
	ID         uint           `json:"id"`
	Title      string         `json:"title"`
	UserID     uint           `json:"user_id"`
	CategoryID *uint          `json:"category_id"`
	User       UserBrief      `json:"user"`
	Category   *CategoryBrief `json:"category"`
}

type ReplySnapshot struct {
	ID           uint            `json:"id"`
	Content      string          `json:"content"`
	UserID       uint            `json:"user_id"`
	DiscussionID uint            `json:"discussion_id"`
	User         UserBrief       `json:"user"`
	Discussion   DiscussionBrief `json:"discussion"`
}

type UserSnapshot struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Reportable is the per-type behaviour the moderation flow needs from a
// report target.
type Reportable interface {
	// Exists reports whether the live (not deleted) target is present.
	Exists(db *gorm.DB, id uint) (bool, error)
	// Snapshots loads the moderator-facing projection of each present target.
	Snapshots(db *gorm.DB, ids []uint) (map[uint]any, error)
	// Owner returns the account accountable for the target, deleted or not.
	Owner(db *gorm.DB, id uint) (uint, error)
	// Approve applies the terminal action for an upheld report. It is a
	// no-op when the target is already gone.
	Approve(db *gorm.DB, id uint) error
}

// ParseTargetType accepts the singular and plural tags as well as the
// legacy class names older clients still send.
func ParseTargetType(raw string) (models.TargetType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "discussion", "discussions", `app\models\discussion`:
		return models.TargetDiscussion, nil
	case "reply", "replies", `app\models\reply`:
		return models.TargetReply, nil
	case "user", "users", `app\models\user`:
		return models.TargetUser, nil
	}
	return "", ErrUnsupportedTargetType
}

// Registry maps a target type to its Reportable behaviour.
type Registry struct {
	db          *gorm.DB
	reportables map[models.TargetType]Reportable
}

func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{
		db: db,
		reportables: map[models.TargetType]Reportable{
			models.TargetDiscussion: discussionReportable{},
			models.TargetReply:      replyReportable{},
			models.TargetUser:       userReportable{},
		},
	}
}

func (r *Registry) Lookup(t models.TargetType) (Reportable, error) {
	rep, ok := r.reportables[t]
	if !ok {
		return nil, ErrUnsupportedTargetType
	}
	return rep, nil
}

// Exists returns ErrTargetNotFound when the target is absent.
func (r *Registry) Exists(t models.TargetType, id uint) error {
	rep, err := r.Lookup(t)
	if err != nil {
		return err
	}
	ok, err := rep.Exists(r.db, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTargetNotFound
	}
	return nil
}

func (r *Registry) Snapshots(t models.TargetType, ids []uint) (map[uint]any, error) {
	rep, err := r.Lookup(t)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return map[uint]any{}, nil
	}
	return rep.Snapshots(r.db, ids)
}

// ResolveOwner returns the owning user of the target. found is false when
// the target never existed.
func (r *Registry) ResolveOwner(t models.TargetType, id uint) (ownerID uint, found bool, err error) {
	rep, err := r.Lookup(t)
	if err != nil {
		return 0, false, err
	}
	ownerID, err = rep.Owner(r.db, id)
	if errors.Is(err, ErrTargetNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return ownerID, true, nil
}

func (r *Registry) ApplyApproval(t models.TargetType, id uint) error {
	rep, err := r.Lookup(t)
	if err != nil {
		return err
	}
	return rep.Approve(r.db, id)
}

func briefSelect(tx *gorm.DB) *gorm.DB {
	return tx.Unscoped().Select("id", "username")
}

func ownerOf(db *gorm.DB, model interface{}, id uint) (uint, error) {
	var ownerID uint
	err := db.Unscoped().Model(model).Select("user_id").Where("id = ?", id).Limit(1).Scan(&ownerID).Error
	if err != nil {
		return 0, err
	}
	if ownerID == 0 {
		return 0, ErrTargetNotFound
	}
	return ownerID, nil
}

func exists(db *gorm.DB, model interface{}, id uint) (bool, error) {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

type discussionReportable struct{}

func (discussionReportable) Exists(db *gorm.DB, id uint) (bool, error) {
	return exists(db, &models.Discussion{}, id)
}

func (discussionReportable) Snapshots(db *gorm.DB, ids []uint) (map[uint]any, error) {
	var discussions []models.Discussion
	err := db.Select("id", "title", "user_id", "category_id").
		Preload("User", briefSelect).
		Preload("Category").
		Where("id IN ?", ids).
		Find(&discussions).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint]any, len(discussions))
	for _, d := range discussions {
		snap := DiscussionSnapshot{
			ID:         d.ID,
			Title:      d.Title,
			UserID:     d.UserID,
			CategoryID: d.CategoryID,
			User:       UserBrief{ID: d.User.ID, Username: d.User.Username},
		}
		if d.Category != nil {
			snap.Category = &CategoryBrief{ID: d.Category.ID, Name: d.Category.Name}
		}
		out[d.ID] = snap
	}
	return out, nil
}

func (discussionReportable) Owner(db *gorm.DB, id uint) (uint, error) {
	return ownerOf(db, &models.Discussion{}, id)
}

func (discussionReportable) Approve(db *gorm.DB, id uint) error {
	return db.Delete(&models.Discussion{}, id).Error
}

type replyReportable struct{}

func (replyReportable) Exists(db *gorm.DB, id uint) (bool, error) {
	return exists(db, &models.Reply{}, id)
}

func (replyReportable) Snapshots(db *gorm.DB, ids []uint) (map[uint]any, error) {
	var replies []models.Reply
	err := db.Select("id", "content", "user_id", "discussion_id").
		Preload("User", briefSelect).
		Preload("Discussion", func(tx *gorm.DB) *gorm.DB {
			return tx.Unscoped().Select("id", "title")
		}).
		Where("id IN ?", ids).
		Find(&replies).Error
	if err != nil {
		return nil, err
	}

	out := make(map[uint]any, len(replies))
	for _, r := range replies {
		out[r.ID] = ReplySnapshot{
			ID:           r.ID,
			Content:      r.Content,
			UserID:       r.UserID,
			DiscussionID: r.DiscussionID,
			User:         UserBrief{ID: r.User.ID, Username: r.User.Username},
			Discussion:   DiscussionBrief{ID: r.Discussion.ID, Title: r.Discussion.Title},
		}
	}
	return out, nil
}

func (replyReportable) Owner(db *gorm.DB, id uint) (uint, error) {
	return ownerOf(db, &models.Reply{}, id)
}

func (replyReportable) Approve(db *gorm.DB, id uint) error {
	return db.Delete(&models.Reply{}, id).Error
}

// userReportable bans instead of deleting; the account is its own owner.
type userReportable struct{}

func (userReportable) Exists(db *gorm.DB, id uint) (bool, error) {
	return exists(db, &models.User{}, id)
}

func (userReportable) Snapshots(db *gorm.DB, ids []uint) (map[uint]any, error) {
	var users []models.User
	if err := db.Select("id", "username", "email").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	out := make(map[uint]any, len(users))
	for _, u := range users {
		out[u.ID] = UserSnapshot{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return out, nil
}

func (userReportable) Owner(db *gorm.DB, id uint) (uint, error) {
	var n int64
	if err := db.Unscoped().Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrTargetNotFound
	}
	return id, nil
}

func (userReportable) Approve(db *gorm.DB, id uint) error {
	return db.Model(&models.User{}).Where("id = ?", id).Update("status", models.UserStatusBanned).Error
}
