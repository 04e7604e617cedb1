package services

import (
	"github.com/trailtalk/forum-backend/internal/models"
	"gorm.io/gorm"
)

// AccessGate decides who may act on reports. Staff roles may moderate any
// report; the owner of a discussion may also moderate reports on replies
// posted in it. Group moderation is staff only.
type AccessGate struct {
	db *gorm.DB
}

func NewAccessGate(db *gorm.DB) *AccessGate {
	return &AccessGate{db: db}
}

func (g *AccessGate) CanModerate(actor *models.User, report *models.Report) error {
	if actor == nil {
		return ErrUnauthenticated
	}

	switch report.ReportableType {
	case models.TargetReply:
		if actor.Role.IsStaff() {
			return nil
		}
		owns, err := g.OwnsReplyThread(actor.ID, report.ReportableID)
		if err != nil {
			return err
		}
		if owns {
			return nil
		}
	case models.TargetDiscussion, models.TargetUser:
		if actor.Role.IsStaff() {
			return nil
		}
	default:
		return ErrUnsupportedTargetType
	}
	return ErrForbidden
}

func (g *AccessGate) CanModerateGroup(actor *models.User) error {
	return g.RequireStaff(actor)
}

// RequireStaff guards the site-wide review queues.
func (g *AccessGate) RequireStaff(actor *models.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.Role.IsStaff() {
		return ErrForbidden
	}
	return nil
}

// OwnsReplyThread reports whether userID started the discussion replyID
// belongs to. Deleted replies and discussions still count.
func (g *AccessGate) OwnsReplyThread(userID, replyID uint) (bool, error) {
	var n int64
	err := g.db.Table("replies").
		Joins("JOIN discussions ON discussions.id = replies.discussion_id").
		Where("replies.id = ? AND discussions.user_id = ?", replyID, userID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
