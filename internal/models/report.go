package models

import "time"

// TargetType tags the kind of entity a report points at.
type TargetType string

const (
	TargetDiscussion TargetType = "discussion"
	TargetReply      TargetType = "reply"
	TargetUser       TargetType = "user"
)

type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportApproved ReportStatus = "approved"
	ReportRejected ReportStatus = "rejected"
)

// IsDecision reports whether s is a terminal status a moderator may set.
func (s ReportStatus) IsDecision() bool {
	return s == ReportApproved || s == ReportRejected
}

// Report is a user complaint against a discussion, reply or user.
// A reporter may file one report per target, ever.
type Report struct {
	ID               uint         `gorm:"primaryKey" json:"id"`
	Reason           string       `gorm:"size:255;not null" json:"reason"`
	ReportableID     uint         `gorm:"not null;uniqueIndex:idx_reports_reporter_target,priority:3;index:idx_reports_target,priority:2" json:"reportable_id"`
	ReportableType   TargetType   `gorm:"size:20;not null;uniqueIndex:idx_reports_reporter_target,priority:2;index:idx_reports_target,priority:1" json:"reportable_type"`
	ReporterID       uint         `gorm:"not null;uniqueIndex:idx_reports_reporter_target,priority:1" json:"reporter_id"`
	Status           ReportStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ModeratorComment *string      `gorm:"size:1000" json:"moderator_comment"`
	ModeratorID      *uint        `gorm:"index" json:"moderator_id"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	Reporter         *User        `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Moderator        *User        `gorm:"foreignKey:ModeratorID" json:"-"`
}
