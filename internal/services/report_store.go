package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/trailtalk/forum-backend/internal/dto"
	"github.com/trailtalk/forum-backend/internal/models"
	"gorm.io/gorm"
)

const (
	maxReasonLength  = 255
	maxCommentLength = 1000
)

// ReportView is a pending report with its reporter and target resolved.
// Reportable is nil when the target has been deleted since the report was filed.
type ReportView struct {
	ID             uint                `json:"id"`
	Reason         string              `json:"reason"`
	ReportableType models.TargetType   `json:"reportable_type"`
	ReportableID   uint                `json:"reportable_id"`
	Status         models.ReportStatus `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
	Reporter       UserBrief           `json:"reporter"`
	Reportable     any                 `json:"reportable"`
}

// ReportStore persists reports and enforces one report per reporter and target.
type ReportStore struct {
	db       *gorm.DB
	registry *Registry
}

func NewReportStore(db *gorm.DB, registry *Registry) *ReportStore {
	return &ReportStore{db: db, registry: registry}
}

func (s *ReportStore) Submit(reporterID uint, req *dto.CreateReportRequest) (*models.Report, error) {
	if reporterID == 0 {
		return nil, ErrUnauthenticated
	}

	verr := &ValidationError{}
	reason := strings.TrimSpace(req.Reason)
	switch {
	case reason == "":
		verr.add("reason", "reason is required")
	case utf8.RuneCountInString(reason) > maxReasonLength:
		verr.add("reason", fmt.Sprintf("reason must be at most %d characters", maxReasonLength))
	}
	if req.ReportableID == 0 {
		verr.add("reportable_id", "reportable_id is required")
	}
	if strings.TrimSpace(req.ReportableType) == "" {
		verr.add("reportable_type", "reportable_type is required")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	targetType, err := ParseTargetType(req.ReportableType)
	if err != nil {
		return nil, err
	}
	if err := s.registry.Exists(targetType, req.ReportableID); err != nil {
		return nil, err
	}

	var existing int64
	err = s.db.Model(&models.Report{}).
		Where("reporter_id = ? AND reportable_type = ? AND reportable_id = ?", reporterID, targetType, req.ReportableID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check existing reports: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateReport
	}

	report := models.Report{
		Reason:         reason,
		ReportableType: targetType,
		ReportableID:   req.ReportableID,
		ReporterID:     reporterID,
		Status:         models.ReportPending,
	}
	if err := s.db.Create(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReport
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (s *ReportStore) FindByID(id uint) (*models.Report, error) {
	var report models.Report
	if err := s.db.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

// ListPending returns pending reports of one type, newest first. A limit of
// zero or less returns every pending report.
func (s *ReportStore) ListPending(t models.TargetType, limit, offset int) ([]ReportView, int64, error) {
	if _, err := s.registry.Lookup(t); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Report{}).
		Where("reportable_type = ? AND status = ?", t, models.ReportPending).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	q := query.Preload("Reporter", briefSelect).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	views, err := s.resolve(reports)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// PendingRepliesForOwner lists pending reply reports filed inside discussions
// owned by ownerID.
func (s *ReportStore) PendingRepliesForOwner(ownerID uint, limit, offset int) ([]ReportView, int64, error) {
	owned := s.db.Table("replies").
		Select("replies.id").
		Joins("JOIN discussions ON discussions.id = replies.discussion_id").
		Where("discussions.user_id = ?", ownerID)

	query := s.db.Model(&models.Report{}).
		Where("reportable_type = ? AND status = ?", models.TargetReply, models.ReportPending).
		Where("reportable_id IN (?)", owned).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	err := query.Preload("Reporter", briefSelect).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}

	views, err := s.resolve(reports)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// CountPending is read live on every call.
func (s *ReportStore) CountPending(t models.TargetType, id uint) (int64, error) {
	var n int64
	err := s.db.Model(&models.Report{}).
		Where("reportable_type = ? AND reportable_id = ? AND status = ?", t, id, models.ReportPending).
		Count(&n).Error
	return n, err
}

// PendingByTargetID matches on reportable_id alone, so reports against
// different target types that share the id are returned together.
func (s *ReportStore) PendingByTargetID(id uint) ([]models.Report, error) {
	var reports []models.Report
	err := s.db.Where("reportable_id = ? AND status = ?", id, models.ReportPending).
		Order("created_at").Order("id").
		Find(&reports).Error
	return reports, err
}

// CommitDecision moves a pending report to its terminal status. It returns
// ErrReportClosed if the report was decided in the meantime.
func (s *ReportStore) CommitDecision(report *models.Report, status models.ReportStatus, comment *string, moderatorID uint) error {
	result := s.db.Model(&models.Report{}).
		Where("id = ? AND status = ?", report.ID, models.ReportPending).
		Updates(map[string]interface{}{
			"status":            status,
			"moderator_comment": comment,
			"moderator_id":      moderatorID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrReportClosed
	}

	report.Status = status
	report.ModeratorComment = comment
	report.ModeratorID = &moderatorID
	return nil
}

// CommitGroupDecision applies one decision to every listed report still
// pending and returns the reports this call actually moved. Reports decided
// concurrently by someone else are left out.
func (s *ReportStore) CommitGroupDecision(ids []uint, status models.ReportStatus, comment *string, moderatorID uint) ([]models.Report, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var decided []models.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Report{}).
			Where("id IN ? AND status = ?", ids, models.ReportPending).
			Updates(map[string]interface{}{
				"status":            status,
				"moderator_comment": comment,
				"moderator_id":      moderatorID,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Where("id IN ? AND status = ? AND moderator_id = ?", ids, status, moderatorID).
			Order("created_at").Order("id").
			Find(&decided).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update reports: %w", err)
	}
	return decided, nil
}

func (s *ReportStore) resolve(reports []models.Report) ([]ReportView, error) {
	idsByType := make(map[models.TargetType][]uint)
	for _, r := range reports {
		idsByType[r.ReportableType] = append(idsByType[r.ReportableType], r.ReportableID)
	}

	snapshots := make(map[models.TargetType]map[uint]any, len(idsByType))
	for t, ids := range idsByType {
		snaps, err := s.registry.Snapshots(t, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s targets: %w", t, err)
		}
		snapshots[t] = snaps
	}

	views := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		view := ReportView{
			ID:             r.ID,
			Reason:         r.Reason,
			ReportableType: r.ReportableType,
			ReportableID:   r.ReportableID,
			Status:         r.Status,
			CreatedAt:      r.CreatedAt,
			Reportable:     snapshots[r.ReportableType][r.ReportableID],
		}
		if r.Reporter != nil {
			view.Reporter = UserBrief{ID: r.Reporter.ID, Username: r.Reporter.Username}
		}
		views = append(views, view)
	}
	return views, nil
}
