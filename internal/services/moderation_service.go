package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/getsentry/sentry-go"
	"github.com/trailtalk/forum-backend/internal/dto"
	"github.com/trailtalk/forum-backend/internal/models"
	"gorm.io/gorm"
)

const (
	// AutoBlockThreshold is the number of pending reports on one target that
	// gets the target's owner blocked when a report on it is approved.
	AutoBlockThreshold = 5

	ReportsPerPage = 10
)

// Notifier is told about every decided report. The default service has none.
type Notifier interface {
	ReportModerated(report *models.Report) error
}

type ModerationService struct {
	store    *ReportStore
	registry *Registry
	gate     *AccessGate
	users    *UserService
	notifier Notifier
	now      func() time.Time
}

func NewModerationService(db *gorm.DB, users *UserService) *ModerationService {
	registry := NewRegistry(db)
	return &ModerationService{
		store:    NewReportStore(db, registry),
		registry: registry,
		gate:     NewAccessGate(db),
		users:    users,
		now:      time.Now,
	}
}

// SetNotifier installs a hook called after each decision.
func (s *ModerationService) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *ModerationService) SubmitReport(reporterID uint, req *dto.CreateReportRequest) (*models.Report, error) {
	report, err := s.store.Submit(reporterID, req)
	if err != nil {
		return nil, err
	}
	slog.Info("report submitted",
		"report_id", report.ID,
		"user_id", reporterID,
		"reportable_type", report.ReportableType,
		"reportable_id", report.ReportableID,
	)
	return report, nil
}

// ListPending is the paginated review queue for one target type.
func (s *ModerationService) ListPending(actorID uint, rawType string, page int) ([]ReportView, dto.Pagination, error) {
	t, err := s.reviewQueue(actorID, rawType)
	if err != nil {
		return nil, dto.Pagination{}, err
	}

	p := dto.NewPagination(page, ReportsPerPage, 0)
	reports, total, err := s.store.ListPending(t, p.PerPage, p.Offset())
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, dto.NewPagination(p.CurrentPage, p.PerPage, total), nil
}

// ListGroups returns every pending report of one type grouped by target.
func (s *ModerationService) ListGroups(actorID uint, rawType string) ([]ReviewGroup, error) {
	t, err := s.reviewQueue(actorID, rawType)
	if err != nil {
		return nil, err
	}

	reports, _, err := s.store.ListPending(t, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return GroupPending(reports), nil
}

// MyResponseReports lists pending reports on replies inside the caller's discussions.
func (s *ModerationService) MyResponseReports(actorID uint, page int) ([]ReportView, dto.Pagination, error) {
	actor, err := s.loadActor(actorID)
	if err != nil {
		return nil, dto.Pagination{}, err
	}

	p := dto.NewPagination(page, ReportsPerPage, 0)
	reports, total, err := s.store.PendingRepliesForOwner(actor.ID, p.PerPage, p.Offset())
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("failed to list response reports: %w", err)
	}
	return reports, dto.NewPagination(p.CurrentPage, p.PerPage, total), nil
}

// Moderate records a decision on one report. The status change is durable
// before any side effect runs; side-effect failures are logged and do not
// fail the call.
func (s *ModerationService) Moderate(reportID, actorID uint, req *dto.ModerateReportRequest) (*models.Report, error) {
	decision, comment, err := parseDecision(req.Status, req.Comment)
	if err != nil {
		return nil, err
	}

	actor, err := s.loadActor(actorID)
	if err != nil {
		return nil, err
	}
	report, err := s.store.FindByID(reportID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.CanModerate(actor, report); err != nil {
		slog.Warn("moderation denied", "report_id", report.ID, "user_id", actor.ID, "role", actor.Role)
		return nil, err
	}
	if report.Status != models.ReportPending {
		return nil, ErrReportClosed
	}

	if err := s.store.CommitDecision(report, decision, comment, actor.ID); err != nil {
		return nil, err
	}
	slog.Info("report moderated",
		"report_id", report.ID,
		"status", decision,
		"moderator_id", actor.ID,
		"reportable_type", report.ReportableType,
		"reportable_id", report.ReportableID,
	)

	if decision == models.ReportApproved {
		if err := s.registry.ApplyApproval(report.ReportableType, report.ReportableID); err != nil {
			s.sideEffectFailed("apply_approval", report, err)
		}
		s.escalate(report)
	}

	s.notify(report)
	return report, nil
}

// ModerateGroup applies one decision to every pending report whose
// reportable_id matches, regardless of reportable_type. Only staff may call
// it, and it never escalates to an automatic block.
func (s *ModerationService) ModerateGroup(actorID uint, req *dto.ModerateGroupRequest) (int64, error) {
	actor, err := s.loadActor(actorID)
	if err != nil {
		return 0, err
	}
	if err := s.gate.CanModerateGroup(actor); err != nil {
		return 0, err
	}

	decision, comment, err := parseDecision(req.Status, req.Comment)
	if err != nil {
		return 0, err
	}
	if req.ReportableID == 0 {
		return 0, &ValidationError{Fields: map[string]string{"reportable_id": "reportable_id is required"}}
	}

	reports, err := s.store.PendingByTargetID(req.ReportableID)
	if err != nil {
		return 0, fmt.Errorf("failed to load reports: %w", err)
	}
	if len(reports) == 0 {
		return 0, ErrReportNotFound
	}

	ids := make([]uint, len(reports))
	for i, r := range reports {
		ids[i] = r.ID
	}
	decided, err := s.store.CommitGroupDecision(ids, decision, comment, actor.ID)
	if err != nil {
		return 0, err
	}
	slog.Info("report group moderated",
		"reportable_id", req.ReportableID,
		"status", decision,
		"moderator_id", actor.ID,
		"updated", len(decided),
	)

	applied := make(map[groupKey]bool)
	for i := range decided {
		report := &decided[i]
		key := groupKey{t: report.ReportableType, id: report.ReportableID}
		if decision == models.ReportApproved && !applied[key] {
			applied[key] = true
			if err := s.registry.ApplyApproval(key.t, key.id); err != nil {
				s.sideEffectFailed("apply_approval", report, err)
			}
		}
		s.notify(report)
	}
	return int64(len(decided)), nil
}

// escalate blocks the target's owner once the target has accumulated
// AutoBlockThreshold pending reports, counting the one just approved.
func (s *ModerationService) escalate(report *models.Report) {
	remaining, err := s.store.CountPending(report.ReportableType, report.ReportableID)
	if err != nil {
		s.sideEffectFailed("count_pending", report, err)
		return
	}
	if remaining+1 < AutoBlockThreshold {
		return
	}

	ownerID, found, err := s.registry.ResolveOwner(report.ReportableType, report.ReportableID)
	if err != nil {
		s.sideEffectFailed("resolve_owner", report, err)
		return
	}
	if !found {
		return
	}

	until := s.now().Add(BlockDuration)
	if err := s.users.Block(ownerID, until); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return
		}
		s.sideEffectFailed("auto_block", report, err)
		return
	}
	slog.Warn("user auto-blocked",
		"user_id", ownerID,
		"report_id", report.ID,
		"reportable_type", report.ReportableType,
		"reportable_id", report.ReportableID,
		"pending_reports", remaining+1,
		"blocked_until", until,
	)
}

func (s *ModerationService) notify(report *models.Report) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.ReportModerated(report); err != nil {
		s.sideEffectFailed("notify", report, err)
	}
}

func (s *ModerationService) sideEffectFailed(action string, report *models.Report, err error) {
	slog.Error("moderation side effect failed",
		"action", action,
		"report_id", report.ID,
		"reportable_type", report.ReportableType,
		"reportable_id", report.ReportableID,
		"error", err,
	)
	sentry.CaptureException(fmt.Errorf("%s for report %d: %w", action, report.ID, err))
}

func (s *ModerationService) reviewQueue(actorID uint, rawType string) (models.TargetType, error) {
	actor, err := s.loadActor(actorID)
	if err != nil {
		return "", err
	}
	if err := s.gate.RequireStaff(actor); err != nil {
		return "", err
	}
	if strings.TrimSpace(rawType) == "" {
		return "", &ValidationError{Fields: map[string]string{"type": "type is required"}}
	}
	return ParseTargetType(rawType)
}

func (s *ModerationService) loadActor(actorID uint) (*models.User, error) {
	if actorID == 0 {
		return nil, ErrUnauthenticated
	}
	actor, err := s.users.Find(actorID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrUnauthenticated
	}
	return actor, err
}

func parseDecision(status string, comment *string) (models.ReportStatus, *string, error) {
	verr := &ValidationError{}
	decision := models.ReportStatus(strings.TrimSpace(status))
	if !decision.IsDecision() {
		verr.add("status", "status must be approved or rejected")
	}
	if comment != nil {
		trimmed := strings.TrimSpace(*comment)
		if utf8.RuneCountInString(trimmed) > maxCommentLength {
			verr.add("comment", fmt.Sprintf("comment must be at most %d characters", maxCommentLength))
		}
		if trimmed == "" {
			comment = nil
		} else {
			comment = &trimmed
		}
	}
	if err := verr.orNil(); err != nil {
		return "", nil, err
	}
	return decision, comment, nil
}
