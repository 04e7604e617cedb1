package services

import (
	"sort"

	"github.com/trailtalk/forum-backend/internal/models"
)

type GroupReporter struct {
	ReportID         uint   `json:"report_id"`
	ReporterID       uint   `json:"reporter_id"`
	ReporterUsername string `json:"reporter_username"`
}

// ReviewGroup aggregates the pending reports filed against one target.
type ReviewGroup struct {
	ReportableType models.TargetType `json:"reportable_type"`
	ReportableID   uint              `json:"reportable_id"`
	Reportable     any               `json:"reportable"`
	ReportCount    int               `json:"report_count"`
	Reasons        []string          `json:"reasons"`
	Reporters      []GroupReporter   `json:"reporters"`
}

type groupKey struct {
	t  models.TargetType
	id uint
}

// GroupPending partitions reports by target. Groups keep the order in which
// their first member appears in reports; inside a group, reasons and
// reporters follow submission order and reasons are deduplicated literally.
func GroupPending(reports []ReportView) []ReviewGroup {
	order := make([]groupKey, 0)
	members := make(map[groupKey][]ReportView)

	for _, r := range reports {
		key := groupKey{t: r.ReportableType, id: r.ReportableID}
		if _, seen := members[key]; !seen {
			order = append(order, key)
		}
		members[key] = append(members[key], r)
	}

	groups := make([]ReviewGroup, 0, len(order))
	for _, key := range order {
		list := members[key]
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.Before(list[j].CreatedAt)
			}
			return list[i].ID < list[j].ID
		})

		group := ReviewGroup{
			ReportableType: key.t,
			ReportableID:   key.id,
			Reportable:     list[0].Reportable,
			ReportCount:    len(list),
			Reasons:        make([]string, 0, len(list)),
			Reporters:      make([]GroupReporter, 0, len(list)),
		}
		seenReasons := make(map[string]bool, len(list))
		for _, r := range list {
			if !seenReasons[r.Reason] {
				seenReasons[r.Reason] = true
				group.Reasons = append(group.Reasons, r.Reason)
			}
			group.Reporters = append(group.Reporters, GroupReporter{
				ReportID:         r.ID,
				ReporterID:       r.Reporter.ID,
				ReporterUsername: r.Reporter.Username,
			})
		}
		groups = append(groups, group)
	}
	return groups
}
