package dto

type CreateReportRequest struct {
	Reason         string `json:"reason"`
	ReportableID   uint   `json:"reportable_id"`
	ReportableType string `json:"reportable_type"`
}

type ModerateReportRequest struct {
	Status  string  `json:"status"`
	Comment *string `json:"comment"`
}

type ModerateGroupRequest struct {
	ReportableID uint    `json:"reportable_id"`
	Status       string  `json:"status"`
	Comment      *string `json:"comment"`
}

type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// NewPagination clamps page to 1 and reports at least one page.
func NewPagination(page, perPage int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    last,
	}
}

// Offset is the row offset of the current page.
func (p Pagination) Offset() int {
	return (p.CurrentPage - 1) * p.PerPage
}

type AssignStaffRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
