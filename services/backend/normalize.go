package backendsvc

import (
	"strings"

	"github.com/trezcool/admitdesk/core/lead"
)

type (
	contactRecord struct {
		Name     string `json:"name"`
		Relation string `json:"relation"`
		Phone    string `json:"phone"`
	}

	leadRecord struct {
		ID          string          `json:"_id"`
		AltID       string          `json:"id"`
		StudentName string          `json:"studentName"`
		Name        string          `json:"name"`
		Board       string          `json:"board"`
		Grade       string          `json:"grade"`
		Source      string          `json:"source"`
		Status      string          `json:"status"`
		SalesStatus string          `json:"salesStatus"`
		Counsellor  string          `json:"counsellor"`
		Contacts    []contactRecord `json:"contacts"`
		Subjects    []string        `json:"subjects"`
	}

	pagination struct {
		CurrentPage int `json:"currentPage"`
		TotalPages  int `json:"totalPages"`
		Limit       int `json:"limit"`
	}

	listResponse struct {
		Success    bool         `json:"success"`
		Message    string       `json:"message"`
		Data       []leadRecord `json:"data"`
		Total      int          `json:"total"`
		Pagination *pagination  `json:"pagination"`
	}

	patchRequest struct {
		SalesStatus string `json:"salesStatus"`
	}

	patchResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
)

func orPlaceholder(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return lead.Placeholder
	}
	return s
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// toLead maps a backend record onto a Lead. Missing fields are defaulted rather than rejected.
func (r leadRecord) toLead() lead.Lead {
	sales, err := lead.ParseSalesStatus(r.SalesStatus)
	if err != nil {
		sales = lead.SalesNew
	}

	contacts := make([]lead.Contact, 0, len(r.Contacts))
	for _, c := range r.Contacts {
		contacts = append(contacts, lead.Contact{
			Name:     orPlaceholder(c.Name),
			Relation: orPlaceholder(c.Relation),
			Phone:    orPlaceholder(c.Phone),
		})
	}
	subjects := make([]string, 0, len(r.Subjects))
	subjects = append(subjects, r.Subjects...)

	return lead.Lead{
		ID:          firstNonBlank(r.ID, r.AltID),
		Name:        orPlaceholder(firstNonBlank(r.StudentName, r.Name)),
		Board:       orPlaceholder(r.Board),
		Grade:       orPlaceholder(r.Grade),
		Source:      orPlaceholder(r.Source),
		Status:      lead.ParseLifecycleStatus(r.Status),
		SalesStatus: sales,
		Counsellor:  orPlaceholder(r.Counsellor),
		Contacts:    contacts,
		Subjects:    subjects,
	}
}

// normalize turns the listing of backend page `page` into a PageResult.
// Without pagination metadata the page is taken as the last one.
func (r listResponse) normalize(page int) lead.PageResult {
	leads := make([]lead.Lead, 0, len(r.Data))
	for _, rec := range r.Data {
		leads = append(leads, rec.toLead())
	}

	var totalPages int
	switch {
	case r.Pagination != nil && r.Pagination.TotalPages > 0:
		totalPages = r.Pagination.TotalPages
	case r.Pagination != nil && r.Pagination.Limit > 0:
		totalPages = (r.Total + r.Pagination.Limit - 1) / r.Pagination.Limit
	case len(leads) > 0:
		totalPages = page
	}

	total := r.Total
	if total < len(leads) {
		total = len(leads)
	}
	return lead.PageResult{Leads: leads, TotalPages: totalPages, TotalRecords: total}
}
