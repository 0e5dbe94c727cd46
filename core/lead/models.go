package lead

import (
	"strings"

	"github.com/pkg/errors"
)

// Placeholder is shown in place of missing or blank values.
const Placeholder = "-"

// LifecycleStatus is where a lead stands in the admissions lifecycle.
type LifecycleStatus string

const (
	StatusNew          LifecycleStatus = "new"
	StatusActive       LifecycleStatus = "active"
	StatusAdmissionDue LifecycleStatus = "admission-due"
	StatusOther        LifecycleStatus = "other"
)

// SalesStatus is the pipeline stage of a lead.
type SalesStatus string

const (
	SalesNew       SalesStatus = "new"
	SalesContacted SalesStatus = "contacted"
	SalesQualified SalesStatus = "qualified"
	SalesConverted SalesStatus = "converted"
	SalesLost      SalesStatus = "lost"
	SalesDelegate  SalesStatus = "delegate"
)

var (
	SalesStatuses = []SalesStatus{SalesNew, SalesContacted, SalesQualified, SalesConverted, SalesLost, SalesDelegate}

	ErrInvalidSalesStatus = errors.New("invalid sales status")
)

func normalizeEnum(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(s)
}

// ParseLifecycleStatus maps a raw status onto the known lifecycle statuses; anything unknown is StatusOther.
func ParseLifecycleStatus(s string) LifecycleStatus {
	switch st := LifecycleStatus(normalizeEnum(s)); st {
	case StatusNew, StatusActive, StatusAdmissionDue:
		return st
	default:
		return StatusOther
	}
}

// ParseSalesStatus parses `s` case-insensitively.
func ParseSalesStatus(s string) (SalesStatus, error) {
	st := SalesStatus(normalizeEnum(s))
	for _, known := range SalesStatuses {
		if st == known {
			return st, nil
		}
	}
	return "", errors.Wrapf(ErrInvalidSalesStatus, "%q", s)
}

type Contact struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

// Lead is a prospective student/parent record. Leads are owned by the backend;
// only SalesStatus is ever changed from here.
type Lead struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Board       string          `json:"board"`
	Grade       string          `json:"grade"`
	Source      string          `json:"source"`
	Status      LifecycleStatus `json:"status"`
	SalesStatus SalesStatus     `json:"sales_status"`
	Counsellor  string          `json:"counsellor"`
	Contacts    []Contact       `json:"contacts"`
	Subjects    []string        `json:"subjects"`
}
