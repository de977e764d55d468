package lawyers

import (
	"strings"

	"github.com/casedesk/casedesk-backend/pkg/models"
)

// Filter holds the optional marketplace search terms. Absent terms impose no
// constraint; present terms are combined conjunctively.
type Filter struct {
	PracticeArea string
	Language     string
	Jurisdiction string
	RateType     string
	Search       string
}

func (f Filter) empty() bool {
	return f.PracticeArea == "" && f.Language == "" && f.Jurisdiction == "" &&
		f.RateType == "" && f.Search == ""
}

func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}

func anyContainsFold(values []string, term string) bool {
	for _, v := range values {
		if containsFold(v, term) {
			return true
		}
	}
	return false
}

// Matches reports whether a profile satisfies the filter. Each term other
// than Search is a case-insensitive substring match against its field;
// Search matches disjunctively against fullName, headline, or any practice
// area.
func (f Filter) Matches(p *models.LawyerProfile) bool {
	if f.empty() {
		return true
	}
	if f.PracticeArea != "" && !anyContainsFold(p.PracticeAreas, f.PracticeArea) {
		return false
	}
	if f.Language != "" && !anyContainsFold(p.Languages, f.Language) {
		return false
	}
	if f.Jurisdiction != "" && !anyContainsFold(p.Jurisdictions, f.Jurisdiction) {
		return false
	}
	if f.RateType != "" && !containsFold(string(p.RateType), f.RateType) {
		return false
	}
	if f.Search != "" {
		if !containsFold(p.FullName, f.Search) &&
			!containsFold(p.Headline, f.Search) &&
			!anyContainsFold(p.PracticeAreas, f.Search) {
			return false
		}
	}
	return true
}
