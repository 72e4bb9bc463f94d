package catalog

import (
	"sat_practice_backend/internal/model"
)

// QueryRequest is a fully normalised list request.
type QueryRequest struct {
	Filters  Filters `json:"filters"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	Sort     SortKey `json:"sort"`
	Order    Order   `json:"order"`
}

func (r QueryRequest) Scan() Scan {
	return PlanScan(r.Filters, r.Sort, r.Order)
}

// ViewState is the client-held browsing state. Page and PageSize are kept as
// received and only normalised by DeriveQuery.
type ViewState struct {
	Filters  Filters `json:"filters"`
	Page     float64 `json:"page"`
	PageSize float64 `json:"pageSize"`
	Sort     SortKey `json:"sort,omitempty"`
	Order    Order   `json:"order,omitempty"`
}

// DeriveQuery maps view state to the list request it implies. It is pure and
// performs no taxonomy validation.
func DeriveQuery(s ViewState) QueryRequest {
	page, size := NormalizePagination(s.Page, s.PageSize)
	return QueryRequest{
		Filters:  s.Filters,
		Page:     page,
		PageSize: size,
		Sort:     s.Sort.OrDefault(),
		Order:    s.Order.OrDefault(),
	}
}

// Filter setters mirror the browse screen: every change returns to page 1 and
// a parent change clears its dependents.

func (s ViewState) WithProgram(p model.Program) ViewState {
	s.Filters.Program = p
	s.Page = DefaultPage
	return s
}

func (s ViewState) WithSubject(subject model.Subject) ViewState {
	s.Filters.Subject = subject
	s.Filters.Domain = ""
	s.Filters.Skill = ""
	s.Page = DefaultPage
	return s
}

func (s ViewState) WithDomain(d model.Domain) ViewState {
	s.Filters.Domain = d
	s.Filters.Skill = ""
	s.Page = DefaultPage
	return s
}

func (s ViewState) WithDifficulty(d model.Difficulty) ViewState {
	s.Filters.Difficulty = d
	s.Page = DefaultPage
	return s
}

func (s ViewState) WithSkill(k model.Skill) ViewState {
	s.Filters.Skill = k
	s.Page = DefaultPage
	return s
}

func (s ViewState) WithOnlyInactive(v bool) ViewState {
	s.Filters.OnlyInactive = v
	s.Page = DefaultPage
	return s
}

func (s ViewState) WithPage(page float64) ViewState {
	s.Page = page
	return s
}

// Reconcile clears a domain that does not belong to the selected subject (and
// its skill), then a skill that does not belong to the selected domain. Either
// clearing returns to page 1.
func (s ViewState) Reconcile(t *model.Taxonomy) ViewState {
	f := &s.Filters
	if f.Subject != "" && f.Domain != "" && !t.SubjectHasDomain(f.Subject, f.Domain) {
		f.Domain = ""
		f.Skill = ""
		s.Page = DefaultPage
	}
	if f.Domain != "" && f.Skill != "" && !t.DomainHasSkill(f.Domain, f.Skill) {
		f.Skill = ""
		s.Page = DefaultPage
	}
	return s
}

// AvailableDomains lists the domain choices offered for the current subject.
func (s ViewState) AvailableDomains(t *model.Taxonomy) []model.Domain {
	return t.DomainsFor(s.Filters.Subject)
}

// AvailableSkills lists the skill choices offered for the current domain.
func (s ViewState) AvailableSkills(t *model.Taxonomy) []model.Skill {
	return t.SkillsFor(s.Filters.Domain)
}
