package model

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

type (
	Program    string
	Subject    string
	Domain     string
	Difficulty string
	Skill      string
)

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

//go:embed taxonomy.yaml
var taxonomyYAML []byte

type taxonomyFile struct {
	Programs     []Program    `yaml:"programs"`
	Difficulties []Difficulty `yaml:"difficulties"`
	Subjects     []struct {
		Name    Subject `yaml:"name"`
		Domains []struct {
			Name   Domain  `yaml:"name"`
			Skills []Skill `yaml:"skills"`
		} `yaml:"domains"`
	} `yaml:"subjects"`
}

// Taxonomy holds the closed vocabularies and the subject -> domain -> skill
// dependency tables. It is reference data and is never derived from stored rows.
type Taxonomy struct {
	Programs     []Program
	Subjects     []Subject
	Domains      []Domain
	Difficulties []Difficulty
	Skills       []Skill

	subjectDomains map[Subject][]Domain
	domainSkills   map[Domain][]Skill
	domainSubject  map[Domain]Subject
	skillDomain    map[Skill]Domain
	programs       map[Program]bool
	difficulties   map[Difficulty]bool
}

// SAT is the embedded SAT content taxonomy.
var SAT = mustLoadTaxonomy(taxonomyYAML)

func mustLoadTaxonomy(data []byte) *Taxonomy {
	t, err := LoadTaxonomy(data)
	if err != nil {
		panic(err)
	}
	return t
}

func LoadTaxonomy(data []byte) (*Taxonomy, error) {
	var f taxonomyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("taxonomy: %w", err)
	}

	t := &Taxonomy{
		Programs:       f.Programs,
		Difficulties:   f.Difficulties,
		subjectDomains: make(map[Subject][]Domain),
		domainSkills:   make(map[Domain][]Skill),
		domainSubject:  make(map[Domain]Subject),
		skillDomain:    make(map[Skill]Domain),
		programs:       make(map[Program]bool),
		difficulties:   make(map[Difficulty]bool),
	}
	for _, p := range f.Programs {
		t.programs[p] = true
	}
	for _, d := range f.Difficulties {
		t.difficulties[d] = true
	}
	for _, s := range f.Subjects {
		t.Subjects = append(t.Subjects, s.Name)
		for _, d := range s.Domains {
			if prev, dup := t.domainSubject[d.Name]; dup {
				return nil, fmt.Errorf("taxonomy: domain %q listed under %q and %q", d.Name, prev, s.Name)
			}
			t.Domains = append(t.Domains, d.Name)
			t.subjectDomains[s.Name] = append(t.subjectDomains[s.Name], d.Name)
			t.domainSubject[d.Name] = s.Name
			for _, k := range d.Skills {
				if prev, dup := t.skillDomain[k]; dup {
					return nil, fmt.Errorf("taxonomy: skill %q listed under %q and %q", k, prev, d.Name)
				}
				t.Skills = append(t.Skills, k)
				t.domainSkills[d.Name] = append(t.domainSkills[d.Name], k)
				t.skillDomain[k] = d.Name
			}
		}
	}
	return t, nil
}

func (t *Taxonomy) IsProgram(p Program) bool { return t.programs[p] }

func (t *Taxonomy) IsDifficulty(d Difficulty) bool { return t.difficulties[d] }

func (t *Taxonomy) IsSubject(s Subject) bool {
	_, ok := t.subjectDomains[s]
	return ok
}

func (t *Taxonomy) IsDomain(d Domain) bool {
	_, ok := t.domainSubject[d]
	return ok
}

func (t *Taxonomy) IsSkill(k Skill) bool {
	_, ok := t.skillDomain[k]
	return ok
}

func (t *Taxonomy) SubjectOf(d Domain) (Subject, bool) {
	s, ok := t.domainSubject[d]
	return s, ok
}

func (t *Taxonomy) DomainOf(k Skill) (Domain, bool) {
	d, ok := t.skillDomain[k]
	return d, ok
}

// DomainsFor returns the domains of a subject, or every domain when subject is empty.
func (t *Taxonomy) DomainsFor(s Subject) []Domain {
	if s == "" {
		return append([]Domain(nil), t.Domains...)
	}
	return append([]Domain(nil), t.subjectDomains[s]...)
}

// SkillsFor returns the skills of a domain, or every skill when domain is empty.
func (t *Taxonomy) SkillsFor(d Domain) []Skill {
	if d == "" {
		return append([]Skill(nil), t.Skills...)
	}
	return append([]Skill(nil), t.domainSkills[d]...)
}

func (t *Taxonomy) SubjectHasDomain(s Subject, d Domain) bool {
	owner, ok := t.domainSubject[d]
	return ok && owner == s
}

func (t *Taxonomy) DomainHasSkill(d Domain, k Skill) bool {
	owner, ok := t.skillDomain[k]
	return ok && owner == d
}

type DomainNode struct {
	Name   Domain  `json:"name"`
	Skills []Skill `json:"skills"`
}

type SubjectNode struct {
	Name    Subject      `json:"name"`
	Domains []DomainNode `json:"domains"`
}

// TaxonomyView is the nested reference list served to clients.
type TaxonomyView struct {
	Programs     []Program     `json:"programs"`
	Difficulties []Difficulty  `json:"difficulties"`
	Subjects     []SubjectNode `json:"subjects"`
}

func (t *Taxonomy) View() TaxonomyView {
	v := TaxonomyView{Programs: t.Programs, Difficulties: t.Difficulties}
	for _, s := range t.Subjects {
		node := SubjectNode{Name: s}
		for _, d := range t.subjectDomains[s] {
			node.Domains = append(node.Domains, DomainNode{Name: d, Skills: t.domainSkills[d]})
		}
		v.Subjects = append(v.Subjects, node)
	}
	return v
}
