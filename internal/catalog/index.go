package catalog

// IndexRule maps one filter to the secondary index that can drive a scan on it.
type IndexRule struct {
	Field Field
	Index string
	value func(Filters) string
}

// FullScan is the index name reported when no rule applies.
const FullScan = "by_creation_time"

// IndexRules is the driving-index priority list, most selective first. The
// first rule whose filter is set wins; questionId short-circuits the rest.
var IndexRules = []IndexRule{
	{FieldQuestionID, "by_question_id", func(f Filters) string { return f.QuestionID }},
	{FieldSkill, "by_skill", func(f Filters) string { return string(f.Skill) }},
	{FieldDomain, "by_domain", func(f Filters) string { return string(f.Domain) }},
	{FieldDifficulty, "by_difficulty", func(f Filters) string { return string(f.Difficulty) }},
	{FieldProgram, "by_program", func(f Filters) string { return string(f.Program) }},
	{FieldSubject, "by_subject", func(f Filters) string { return string(f.Subject) }},
}

// IndexChoice is the selected driving index. Field is empty for a full scan.
type IndexChoice struct {
	Index string `json:"index"`
	Field Field  `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

func (c IndexChoice) IsFullScan() bool {
	return c.Field == ""
}

// SelectIndex picks the driving index for f. It is a pure function.
func SelectIndex(f Filters) IndexChoice {
	for _, r := range IndexRules {
		if v := r.value(f); v != "" {
			return IndexChoice{Index: r.Index, Field: r.Field, Value: v}
		}
	}
	return IndexChoice{Index: FullScan}
}

type Op string

const (
	OpEq      Op = "eq"
	OpNotNull Op = "not_null"
	OpIsFalse Op = "is_false"
)

// Predicate is a secondary condition applied after the index scan.
type Predicate struct {
	Field Field  `json:"field"`
	Op    Op     `json:"op"`
	Value string `json:"value,omitempty"`
}

// Predicates returns every condition of f except the one served by the driving
// index.
func Predicates(f Filters, driving IndexChoice) []Predicate {
	var ps []Predicate
	for _, r := range IndexRules {
		if r.Field == driving.Field {
			continue
		}
		if v := r.value(f); v != "" {
			ps = append(ps, Predicate{Field: r.Field, Op: OpEq, Value: v})
		}
	}
	if f.IBNOnly {
		ps = append(ps, Predicate{Field: FieldIBN, Op: OpNotNull})
	}
	if f.HasExternalID {
		ps = append(ps, Predicate{Field: FieldExternalID, Op: OpNotNull})
	}
	if f.OnlyInactive {
		ps = append(ps, Predicate{Field: FieldIsActive, Op: OpIsFalse})
	}
	return ps
}

// Scan is the store request produced from a filter set.
type Scan struct {
	Index      IndexChoice `json:"index"`
	Predicates []Predicate `json:"predicates,omitempty"`
	Sort       SortKey     `json:"sort"`
	Order      Order       `json:"order"`
}

func PlanScan(f Filters, sort SortKey, order Order) Scan {
	idx := SelectIndex(f)
	return Scan{
		Index:      idx,
		Predicates: Predicates(f, idx),
		Sort:       sort.OrDefault(),
		Order:      order.OrDefault(),
	}
}
