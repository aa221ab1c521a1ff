package scrape

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// each source website gets its own extractor implementing this
// interface, so the rest of the pipeline never cares which site a
// document came from. extraction is a pure function of the document:
// no I/O, no state, and malformed markup produces missing fields
// rather than errors.

type FieldName string

const (
	FieldSubjectName FieldName = "name"
	FieldAwardYear   FieldName = "award_year"
	FieldAge         FieldName = "age"
	FieldBirthYear   FieldName = "birth_year"
	FieldTitle       FieldName = "title"
	FieldAffiliation FieldName = "affiliation"
	FieldLocation    FieldName = "location"
	FieldArea        FieldName = "area"
	FieldBiography   FieldName = "biography"
)

type Status int

const (
	// the rule matched and produced a value
	StatusFound Status = iota
	// the rule ran but found nothing; the field is legitimately absent
	StatusMissing
	// the markup the rule depends on wasn't there at all, which means
	// the rule broke (likely a site layout change), not that the data
	// is absent
	StatusBroken
)

// Candidate is one (field, value, method) triple produced by a single
// extraction rule. Several candidates may exist for the same field when
// independent rules target it; the reconciler picks between them.
type Candidate struct {
	Field  FieldName
	Value  string
	Method string
	Status Status
}

func Found(field FieldName, method, value string) Candidate {
	return Candidate{Field: field, Value: value, Method: method, Status: StatusFound}
}

func Miss(field FieldName, method string) Candidate {
	return Candidate{Field: field, Method: method, Status: StatusMissing}
}

func Broken(field FieldName, method string) Candidate {
	return Candidate{Field: field, Method: method, Status: StatusBroken}
}

// RawDocument is an opaque parsed-markup handle plus the store key it
// was saved under. Doc is nil when the upstream fetch failed; extractors
// must return an empty extraction in that case.
type RawDocument struct {
	Key string
	Doc *goquery.Document
}

type Extraction struct {
	Identity string
	Source   string
	Fields   map[FieldName][]Candidate
}

func NewExtraction(identity, source string) Extraction {
	return Extraction{
		Identity: identity,
		Source:   source,
		Fields:   map[FieldName][]Candidate{},
	}
}

func (e Extraction) Add(c Candidate) {
	e.Fields[c.Field] = append(e.Fields[c.Field], c)
}

// First returns the highest-precedence found candidate for a field.
func (e Extraction) First(field FieldName) (Candidate, bool) {
	for _, c := range e.Fields[field] {
		if c.Status == StatusFound {
			return c, true
		}
	}
	return Candidate{}, false
}

// Candidates returns every candidate recorded for a field in rule
// precedence order, including misses, so the reconciler can audit what
// each rule saw.
func (e Extraction) Candidates(field FieldName) []Candidate {
	return e.Fields[field]
}

type Extractor interface {
	Source() string
	Extract(ctx context.Context, doc RawDocument) Extraction
}
