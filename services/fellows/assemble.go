package fellows

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"fellowharvest/lib/scrape"
	"fellowharvest/lib/textutil"

	"go.opentelemetry.io/otel/attribute"
)

// Assembler folds per-document extraction results into one FellowTable:
// candidates from every source are merged per identity, reconciled, and
// coerced into typed columns. it never mutates its inputs; each call
// builds a fresh table.
type Assembler struct {
	rec *Reconciler
}

func NewAssembler(rec *Reconciler) Assembler {
	return Assembler{rec: rec}
}

// merged candidate sets for one identity, in per-source rule precedence
// order. arrival order across sources is a tie-break only.
type subjectCandidates struct {
	identity string
	fields   map[scrape.FieldName][]scrape.Candidate
}

func (sc subjectCandidates) first(field scrape.FieldName) (string, bool) {
	for _, c := range sc.fields[field] {
		if c.Status == scrape.StatusFound {
			return c.Value, true
		}
	}
	return "", false
}

func (a Assembler) Assemble(ctx context.Context, extractions []scrape.Extraction) (FellowTable, error) {
	ctx, span := tracer.Start(ctx, "Assemble")
	defer span.End()
	span.SetAttributes(attribute.Int("extractions", len(extractions)))

	if len(extractions) == 0 {
		return FellowTable{}, fmt.Errorf("empty document collection, nothing to assemble")
	}

	merged := map[string]*subjectCandidates{}
	var order []string
	for _, e := range extractions {
		sc, ok := merged[e.Identity]
		if !ok {
			sc = &subjectCandidates{
				identity: e.Identity,
				fields:   map[scrape.FieldName][]scrape.Candidate{},
			}
			merged[e.Identity] = sc
			order = append(order, e.Identity)
		}
		for field, candidates := range e.Fields {
			sc.fields[field] = append(sc.fields[field], candidates...)
		}
	}
	sort.Strings(order)

	table := FellowTable{Rows: make([]Subject, 0, len(order))}
	for _, identity := range order {
		table.Rows = append(table.Rows, a.assembleSubject(merged[identity]))
	}
	return table, nil
}

func (a Assembler) assembleSubject(sc *subjectCandidates) Subject {
	var s Subject

	s.Name, _ = sc.first(scrape.FieldSubjectName)
	if s.Name == "" {
		// the store key is derived from the name, so it is the best
		// stand-in when the heading rule broke
		s.Name = sc.identity
	}

	s.AwardYear = a.rec.Year(sc.identity, sc.fields[scrape.FieldAwardYear])
	if s.AwardYear != 0 {
		s.AwardDate = time.Date(s.AwardYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	}

	s.BirthYear = a.rec.Year(sc.identity, sc.fields[scrape.FieldBirthYear])

	extractedAge := 0
	if raw, ok := sc.first(scrape.FieldAge); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			extractedAge = n
		}
	}
	s.Age = a.rec.ResolveAge(sc.identity, s.AwardYear, s.BirthYear, extractedAge)

	s.Title = cleanedOrDefault(sc, scrape.FieldTitle)
	s.Affiliation = cleanedOrDefault(sc, scrape.FieldAffiliation)
	s.Area = cleanedOrDefault(sc, scrape.FieldArea)
	s.Location, _ = sc.first(scrape.FieldLocation)
	s.Location = textutil.StripCitationTail(s.Location)

	bio, _ := sc.first(scrape.FieldBiography)
	s.Biography = bio
	s.Gender = InferGender(bio)

	s.ShortTitle = shortOf(s.Title)
	s.ShortAffiliation = shortOf(s.Affiliation)

	return s
}

func cleanedOrDefault(sc *subjectCandidates, field scrape.FieldName) string {
	raw, ok := sc.first(field)
	if !ok {
		return NoneProvided
	}
	cleaned := textutil.StripCitationTail(raw)
	if cleaned == "" {
		return NoneProvided
	}
	return cleaned
}

func shortOf(value string) string {
	if value == NoneProvided {
		return NoneProvided
	}
	return textutil.ShortForm(value)
}
