package fellows

import (
	"context"
	"log/slog"
	"strconv"

	"fellowharvest/lib/configutil"
	"fellowharvest/lib/textutil"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/attribute"
)

// OverrideTable is the declarative, externally loaded correction layer:
// verified ground truth obtained out-of-band, applied after all
// automated inference. it lives in a json5 file next to the pipeline
// config so corrections stay out of pipeline logic and are versionable.
type OverrideTable struct {
	// identities to remove entirely (rows that are extraction
	// artifacts, not real subjects)
	Drops []string `json:"drops"`
	// merged records that are really two distinct subjects
	Splits []Split `json:"splits"`
	// identity -> field -> replacement value; always wins over the
	// automated value
	Fields map[string]map[string]string `json:"fields"`
}

type Split struct {
	Source string        `json:"source"`
	Into   []SplitTarget `json:"into"`
}

type SplitTarget struct {
	Name   string            `json:"name"`
	Fields map[string]string `json:"fields"`
}

func LoadOverrides(path string) (OverrideTable, error) {
	return configutil.ReadConfig[OverrideTable](path)
}

// KeyMismatch reports an override that references an identity absent
// from the table: drift between the override file and the current
// extraction run. Closest carries the best Jaro-Winkler guess at what
// was meant.
type KeyMismatch struct {
	Identity   string
	Closest    string
	Similarity float64
}

type SplitFailure struct {
	Source string
	Reason string
}

type ApplyReport struct {
	KeyMismatches []KeyMismatch
	SplitFailures []SplitFailure
}

func closestIdentity(table FellowTable, identity string) (string, float64) {
	best := ""
	var bestSim float64
	for _, row := range table.Rows {
		sim := matchr.JaroWinkler(identity, row.Identity(), false)
		if sim > bestSim {
			bestSim = sim
			best = row.Identity()
		}
	}
	return best, bestSim
}

// ApplyOverrides returns a new table with the override layer applied:
// drops first, then splits, then field replacements, so a dropped or
// split identity never receives stale field overrides. application is
// idempotent; re-running it over an already-corrected table is safe.
func ApplyOverrides(ctx context.Context, table FellowTable, overrides OverrideTable) (FellowTable, ApplyReport) {
	ctx, span := tracer.Start(ctx, "ApplyOverrides")
	defer span.End()

	var report ApplyReport

	table = applyDrops(ctx, table, overrides.Drops, &report)
	table = applySplits(ctx, table, overrides.Splits, &report)
	table = applyFields(ctx, table, overrides.Fields, &report)

	span.SetAttributes(
		attribute.Int("key_mismatches", len(report.KeyMismatches)),
		attribute.Int("split_failures", len(report.SplitFailures)),
	)
	return table, report
}

func applyDrops(ctx context.Context, table FellowTable, drops []string, report *ApplyReport) FellowTable {
	dropped := map[string]bool{}
	var order []string
	for _, name := range drops {
		identity := textutil.NormalizeName(name)
		if !dropped[identity] {
			order = append(order, identity)
		}
		dropped[identity] = true
	}

	out := FellowTable{Rows: make([]Subject, 0, len(table.Rows))}
	for _, row := range table.Rows {
		if dropped[row.Identity()] {
			slog.DebugContext(ctx, "dropping overridden row", "identity", row.Identity())
			delete(dropped, row.Identity())
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	// anything left in the set never matched a row: either the drop was
	// already applied on a previous run or the identity is a typo. both
	// surface as mismatches so override-file drift never goes unnoticed;
	// the run still continues.
	for _, identity := range order {
		if !dropped[identity] {
			continue
		}
		closest, sim := closestIdentity(out, identity)
		slog.WarnContext(
			ctx,
			"drop references unknown identity",
			"identity", identity,
			"closest", closest,
			"similarity", sim,
		)
		report.KeyMismatches = append(report.KeyMismatches, KeyMismatch{
			Identity:   identity,
			Closest:    closest,
			Similarity: sim,
		})
	}
	return out
}

func applySplits(ctx context.Context, table FellowTable, splits []Split, report *ApplyReport) FellowTable {
	for _, split := range splits {
		sourceIdentity := textutil.NormalizeName(split.Source)
		idx, ok := table.Lookup(sourceIdentity)
		if !ok {
			// if every target row already exists the split was applied
			// on a previous run; only a fully absent split is a failure
			applied := len(split.Into) > 0
			for _, target := range split.Into {
				if _, ok := table.Lookup(textutil.NormalizeName(target.Name)); !ok {
					applied = false
					break
				}
			}
			if applied {
				slog.DebugContext(ctx, "split already applied", "source", sourceIdentity)
				continue
			}
			slog.WarnContext(
				ctx,
				"split source missing from table",
				"source", sourceIdentity,
			)
			report.SplitFailures = append(report.SplitFailures, SplitFailure{
				Source: split.Source,
				Reason: "source identity not in table and targets absent",
			})
			continue
		}

		source := table.Rows[idx]
		out := FellowTable{Rows: make([]Subject, 0, len(table.Rows)+len(split.Into)-1)}
		out.Rows = append(out.Rows, table.Rows[:idx]...)
		out.Rows = append(out.Rows, table.Rows[idx+1:]...)
		for _, target := range split.Into {
			// each target starts from a copy of the merged row so the
			// split never loses automated fields, then gets its own
			// replacements
			row := source
			row.Name = target.Name
			setFields(ctx, &row, target.Fields)
			out.Rows = append(out.Rows, row)
		}
		table = out
	}
	return table
}

func applyFields(ctx context.Context, table FellowTable, fields map[string]map[string]string, report *ApplyReport) FellowTable {
	out := FellowTable{Rows: append([]Subject(nil), table.Rows...)}
	for name, replacements := range fields {
		identity := textutil.NormalizeName(name)
		idx, ok := out.Lookup(identity)
		if !ok {
			closest, sim := closestIdentity(out, identity)
			slog.WarnContext(
				ctx,
				"override references unknown identity",
				"identity", identity,
				"closest", closest,
				"similarity", sim,
			)
			report.KeyMismatches = append(report.KeyMismatches, KeyMismatch{
				Identity:   identity,
				Closest:    closest,
				Similarity: sim,
			})
			continue
		}
		setFields(ctx, &out.Rows[idx], replacements)
	}
	return out
}

// setFields applies column-named replacements to one row. values come
// from a hand-maintained file, so unparseable numbers and unknown
// column names are warned about, not fatal.
func setFields(ctx context.Context, row *Subject, fields map[string]string) {
	for column, value := range fields {
		switch column {
		case "name":
			row.Name = value
		case "award_year":
			setIntField(ctx, &row.AwardYear, column, value)
		case "age":
			setIntField(ctx, &row.Age, column, value)
		case "birth_year":
			setIntField(ctx, &row.BirthYear, column, value)
		case "gender":
			row.Gender = Gender(value)
		case "title":
			row.Title = value
		case "affiliation":
			row.Affiliation = value
		case "location":
			row.Location = value
		case "area":
			row.Area = value
		case "biography":
			row.Biography = value
		case "short_title":
			row.ShortTitle = value
		case "short_affiliation":
			row.ShortAffiliation = value
		default:
			slog.WarnContext(ctx, "override names unknown column", "column", column)
		}
	}
}

func setIntField(ctx context.Context, target *int, column, value string) {
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.WarnContext(ctx, "override value is not numeric", "column", column, "value", value)
		return
	}
	*target = n
}
