package fellows

import (
	"fmt"
	"log/slog"
	"strconv"

	"fellowharvest/lib/scrape"
)

type ReconcilerConfig struct {
	// years before this are treated as suspect extraction artifacts
	MinBirthYear int `json:"min_birth_year"`
	// a derived age-at-award below this is implausible and becomes
	// unknown pending manual override
	MinAge int `json:"min_age"`
}

func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		MinBirthYear: 1900,
		MinAge:       20,
	}
}

type AuditKind string

const (
	// a candidate value matched but falls outside the plausible range
	AuditSuspectValue AuditKind = "suspect_value"
	// a directly-extracted value lost to a derived one
	AuditDiscardedCandidate AuditKind = "discarded_candidate"
	// a derived value was itself implausible, the field went unknown
	AuditImplausibleDerived AuditKind = "implausible_derived"
)

// AuditEntry retains the alternatives a reconciliation decision threw
// away, for later manual-override decisions. nothing is silently dropped.
type AuditEntry struct {
	Identity string
	Field    scrape.FieldName
	Kind     AuditKind
	Method   string
	Value    string
	Reason   string
}

// Reconciler resolves multiple candidate values for one field into a
// single authoritative value by fixed precedence, accumulating an audit
// of everything it rejected. it is only ever driven from the assembler's
// serial fold, so it needs no locking.
type Reconciler struct {
	cfg   ReconcilerConfig
	audit []AuditEntry
}

func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	if cfg.MinBirthYear == 0 {
		cfg.MinBirthYear = DefaultReconcilerConfig().MinBirthYear
	}
	if cfg.MinAge == 0 {
		cfg.MinAge = DefaultReconcilerConfig().MinAge
	}
	return &Reconciler{cfg: cfg}
}

func (r *Reconciler) Audit() []AuditEntry {
	return r.audit
}

func (r *Reconciler) note(e AuditEntry) {
	r.audit = append(r.audit, e)
	slog.Debug(
		"reconciliation audit",
		"identity", e.Identity,
		"field", string(e.Field),
		"kind", string(e.Kind),
		"method", e.Method,
		"value", e.Value,
		"reason", e.Reason,
	)
}

// Year resolves an ordered candidate list into a four-digit year.
// candidates are walked in precedence order (structured tag first);
// non-numeric or missing candidates fall through to the next source,
// out-of-range matches are audited as suspect and also fall through.
// zero means unknown.
func (r *Reconciler) Year(identity string, candidates []scrape.Candidate) int {
	for _, c := range candidates {
		if c.Status != scrape.StatusFound {
			continue
		}
		year, err := strconv.Atoi(c.Value)
		if err != nil {
			r.note(AuditEntry{
				Identity: identity,
				Field:    c.Field,
				Kind:     AuditDiscardedCandidate,
				Method:   c.Method,
				Value:    c.Value,
				Reason:   "non-numeric",
			})
			continue
		}
		if year < r.cfg.MinBirthYear {
			r.note(AuditEntry{
				Identity: identity,
				Field:    c.Field,
				Kind:     AuditSuspectValue,
				Method:   c.Method,
				Value:    c.Value,
				Reason:   fmt.Sprintf("before %d", r.cfg.MinBirthYear),
			})
			continue
		}
		return year
	}
	return 0
}

// ResolveAge reconciles a directly-extracted age against the value
// derived from award year and birth year. when both years are known the
// derived value is authoritative: a disagreeing direct extraction is
// discarded (zero tolerance), unless the derived value is itself
// implausibly low, in which case the age goes unknown pending override.
func (r *Reconciler) ResolveAge(identity string, awardYear, birthYear, extractedAge int) int {
	if awardYear == 0 || birthYear == 0 {
		return extractedAge
	}

	derived := awardYear - birthYear
	if derived < r.cfg.MinAge {
		r.note(AuditEntry{
			Identity: identity,
			Field:    scrape.FieldAge,
			Kind:     AuditImplausibleDerived,
			Value:    strconv.Itoa(derived),
			Reason:   fmt.Sprintf("derived age below %d", r.cfg.MinAge),
		})
		return 0
	}
	if extractedAge != 0 && extractedAge != derived {
		r.note(AuditEntry{
			Identity: identity,
			Field:    scrape.FieldAge,
			Kind:     AuditDiscardedCandidate,
			Value:    strconv.Itoa(extractedAge),
			Reason:   fmt.Sprintf("disagrees with derived age %d", derived),
		})
	}
	return derived
}
