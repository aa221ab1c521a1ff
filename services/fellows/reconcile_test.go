package fellows

import (
	"testing"

	"fellowharvest/lib/scrape"

	"github.com/stretchr/testify/require"
)

func TestYearPrefersStructuredTag(t *testing.T) {
	rec := NewReconciler(ReconcilerConfig{})
	year := rec.Year("x", []scrape.Candidate{
		scrape.Found(scrape.FieldBirthYear, "wikipedia:bday_tag", "1980"),
		scrape.Found(scrape.FieldBirthYear, "wikipedia:body_text", "1979"),
	})
	require.Equal(t, 1980, year)
	require.Empty(t, rec.Audit())
}

func TestYearFallsBackToNarrative(t *testing.T) {
	rec := NewReconciler(ReconcilerConfig{})
	year := rec.Year("x", []scrape.Candidate{
		scrape.Miss(scrape.FieldBirthYear, "wikipedia:bday_tag"),
		scrape.Found(scrape.FieldBirthYear, "wikipedia:body_text", "1962"),
	})
	require.Equal(t, 1962, year)
}

func TestYearNonNumericFallsThrough(t *testing.T) {
	rec := NewReconciler(ReconcilerConfig{})
	year := rec.Year("x", []scrape.Candidate{
		scrape.Found(scrape.FieldBirthYear, "wikipedia:bday_tag", "19eighty"),
		scrape.Found(scrape.FieldBirthYear, "wikipedia:body_text", "1980"),
	})
	require.Equal(t, 1980, year)

	audit := rec.Audit()
	require.Len(t, audit, 1)
	require.Equal(t, AuditDiscardedCandidate, audit[0].Kind)
	require.Equal(t, "wikipedia:bday_tag", audit[0].Method)
}

func TestYearSuspectOutOfRange(t *testing.T) {
	rec := NewReconciler(ReconcilerConfig{})
	year := rec.Year("x", []scrape.Candidate{
		scrape.Found(scrape.FieldBirthYear, "wikipedia:body_text", "1066"),
	})
	require.Equal(t, 0, year)

	audit := rec.Audit()
	require.Len(t, audit, 1)
	require.Equal(t, AuditSuspectValue, audit[0].Kind)
	require.Equal(t, "1066", audit[0].Value)
}

func TestYearAllAbsent(t *testing.T) {
	rec := NewReconciler(ReconcilerConfig{})
	year := rec.Year("x", []scrape.Candidate{
		scrape.Miss(scrape.FieldBirthYear, "wikipedia:bday_tag"),
		scrape.Broken(scrape.FieldBirthYear, "wikipedia:body_text"),
	})
	require.Equal(t, 0, year)
}

func TestResolveAgeAgreement(t *testing.T) {
	rec := NewReconciler(ReconcilerConfig{})
	require.Equal(t, 35, rec.ResolveAge("x", 2015, 1980, 35))
	// agreement flags no conflict
	require.Empty(t, rec.Audit())
}

func TestResolveAgeDerivedWins(t *testing.T) {
	rec := NewReconciler(ReconcilerConfig{})
	require.Equal(t, 35, rec.ResolveAge("x", 2015, 1980, 20))

	audit := rec.Audit()
	require.Len(t, audit, 1)
	require.Equal(t, AuditDiscardedCandidate, audit[0].Kind)
	require.Equal(t, "20", audit[0].Value)
}

func TestResolveAgeImplausibleDerived(t *testing.T) {
	rec := NewReconciler(ReconcilerConfig{})
	// derived age 10 is below the plausibility floor: unknown, pending override
	require.Equal(t, 0, rec.ResolveAge("x", 2015, 2005, 43))

	audit := rec.Audit()
	require.Len(t, audit, 1)
	require.Equal(t, AuditImplausibleDerived, audit[0].Kind)
}

func TestResolveAgeNoYears(t *testing.T) {
	rec := NewReconciler(ReconcilerConfig{})
	// without both years the direct extraction is all there is
	require.Equal(t, 52, rec.ResolveAge("x", 2015, 0, 52))
	require.Equal(t, 0, rec.ResolveAge("x", 0, 0, 0))
}

func TestReconcilerConfigurableThresholds(t *testing.T) {
	rec := NewReconciler(ReconcilerConfig{MinBirthYear: 1800, MinAge: 5})
	year := rec.Year("x", []scrape.Candidate{
		scrape.Found(scrape.FieldBirthYear, "wikipedia:bday_tag", "1850"),
	})
	require.Equal(t, 1850, year)
	require.Equal(t, 10, rec.ResolveAge("x", 2015, 2005, 0))
}
