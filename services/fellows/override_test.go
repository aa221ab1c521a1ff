package fellows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func tableOf(names ...string) FellowTable {
	table := FellowTable{}
	for _, n := range names {
		table.Rows = append(table.Rows, Subject{Name: n, Gender: GenderUnknown})
	}
	return table
}

func TestOverrideAlwaysWins(t *testing.T) {
	ctx := context.Background()
	table := FellowTable{Rows: []Subject{
		{Name: "Jane Doe", Gender: GenderUnknown},
		{Name: "John Roe", Gender: GenderMen},
	}}

	out, report := ApplyOverrides(ctx, table, OverrideTable{
		Fields: map[string]map[string]string{
			"Jane Doe": {"gender": "Women"},
			"John Roe": {"gender": "Women"},
		},
	})
	require.Empty(t, report.KeyMismatches)
	require.Empty(t, report.SplitFailures)

	idx, ok := out.Lookup("janedoe")
	require.True(t, ok)
	require.Equal(t, GenderWomen, out.Rows[idx].Gender)

	// overrides replace previously "known" automated values too
	idx, ok = out.Lookup("johnroe")
	require.True(t, ok)
	require.Equal(t, GenderWomen, out.Rows[idx].Gender)

	// the input table is untouched
	require.Equal(t, GenderMen, table.Rows[1].Gender)
}

func TestOverrideKeyMismatchReported(t *testing.T) {
	out, report := ApplyOverrides(context.Background(), tableOf("Jane Doe"), OverrideTable{
		Fields: map[string]map[string]string{
			"Jane Deo": {"gender": "Women"},
		},
	})
	require.Len(t, report.KeyMismatches, 1)
	require.Equal(t, "janedeo", report.KeyMismatches[0].Identity)
	require.Equal(t, "janedoe", report.KeyMismatches[0].Closest)
	require.Greater(t, report.KeyMismatches[0].Similarity, 0.8)

	// nothing was changed
	require.Equal(t, GenderUnknown, out.Rows[0].Gender)
}

func TestOverrideDrop(t *testing.T) {
	out, _ := ApplyOverrides(context.Background(), tableOf("Jane Doe", "Page Artifact"), OverrideTable{
		Drops: []string{"Page Artifact"},
	})
	require.Len(t, out.Rows, 1)
	_, ok := out.Lookup("pageartifact")
	require.False(t, ok)
}

func TestOverrideDropUnknownIdentityReported(t *testing.T) {
	// a typo'd drop never matches a row; it must surface as a mismatch
	// with a suggestion instead of silently drifting in the file
	out, report := ApplyOverrides(context.Background(), tableOf("Jane Doe"), OverrideTable{
		Drops: []string{"Jane Deo"},
	})
	require.Len(t, report.KeyMismatches, 1)
	require.Equal(t, "janedeo", report.KeyMismatches[0].Identity)
	require.Equal(t, "janedoe", report.KeyMismatches[0].Closest)

	// the failed drop doesn't abort the run or touch other rows
	require.Len(t, out.Rows, 1)
}

func TestOverrideSplit(t *testing.T) {
	table := FellowTable{Rows: []Subject{
		{Name: "A and B", Area: "Puppetry", AwardYear: 2015},
	}}
	overrides := OverrideTable{
		Splits: []Split{{
			Source: "A and B",
			Into: []SplitTarget{
				{Name: "A", Fields: map[string]string{"age": "1"}},
				{Name: "B", Fields: map[string]string{"age": "2"}},
			},
		}},
	}

	out, report := ApplyOverrides(context.Background(), table, overrides)
	require.Empty(t, report.SplitFailures)
	require.Len(t, out.Rows, 2)

	_, ok := out.Lookup("aandb")
	require.False(t, ok)

	idx, ok := out.Lookup("a")
	require.True(t, ok)
	require.Equal(t, 1, out.Rows[idx].Age)
	// split rows inherit the merged row's automated fields
	require.Equal(t, "Puppetry", out.Rows[idx].Area)
	require.Equal(t, 2015, out.Rows[idx].AwardYear)

	idx, ok = out.Lookup("b")
	require.True(t, ok)
	require.Equal(t, 2, out.Rows[idx].Age)

	// reapplying the same overrides is a no-op, not a double split
	again, report := ApplyOverrides(context.Background(), out, overrides)
	require.Empty(t, report.SplitFailures)
	require.Len(t, again.Rows, 2)
}

func TestOverrideSplitFailureReported(t *testing.T) {
	out, report := ApplyOverrides(context.Background(), tableOf("Jane Doe"), OverrideTable{
		Splits: []Split{{
			Source: "Never Existed",
			Into:   []SplitTarget{{Name: "X"}, {Name: "Y"}},
		}},
	})
	require.Len(t, report.SplitFailures, 1)
	require.Equal(t, "Never Existed", report.SplitFailures[0].Source)
	// the failed operation doesn't abort the run or touch other rows
	require.Len(t, out.Rows, 1)
}

func TestOverrideOrderDropsBeforeFields(t *testing.T) {
	// a dropped identity must not receive stale field overrides; the
	// reference surfaces as a mismatch instead
	_, report := ApplyOverrides(context.Background(), tableOf("Jane Doe"), OverrideTable{
		Drops: []string{"Jane Doe"},
		Fields: map[string]map[string]string{
			"Jane Doe": {"gender": "Women"},
		},
	})
	require.Len(t, report.KeyMismatches, 1)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.json5")
	err := os.WriteFile(path, []byte(`{
		// verified out-of-band
		drops: ["Page Artifact"],
		splits: [{source: "A and B", into: [{name: "A", fields: {}}, {name: "B", fields: {}}]}],
		fields: {"Jane Doe": {gender: "Women"}},
	}`), 0644)
	require.NoError(t, err)

	overrides, err := LoadOverrides(path)
	require.NoError(t, err)
	require.Equal(t, []string{"Page Artifact"}, overrides.Drops)
	require.Len(t, overrides.Splits, 1)
	require.Equal(t, "Women", overrides.Fields["Jane Doe"]["gender"])
}
