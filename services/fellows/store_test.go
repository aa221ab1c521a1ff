package fellows

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"fellowharvest/lib/telemetry"
	"fellowharvest/services/fellows/db"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestStoreRoundTrip(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:services/fellows/store")
	defer cleanup()

	sqlite, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	_, err = sqlite.Exec(db.Schema)
	require.NoError(t, err)
	store := NewStore(sqlite)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	table := FellowTable{Rows: []Subject{
		{
			Name:             "Jane Doe",
			AwardYear:        2015,
			AwardDate:        time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC),
			Age:              35,
			BirthYear:        1980,
			Gender:           GenderWomen,
			Title:            "Professor",
			Affiliation:      "Example University",
			Location:         "Springfield, IL",
			Area:             "Computer Science",
			Biography:        "She founded the organization.",
			ShortTitle:       "Professor",
			ShortAffiliation: "Example University",
		},
		{
			Name:   "John Roe",
			Gender: GenderUnknown,
			Title:  NoneProvided,
		},
	}}

	err = store.Push(ctx, table)
	require.NoError(t, err)

	out, err := store.Pull(ctx)
	require.NoError(t, err)
	require.Len(t, out.Rows, 2)

	// pulled rows come back sorted by identity
	require.Equal(t, "Jane Doe", out.Rows[0].Name)
	require.Equal(t, 2015, out.Rows[0].AwardYear)
	require.Equal(t, time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC), out.Rows[0].AwardDate)
	// the reconciled birth year survives the round trip even though the
	// csv column contract excludes it
	require.Equal(t, 1980, out.Rows[0].BirthYear)
	require.Equal(t, GenderWomen, out.Rows[0].Gender)
	require.Equal(t, "John Roe", out.Rows[1].Name)
	require.Equal(t, NoneProvided, out.Rows[1].Title)

	// a second push replaces the previous run wholesale
	err = store.Push(ctx, FellowTable{Rows: table.Rows[:1]})
	require.NoError(t, err)
	out, err = store.Pull(ctx)
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)
}
