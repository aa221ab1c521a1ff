package fellows

import (
	"strconv"
	"time"

	"fellowharvest/lib/textutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/fellows")

type Gender string

const (
	GenderMen     Gender = "Men"
	GenderWomen   Gender = "Women"
	GenderUnknown Gender = "Unknown"
)

// NoneProvided marks a field the source genuinely didn't carry.
// downstream grouping counts it as its own category, distinct from a
// parse failure (which never reaches the final table).
const NoneProvided = "None Provided"

// Subject is one biographical record, one row of the final table.
// zero values of AwardYear/Age/BirthYear mean unknown.
type Subject struct {
	Name             string
	AwardYear        int
	AwardDate        time.Time
	Age              int
	BirthYear        int
	Gender           Gender
	Title            string
	Affiliation      string
	Location         string
	Area             string
	Biography        string
	ShortTitle       string
	ShortAffiliation string
}

// Identity is the dedup key: case- and whitespace-insensitive name.
func (s Subject) Identity() string {
	return textutil.NormalizeName(s.Name)
}

type FellowTable struct {
	Rows []Subject
}

func (t FellowTable) Lookup(identity string) (int, bool) {
	for i, row := range t.Rows {
		if row.Identity() == identity {
			return i, true
		}
	}
	return 0, false
}

// Columns is the output contract with downstream reporting; order and
// names must remain stable.
func Columns() []string {
	return []string{
		"name",
		"award_year",
		"age",
		"gender",
		"title",
		"affiliation",
		"location",
		"area",
		"biography",
		"short_title",
		"short_affiliation",
	}
}

func formatOptionalInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// Record renders the row in Columns() order. Unknown numeric fields
// serialize as empty strings.
func (s Subject) Record() []string {
	return []string{
		s.Name,
		formatOptionalInt(s.AwardYear),
		formatOptionalInt(s.Age),
		string(s.Gender),
		s.Title,
		s.Affiliation,
		s.Location,
		s.Area,
		s.Biography,
		s.ShortTitle,
		s.ShortAffiliation,
	}
}
