package macfound

import (
	"context"
	"strings"
	"testing"

	"fellowharvest/lib/scrape"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, key, html string) scrape.RawDocument {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return scrape.RawDocument{Key: key, Doc: doc}
}

const profileHTML = `
<html><body>
<h1 class="fellow__name">Jane Q. Doe</h1>
<div class="fellow__class">September 2015</div>
<div class="fellow__meta">
  <dt>Title</dt>
  <dd>Professor of Physics, Theoretical Division</dd>
  <dt>Affiliation</dt>
  <dd>Department of Physics, Example University</dd>
  <dt>Location</dt>
  <dd>Springfield, IL</dd>
  <dt>Age</dt>
  <dd>35</dd>
  <dt>Area of Focus</dt>
  <dd>Computer Science Website: example.com Twitter: @x</dd>
</div>
<div class="fellow__bio"><p>She founded the organization in 2001.</p></div>
</body></html>`

func TestExtractProfile(t *testing.T) {
	out := Extractor{}.Extract(context.Background(), parseDoc(t, "janeq.doe", profileHTML))
	require.Equal(t, SourceName, out.Source)

	name, ok := out.First(scrape.FieldSubjectName)
	require.True(t, ok)
	require.Equal(t, "Jane Q. Doe", name.Value)

	year, ok := out.First(scrape.FieldAwardYear)
	require.True(t, ok)
	require.Equal(t, "2015", year.Value)

	title, ok := out.First(scrape.FieldTitle)
	require.True(t, ok)
	require.Equal(t, "Professor of Physics, Theoretical Division", title.Value)

	affiliation, ok := out.First(scrape.FieldAffiliation)
	require.True(t, ok)
	require.Equal(t, "Department of Physics, Example University", affiliation.Value)

	location, ok := out.First(scrape.FieldLocation)
	require.True(t, ok)
	require.Equal(t, "Springfield, IL", location.Value)

	age, ok := out.First(scrape.FieldAge)
	require.True(t, ok)
	require.Equal(t, "35", age.Value)

	// the area field has no trailing anchor; it captures to the end of
	// the blob, boilerplate tail included (the assembler strips it)
	area, ok := out.First(scrape.FieldArea)
	require.True(t, ok)
	require.Equal(t, "Computer Science Website: example.com Twitter: @x", area.Value)

	bio, ok := out.First(scrape.FieldBiography)
	require.True(t, ok)
	require.Contains(t, bio.Value, "She founded the organization")
}

func TestExtractAwardYearBareYear(t *testing.T) {
	// month prefix is optional
	html := `<html><body><h1>A B</h1><div class="fellow__class">Class of 1999</div></body></html>`
	out := Extractor{}.Extract(context.Background(), parseDoc(t, "ab", html))
	year, ok := out.First(scrape.FieldAwardYear)
	require.True(t, ok)
	require.Equal(t, "1999", year.Value)
}

func TestExtractMalformedMarkup(t *testing.T) {
	// a page missing the meta block yields broken statuses for the
	// blob fields, never a crash
	html := `<html><body><h1>A B</h1></body></html>`
	out := Extractor{}.Extract(context.Background(), parseDoc(t, "ab", html))

	_, ok := out.First(scrape.FieldTitle)
	require.False(t, ok)
	candidates := out.Candidates(scrape.FieldTitle)
	require.Len(t, candidates, 1)
	require.Equal(t, scrape.StatusBroken, candidates[0].Status)

	_, ok = out.First(scrape.FieldAwardYear)
	require.False(t, ok)
}

func TestExtractBlobMissingAge(t *testing.T) {
	// "Age" anchor without a two-digit number is a miss, and location
	// still terminates at "Area of Focus"
	html := `<html><body><h1>A B</h1><div class="fellow__meta">
	Title Poet Affiliation Independent Location Brooklyn, NY Area of Focus Poetry
	</div></body></html>`
	out := Extractor{}.Extract(context.Background(), parseDoc(t, "ab", html))

	_, ok := out.First(scrape.FieldAge)
	require.False(t, ok)
	candidates := out.Candidates(scrape.FieldAge)
	require.Len(t, candidates, 1)
	require.Equal(t, scrape.StatusMissing, candidates[0].Status)

	location, ok := out.First(scrape.FieldLocation)
	require.True(t, ok)
	require.Equal(t, "Brooklyn, NY", location.Value)

	area, ok := out.First(scrape.FieldArea)
	require.True(t, ok)
	require.Equal(t, "Poetry", area.Value)
}

func TestExtractAbsentDocument(t *testing.T) {
	out := Extractor{}.Extract(context.Background(), scrape.RawDocument{Key: "gone"})
	require.Equal(t, "gone", out.Identity)
	require.Empty(t, out.Fields)
}
