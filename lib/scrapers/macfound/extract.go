package macfound

import (
	"context"
	"regexp"
	"strings"

	"fellowharvest/lib/htmlutil"
	"fellowharvest/lib/scrape"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("fellowharvest.scrapers.macfound")

const SourceName = "macfound"

// profile pages carry a meta block that flattens to one blob of the
// shape "Title <...> Affiliation <...> Location <...> Age NN Area of
// Focus <...>". fields are captured strictly between their anchor
// phrase pairs; "Area of Focus" is last and captures to the end.
var (
	awardYearRegex = regexp.MustCompile(`(?i)(?:(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+)?((?:19|20)\d{2})`)

	titleRegex       = regexp.MustCompile(`(?i)\bTitle\b\s*(.*?)\s*\bAffiliation\b`)
	affiliationRegex = regexp.MustCompile(`(?i)\bAffiliation\b\s*(.*?)\s*\bLocation\b`)
	locationRegex    = regexp.MustCompile(`(?i)\bLocation\b\s*(.*?)\s*\b(?:Age|Area of Focus)\b`)
	ageRegex         = regexp.MustCompile(`(?i)\bAge\b\s*(\d{2})\b`)
	areaRegex        = regexp.MustCompile(`(?i)\bArea of Focus\b\s*(.*)$`)
)

// selector lists are tried in order; the first one producing a
// non-empty match wins for that field.
var (
	nameSelectors = []string{"h1.fellow__name", ".profile-header h1", "h1"}
	metaSelectors = []string{".fellow__meta", ".fellow-meta", ".profile-meta"}
	dateSelectors = []string{".fellow__class", ".fellow-meta__date", ".award-date"}
	bioSelectors  = []string{".fellow__bio", ".fellow-bio", "article p"}
)

type Extractor struct{}

func (Extractor) Source() string { return SourceName }

func firstMatch(doc *goquery.Document, selectors []string) (string, bool) {
	for _, sel := range selectors {
		text := htmlutil.FlattenText(doc.Find(sel))
		if text != "" {
			return text, true
		}
	}
	return "", false
}

func (Extractor) Extract(ctx context.Context, doc scrape.RawDocument) scrape.Extraction {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()
	span.SetAttributes(attribute.String("key", doc.Key))

	out := scrape.NewExtraction(doc.Key, SourceName)
	if doc.Doc == nil {
		// fetch failed upstream; an empty extraction keeps the subject
		// in the run with unknown fields instead of aborting it
		return out
	}

	if name, ok := firstMatch(doc.Doc, nameSelectors); ok {
		out.Add(scrape.Found(scrape.FieldSubjectName, "macfound:heading", name))
	} else {
		out.Add(scrape.Broken(scrape.FieldSubjectName, "macfound:heading"))
	}

	if dateText, ok := firstMatch(doc.Doc, dateSelectors); ok {
		groups := awardYearRegex.FindStringSubmatch(dateText)
		if len(groups) >= 2 {
			out.Add(scrape.Found(scrape.FieldAwardYear, "macfound:award_date", groups[1]))
		} else {
			out.Add(scrape.Miss(scrape.FieldAwardYear, "macfound:award_date"))
		}
	} else {
		out.Add(scrape.Broken(scrape.FieldAwardYear, "macfound:award_date"))
	}

	blob, blobOk := firstMatch(doc.Doc, metaSelectors)
	blobFields := []struct {
		field scrape.FieldName
		rule  *regexp.Regexp
	}{
		{scrape.FieldTitle, titleRegex},
		{scrape.FieldAffiliation, affiliationRegex},
		{scrape.FieldLocation, locationRegex},
		{scrape.FieldAge, ageRegex},
		{scrape.FieldArea, areaRegex},
	}
	for _, bf := range blobFields {
		method := "macfound:meta_blob"
		if !blobOk {
			out.Add(scrape.Broken(bf.field, method))
			continue
		}
		groups := bf.rule.FindStringSubmatch(blob)
		if len(groups) < 2 || strings.TrimSpace(groups[1]) == "" {
			out.Add(scrape.Miss(bf.field, method))
			continue
		}
		out.Add(scrape.Found(bf.field, method, strings.TrimSpace(groups[1])))
	}

	if bio, ok := firstMatch(doc.Doc, bioSelectors); ok {
		out.Add(scrape.Found(scrape.FieldBiography, "macfound:bio", bio))
	} else {
		out.Add(scrape.Miss(scrape.FieldBiography, "macfound:bio"))
	}

	return out
}
