package wikipedia

import (
	"context"
	"regexp"

	"fellowharvest/lib/htmlutil"
	"fellowharvest/lib/scrape"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("fellowharvest.scrapers.wikipedia")

const SourceName = "wikipedia"

// two independent birth-year signals come out of a biography article:
// the infobox carries a microformat <span class="bday">1965-04-02</span>,
// and the lead paragraph usually opens "... (born April 2, 1965)".
// both are recorded as separate candidates; the reconciler prefers the
// structured tag.
var (
	bdayYearRegex = regexp.MustCompile(`^((?:19|20)\d{2})`)
	bornYearRegex = regexp.MustCompile(`(?i)\bborn\b.{0,60}?((?:19|20)\d{2})`)
)

type Extractor struct{}

func (Extractor) Source() string { return SourceName }

func (Extractor) Extract(ctx context.Context, doc scrape.RawDocument) scrape.Extraction {
	ctx, span := tracer.Start(ctx, "Extract")
	defer span.End()
	span.SetAttributes(attribute.String("key", doc.Key))

	out := scrape.NewExtraction(doc.Key, SourceName)
	if doc.Doc == nil {
		return out
	}

	bday := htmlutil.FlattenText(doc.Doc.Find("span.bday").First())
	if bday == "" {
		out.Add(scrape.Miss(scrape.FieldBirthYear, "wikipedia:bday_tag"))
	} else if groups := bdayYearRegex.FindStringSubmatch(bday); len(groups) >= 2 {
		out.Add(scrape.Found(scrape.FieldBirthYear, "wikipedia:bday_tag", groups[1]))
	} else {
		// the tag exists but doesn't look like a date, so the rule is
		// broken rather than the data being absent
		out.Add(scrape.Broken(scrape.FieldBirthYear, "wikipedia:bday_tag"))
	}

	body := htmlutil.FlattenText(doc.Doc.Find("#mw-content-text p, .mw-parser-output p"))
	if body == "" {
		out.Add(scrape.Broken(scrape.FieldBirthYear, "wikipedia:body_text"))
		out.Add(scrape.Broken(scrape.FieldBiography, "wikipedia:body_text"))
		return out
	}

	if groups := bornYearRegex.FindStringSubmatch(body); len(groups) >= 2 {
		out.Add(scrape.Found(scrape.FieldBirthYear, "wikipedia:body_text", groups[1]))
	} else {
		out.Add(scrape.Miss(scrape.FieldBirthYear, "wikipedia:body_text"))
	}
	out.Add(scrape.Found(scrape.FieldBiography, "wikipedia:body_text", body))

	return out
}
