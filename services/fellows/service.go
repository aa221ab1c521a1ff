package fellows

import (
	"context"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"fellowharvest/lib/docstore"
	"fellowharvest/lib/scrape"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

type ServiceOptions struct {
	// extraction worker count; defaults to GOMAXPROCS
	Workers    int
	Reconciler ReconcilerConfig
}

// Service runs the extraction-and-reconciliation pipeline over the
// document store: per-document extraction in parallel, then one serial
// assembly fold, then the manual override layer. it runs to completion
// and yields one finished table.
type Service struct {
	store      docstore.Store
	extractors []scrape.Extractor
	opts       ServiceOptions
}

func NewService(store docstore.Store, extractors []scrape.Extractor, opts ServiceOptions) Service {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return Service{
		store:      store,
		extractors: extractors,
		opts:       opts,
	}
}

// extractAll runs every extractor over its source's stored documents
// with a bounded worker pool. extraction is stateless per document, so
// no ordering is guaranteed here; determinism comes from the assembler
// sorting by identity.
func (s Service) extractAll(ctx context.Context) ([]scrape.Extraction, error) {
	ctx, span := tracer.Start(ctx, "extractAll")
	defer span.End()

	var mu sync.Mutex
	var results []scrape.Extraction

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.opts.Workers)

	for _, extractor := range s.extractors {
		extractor := extractor
		docs, err := s.store.List(extractor.Source())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to list documents")
			return nil, err
		}
		slog.InfoContext(ctx, "extracting source documents", "source", extractor.Source(), "count", len(docs))

		for _, doc := range docs {
			doc := doc
			group.Go(func() error {
				out := extractor.Extract(ctx, doc)
				mu.Lock()
				results = append(results, out)
				mu.Unlock()
				return nil
			})
		}
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	// stable input order for the assembler's tie-breaks
	sort.Slice(results, func(i, j int) bool {
		if results[i].Identity != results[j].Identity {
			return results[i].Identity < results[j].Identity
		}
		return results[i].Source < results[j].Source
	})
	span.SetAttributes(attribute.Int("extractions", len(results)))
	return results, nil
}

type BuildResult struct {
	Table  FellowTable
	Report ApplyReport
	Audit  []AuditEntry
}

// BuildTable produces the final fellow table: extraction, assembly,
// reconciliation, and the override layer, in that order. per-document
// and per-field failures are recovered locally; only configuration
// level errors (an empty document collection) surface as errors.
func (s Service) BuildTable(ctx context.Context, overrides OverrideTable) (BuildResult, error) {
	ctx, span := tracer.Start(ctx, "BuildTable")
	defer span.End()

	extractions, err := s.extractAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return BuildResult{}, err
	}

	rec := NewReconciler(s.opts.Reconciler)
	table, err := NewAssembler(rec).Assemble(ctx, extractions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return BuildResult{}, err
	}

	table, report := ApplyOverrides(ctx, table, overrides)

	// splits append rows, so re-sort to keep the output contract stable
	sort.Slice(table.Rows, func(i, j int) bool {
		return table.Rows[i].Identity() < table.Rows[j].Identity()
	})

	span.SetAttributes(attribute.Int("rows", len(table.Rows)))
	return BuildResult{
		Table:  table,
		Report: report,
		Audit:  rec.Audit(),
	}, nil
}
