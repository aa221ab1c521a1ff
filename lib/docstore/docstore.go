package docstore

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fellowharvest/lib/scrape"
	"fellowharvest/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// Store keeps raw fetched documents on disk, one subdirectory per
// source, one file per subject keyed by the normalized identity. The
// pipeline only ever reads already-fetched documents from here, it
// never touches the network.
type Store struct {
	directory string
}

func NewStore(dir string) (Store, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return Store{}, err
	}
	return Store{directory: dir}, nil
}

// Key derives the store filename for a subject name. Any string is
// tolerated; the key only has to be stable and filesystem-safe.
func Key(name string) string {
	key := textutil.NormalizeName(name)
	key = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, key)
	return key
}

func (s Store) path(source, key string) string {
	return filepath.Join(s.directory, source, key+".html")
}

func (s Store) Write(source, key string, contents []byte) error {
	err := os.MkdirAll(filepath.Join(s.directory, source), 0755)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(source, key), contents, 0644)
}

// Get returns the parsed document for a key, or a RawDocument with a
// nil handle when the document was never fetched (or failed to fetch).
func (s Store) Get(source, key string) scrape.RawDocument {
	contents, err := os.ReadFile(s.path(source, key))
	if err != nil {
		return scrape.RawDocument{Key: key}
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(contents))
	if err != nil {
		slog.Warn("failed to parse stored document", "source", source, "key", key, "err", err)
		return scrape.RawDocument{Key: key}
	}
	return scrape.RawDocument{Key: key, Doc: doc}
}

// List returns every stored document for a source, sorted by key so
// runs are reproducible.
func (s Store) List(source string) ([]scrape.RawDocument, error) {
	entries, err := os.ReadDir(filepath.Join(s.directory, source))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list %s documents: %w", source, err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ".html"))
	}
	sort.Strings(keys)

	docs := make([]scrape.RawDocument, len(keys))
	for i, key := range keys {
		docs[i] = s.Get(source, key)
	}
	return docs, nil
}
