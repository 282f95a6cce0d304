package brawn

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/SJShaw/brawn/blosum"
)

// The cache is a single versioned JSON document. Incompatible future
// formats must fail fast on the marker or version, never parse silently.
const (
	cacheFormat  = "brawn-profile-cache"
	cacheVersion = 1
)

// cacheDocument is the persisted form of an alignment, its sequence
// weights, and its fully realized profile.
type cacheDocument struct {
	Format      string          `json:"format"`
	Version     int             `json:"version"`
	Fingerprint Fingerprint     `json:"fingerprint"`
	Sequences   []NamedSequence `json:"sequences"`
	Weights     []float64       `json:"weights"`
	Profile     SequenceProfile `json:"profile"`
}

// WriteCache serializes the alignment and its profile to the writer,
// computing the profile first if it has not been realized yet.
func (a *Alignment) WriteCache(w io.Writer) error {
	a.realizeProfile()
	doc := cacheDocument{
		Format:      cacheFormat,
		Version:     cacheVersion,
		Fingerprint: a.Fingerprint(),
		Sequences:   a.Entries(),
		Weights:     a.weights,
		Profile:     *a.profile,
	}
	return json.NewEncoder(w).Encode(doc)
}

// WriteCacheFile writes the alignment's cache to the named file.
func (a *Alignment) WriteCacheFile(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create cache file '%s': %s", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return a.WriteCache(f)
}

// parseCache decodes and structurally validates a cache document. It never
// computes anything: a bad document fails with a CorruptCacheError.
func parseCache(r io.Reader) (*cacheDocument, error) {
	var doc cacheDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, CorruptCacheError{fmt.Sprintf(
			"could not parse cache file: %s", err)}
	}
	if doc.Format != cacheFormat {
		return nil, CorruptCacheError{fmt.Sprintf(
			"cache file has unknown format marker '%s'", doc.Format)}
	}
	if doc.Version != cacheVersion {
		return nil, CorruptCacheError{fmt.Sprintf(
			"cache file version %d is not supported (expected %d)",
			doc.Version, cacheVersion)}
	}
	if len(doc.Sequences) == 0 {
		return nil, CorruptCacheError{"cache file contains no sequences"}
	}
	if len(doc.Weights) != len(doc.Sequences) {
		return nil, CorruptCacheError{fmt.Sprintf(
			"cache file has %d weights for %d sequences",
			len(doc.Weights), len(doc.Sequences))}
	}
	width := len(doc.Sequences[0].Residues)
	if len(doc.Profile.Columns) != width {
		return nil, CorruptCacheError{fmt.Sprintf(
			"cache file has %d profile columns for alignment width %d",
			len(doc.Profile.Columns), width)}
	}
	for i, col := range doc.Profile.Columns {
		if len(col.Counts) != blosum.Size || len(col.Scores) != blosum.Size ||
			len(col.SortOrder) != blosum.Size {
			return nil, CorruptCacheError{fmt.Sprintf(
				"cache file profile column %d is malformed", i)}
		}
	}
	return &doc, nil
}

// ReadCache reconstructs an alignment, with its profile attached, from a
// cache document. No access to the original FASTA input is needed.
func ReadCache(r io.Reader) (*Alignment, error) {
	doc, err := parseCache(r)
	if err != nil {
		return nil, err
	}
	a, err := NewAlignment(doc.Sequences)
	if err != nil {
		return nil, CorruptCacheError{fmt.Sprintf(
			"cache file sequences are invalid: %s", err)}
	}
	if got := a.Fingerprint(); got != doc.Fingerprint {
		return nil, CorruptCacheError{fmt.Sprintf(
			"cache file fingerprint %+v does not match its own content %+v",
			doc.Fingerprint, got)}
	}
	a.attachProfile(doc.Weights, &doc.Profile)
	return a, nil
}

// ReadCacheFile reconstructs an alignment from the named cache file.
func ReadCacheFile(path string) (*Alignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open cache file '%s': %s", path, err)
	}
	defer f.Close()
	return ReadCache(f)
}

// AttachCache parses a cache document and attaches its profile to this
// alignment. The cache's identity fingerprint must match the alignment's,
// otherwise a CacheMismatchError is returned and nothing is attached; a
// stale or foreign profile is never reused silently. AttachCache must be
// called before the alignment's profile is first used.
func (a *Alignment) AttachCache(r io.Reader) error {
	doc, err := parseCache(r)
	if err != nil {
		return err
	}
	if got := a.Fingerprint(); got != doc.Fingerprint {
		return CacheMismatchError{fmt.Sprintf(
			"cache fingerprint %+v does not match alignment fingerprint %+v",
			doc.Fingerprint, got)}
	}
	// The fingerprint is order independent, but the weights are positional:
	// map them onto this alignment's sequence order by name.
	weights := make([]float64, len(doc.Weights))
	for i, s := range doc.Sequences {
		idx, ok := a.byName[s.Name]
		if !ok {
			return CacheMismatchError{fmt.Sprintf(
				"cache sequence '%s' not present in alignment", s.Name)}
		}
		weights[idx] = doc.Weights[i]
	}
	a.attachProfile(weights, &doc.Profile)
	return nil
}
