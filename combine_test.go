package brawn

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

var referenceEntries = []NamedSequence{
	{"A", "GT-DVG"},
	{"B", "GTK-VG"},
}

func TestInsertWithoutIndels(t *testing.T) {
	// The query fits the existing columns, so the width must not grow and
	// the reference sequences must come through untouched.
	reference := mustAlignment(t, referenceEntries)
	aligned, references, err := InsertIntoAlignment("GTDVG", reference)
	if err != nil {
		t.Fatal(err)
	}
	if aligned != "GT-DVG" {
		t.Errorf("expected aligned query 'GT-DVG', got %q", aligned)
	}
	want := map[string]string{
		"A": "GT-DVG",
		"B": "GTK-VG",
	}
	if !reflect.DeepEqual(references, want) {
		t.Errorf("references should be unchanged, got %v", references)
	}
}

func TestInsertExactFit(t *testing.T) {
	reference := mustAlignment(t, referenceEntries)
	aligned, references, err := InsertIntoAlignment("GTKDVG", reference)
	if err != nil {
		t.Fatal(err)
	}
	if aligned != "GTKDVG" {
		t.Errorf("expected aligned query 'GTKDVG', got %q", aligned)
	}
	if references["A"] != "GT-DVG" || references["B"] != "GTK-VG" {
		t.Errorf("references should be unchanged, got %v", references)
	}
}

func TestInsertWidensAlignment(t *testing.T) {
	reference := mustAlignment(t, []NamedSequence{
		{"A", "GTVG"},
		{"B", "GTVG"},
	})
	aligned, references, err := InsertIntoAlignment("GTWWVG", reference)
	if err != nil {
		t.Fatal(err)
	}
	if aligned != "GTWWVG" {
		t.Errorf("expected aligned query 'GTWWVG', got %q", aligned)
	}
	// Both references gain a contiguous pair of gap columns for the
	// query's insertion.
	if references["A"] != "GT--VG" || references["B"] != "GT--VG" {
		t.Errorf("expected widened references 'GT--VG', got %v", references)
	}
}

func TestCombineAlignments(t *testing.T) {
	reference := mustAlignment(t, referenceEntries)
	query := mustAlignment(t, []NamedSequence{
		// Gaps in query input carry no information and are dropped
		// before aligning.
		{"q1", "GT-DVG"},
		{"q2", "GTKDVG"},
	})
	combined, err := CombineAlignments(reference, query)
	if err != nil {
		t.Fatal(err)
	}
	want := []NamedSequence{
		{"q1", "GT-DVG"},
		{"q2", "GTKDVG"},
		{"A", "GT-DVG"},
		{"B", "GTK-VG"},
	}
	if got := combined.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected combined alignment: %v", got)
	}
}

func TestCombineKeepsInsertionsSeparate(t *testing.T) {
	// Two queries inserting at the same reference position must each get
	// their own columns: unrelated insertions are never aligned to each
	// other by coincidence.
	reference := mustAlignment(t, []NamedSequence{
		{"A", "GTVG"},
		{"B", "GTVG"},
	})
	query := mustAlignment(t, []NamedSequence{
		{"q1", "GTWVG"},
		{"q2", "GTWVG"},
	})
	combined, err := CombineAlignments(reference, query)
	if err != nil {
		t.Fatal(err)
	}
	want := []NamedSequence{
		{"q1", "GTW-VG"},
		{"q2", "GT-WVG"},
		{"A", "GT--VG"},
		{"B", "GT--VG"},
	}
	if got := combined.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected combined alignment: %v", got)
	}
}

func TestCombineWidthInvariant(t *testing.T) {
	reference := mustAlignment(t, referenceEntries)
	query := mustAlignment(t, []NamedSequence{
		// Query rows must be equal width like any alignment; the padding
		// gaps are stripped before aligning.
		{"q1", "GTDVG--"},
		{"q2", "GTWKDVG"},
	})
	combined, err := CombineAlignments(reference, query)
	if err != nil {
		t.Fatal(err)
	}
	width := combined.Columns()
	for _, entry := range combined.Entries() {
		if len(entry.Residues) != width {
			t.Fatalf("sequence '%s' has %d columns, expected %d",
				entry.Name, len(entry.Residues), width)
		}
	}
	// The original reference columns must survive in order: removing the
	// gap columns of each projected reference sequence recovers the
	// original residues.
	for _, name := range []string{"A", "B"} {
		combinedSeq, _ := combined.Sequence(name)
		originalSeq, _ := reference.Sequence(name)
		if got := string(dropGaps([]byte(combinedSeq))); got != string(dropGaps([]byte(originalSeq))) {
			t.Errorf("reference '%s' residues changed: %q", name, got)
		}
	}
}

func TestGetAlignedPair(t *testing.T) {
	reference := mustAlignment(t, referenceEntries)
	alignedQuery, alignedRef, err := GetAlignedPair("GTDVG", "A", reference)
	if err != nil {
		t.Fatal(err)
	}
	if alignedQuery != "GT-DVG" {
		t.Errorf("expected aligned query 'GT-DVG', got %q", alignedQuery)
	}
	if alignedRef != "GT-DVG" {
		t.Errorf("expected aligned reference 'GT-DVG', got %q", alignedRef)
	}

	_, _, err = GetAlignedPair("GTDVG", "missing", reference)
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected a ValidationError for an unknown reference, "+
			"got %v", err)
	}
}

func TestAlignmentDeterminism(t *testing.T) {
	reference := mustAlignment(t, referenceEntries)
	_, first, err := alignSequence("query", "GTWKDVG", reference)
	if err != nil {
		t.Fatal(err)
	}
	_, second, err := alignSequence("query", "GTWKDVG", reference)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("aligning the same query twice must yield identical paths")
	}
}

func TestAlignEmptyQuery(t *testing.T) {
	reference := mustAlignment(t, referenceEntries)
	_, _, err := InsertIntoAlignment("---", reference)
	var aerr AlignmentError
	if !errors.As(err, &aerr) {
		t.Errorf("expected an AlignmentError for a gap-only query, got %v",
			err)
	}
}

func TestConcurrentInsertionsShareProfile(t *testing.T) {
	// A built profile is read-only: concurrent queries against the same
	// reference must all see the same results as sequential ones.
	reference := mustAlignment(t, referenceEntries)
	reference.Profile()

	queries := []string{"GTDVG", "GTKDVG", "GTWKDVG", "TDV", "GTKVG"}
	sequential := make([]string, len(queries))
	for i, q := range queries {
		aligned, _, err := InsertIntoAlignment(q, reference)
		if err != nil {
			t.Fatal(err)
		}
		sequential[i] = aligned
	}

	concurrent := make([]string, len(queries))
	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			aligned, _, err := InsertIntoAlignment(q, reference)
			if err != nil {
				t.Error(err)
				return
			}
			concurrent[i] = aligned
		}(i, q)
	}
	wg.Wait()

	if !reflect.DeepEqual(sequential, concurrent) {
		t.Errorf("concurrent results diverged: %v vs %v",
			sequential, concurrent)
	}
}
