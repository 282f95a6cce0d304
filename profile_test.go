package brawn

import (
	"math"
	"reflect"
	"testing"

	"github.com/SJShaw/brawn/blosum"
)

func nearEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func mustAlignment(t *testing.T, entries []NamedSequence) *Alignment {
	t.Helper()
	a, err := NewAlignment(entries)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestSequenceWeights(t *testing.T) {
	single := mustAlignment(t, []NamedSequence{{"A", "GTDVG"}})
	if got := single.Weights(); !reflect.DeepEqual(got, []float64{1}) {
		t.Errorf("single sequence weight should be [1], got %v", got)
	}

	pair := mustAlignment(t, []NamedSequence{
		{"A", "GT-DVG"},
		{"B", "GTK-VG"},
	})
	if got := pair.Weights(); !reflect.DeepEqual(got, []float64{0.5, 0.5}) {
		t.Errorf("two sequences should weigh [0.5, 0.5], got %v", got)
	}
}

func TestSequenceWeightsDownweightNearDuplicates(t *testing.T) {
	a := mustAlignment(t, []NamedSequence{
		{"A", "GTDVGA"},
		{"B", "GTDVGC"},
		{"C", "WWWWWW"},
	})
	weights := a.Weights()
	sum := 0.
	for _, w := range weights {
		sum += w
	}
	if !nearEqual(sum, 1) {
		t.Errorf("weights should sum to 1, got %f (%v)", sum, weights)
	}
	if !nearEqual(weights[0], weights[1]) {
		t.Errorf("near-duplicates should weigh the same, got %v", weights)
	}
	if weights[2] <= weights[0] {
		t.Errorf("the distinct sequence should outweigh near-duplicates: %v",
			weights)
	}
}

func TestProfileSingleSequence(t *testing.T) {
	a := mustAlignment(t, []NamedSequence{{"A", "GTDV"}})
	profile := a.Profile()
	if profile.Len() != 4 {
		t.Fatalf("expected 4 columns, got %d", profile.Len())
	}
	for i, col := range profile.Columns {
		sum := 0.
		for _, count := range col.Counts {
			sum += count
		}
		if !nearEqual(sum, 1) {
			t.Errorf("column %d counts should sum to 1, got %f", i, sum)
		}
		if col.Ungapped != 1 || col.GapOpens != 1 || col.GapCloses != 1 {
			t.Errorf("column %d of an ungapped alignment should have unit "+
				"gap weights: %+v", i, col)
		}
		if !nearEqual(col.scoreGapOpen(), gapOpen/2) {
			t.Errorf("column %d gap open score should be %f, got %f",
				i, gapOpen/2, col.scoreGapOpen())
		}
		if col.Counts[col.SortOrder[0]] != 1 {
			t.Errorf("column %d sort order should lead with the sole "+
				"residue", i)
		}
		if col.Counts[col.SortOrder[1]] != 0 {
			t.Errorf("column %d sort order should have zeros after the "+
				"sole residue", i)
		}
	}

	// A column holding only G scores each residue by its substitution
	// ratio against G.
	gIndex := residueIndex['G']
	if profile.Columns[0].SortOrder[0] != gIndex {
		t.Errorf("first column should lead with G in its sort order")
	}
	for i, score := range profile.Columns[0].Scores {
		if !nearEqual(score, blosum.Ratio62[i][gIndex]) {
			t.Errorf("first column score %d should be %f, got %f",
				i, blosum.Ratio62[i][gIndex], score)
		}
	}
}

func TestProfileGapWeights(t *testing.T) {
	a := mustAlignment(t, []NamedSequence{
		{"A", "GT-DVG"},
		{"B", "GTK-VG"},
	})
	profile := a.Profile()
	if profile.Len() != a.Columns() {
		t.Fatalf("profile must have one column per alignment column")
	}

	wantOpens := []float64{1, 1, 0.5, 0.5, 1, 1}
	wantCloses := []float64{1, 1, 0.5, 0.5, 1, 1}
	wantUngapped := []float64{1, 1, 0.5, 0.5, 1, 1}
	for i, col := range profile.Columns {
		if !nearEqual(col.GapOpens, wantOpens[i]) {
			t.Errorf("column %d gap opens: want %f, got %f",
				i, wantOpens[i], col.GapOpens)
		}
		if !nearEqual(col.GapCloses, wantCloses[i]) {
			t.Errorf("column %d gap closes: want %f, got %f",
				i, wantCloses[i], col.GapCloses)
		}
		if !nearEqual(col.Ungapped, wantUngapped[i]) {
			t.Errorf("column %d ungapped: want %f, got %f",
				i, wantUngapped[i], col.Ungapped)
		}
	}

	// Terminal columns lose their opening/closing penalties.
	if profile.gapOpenScore(0) != 0 {
		t.Error("first column gap open score should be zero")
	}
	if profile.gapCloseScore(5) != 0 {
		t.Error("last column gap close score should be zero")
	}
	if nearEqual(profile.gapOpenScore(1), 0) {
		t.Error("interior gap open scores should be negative")
	}
}

func TestProfileDeterminism(t *testing.T) {
	entries := []NamedSequence{
		{"A", "GT-DVG"},
		{"B", "GTK-VG"},
		{"C", "GTKDVG"},
	}
	first := mustAlignment(t, entries).Profile()
	second := mustAlignment(t, entries).Profile()
	if !reflect.DeepEqual(first, second) {
		t.Error("building the same alignment twice must yield identical " +
			"profiles")
	}
}

func TestProfileAmbiguityCodes(t *testing.T) {
	a := mustAlignment(t, []NamedSequence{{"A", "B"}})
	counts := a.Profile().Columns[0].Counts
	d, n := residueIndex['D'], residueIndex['N']
	if !nearEqual(counts[d], 0.5) || !nearEqual(counts[n], 0.5) {
		t.Errorf("B should split its weight between D and N, got %v", counts)
	}

	a = mustAlignment(t, []NamedSequence{{"A", "X"}})
	counts = a.Profile().Columns[0].Counts
	for i, count := range counts {
		if !nearEqual(count, 1.0/blosum.Size) {
			t.Errorf("X should spread evenly, index %d got %f", i, count)
		}
	}
}
