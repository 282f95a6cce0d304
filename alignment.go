package brawn

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// NamedSequence is a single entry of an alignment: a unique name paired with
// an aligned (possibly gapped) sequence.
type NamedSequence struct {
	Name     string
	Residues string
}

// Alignment is a multiple sequence alignment: an ordered set of uniquely
// named sequences of identical length. An Alignment is immutable once
// built; combining alignments produces new values.
type Alignment struct {
	names  []string
	seqs   [][]byte
	byName map[string]int
	cols   int

	// The weights and profile are computed once on demand and are
	// read-only afterwards, so a built Alignment may be shared freely
	// across concurrent queries.
	profileOnce sync.Once
	weights     []float64
	profile     *SequenceProfile
}

// NewAlignment creates an Alignment from named sequences, preserving their
// order. Sequences are validated for consistent length and unique,
// non-empty names.
func NewAlignment(entries []NamedSequence) (*Alignment, error) {
	if len(entries) == 0 {
		return nil, ValidationError{"at least one sequence must be provided"}
	}
	a := &Alignment{
		names:  make([]string, 0, len(entries)),
		seqs:   make([][]byte, 0, len(entries)),
		byName: make(map[string]int, len(entries)),
		cols:   len(entries[0].Residues),
	}
	for _, entry := range entries {
		if len(entry.Name) == 0 {
			return nil, ValidationError{"sequence without a name in alignment"}
		}
		if _, ok := a.byName[entry.Name]; ok {
			return nil, ValidationError{fmt.Sprintf(
				"duplicate sequence name '%s' in alignment", entry.Name)}
		}
		if len(entry.Residues) == 0 {
			return nil, ValidationError{fmt.Sprintf(
				"alignment missing sequence for '%s'", entry.Name)}
		}
		if len(entry.Residues) != a.cols {
			return nil, ValidationError{fmt.Sprintf(
				"alignment sequences not of consistent length: "+
					"'%s' has %d columns, expected %d",
				entry.Name, len(entry.Residues), a.cols)}
		}
		normalized, err := normalizeSequence(entry.Name, entry.Residues)
		if err != nil {
			return nil, err
		}
		a.byName[entry.Name] = len(a.names)
		a.names = append(a.names, entry.Name)
		a.seqs = append(a.seqs, normalized)
	}
	return a, nil
}

// Columns returns the width of the alignment.
func (a *Alignment) Columns() int {
	return a.cols
}

// NumSequences returns the number of sequences in the alignment.
func (a *Alignment) NumSequences() int {
	return len(a.names)
}

// Names returns the sequence names in alignment order.
func (a *Alignment) Names() []string {
	names := make([]string, len(a.names))
	copy(names, a.names)
	return names
}

// Sequence returns the aligned sequence with the given name.
func (a *Alignment) Sequence(name string) (string, bool) {
	i, ok := a.byName[name]
	if !ok {
		return "", false
	}
	return string(a.seqs[i]), true
}

// Entries returns the name/sequence pairs of the alignment in order.
func (a *Alignment) Entries() []NamedSequence {
	entries := make([]NamedSequence, len(a.names))
	for i, name := range a.names {
		entries[i] = NamedSequence{Name: name, Residues: string(a.seqs[i])}
	}
	return entries
}

// ToMap returns a name to sequence mapping of the alignment.
func (a *Alignment) ToMap() map[string]string {
	seqs := make(map[string]string, len(a.names))
	for i, name := range a.names {
		seqs[name] = string(a.seqs[i])
	}
	return seqs
}

// Fingerprint is a compact identity token for an alignment, used to verify
// that a cached profile belongs to the alignment it is attached to. The
// checksum is independent of sequence order.
type Fingerprint struct {
	Sequences int    `json:"sequences"`
	Columns   int    `json:"columns"`
	Checksum  uint64 `json:"checksum"`
}

// Fingerprint computes the identity token of the alignment.
func (a *Alignment) Fingerprint() Fingerprint {
	var checksum uint64
	digest := xxhash.New()
	for i, name := range a.names {
		digest.Reset()
		digest.WriteString(name)
		digest.Write([]byte{0})
		digest.Write(a.seqs[i])
		// XOR keeps the combined checksum order independent.
		checksum ^= digest.Sum64()
	}
	return Fingerprint{
		Sequences: len(a.names),
		Columns:   a.cols,
		Checksum:  checksum,
	}
}

// percentIdentity returns the fraction of identical residues between two
// sequences of the alignment, ignoring any column where either has a gap.
func (a *Alignment) percentIdentity(i, j int) float64 {
	count, same := 0, 0
	for col := 0; col < a.cols; col++ {
		ri, rj := a.seqs[i][col], a.seqs[j][col]
		if ri == GapChar || rj == GapChar {
			continue
		}
		count++
		if ri == rj {
			same++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(same) / float64(count)
}

// Weights returns the relative weight of each sequence in alignment order.
// The weights sum to 1 and down-weight near-duplicate sequences.
func (a *Alignment) Weights() []float64 {
	a.realizeProfile()
	weights := make([]float64, len(a.weights))
	copy(weights, a.weights)
	return weights
}

// Profile returns the positional scoring profile of the alignment,
// computing it on first use.
func (a *Alignment) Profile() *SequenceProfile {
	a.realizeProfile()
	return a.profile
}

func (a *Alignment) realizeProfile() {
	a.profileOnce.Do(func() {
		if a.weights == nil {
			a.weights = sequenceWeights(a)
		}
		if a.profile == nil {
			a.profile = buildProfile(a, a.weights)
		}
	})
}

// attachProfile installs a previously computed profile and weight set, as
// loaded from a cache. It must be called before any use of Profile or
// Weights on this value.
func (a *Alignment) attachProfile(weights []float64, profile *SequenceProfile) {
	a.profileOnce.Do(func() {
		a.weights = weights
		a.profile = profile
	})
}
