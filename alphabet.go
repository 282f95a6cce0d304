package brawn

import (
	"fmt"

	"github.com/SJShaw/brawn/blosum"
)

// GapChar is the gap symbol used in all output produced by this package.
// On input, both '-' and '.' are accepted as gaps.
const GapChar = '-'

// Wildcard is the residue substituted for letters outside the supported
// protein alphabet.
const Wildcard = 'X'

// residueIndex maps a residue byte to its row in the blosum tables, or -1
// for anything that is not one of the twenty standard residues.
var residueIndex [256]int

func init() {
	for i := range residueIndex {
		residueIndex[i] = -1
	}
	for i := 0; i < blosum.Size; i++ {
		residueIndex[blosum.Alphabet62[i]] = i
		residueIndex[blosum.Alphabet62[i]+'a'-'A'] = i
	}
}

func isGapChar(c byte) bool {
	return c == '-' || c == '.'
}

func isResidue(c byte) bool {
	return residueIndex[c] >= 0
}

// normalizeSequence converts a raw sequence string into its internal aligned
// form: residues upper cased, gaps canonicalized to GapChar, and letters
// outside the alphabet substituted with the wildcard. Non-letter characters
// are rejected with an UnsupportedAlphabetError.
func normalizeSequence(name, raw string) ([]byte, error) {
	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case isGapChar(c):
			out[i] = GapChar
		case isResidue(c):
			out[i] = blosum.Alphabet62[residueIndex[c]]
		case c >= 'A' && c <= 'Z':
			if c == 'B' || c == 'Z' {
				out[i] = c
			} else {
				out[i] = Wildcard
			}
		case c >= 'a' && c <= 'z':
			if c == 'b' || c == 'z' {
				out[i] = c - 'a' + 'A'
			} else {
				out[i] = Wildcard
			}
		default:
			return nil, UnsupportedAlphabetError{
				Name: name,
				Char: c,
				msg: fmt.Sprintf("sequence '%s' contains unsupported "+
					"character %q at position %d", name, c, i),
			}
		}
	}
	return out, nil
}

// addResidueWeight distributes the weight of one observed residue across the
// count vector. Ambiguity codes split their weight the way MUSCLE does:
// B between D and N, Z between E and Q, and anything else unknown equally
// across the whole alphabet.
func addResidueWeight(counts []float64, c byte, weight float64) {
	if idx := residueIndex[c]; idx >= 0 {
		counts[idx] += weight
		return
	}
	switch c {
	case 'B':
		counts[residueIndex['D']] += weight / 2
		counts[residueIndex['N']] += weight / 2
	case 'Z':
		counts[residueIndex['E']] += weight / 2
		counts[residueIndex['Q']] += weight / 2
	default:
		avg := weight / blosum.Size
		for i := range counts {
			counts[i] += avg
		}
	}
}
