package brawn

import (
	"fmt"
	"io"

	"github.com/TuftsBCB/io/fasta"
	"github.com/TuftsBCB/seq"
)

// DefaultFastaColumns is the line width used when writing FASTA output
// unless the caller asks for another.
const DefaultFastaColumns = 60

// ReadAlignment parses a multiple sequence alignment from FASTA formatted
// input.
func ReadAlignment(r io.Reader) (*Alignment, error) {
	reader := fasta.NewReader(r)
	var sequences []seq.Sequence
	for {
		s, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ValidationError{fmt.Sprintf(
				"could not parse alignment: %s", err)}
		}
		sequences = append(sequences, s)
	}
	return FromSequences(sequences)
}

// FromSequences builds an Alignment from already parsed FASTA sequences,
// preserving their order.
func FromSequences(sequences []seq.Sequence) (*Alignment, error) {
	if len(sequences) == 0 {
		return nil, ValidationError{"no sequences in alignment input"}
	}
	entries := make([]NamedSequence, len(sequences))
	for i, s := range sequences {
		entries[i] = NamedSequence{
			Name:     s.Name,
			Residues: string(s.Bytes()),
		}
	}
	return NewAlignment(entries)
}

// WriteFasta renders the alignment as FASTA text, wrapping sequence lines
// at the given number of columns. A non-positive width disables wrapping.
func (a *Alignment) WriteFasta(w io.Writer, columns int) error {
	if columns < 1 {
		columns = a.cols
	}
	for i, name := range a.names {
		if _, err := fmt.Fprintf(w, ">%s\n", name); err != nil {
			return err
		}
		s := a.seqs[i]
		for start := 0; start < len(s); start += columns {
			end := start + columns
			if end > len(s) {
				end = len(s)
			}
			if _, err := fmt.Fprintf(w, "%s\n", s[start:end]); err != nil {
				return err
			}
		}
	}
	return nil
}
