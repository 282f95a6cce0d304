package brawn

// buildQueryResult lays an aligned query sequence along a path: match and
// deletion edges consume query columns, insertion edges gap the query.
func buildQueryResult(seq []byte, path *Path) string {
	result := make([]byte, 0, len(path.Edges))
	next := 0
	for _, edge := range path.Edges {
		if edge.Type == Insertion {
			result = append(result, GapChar)
			continue
		}
		result = append(result, seq[next])
		next++
	}
	return string(result)
}

// buildReferenceResult lays an aligned reference sequence along a path:
// match and insertion edges consume reference columns, deletion edges gap
// the reference.
func buildReferenceResult(seq []byte, path *Path) string {
	result := make([]byte, 0, len(path.Edges))
	next := 0
	for _, edge := range path.Edges {
		if edge.Type == Deletion {
			result = append(result, GapChar)
			continue
		}
		result = append(result, seq[next])
		next++
	}
	return string(result)
}

// queryLayout is one query sequence's alignment result expressed relative
// to the reference columns: the residue (or gap) occupying each existing
// reference column, plus the residues inserted before each reference
// column. insertions[w], where w is the reference width, holds trailing
// insertions.
type queryLayout struct {
	name       string
	refColumns []byte
	insertions [][]byte
}

// layoutQuery converts an alignment path for a single query sequence into
// its per-reference-column layout. Consecutive deletions collapse into one
// contiguous insertion block.
func layoutQuery(name string, seq []byte, path *Path, refWidth int) queryLayout {
	layout := queryLayout{
		name:       name,
		refColumns: make([]byte, refWidth),
		insertions: make([][]byte, refWidth+1),
	}
	refCol, next := 0, 0
	for _, edge := range path.Edges {
		switch edge.Type {
		case Match:
			layout.refColumns[refCol] = seq[next]
			refCol++
			next++
		case Insertion:
			layout.refColumns[refCol] = GapChar
			refCol++
		case Deletion:
			layout.insertions[refCol] = append(layout.insertions[refCol], seq[next])
			next++
		}
	}
	return layout
}

// project merges query layouts back into the reference alignment. New
// columns are created for every insertion block, grouped before the
// reference column they precede, in query order. Insertion blocks from
// different queries never share columns, even at the same reference
// position. Query sequences come first in the result, then the original
// reference sequences with their columns in original relative order.
func project(reference *Alignment, layouts []queryLayout) (*Alignment, error) {
	refWidth := reference.cols
	numRows := len(layouts) + len(reference.seqs)
	rows := make([][]byte, numRows)
	for i := range rows {
		rows[i] = make([]byte, 0, refWidth)
	}

	// appendBlock widens the result by one insertion block: the owning
	// query contributes its residues, every other row is gapped.
	appendBlock := func(owner int, residues []byte) {
		for r := range rows {
			if r == owner {
				rows[r] = append(rows[r], residues...)
				continue
			}
			for range residues {
				rows[r] = append(rows[r], GapChar)
			}
		}
	}

	for refCol := 0; refCol <= refWidth; refCol++ {
		for q := range layouts {
			if block := layouts[q].insertions[refCol]; len(block) > 0 {
				appendBlock(q, block)
			}
		}
		if refCol == refWidth {
			break
		}
		for r := range rows {
			if r < len(layouts) {
				rows[r] = append(rows[r], layouts[r].refColumns[refCol])
			} else {
				rows[r] = append(rows[r], reference.seqs[r-len(layouts)][refCol])
			}
		}
	}

	entries := make([]NamedSequence, 0, numRows)
	for q := range layouts {
		entries = append(entries, NamedSequence{
			Name:     layouts[q].name,
			Residues: string(rows[q]),
		})
	}
	for i, name := range reference.names {
		entries = append(entries, NamedSequence{
			Name:     name,
			Residues: string(rows[len(layouts)+i]),
		})
	}
	return NewAlignment(entries)
}
