package brawn

import "fmt"

// dropGaps returns the residues of an aligned sequence with all gap
// columns removed.
func dropGaps(seq []byte) []byte {
	bare := make([]byte, 0, len(seq))
	for _, c := range seq {
		if c != GapChar {
			bare = append(bare, c)
		}
	}
	return bare
}

// alignSequence aligns one bare query sequence against the reference
// alignment's profile, returning the normalized residues and the optimal
// path. Gaps in the query input are discarded; a lone sequence carries no
// column information of its own.
func alignSequence(name, querySeq string, reference *Alignment) ([]byte, *Path, error) {
	normalized, err := normalizeSequence(name, querySeq)
	if err != nil {
		return nil, nil, err
	}
	bare := dropGaps(normalized)
	if len(bare) == 0 {
		return nil, nil, AlignmentError{fmt.Sprintf(
			"query sequence '%s' has no residues to align", name)}
	}
	query, err := NewAlignment([]NamedSequence{{Name: name, Residues: string(bare)}})
	if err != nil {
		return nil, nil, err
	}
	path, err := globalAlign(query.Profile(), reference.Profile())
	if err != nil {
		return nil, nil, err
	}
	return bare, path, nil
}

// CombineAlignments aligns every sequence of the query alignment
// independently against the reference alignment's profile and merges the
// results into a single alignment. Query sequences appear first in the
// result, followed by the reference sequences with their original column
// order intact. Reference columns are widened only where a query inserts
// residues the reference has no column for, and separate queries never
// share insertion columns.
func CombineAlignments(reference, query *Alignment) (*Alignment, error) {
	layouts := make([]queryLayout, 0, query.NumSequences())
	for i, name := range query.names {
		bare, path, err := alignSequence(name, string(query.seqs[i]), reference)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, layoutQuery(name, bare, path, reference.cols))
	}
	return project(reference, layouts)
}

// InsertIntoAlignment aligns a single query sequence against the reference
// alignment and returns the aligned query along with every reference
// sequence re-laid over the combined columns.
func InsertIntoAlignment(querySeq string, reference *Alignment) (string, map[string]string, error) {
	bare, path, err := alignSequence("query", querySeq, reference)
	if err != nil {
		return "", nil, err
	}
	aligned := buildQueryResult(bare, path)
	references := make(map[string]string, len(reference.names))
	for i, name := range reference.names {
		references[name] = buildReferenceResult(reference.seqs[i], path)
	}
	return aligned, references, nil
}

// GetAlignedPair aligns a single query sequence against the reference
// alignment and returns the aligned query together with the aligned form
// of the one named reference sequence, discarding the rest.
func GetAlignedPair(querySeq, referenceName string, reference *Alignment) (string, string, error) {
	i, ok := reference.byName[referenceName]
	if !ok {
		return "", "", ValidationError{fmt.Sprintf(
			"reference of interest not in reference alignment: '%s'",
			referenceName)}
	}
	bare, path, err := alignSequence("query", querySeq, reference)
	if err != nil {
		return "", "", err
	}
	return buildQueryResult(bare, path), buildReferenceResult(reference.seqs[i], path), nil
}
