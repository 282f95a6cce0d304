package brawn

import (
	"fmt"
	"math"
)

// The traceback matrix packs, per cell, the best predecessor state for each
// of the three Gotoh states into separate bit ranges.
const (
	bitMM = 0x00
	bitDM = 0x01
	bitIM = 0x02
	bitM  = 0x03
	bitDD = 0x00
	bitMD = 0x04
	bitD  = 0x04
	bitII = 0x00
	bitMI = 0x08
	bitI  = 0x08
)

// comparePositions scores a query profile column against a reference
// profile column: the expected substitution ratio of the query composition
// under the reference's scoring vector, taken as a log-odds score and
// scaled by how ungapped both columns are.
func comparePositions(q, r *ProfileColumn) float64 {
	score := 0.
	for _, index := range q.SortOrder {
		count := q.Counts[index]
		// Sorted by decreasing count, so the first zero ends the column.
		if count == 0 {
			break
		}
		score += count * r.Scores[index]
	}
	if score == 0 {
		return -2.5
	}
	return (math.Log(score) - scoreCenter) * q.Ungapped * r.Ungapped
}

// closeAt returns the gap closing score at index i, wrapping a negative
// index around to the final column. The wrap only occurs for single-column
// profiles.
func closeAt(p *SequenceProfile, i int) float64 {
	if i < 0 {
		i += p.Len()
	}
	return p.gapCloseScore(i)
}

// globalAlign runs a three-state affine-gap global alignment of a query
// profile against a reference profile and returns the optimal path. Ties
// are broken deterministically, preferring match over deletion over
// insertion. The alignment is exact: no banding or pruning is applied.
func globalAlign(query, reference *SequenceProfile) (*Path, error) {
	queryLength := query.Len()
	referenceLength := reference.Len()
	if queryLength == 0 {
		return nil, AlignmentError{"cannot align an empty query"}
	}
	if referenceLength == 0 {
		return nil, AlignmentError{"cannot align against an empty profile"}
	}
	if queryLength == 1 && referenceLength == 1 {
		// Only one walk exists, no matrix needed.
		score := comparePositions(&query.Columns[0], &reference.Columns[0])
		return &Path{
			Edges: []Edge{{Type: Match, QueryLength: 1, ReferenceLength: 1}},
			Score: score,
		}, nil
	}

	width := referenceLength + 1
	currentMatch := make([]float64, width)
	nextMatch := make([]float64, width)
	prevMatch := make([]float64, width)
	deleteRow := make([]float64, width)
	for j := range prevMatch {
		prevMatch[j] = minusInfinity
		deleteRow[j] = minusInfinity
	}
	traceback := make([][]uint8, queryLength+1)
	for i := range traceback {
		traceback[i] = make([]uint8, width)
	}

	recurseD := func(row []uint8, i, j int) {
		dd := deleteRow[j] + gapExtend
		md := prevMatch[j] + query.gapOpenScore(i-1)
		if dd > md {
			deleteRow[j] = dd
		} else {
			deleteRow[j] = md
			row[j] = (row[j] &^ bitD) | bitMD
		}
	}
	recurseI := func(iij float64, row []uint8, j int) float64 {
		iij += gapExtend
		mi := currentMatch[j-1] + reference.gapOpenScore(j-1)
		if mi >= iij {
			iij = mi
			row[j] = (row[j] &^ bitI) | bitMI
		}
		return iij
	}
	recurseM := func(iij float64, i, j int) {
		dm := deleteRow[j] + query.gapCloseScore(i-1)
		im := iij + reference.gapCloseScore(j-1)
		mm := currentMatch[j]
		var bit uint8
		switch {
		case mm >= dm && mm >= im:
			nextMatch[j+1] += mm
			bit = bitMM
		case dm >= mm && dm >= im:
			nextMatch[j+1] += dm
			bit = bitDM
		default:
			nextMatch[j+1] += im
			bit = bitIM
		}
		traceback[i+1][j+1] = (traceback[i+1][j+1] &^ bitM) | bit
	}
	setMatchBit := func(i, j int, mod Modification) {
		var bit uint8
		switch mod {
		case Match:
			bit = bitMM
		case Deletion:
			bit = bitDM
		case Insertion:
			bit = bitIM
		}
		traceback[i][j] = (traceback[i][j] &^ bitM) | bit
	}

	// First query row: the first query column matched at reference column
	// j, preceded by a terminal insertion across columns 1..j-1.
	prevMatch[0] = 0
	currentMatch[0] = minusInfinity
	currentMatch[1] = comparePositions(&query.Columns[0], &reference.Columns[0])
	setMatchBit(1, 1, Match)
	for j := 2; j < width; j++ {
		currentMatch[j] = comparePositions(&query.Columns[0], &reference.Columns[j-1]) +
			reference.gapOpenScore(0) +
			float64(j-2)*gapExtend +
			reference.gapCloseScore(j-2)
		setMatchBit(1, j, Insertion)
	}

	for i := 1; i < queryLength; i++ {
		row := traceback[i]
		iij := minusInfinity
		deleteRow[0] = query.gapOpenScore(0) + float64(i-1)*gapExtend
		currentMatch[0] = minusInfinity

		if i == 1 {
			currentMatch[1] = comparePositions(&query.Columns[0], &reference.Columns[0])
			setMatchBit(i, 1, Match)
		} else {
			currentMatch[1] = comparePositions(&query.Columns[i-1], &reference.Columns[0]) +
				query.gapOpenScore(0) +
				float64(i-2)*gapExtend +
				query.gapCloseScore(i-2)
			setMatchBit(i, 1, Deletion)
		}

		for j := 1; j < referenceLength; j++ {
			nextMatch[j+1] = comparePositions(&query.Columns[i], &reference.Columns[j])
		}
		for j := 1; j < referenceLength; j++ {
			recurseD(row, i, j)
			iij = recurseI(iij, row, j)
			recurseM(iij, i, j)
		}
		recurseD(row, i, referenceLength)
		iij = recurseI(iij, row, referenceLength)

		prevMatch, currentMatch, nextMatch = currentMatch, nextMatch, prevMatch
	}

	// Final query row: close out the deletion and insertion states across
	// the whole reference.
	row := traceback[queryLength]
	currentMatch[0] = minusInfinity
	currentMatch[1] = comparePositions(&query.Columns[queryLength-1], &reference.Columns[0]) +
		query.gapOpenScore(0) +
		float64(queryLength-2)*gapExtend +
		closeAt(query, queryLength-2)
	setMatchBit(queryLength, 1, Deletion)

	deleteRow[0] = minusInfinity
	for j := 1; j < width; j++ {
		recurseD(row, queryLength, j)
	}
	iij := minusInfinity
	for j := 1; j < width; j++ {
		iij = recurseI(iij, row, j)
	}

	score := currentMatch[referenceLength]
	edgeType := Match
	if deleteRow[referenceLength] > score {
		score = deleteRow[referenceLength]
		edgeType = Deletion
	}
	if iij > score {
		score = iij
		edgeType = Insertion
	}

	path, err := buildPath(traceback, queryLength, referenceLength, edgeType)
	if err != nil {
		return nil, err
	}
	path.Score = score
	return path, nil
}

// predecessor reads the state transition encoded for the given edge type
// out of a traceback cell.
func predecessor(bits uint8, previous Modification) (Modification, error) {
	switch previous {
	case Match:
		switch bits & bitM {
		case bitMM:
			return Match, nil
		case bitDM:
			return Deletion, nil
		case bitIM:
			return Insertion, nil
		}
	case Deletion:
		if bits&bitD == bitMD {
			return Match, nil
		}
		return Deletion, nil
	case Insertion:
		if bits&bitI == bitMI {
			return Match, nil
		}
		return Insertion, nil
	}
	return Match, AlignmentError{fmt.Sprintf(
		"incompatible traceback value %#x for edge type %s", bits, previous)}
}

// buildPath walks the traceback matrix from the most distant cell back to
// the origin, returning the edges in forward order.
func buildPath(traceback [][]uint8, queryLength, referenceLength int,
	lastEdge Modification) (*Path, error) {

	edge := Edge{Type: lastEdge, QueryLength: queryLength, ReferenceLength: referenceLength}
	edges := []Edge{edge}
	for {
		bits := traceback[edge.QueryLength][edge.ReferenceLength]
		next, err := predecessor(bits, edge.Type)
		if err != nil {
			return nil, err
		}
		switch edge.Type {
		case Match:
			edge.QueryLength--
			edge.ReferenceLength--
		case Deletion:
			edge.QueryLength--
		case Insertion:
			edge.ReferenceLength--
		}
		if edge.QueryLength == 0 && edge.ReferenceLength == 0 {
			break
		}
		edge.Type = next
		edges = append(edges, edge)
	}

	// Reverse into start-to-end order.
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return &Path{Edges: edges}, nil
}
