package brawn

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Sequence weighting follows the ClustalW scheme: sequences are clustered
// into a binary tree by pairwise Kimura distance, and each sequence's
// weight is the sum of edge lengths on its path to the root, with every
// edge length divided by the number of leaves below it. Near-duplicate
// sequences share their edges and so are down-weighted.

const noNode = -1

// clusterTree is a binary tree over the sequences of an alignment. Leaves
// occupy indices [0, leafCount), internal nodes follow in construction
// order, and the root is the last node.
type clusterTree struct {
	nodeCount     int
	root          int
	parents       []int
	lefts, rights []int
	leftLengths   []float64
	rightLengths  []float64
	parentLengths []float64
}

func (t *clusterTree) leafCount() int {
	return (t.nodeCount + 1) / 2
}

func (t *clusterTree) isLeaf(index int) bool {
	return t.nodeCount == 1 ||
		(t.lefts[index] == noNode && t.rights[index] == noNode)
}

// edgeLength returns the length of the edge between two neighbouring nodes.
func (t *clusterTree) edgeLength(first, second int) float64 {
	switch second {
	case t.lefts[first]:
		return t.leftLengths[first]
	case t.rights[first]:
		return t.rightLengths[first]
	}
	return t.parentLengths[first]
}

// leavesUnder returns, for every node, the number of leaves in the subtree
// rooted at that node (a leaf counts itself).
func (t *clusterTree) leavesUnder() []int {
	counts := make([]int, t.nodeCount)
	var fill func(index int) int
	fill = func(index int) int {
		if t.isLeaf(index) {
			counts[index] = 1
			return 1
		}
		count := fill(t.lefts[index]) + fill(t.rights[index])
		counts[index] = count
		return count
	}
	fill(t.root)
	return counts
}

// weights derives the per-leaf sequence weights, normalised to sum to 1.
func (t *clusterTree) weights() []float64 {
	leafCount := t.leafCount()
	switch leafCount {
	case 0:
		return nil
	case 1:
		return []float64{1}
	case 2:
		return []float64{0.5, 0.5}
	}

	strengths := make([]float64, t.nodeCount)
	for i, leaves := range t.leavesUnder() {
		if i == t.root {
			continue
		}
		strengths[i] = t.edgeLength(i, t.parents[i]) / float64(leaves)
	}

	weights := make([]float64, leafCount)
	for leaf := 0; leaf < leafCount; leaf++ {
		weight := 0.
		for node := leaf; node != t.root; node = t.parents[node] {
			weight += strengths[node]
		}
		if weight < 0.0001 {
			weight = 1
		}
		weights[leaf] = weight
	}
	floats.Scale(1/floats.Sum(weights), weights)
	return weights
}

// sequenceWeights computes the relative weight of every sequence in the
// alignment, in sequence order.
func sequenceWeights(a *Alignment) []float64 {
	switch a.NumSequences() {
	case 1:
		return []float64{1}
	case 2:
		return []float64{0.5, 0.5}
	}
	return treeFromAlignment(a).weights()
}

// treeFromAlignment clusters the sequences of an alignment into a binary
// tree by repeatedly joining the pair of clusters at minimum distance.
// Distances between merged clusters mix minimum and average linkage with
// MUSCLE's 0.9/0.1 split.
func treeFromAlignment(a *Alignment) *clusterTree {
	leafCount := a.NumSequences()
	internalCount := leafCount - 1

	// A flat triangular pairwise distance matrix.
	distances := make([]float64, leafCount*internalCount/2)
	flatIndex := func(i, j int) int {
		if i >= j {
			return i*(i-1)/2 + j
		}
		return j*(j-1)/2 + i
	}

	nodeIndices := make([]int, leafCount)
	nearest := make([]int, leafCount)
	minDists := make([]float64, leafCount)
	for i := range nodeIndices {
		nodeIndices[i] = i
		nearest[i] = noNode
		minDists[i] = math.MaxFloat64
	}

	lefts := make([]int, internalCount)
	rights := make([]int, internalCount)
	heights := make([]float64, internalCount)
	leftLengths := make([]float64, internalCount)
	rightLengths := make([]float64, internalCount)

	for i := 1; i < leafCount; i++ {
		rowStart := flatIndex(i, 0)
		for j := 0; j < i; j++ {
			pid := a.percentIdentity(i, j)
			distances[rowStart+j] = calculateDistance(pid)
		}
		for j := 0; j < i; j++ {
			distance := distances[rowStart+j]
			if distance < minDists[i] {
				minDists[i] = distance
				nearest[i] = j
			}
			if distance < minDists[j] {
				minDists[j] = distance
				nearest[j] = i
			}
		}
	}

	for internal := 0; internal < internalCount; internal++ {
		leftMin, rightMin := noNode, noNode
		minDist := math.MaxFloat64
		for j := 0; j < leafCount; j++ {
			if nodeIndices[j] == noNode {
				continue
			}
			if minDists[j] < minDist {
				minDist = minDists[j]
				leftMin = j
				rightMin = nearest[j]
			}
		}

		newMinDist := math.MaxFloat64
		newNearest := noNode
		for j := 0; j < leafCount; j++ {
			if j == leftMin || j == rightMin || nodeIndices[j] == noNode {
				continue
			}
			leftIndex := flatIndex(leftMin, j)
			distanceLeft := distances[leftIndex]
			distanceRight := distances[flatIndex(rightMin, j)]
			newDist := 0.1*(distanceLeft+distanceRight)/2 +
				0.9*math.Min(distanceLeft, distanceRight)
			if nearest[j] == rightMin {
				nearest[j] = leftMin
			}

			distances[leftIndex] = newDist
			if newDist < newMinDist {
				newMinDist = newDist
				newNearest = j
			}
		}

		newHeight := distances[flatIndex(leftMin, rightMin)] / 2
		left := nodeIndices[leftMin]
		right := nodeIndices[rightMin]
		heightLeft, heightRight := 0., 0.
		if left >= leafCount {
			heightLeft = heights[left-leafCount]
		}
		if right >= leafCount {
			heightRight = heights[right-leafCount]
		}

		lefts[internal] = left
		rights[internal] = right
		leftLengths[internal] = newHeight - heightLeft
		rightLengths[internal] = newHeight - heightRight
		heights[internal] = newHeight

		nodeIndices[leftMin] = leafCount + internal
		nearest[leftMin] = newNearest
		minDists[leftMin] = newMinDist
		nodeIndices[rightMin] = noNode
	}

	nodeCount := 2*leafCount - 1
	tree := &clusterTree{
		nodeCount:     nodeCount,
		root:          nodeCount - 1,
		parents:       make([]int, nodeCount),
		lefts:         make([]int, nodeCount),
		rights:        make([]int, nodeCount),
		leftLengths:   make([]float64, nodeCount),
		rightLengths:  make([]float64, nodeCount),
		parentLengths: make([]float64, nodeCount),
	}
	for i := 0; i < nodeCount; i++ {
		tree.parents[i] = noNode
		tree.lefts[i] = noNode
		tree.rights[i] = noNode
	}
	for i := 0; i < internalCount; i++ {
		node := leafCount + i
		tree.lefts[node] = lefts[i]
		tree.rights[node] = rights[i]
		tree.leftLengths[node] = leftLengths[i]
		tree.rightLengths[node] = rightLengths[i]
		tree.parents[lefts[i]] = node
		tree.parents[rights[i]] = node
		tree.parentLengths[lefts[i]] = leftLengths[i]
		tree.parentLengths[rights[i]] = rightLengths[i]
	}
	return tree
}
