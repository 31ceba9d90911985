package services

import (
	"math"
	"sort"
)

// noiseLabel marks points outside every dense cluster.
const noiseLabel = -1

// maxLambda stands in for 1/0 when two points coincide.
const maxLambda = 1e12

// hdbscanParams configures a density clustering run.
type hdbscanParams struct {
	// minClusterSize is the smallest group reported as a cluster.
	minClusterSize int

	// minSamples sets the core distance: the distance to the
	// (minSamples-1)-th nearest other point.
	minSamples int

	// selectionEpsilon applies when the hierarchy never splits into two
	// clusters of minClusterSize: the whole set becomes one candidate cluster
	// made of the points that leave it at a distance <= selectionEpsilon.
	// Zero disables the single-cluster case.
	selectionEpsilon float64
}

type mstEdge struct {
	a, b   int
	weight float64
}

// linkageNode is an internal node of the single-linkage dendrogram.
// Ids below n are points; node i of the slice has id n+i.
type linkageNode struct {
	left, right int
	distance    float64
	size        int
}

// condensedEntry is one edge of the condensed cluster tree. A child is either
// a point that falls out of parent at lambda, or a new cluster born at lambda.
type condensedEntry struct {
	parent int
	child  int
	point  bool
	lambda float64
	size   int
}

// hdbscanLabels clusters points (one row per point) and returns one label per
// point, noiseLabel for noise. It follows HDBSCAN: mutual reachability over
// Euclidean distance, a minimum spanning tree, a condensed tree pruned at
// minClusterSize, and excess-of-mass cluster selection.
func hdbscanLabels(points [][]float64, p hdbscanParams) []int {
	n := len(points)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = noiseLabel
	}
	if n < 2 || n < p.minClusterSize {
		return labels
	}

	core := coreDistances(points, p.minSamples)
	edges := mutualReachabilityMST(points, core)
	nodes := singleLinkage(n, edges)
	tree, numClusters := condenseTree(n, nodes, p.minClusterSize)
	selected := selectClusters(tree, numClusters)

	if len(selected) == 0 {
		return singleClusterLabels(tree, labels, p)
	}

	parentOf := make(map[int]int)
	for _, e := range tree {
		if !e.point {
			parentOf[e.child] = e.parent
		}
	}
	for _, e := range tree {
		if !e.point {
			continue
		}
		for c := e.parent; ; {
			if selected[c] {
				labels[e.child] = c
				break
			}
			parent, ok := parentOf[c]
			if !ok {
				break
			}
			c = parent
		}
	}
	return labels
}

// coreDistances returns, per point, the distance to its (minSamples-1)-th
// nearest other point. minSamples <= 1 gives zero core distances.
func coreDistances(points [][]float64, minSamples int) []float64 {
	n := len(points)
	core := make([]float64, n)
	k := minSamples - 1
	if k < 1 {
		return core
	}
	if k > n-1 {
		k = n - 1
	}

	nearest := make([]float64, 0, k)
	for i := range points {
		nearest = nearest[:0]
		for j := range points {
			if i == j {
				continue
			}
			d := euclidean(points[i], points[j])
			if len(nearest) < k {
				nearest = append(nearest, d)
				sort.Float64s(nearest)
				continue
			}
			if d < nearest[k-1] {
				nearest[k-1] = d
				sort.Float64s(nearest)
			}
		}
		core[i] = nearest[k-1]
	}
	return core
}

// mutualReachabilityMST builds a minimum spanning tree with Prim's algorithm
// over the mutual reachability distance max(core[a], core[b], d(a, b)).
func mutualReachabilityMST(points [][]float64, core []float64) []mstEdge {
	n := len(points)
	inTree := make([]bool, n)
	best := make([]float64, n)
	from := make([]int, n)
	for i := range best {
		best[i] = math.Inf(1)
	}

	edges := make([]mstEdge, 0, n-1)
	current := 0
	inTree[current] = true
	for len(edges) < n-1 {
		next := -1
		for j := 0; j < n; j++ {
			if inTree[j] {
				continue
			}
			d := math.Max(euclidean(points[current], points[j]), math.Max(core[current], core[j]))
			if d < best[j] {
				best[j] = d
				from[j] = current
			}
			if next == -1 || best[j] < best[next] {
				next = j
			}
		}
		inTree[next] = true
		edges = append(edges, mstEdge{a: from[next], b: next, weight: best[next]})
		current = next
	}
	return edges
}

// singleLinkage merges MST edges in ascending weight order into a dendrogram.
func singleLinkage(n int, edges []mstEdge) []linkageNode {
	sorted := append([]mstEdge(nil), edges...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].weight < sorted[j].weight })

	parent := make([]int, 2*n-1)
	size := make([]int, 2*n-1)
	for i := range parent {
		parent[i] = i
		if i < n {
			size[i] = 1
		}
	}
	find := func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}

	nodes := make([]linkageNode, 0, n-1)
	for _, e := range sorted {
		ra, rb := find(e.a), find(e.b)
		id := n + len(nodes)
		size[id] = size[ra] + size[rb]
		nodes = append(nodes, linkageNode{left: ra, right: rb, distance: e.weight, size: size[id]})
		parent[ra] = id
		parent[rb] = id
	}
	return nodes
}

// condenseTree walks the dendrogram from the root and keeps only splits where
// both sides have at least minClusterSize points. Smaller sides fall out of
// their cluster as points. Cluster 0 is the root; children get larger labels
// than their parents.
func condenseTree(n int, nodes []linkageNode, minClusterSize int) ([]condensedEntry, int) {
	sizeOf := func(id int) int {
		if id < n {
			return 1
		}
		return nodes[id-n].size
	}
	leaves := func(id int) []int {
		var out []int
		stack := []int{id}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top < n {
				out = append(out, top)
				continue
			}
			stack = append(stack, nodes[top-n].right, nodes[top-n].left)
		}
		return out
	}

	type work struct{ node, cluster int }
	var tree []condensedEntry
	nextCluster := 1
	stack := []work{{node: 2*n - 2, cluster: 0}}

	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := nodes[w.node-n]
		lambda := lambdaFor(node.distance)
		left, right := node.left, node.right
		ls, rs := sizeOf(left), sizeOf(right)

		switch {
		case ls >= minClusterSize && rs >= minClusterSize:
			for _, child := range []int{left, right} {
				label := nextCluster
				nextCluster++
				tree = append(tree, condensedEntry{parent: w.cluster, child: label, lambda: lambda, size: sizeOf(child)})
				stack = append(stack, work{node: child, cluster: label})
			}
		case ls < minClusterSize && rs < minClusterSize:
			for _, child := range []int{left, right} {
				for _, pt := range leaves(child) {
					tree = append(tree, condensedEntry{parent: w.cluster, child: pt, point: true, lambda: lambda, size: 1})
				}
			}
		default:
			big, small := left, right
			if ls < rs {
				big, small = right, left
			}
			for _, pt := range leaves(small) {
				tree = append(tree, condensedEntry{parent: w.cluster, child: pt, point: true, lambda: lambda, size: 1})
			}
			stack = append(stack, work{node: big, cluster: w.cluster})
		}
	}
	return tree, nextCluster
}

func lambdaFor(distance float64) float64 {
	if distance <= 0 {
		return maxLambda
	}
	return math.Min(1/distance, maxLambda)
}

// selectClusters applies excess-of-mass selection to every cluster except the
// root and returns the selected labels.
func selectClusters(tree []condensedEntry, numClusters int) map[int]bool {
	birth := make([]float64, numClusters)
	children := make([][]int, numClusters)
	for _, e := range tree {
		if !e.point {
			birth[e.child] = e.lambda
			children[e.parent] = append(children[e.parent], e.child)
		}
	}

	stability := make([]float64, numClusters)
	for _, e := range tree {
		stability[e.parent] += (e.lambda - birth[e.parent]) * float64(e.size)
	}

	selected := make(map[int]bool)
	var deselect func(int)
	deselect = func(c int) {
		for _, child := range children[c] {
			delete(selected, child)
			deselect(child)
		}
	}

	for c := numClusters - 1; c >= 1; c-- {
		if len(children[c]) == 0 {
			selected[c] = true
			continue
		}
		subtree := 0.0
		for _, child := range children[c] {
			subtree += stability[child]
		}
		if subtree > stability[c] {
			stability[c] = subtree
			continue
		}
		selected[c] = true
		deselect(c)
	}
	return selected
}

// singleClusterLabels handles a hierarchy that never splits: points leaving
// the root within selectionEpsilon form one cluster when there are enough of them.
func singleClusterLabels(tree []condensedEntry, labels []int, p hdbscanParams) []int {
	if p.selectionEpsilon <= 0 {
		return labels
	}
	minLambda := 1 / p.selectionEpsilon

	var members []int
	for _, e := range tree {
		if e.point && e.parent == 0 && e.lambda >= minLambda {
			members = append(members, e.child)
		}
	}
	if len(members) < p.minClusterSize {
		return labels
	}
	for _, m := range members {
		labels[m] = 0
	}
	return labels
}
