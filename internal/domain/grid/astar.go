package grid

import "container/heap"

// --- A* pathfinding ---

type pathNode struct {
	cell   Cell
	g, h   int
	seq    int
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int { return len(ol) }
func (ol openList) Less(i, j int) bool {
	fi, fj := ol[i].g+ol[i].h, ol[j].g+ol[j].h
	if fi != fj {
		return fi < fj
	}
	if ol[i].h != ol[j].h {
		return ol[i].h < ol[j].h
	}
	return ol[i].seq < ol[j].seq
}
func (ol openList) Swap(i, j int) { ol[i], ol[j] = ol[j], ol[i]; ol[i].index = i; ol[j].index = j }
func (ol *openList) Push(x interface{}) {
	n := x.(*pathNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() interface{} {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

var dirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

func manhattan(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// FindPath returns the cells from start to goal inclusive, using 4-directional
// moves of cost 1. Returns nil when start or goal is off-grid or blocked, or
// when no route exists.
func FindPath(g *Grid, start, goal Cell) []Cell {
	if g.IsBlocked(start) || g.IsBlocked(goal) {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}

	key := func(c Cell) int { return c.Y*g.cols + c.X }

	seq := 0
	first := &pathNode{cell: start, h: manhattan(start, goal), seq: seq}
	ol := &openList{first}
	heap.Init(ol)

	closed := make([]bool, g.cols*g.rows)
	best := make(map[int]int, 64)
	best[key(start)] = 0

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.cell == goal {
			return buildPath(cur)
		}
		k := key(cur.cell)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range dirs {
			next := Cell{X: cur.cell.X + d[0], Y: cur.cell.Y + d[1]}
			if g.IsBlocked(next) {
				continue
			}
			nk := key(next)
			if closed[nk] {
				continue
			}
			ng := cur.g + 1
			if prev, ok := best[nk]; ok && ng >= prev {
				continue
			}
			best[nk] = ng
			seq++
			heap.Push(ol, &pathNode{cell: next, g: ng, h: manhattan(next, goal), seq: seq, parent: cur})
		}
	}
	return nil
}

func buildPath(end *pathNode) []Cell {
	var cells []Cell
	for n := end; n != nil; n = n.parent {
		cells = append(cells, n.cell)
	}
	// Reverse
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	return cells
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
