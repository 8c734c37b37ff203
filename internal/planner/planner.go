package planner

import (
	"fmt"

	"mapwalker/internal/core"

	"github.com/zyedidia/generic/mapset"
	"github.com/zyedidia/generic/queue"
)

// Graph is the read-only view the planner needs
type Graph interface {
	Has(id core.RoomID) bool
	Neighbors(id core.RoomID) []core.Edge
}

// Step is a single move along a planned route
type Step struct {
	Direction core.Direction
	To        core.RoomID
}

// Path is an ordered route; an empty path means already there
type Path []Step

// Directions returns just the direction tokens of the path
func (p Path) Directions() []core.Direction {
	out := make([]core.Direction, len(p))
	for i, step := range p {
		out[i] = step.Direction
	}
	return out
}

// Planner computes shortest routes over resolved edges
type Planner struct {
	graph Graph
}

func New(graph Graph) *Planner {
	return &Planner{graph: graph}
}

// ShortestPath runs a breadth-first search from `from` to `to`, following
// resolved edges only. Neighbours are expanded in the fixed direction
// priority so equal-length alternatives always resolve the same way.
func (p *Planner) ShortestPath(from, to core.RoomID) (Path, error) {
	if !p.graph.Has(from) || !p.graph.Has(to) {
		return nil, fmt.Errorf("no route from %d to %d: %w", from, to, core.ErrUnreachable)
	}
	if from == to {
		return Path{}, nil
	}

	came := make(map[core.RoomID]hop)
	visited := mapset.New[core.RoomID]()
	visited.Put(from)

	frontier := queue.New[core.RoomID]()
	frontier.Enqueue(from)

	for !frontier.Empty() {
		current := frontier.Dequeue()
		for _, edge := range ordered(p.graph.Neighbors(current)) {
			if visited.Has(edge.To) {
				continue
			}
			visited.Put(edge.To)
			came[edge.To] = hop{parent: current, step: Step{Direction: edge.Direction, To: edge.To}}
			if edge.To == to {
				return unwind(came, from, to), nil
			}
			frontier.Enqueue(edge.To)
		}
	}
	return nil, fmt.Errorf("no route from %d to %d over resolved edges: %w", from, to, core.ErrUnreachable)
}

type hop struct {
	parent core.RoomID
	step   Step
}

func unwind(came map[core.RoomID]hop, from, to core.RoomID) Path {
	var reversed Path
	for at := to; at != from; at = came[at].parent {
		reversed = append(reversed, came[at].step)
	}
	path := make(Path, len(reversed))
	for i, step := range reversed {
		path[len(reversed)-1-i] = step
	}
	return path
}

func ordered(edges []core.Edge) []core.Edge {
	byDir := make(map[core.Direction]core.Edge, len(edges))
	dirs := make([]core.Direction, 0, len(edges))
	for _, e := range edges {
		byDir[e.Direction] = e
		dirs = append(dirs, e.Direction)
	}
	core.SortDirections(dirs)
	out := make([]core.Edge, len(dirs))
	for i, d := range dirs {
		out[i] = byDir[d]
	}
	return out
}
