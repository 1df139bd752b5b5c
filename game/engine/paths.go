package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/frostpaw/icechase/game/graph"
)

// PathInfo is a full route toward one player: the coordinate path, the first
// step's direction, and the total cost. Found is false when the player is
// walled off from the origin.
type PathInfo struct {
	Path      []Coord
	Direction Direction
	Distance  float64
	Found     bool
}

// PlayerPaths carries the independent routes toward both players.
type PlayerPaths struct {
	Host  PathInfo
	Guest PathInfo
}

// buildGraph snapshots the currently walkable cells into a directed weighted
// graph. Frozen cells join the graph only when the asking mover breaks ice.
// Characters never affect walkability: players are the targets and enemy
// collisions are resolved by movement validation, not by routing. The board
// rebuilds this snapshot per query because freeze mutations change which
// edges are legal.
func (b *Board) buildGraph(canBreakFrozen bool) *graph.Graph {
	g := graph.New()
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			cell := b.cells[y][x]
			if !b.walkable(cell, canBreakFrozen) {
				continue
			}
			for _, d := range Directions() {
				n := cell.Neighbor(d)
				if n != nil && b.walkable(n, canBreakFrozen) {
					g.AddArc(cell.Key(), n.Key(), graph.DefaultWeight)
				}
			}
		}
	}
	return g
}

func (b *Board) walkable(c *Cell, canBreakFrozen bool) bool {
	if c.Item() != nil && c.Item().Blocks() {
		return false
	}
	if c.Frozen() && !canBreakFrozen {
		return false
	}
	return true
}

// routeTo computes the shortest route from a cell to a player over a built
// graph snapshot.
func routeTo(g *graph.Graph, from *Cell, target *Player) PathInfo {
	if target.Cell() == nil {
		return PathInfo{Distance: math.Inf(1)}
	}
	route := g.ShortestPath(from.Key(), target.Cell().Key())
	if !route.Reachable() {
		return PathInfo{Distance: math.Inf(1)}
	}

	info := PathInfo{Distance: route.Distance, Found: true}
	info.Path = make([]Coord, 0, len(route.Path))
	for _, key := range route.Path {
		info.Path = append(info.Path, decodeKey(key))
	}
	if len(info.Path) > 1 {
		if d, ok := info.Path[0].DirectionTo(info.Path[1]); ok {
			info.Direction = d
		}
	}
	return info
}

// PlayersPaths returns the full path and initial direction toward each player
// independently, evaluated against a walkability snapshot that optionally
// treats frozen cells as passable.
func (b *Board) PlayersPaths(from *Cell, canBreakFrozen bool) PlayerPaths {
	g := b.buildGraph(canBreakFrozen)
	return PlayerPaths{
		Host:  routeTo(g, from, b.host),
		Guest: routeTo(g, from, b.guest),
	}
}

// BestDirectionToPlayers returns the first step of the shortest path to the
// nearer player, optionally breaking ice. When the two players are
// equidistant the host wins the tie; this fixed rule keeps variant behavior
// deterministic. The second return is false when neither player is reachable.
func (b *Board) BestDirectionToPlayers(from *Cell, canBreakFrozen bool) (Direction, bool) {
	paths := b.PlayersPaths(from, canBreakFrozen)

	best := paths.Host
	if !best.Found || (paths.Guest.Found && paths.Guest.Distance < best.Distance) {
		best = paths.Guest
	}
	if !best.Found || best.Direction == "" {
		return "", false
	}
	return best.Direction, true
}

// BestPathToPlayers returns the first step of the shortest path to the nearer
// player over the default walkability graph (ice is impassable).
func (b *Board) BestPathToPlayers(from *Cell) (Direction, bool) {
	return b.BestDirectionToPlayers(from, false)
}

// decodeKey reverses Coord.Key.
func decodeKey(key string) Coord {
	parts := strings.SplitN(key, ":", 2)
	if len(parts) != 2 {
		return Coord{}
	}
	x, _ := strconv.Atoi(parts[0])
	y, _ := strconv.Atoi(parts[1])
	return Coord{X: x, Y: y}
}
