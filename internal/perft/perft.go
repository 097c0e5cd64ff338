// Package perft counts the leaves of the legal move tree, the standard way
// to check a move generator against published reference numbers.
package perft

import (
	"context"
	"fmt"
	"sync"

	"github.com/hailam/chessrules/internal/board"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// Counter runs perft, optionally memoising subtree counts in a Cache.
// A Counter is safe for concurrent use when its Cache is.
type Counter struct {
	cache *Cache
}

// NewCounter returns a Counter. cache may be nil.
func NewCounter(cache *Cache) *Counter {
	return &Counter{cache: cache}
}

// Count returns the number of leaf nodes of the legal move tree of pos at
// the given depth. pos is not modified.
func Count(pos *board.Position, depth int) uint64 {
	return NewCounter(nil).Count(pos, depth)
}

// Divide returns the leaf count below every legal root move, keyed by the
// move in coordinate notation.
func Divide(pos *board.Position, depth int) map[string]uint64 {
	return NewCounter(nil).Divide(pos, depth)
}

// Count is the Counter form of the package-level Count.
func (c *Counter) Count(pos *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	return c.count(pos, depth)
}

func (c *Counter) count(pos *board.Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var key uint64
	if c.cache != nil && depth > 1 {
		key = pos.Hash()
		if n, ok := c.cache.Get(key, depth); ok {
			return n
		}
	}

	var nodes uint64
	for _, m := range pos.PseudoLegalMoves().Slice() {
		child := *pos
		if !child.MakeMove(m) {
			continue
		}
		if depth == 1 {
			nodes++
		} else {
			nodes += c.count(&child, depth-1)
		}
	}

	if c.cache != nil && depth > 1 {
		c.cache.Put(key, depth, nodes)
	}
	return nodes
}

// Divide is the Counter form of the package-level Divide.
func (c *Counter) Divide(pos *board.Position, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth <= 0 {
		return result
	}
	for _, m := range pos.PseudoLegalMoves().Slice() {
		child := *pos
		if child.MakeMove(m) {
			result[m.String()] = c.count(&child, depth-1)
		}
	}
	return result
}

// Parallel is Divide with the root moves spread over at most workers
// goroutines. Every branch works on its own copy of the position. It stops
// early with ctx's error when ctx is cancelled.
func (c *Counter) Parallel(ctx context.Context, pos *board.Position, depth, workers int) (map[string]uint64, error) {
	if depth <= 0 {
		return map[string]uint64{}, nil
	}
	if workers < 1 {
		workers = 1
	}

	root := *pos
	var mu sync.Mutex
	result := make(map[string]uint64)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, m := range root.PseudoLegalMoves().Slice() {
		m := m
		child := root
		if !child.MakeMove(m) {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n := c.count(&child, depth-1)

			mu.Lock()
			result[m.String()] = n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("perft: %w", err)
	}
	return result, nil
}

// Total sums the counts of a divide result.
func Total(divide map[string]uint64) uint64 {
	var total uint64
	for _, n := range divide {
		total += n
	}
	return total
}

// SortedMoves returns the root moves of a divide result in lexical order.
func SortedMoves(divide map[string]uint64) []string {
	moves := maps.Keys(divide)
	slices.Sort(moves)
	return moves
}
