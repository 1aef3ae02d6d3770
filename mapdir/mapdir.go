// Package mapdir provides access to map directories, where every cell is stored
// as a header file "X_Y.lotheader" and a grid file "world_X_Y.lotpack".
package mapdir

import (
	"cmp"
	"context"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/eak1mov/go-pzmap/cell"
	"github.com/eak1mov/go-pzmap/lot"
	"golang.org/x/sync/errgroup"
)

func HeaderPath(dir string, pos cell.Position) string {
	return filepath.Join(dir, pos.String()+lot.HeaderExt)
}

func PackPath(dir string, pos cell.Position) string {
	return filepath.Join(dir, "world_"+pos.String()+lot.PackExt)
}

// Positions lists the cells of a map directory, ordered by Y then X.
// Files other than cell headers are ignored.
func Positions(dir string) ([]cell.Position, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var positions []cell.Position
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), lot.HeaderExt) {
			continue
		}
		pos, err := lot.PositionFromPath(entry.Name())
		if err != nil {
			continue // e.g. "chunkdata.lotheader"
		}
		positions = append(positions, pos)
	}
	slices.SortFunc(positions, comparePositions)
	return positions, nil
}

func comparePositions(a, b cell.Position) int {
	return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
}

// Cell holds the decoded files of one cell. Pack is nil when only headers were loaded.
type Cell struct {
	Header *lot.Header
	Pack   *lot.Pack
}

func (c *Cell) Position() cell.Position { return c.Header.Position }

// LoadCell reads the header of a cell and, when withPack is set, its grid.
func LoadCell(dir string, pos cell.Position, withPack bool) (*Cell, error) {
	header, err := lot.ReadHeader(HeaderPath(dir, pos))
	if err != nil {
		return nil, err
	}
	if !withPack {
		return &Cell{Header: header}, nil
	}
	pack, err := lot.ReadPack(PackPath(dir, pos), header)
	if err != nil {
		return nil, err
	}
	return &Cell{Header: header, Pack: pack}, nil
}

// Map is a set of loaded cells indexed by position.
type Map struct {
	Dir   string
	cells map[cell.Position]*Cell
}

func (m *Map) Len() int { return len(m.cells) }

func (m *Map) Cell(pos cell.Position) (*Cell, bool) {
	c, ok := m.cells[pos]
	return c, ok
}

// Positions returns the loaded cell positions ordered by Y then X.
func (m *Map) Positions() []cell.Position {
	return slices.SortedFunc(maps.Keys(m.cells), comparePositions)
}

// All iterates over loaded cells ordered by Y then X.
func (m *Map) All() iter.Seq2[cell.Position, *Cell] {
	return func(yield func(cell.Position, *Cell) bool) {
		for _, pos := range m.Positions() {
			if !yield(pos, m.cells[pos]) {
				return
			}
		}
	}
}

type loadConfig struct {
	Workers  int
	WithPack bool
	Progress func(cell.Position)
	Logger   *slog.Logger
}

type Option func(*loadConfig)

// WithWorkers limits the number of cells decoded concurrently (default 1).
func WithWorkers(workers int) Option {
	return func(c *loadConfig) { c.Workers = max(workers, 1) }
}

// WithHeadersOnly skips the grid files.
func WithHeadersOnly() Option {
	return func(c *loadConfig) { c.WithPack = false }
}

// WithProgress sets a callback invoked after each cell is loaded.
// It may be called from several goroutines at once.
func WithProgress(f func(cell.Position)) Option {
	return func(c *loadConfig) { c.Progress = f }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *loadConfig) { c.Logger = logger }
}

// Load decodes every cell of a map directory. Decoding stops at the first
// failing cell or when ctx is cancelled.
func Load(ctx context.Context, dir string, opts ...Option) (*Map, error) {
	positions, err := Positions(dir)
	if err != nil {
		return nil, err
	}
	return LoadCells(ctx, dir, positions, opts...)
}

// LoadCells decodes the given cells of a map directory.
func LoadCells(ctx context.Context, dir string, positions []cell.Position, opts ...Option) (*Map, error) {
	config := loadConfig{
		Workers:  1,
		WithPack: true,
		Progress: func(cell.Position) {},
		Logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	config.Logger.Debug("mapdir: load", "dir", dir, "cells", len(positions), "workers", config.Workers)

	cells := make([]*Cell, len(positions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Workers)
	for i, pos := range positions {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := LoadCell(dir, pos, config.WithPack)
			if err != nil {
				return fmt.Errorf("cell %v: %w", pos, err)
			}
			cells[i] = c
			config.Progress(pos)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Map{Dir: dir, cells: make(map[cell.Position]*Cell, len(cells))}
	for _, c := range cells {
		m.cells[c.Position()] = c
	}
	config.Logger.Debug("mapdir: done", "dir", dir, "cells", len(m.cells))
	return m, nil
}
