package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/eak1mov/go-pzmap/atlasgraph"
	"github.com/eak1mov/go-pzmap/cell"
	"github.com/eak1mov/go-pzmap/fnvhash"
	"github.com/eak1mov/go-pzmap/graphdb"
	"github.com/eak1mov/go-pzmap/mapdir"
	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
)

const (
	idsHilbert = "hilbert"
	idsHash    = "hash"
)

type atlasGraphCmd struct {
	gameFlags
	outputPath string
	ids        string
	usedOnly   bool
}

func (c *atlasGraphCmd) Name() string     { return "atlas-graph" }
func (c *atlasGraphCmd) Synopsis() string { return "build the atlas graph of a map" }
func (c *atlasGraphCmd) Usage() string {
	return "pzutils atlas-graph [-config <path> | -game <path> -map <name>] [-o <path> -ids <scheme> -used]\n"
}
func (c *atlasGraphCmd) SetFlags(f *flag.FlagSet) {
	c.gameFlags.SetFlags(f)
	f.StringVar(&c.outputPath, "o", "", "Output SQLite file path")
	f.StringVar(&c.ids, "ids", idsHilbert, "Node id scheme (hilbert, hash)")
	f.BoolVar(&c.usedOnly, "used", false, "Hash only tiles placed in the cell grid")
}

// nodeID maps a cell position to a graph node id.
func nodeID(pos cell.Position, scheme string) (uint32, error) {
	switch scheme {
	case idsHilbert:
		return pos.Code()
	case idsHash:
		return pos.Hash(), nil
	default:
		return 0, fmt.Errorf("invalid id scheme: %q", scheme)
	}
}

// cellHashes hashes the tile names of a cell: all names of the header table,
// or only the names placed in the grid when it was loaded.
func cellHashes(c *mapdir.Cell) ([]uint32, error) {
	if c.Pack == nil {
		return fnvhash.Strings(c.Header.TileNames), nil
	}
	var hashes []uint32
	for _, square := range c.Pack.All() {
		names, err := c.Pack.TileNames(square)
		if err != nil {
			return nil, fmt.Errorf("cell %v: %w", c.Position(), err)
		}
		hashes = append(hashes, fnvhash.Strings(names)...)
	}
	return hashes, nil
}

func buildAtlasGraph(m *mapdir.Map, scheme string, logger *slog.Logger) (*atlasgraph.Graph, error) {
	g := atlasgraph.New(atlasgraph.WithLogger(logger))
	for pos, c := range m.All() {
		id, err := nodeID(pos, scheme)
		if err != nil {
			return nil, err
		}
		if _, exists := g.Node(id); exists {
			logger.Warn("atlas-graph: duplicate node id", "id", id, "cell", pos)
		}
		hashes, err := cellHashes(c)
		if err != nil {
			return nil, err
		}
		g.AddNode(id, hashes)
	}
	g.Build()
	return g, nil
}

func (c *atlasGraphCmd) writeGraph(g *atlasgraph.Graph, mapName string) error {
	writer, err := graphdb.NewWriter(c.outputPath,
		graphdb.WithMetadata(map[string]string{"map": mapName, "ids": c.ids}),
		graphdb.WithLogger(c.logger()))
	if err != nil {
		return err
	}
	defer writer.Close()

	if err := writer.WriteGraph(g); err != nil {
		return err
	}
	return writer.Finalize()
}

func (c *atlasGraphCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := c.config()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if _, err := nodeID(cell.Position{}, c.ids); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	dir := cfg.MapDirectory()
	positions, err := mapdir.Positions(dir)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	start := time.Now()
	opts := []mapdir.Option{mapdir.WithWorkers(cfg.Workers), mapdir.WithLogger(c.logger())}
	if !c.usedOnly {
		opts = append(opts, mapdir.WithHeadersOnly())
	}
	bar := progressbar.NewOptions(len(positions), progressbar.OptionShowIts(), progressbar.OptionShowCount())
	opts = append(opts, mapdir.WithProgress(func(cell.Position) { bar.Add(1) }))

	m, err := mapdir.LoadCells(ctx, dir, positions, opts...)
	bar.Finish()
	fmt.Println()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	g, err := buildAtlasGraph(m, c.ids, c.logger())
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	fmt.Printf("%d files parsed in %v\n", m.Len(), time.Since(start).Round(time.Millisecond))
	fmt.Printf("%d / %d root nodes\n", g.RootsCount(), g.Len())

	if c.outputPath != "" {
		if err := c.writeGraph(g, cfg.MapName); err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}
