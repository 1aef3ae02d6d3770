package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/eak1mov/go-pzmap/cell"
	"github.com/eak1mov/go-pzmap/mapdir"
	"github.com/google/subcommands"
)

type cellInfoCmd struct {
	gameFlags
	x, y      int
	tiles     bool
	noSquares bool
}

func (c *cellInfoCmd) Name() string     { return "cell-info" }
func (c *cellInfoCmd) Synopsis() string { return "print the contents of a map cell" }
func (c *cellInfoCmd) Usage() string {
	return "pzutils cell-info [-config <path> | -game <path> -map <name>] -x <x> -y <y> [-tiles -header-only]\n"
}
func (c *cellInfoCmd) SetFlags(f *flag.FlagSet) {
	c.gameFlags.SetFlags(f)
	f.IntVar(&c.x, "x", 0, "Cell X")
	f.IntVar(&c.y, "y", 0, "Cell Y")
	f.BoolVar(&c.tiles, "tiles", false, "Print the tile-name table")
	f.BoolVar(&c.noSquares, "header-only", false, "Read only the cell header")
}

func printCell(w io.Writer, c *mapdir.Cell, tiles bool) {
	h := c.Header
	fmt.Fprintf(w, "cell %v: %s v%d, %dx%d, layers [%d, %d)\n",
		h.Position, h.Magic, h.Version, h.Width, h.Height, h.MinLayer, h.MaxLayer)
	fmt.Fprintf(w, "tile names: %d, rooms: %d, buildings: %d\n", len(h.TileNames), len(h.Rooms), len(h.Buildings))

	if c.Pack != nil {
		perLayer := make(map[int]int)
		tilesCount := 0
		for key, square := range c.Pack.All() {
			perLayer[key.Layer()]++
			tilesCount += len(square.Tiles)
		}
		fmt.Fprintf(w, "blocks: %d, squares: %d, tiles: %d\n", c.Pack.BlocksCount, len(c.Pack.Squares), tilesCount)
		for layer := cell.MinLayer; layer < cell.MaxLayer; layer++ {
			if n := perLayer[layer]; n > 0 {
				fmt.Fprintf(w, "  layer %3d: %d squares\n", layer, n)
			}
		}
	}

	if tiles {
		for i, name := range h.TileNames {
			fmt.Fprintf(w, "%6d %s\n", i, name)
		}
	}
}

func (c *cellInfoCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	cfg, err := c.config()
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	pos := cell.Position{X: int32(c.x), Y: int32(c.y)}
	if !pos.Valid() {
		log.Printf("invalid cell position: %v", pos)
		return subcommands.ExitFailure
	}

	loaded, err := mapdir.LoadCell(cfg.MapDirectory(), pos, !c.noSquares)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	printCell(os.Stdout, loaded, c.tiles)
	return subcommands.ExitSuccess
}
