package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/eak1mov/go-pzmap/tiledef"
	"github.com/google/subcommands"
)

type tiledefInfoCmd struct {
	gameFlags
	inputPath string
	tileName  string
}

func (c *tiledefInfoCmd) Name() string     { return "tiledef-info" }
func (c *tiledefInfoCmd) Synopsis() string { return "print tile definitions and look up tile properties" }
func (c *tiledefInfoCmd) Usage() string {
	return "pzutils tiledef-info [-i <path> | -config <path> | -game <path>] [-t <tile>]\n"
}
func (c *tiledefInfoCmd) SetFlags(f *flag.FlagSet) {
	c.gameFlags.SetFlags(f)
	f.StringVar(&c.inputPath, "i", "", "Input .tiles file path (default: all files in the configured directory)")
	f.StringVar(&c.tileName, "t", "", "Tile name to look up, e.g. walls_01_4")
}

// definitionPaths lists the definition files of a directory in name order.
func definitionPaths(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*"+tiledef.Ext))
}

// sequentialSpriteIDs numbers tiles across all loaded files in load order.
func sequentialSpriteIDs() tiledef.SpriteIDFunc {
	next := int32(0)
	return func(*tiledef.TileSheet, int) int32 {
		id := next
		next++
		return id
	}
}

func printTile(w io.Writer, tile *tiledef.TileData) {
	fmt.Fprintf(w, "%s: sprite %d\n", tile.Name, tile.SpriteID)
	for _, key := range slices.Sorted(maps.Keys(tile.Properties)) {
		fmt.Fprintf(w, "  %s = %q\n", key, tile.Properties[key])
	}
}

func (c *tiledefInfoCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	paths := []string{c.inputPath}
	if c.inputPath == "" {
		cfg, err := c.config()
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		paths, err = definitionPaths(cfg.TileDefinitionsDirectory())
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
	}

	spriteIDs := tiledef.WithSpriteIDs(sequentialSpriteIDs())
	var sets []*tiledef.Set
	for _, path := range paths {
		set, err := tiledef.ReadFile(path, spriteIDs)
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		sets = append(sets, set)

		tiles := 0
		for _, sheet := range set.Sheets {
			tiles += len(sheet.Tiles)
		}
		fmt.Printf("%s: version %d, sheets: %d, tiles: %d\n", set.Name, set.Version, len(set.Sheets), tiles)
	}

	if c.tileName == "" {
		return subcommands.ExitSuccess
	}
	for _, set := range sets {
		if tile, ok := set.Tile(c.tileName); ok {
			printTile(os.Stdout, tile)
			return subcommands.ExitSuccess
		}
	}
	log.Printf("tile not found: %q", c.tileName)
	return subcommands.ExitFailure
}
