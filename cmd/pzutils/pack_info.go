package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/eak1mov/go-pzmap/texpack"
	"github.com/google/subcommands"
)

type packInfoCmd struct {
	gameFlags
	inputPath   string
	textureName string
	pages       bool
}

func (c *packInfoCmd) Name() string     { return "pack-info" }
func (c *packInfoCmd) Synopsis() string { return "print texture pack pages and look up textures" }
func (c *packInfoCmd) Usage() string {
	return "pzutils pack-info [-i <path> | -config <path> | -game <path>] [-t <texture> -pages]\n"
}
func (c *packInfoCmd) SetFlags(f *flag.FlagSet) {
	c.gameFlags.SetFlags(f)
	f.StringVar(&c.inputPath, "i", "", "Input .pack file path (default: configured texture packs)")
	f.StringVar(&c.textureName, "t", "", "Texture name to look up")
	f.BoolVar(&c.pages, "pages", false, "List the pages of every pack")
}

func printPack(w io.Writer, pack *texpack.Pack, pages bool) {
	textures := 0
	for _, page := range pack.Pages {
		textures += len(page.Textures)
	}
	fmt.Fprintf(w, "%s: version %d, pages: %d, textures: %d\n", pack.Name, pack.Version, len(pack.Pages), textures)
	if !pages {
		return
	}
	for _, page := range pack.Pages {
		fmt.Fprintf(w, "  %s: textures: %d, image: %d bytes, alpha: %v\n",
			page.Name, len(page.Textures), len(page.Image), page.HasAlpha)
	}
}

func printTexture(w io.Writer, index *texpack.Index, packs []*texpack.Pack, name string) error {
	loc, ok := index.Locate(name)
	if !ok {
		return fmt.Errorf("texture not found: %q", name)
	}
	page := &packs[loc.Pack].Pages[loc.Page]
	t := &page.Textures[loc.Texture]
	fmt.Fprintf(w, "%s: pack %s, page %s, rect (%d, %d, %d, %d), offset (%d, %d), size (%d, %d), hash %08x\n",
		t.Name, packs[loc.Pack].Name, page.Name, t.X, t.Y, t.Width, t.Height, t.OX, t.OY, t.OW, t.OH, t.Hash())
	return nil
}

func (c *packInfoCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	paths := []string{c.inputPath}
	if c.inputPath == "" {
		cfg, err := c.config()
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		paths = cfg.TexturePackPaths()
	}

	var packs []*texpack.Pack
	for _, path := range paths {
		pack, err := texpack.ReadFile(path)
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		packs = append(packs, pack)
		printPack(os.Stdout, pack, c.pages)
	}

	index := texpack.NewIndex(packs...)
	fmt.Printf("unique pages: %d, unique textures: %d\n", index.PagesCount(), index.TexturesCount())

	if c.textureName != "" {
		if err := printTexture(os.Stdout, index, packs, c.textureName); err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}
