package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(&atlasGraphCmd{}, "")
	subcommands.Register(&cellInfoCmd{}, "")
	subcommands.Register(&packInfoCmd{}, "")
	subcommands.Register(&tiledefInfoCmd{}, "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}
