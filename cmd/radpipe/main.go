package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/radpipe/radpipe/cmd/radpipe/commands"
	"github.com/radpipe/radpipe/internal/assembly"
)

func main() {
	cli := commands.CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("radpipe"),
		kong.Description("Versioned persistence for assembly pipeline state"),
		kong.Vars{"version": assembly.Version},
	)
	g := &commands.Global{Logger: slog.Default()}
	ctx.FatalIfErrorf(ctx.Run(g, &cli))
}
