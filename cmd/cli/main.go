package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/hrroster/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Org     commands.OrgCmd    `cmd:"" help:"Manage organizations"`
		Shifts  commands.ShiftsCmd `cmd:"" help:"Manage the weekly shift roster"`
		CID     commands.CIDCmd    `cmd:"" name:"cid" help:"Encode or decode client ids"`
		Debug   bool               `help:"Enable debug mode."`
		Version kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("rosterctl"),
		kong.Description("Command line client for the hrroster API"),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
