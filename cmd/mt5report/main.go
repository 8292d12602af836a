package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-report/internal/types"
	"github.com/rxtech-lab/argo-report/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "mt5report",
		Usage:   "Parse MetaTrader 5 trade history and strategy tester reports",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error). Overrides the configuration file",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "Path to the DuckDB report store. Overrides the configuration file",
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User that owns saved reports. Overrides the configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "Parse one or more report files",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "kind",
						Aliases:  []string{"k"},
						Usage:    fmt.Sprintf("Report kind (%s or %s)", types.ReportTypeTradeHistory, types.ReportTypeBacktest),
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output format (summary, yaml or json)",
						Value:   outputSummary,
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save every parsed report to the store",
					},
					&cli.StringFlag{
						Name:  "out-dir",
						Usage: "Also write every parsed report as YAML into this directory",
					},
				},
				Action: parseAction,
			},
			{
				Name:   "list",
				Usage:  "List the saved reports of the user",
				Action: listAction,
			},
			{
				Name:      "show",
				Usage:     "Show a saved report. Shows the active report when no id is given",
				ArgsUsage: "[ID]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output format (summary, yaml or json)",
						Value:   outputSummary,
					},
					&cli.BoolFlag{
						Name:  "analysis",
						Usage: "Include the balance curve, monthly returns and strategy breakdown",
					},
				},
				Action: showAction,
			},
			{
				Name:      "activate",
				Usage:     "Make a saved report the active report",
				ArgsUsage: "ID",
				Action:    activateAction,
			},
			{
				Name:      "delete",
				Usage:     "Delete a saved report",
				ArgsUsage: "ID",
				Action:    deleteAction,
			},
			{
				Name:      "export",
				Usage:     "Export every saved report to a Parquet file",
				ArgsUsage: "PATH",
				Action:    exportAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the configuration file",
				Action: schemaAction,
			},
			{
				Name:  "version",
				Usage: "Print the version",
				Action: func(_ context.Context, cmd *cli.Command) error {
					fmt.Fprintf(cmd.Root().Writer, "mt5report %s (schema %s)\n", version.GetVersion(), version.SchemaVersion)

					return nil
				},
			},
		},
	}
}
