// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// runCommand drives one full upload pass across the eligible accounts.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Upload videos for all eligible accounts",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "range",
				UsageText: "Account id range, e.g. 5-10 or 7",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "max",
				Usage: "Override maximum uploads per account",
			},
			&cli.IntFlag{
				Name:  "delay",
				Usage: "Override delay between uploads in seconds",
			},
		},
		Action: r.Run,
	}
}

// superviseCommand wraps run in the restart supervisor.
func superviseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "supervise",
		Usage: "Run uploads under the restart supervisor",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "range",
				UsageText: "Account id range, e.g. 5-10 or 7",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "retries",
				Usage: "Override maximum restart attempts",
			},
			&cli.IntFlag{
				Name:  "retry-delay",
				Usage: "Override delay between restarts in seconds",
			},
		},
		Action: r.Supervise,
	}
}

// statusCommand reports per-account quota state.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show per-account upload counts and remaining capacity",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "range",
				UsageText: "Account id range, e.g. 5-10 or 7",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Status,
	}
}

// statsCommand summarizes the upload history.
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show upload history statistics",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Stats,
	}
}

// journalCommand inspects recorded runs.
func journalCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "journal",
		Usage: "Inspect recorded upload runs",
		Commands: []*cli.Command{
			{
				Name:  "runs",
				Usage: "List recent runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 10,
					},
				},
				Action: r.JournalRuns,
			},
			{
				Name:  "uploads",
				Usage: "List the upload attempts of one run",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "run-id",
					},
				},
				Action: r.JournalUploads,
			},
		},
	}
}

// exportCommand writes the status report to a file.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the account status report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text, csv, markdown, xlsx)",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: print to stdout)",
			},
		},
		Action: r.Export,
	}
}

// catalogCommand manages the asset catalog.
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect and maintain the asset catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog folders and entries",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name:      "folder",
						UsageText: "Folder to list (default: all folders)",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CatalogList,
			},
			{
				Name:    "browse",
				Aliases: []string{"ui"},
				Usage:   "Browse the catalog interactively",
				Action:  r.CatalogBrowse,
			},
			{
				Name:  "remove",
				Usage: "Remove one entry from a folder",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "folder",
						Usage:    "Folder containing the entry",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Original filename of the entry",
						Required: true,
					},
				},
				Action: r.CatalogRemove,
			},
		},
	}
}

// historyCommand maintains the upload history.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect and maintain the upload history",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show recorded uploads for an account",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "email",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "remove",
				Usage: "Remove one record so the file can be re-uploaded",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "email",
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Recorded filename",
						Required: true,
					},
				},
				Action: r.HistoryRemove,
			},
			{
				Name:  "clear",
				Usage: "Remove every record for an account",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "email",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Skip the confirmation prompt",
					},
				},
				Action: r.HistoryClear,
			},
		},
	}
}

// extractCommand runs the offline metadata extraction pipeline.
func extractCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Extract artist/title metadata from video filenames",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "folder",
				UsageText: "Folder under the video root (default: all folders)",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Filenames per model request",
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "Override the extraction model",
			},
		},
		Action: r.Extract,
	}
}

// setupCommand bootstraps a working directory.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file and the working directories",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
