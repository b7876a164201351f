// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/desertthunder/wandrix/internal/formatter"
	"github.com/desertthunder/wandrix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// preferenceFlags override the configured default preferences.
func preferenceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "budget",
			Usage: "Budget level (budget, medium, high, luxury)",
		},
		&cli.IntFlag{
			Name:    "days",
			Aliases: []string{"d"},
			Usage:   "Trip length in days (1-30)",
		},
		&cli.StringSliceFlag{
			Name:    "interest",
			Aliases: []string{"i"},
			Usage:   "Interest to weigh; repeat for several",
		},
		&cli.StringFlag{
			Name:  "season",
			Usage: "Travel season (spring, summer, fall, winter)",
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "Travel type (solo, couple, family, group)",
		},
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func healthCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "health",
		Usage:  "Check that the travel API is reachable",
		Before: r.Connect,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Probe the health, database and popular endpoints",
			},
			jsonFlag(),
		},
		Action: r.Health,
	}
}

// authCommand handles account operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Sign in, register and inspect the stored session",
		Before: r.Connect,
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with email and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email; prompted when omitted",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password; prompted when omitted",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and sign in",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Display name; prompted when omitted",
					},
					&cli.StringFlag{
						Name:    "email",
						Aliases: []string{"e"},
						Usage:   "Account email; prompted when omitted",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password; prompted when omitted",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored token",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the stored token's claims without contacting the API",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AuthStatus,
			},
			{
				Name:   "me",
				Usage:  "Show the signed-in user",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AuthMe,
			},
		},
	}
}

func wishlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "wishlist",
		Aliases: []string{"wl"},
		Usage:   "Manage saved destinations",
		Before:  r.Connect,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List saved destinations",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.WishlistList,
			},
			{
				Name:      "add",
				Usage:     "Save a destination",
				ArgsUsage: "<destination>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "destination"}},
				Action:    r.WishlistAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove a saved destination",
				ArgsUsage: "<destination>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "destination"}},
				Action:    r.WishlistRemove,
			},
			{
				Name:  "export",
				Usage: "Export the wishlist as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file",
						Value:   "wishlist.csv",
					},
				},
				Action: r.WishlistExport,
			},
		},
	}
}

func compareCommand(r *Runner) *cli.Command {
	flags := append(preferenceFlags(),
		&cli.IntFlag{
			Name:  "itinerary",
			Usage: "Also plan a trip to destination 1 or 2",
		},
		jsonFlag(),
	)
	return &cli.Command{
		Name:      "compare",
		Usage:     "Score two destinations against your preferences",
		ArgsUsage: "<destination1> <destination2>",
		Before:    r.Connect,
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "destination1"},
			&cli.StringArg{Name: "destination2"},
		},
		Flags:  flags,
		Action: r.Compare,
	}
}

func itineraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "itinerary",
		Usage:  "Plan and fetch day-by-day itineraries",
		Before: r.Connect,
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "Plan a trip to a destination",
				ArgsUsage: "<destination>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "destination"}},
				Flags:     append(preferenceFlags(), jsonFlag()),
				Action:    r.ItineraryGenerate,
			},
			{
				Name:      "get",
				Usage:     "Fetch a stored itinerary by id",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ItineraryGet,
			},
		},
	}
}

func exploreCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "explore",
		Usage:  "Browse destinations and their highlights",
		Before: r.Connect,
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List catalog destinations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Filter by name or country",
					},
					jsonFlag(),
				},
				Action: r.ExploreList,
			},
			{
				Name:      "highlights",
				Usage:     "Show highlights for a destination",
				ArgsUsage: "<destination>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "destination"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write README.md (and cover.jpg) into this directory",
					},
					&cli.BoolFlag{
						Name:  "image",
						Usage: "Download a cover image with --output",
					},
					jsonFlag(),
				},
				Action: r.ExploreHighlights,
			},
			{
				Name:      "info",
				Usage:     "Show general information for a destination",
				ArgsUsage: "<destination>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "destination"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ExploreInfo,
			},
			{
				Name:   "popular",
				Usage:  "List the API's featured destinations",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ExplorePopular,
			},
			{
				Name:  "history",
				Usage: "Show recent comparisons",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "local",
						Usage: "Read comparisons recorded on this machine",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum local entries",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "clear",
						Usage: "Delete the local comparison log",
					},
					jsonFlag(),
				},
				Action: r.ExploreHistory,
			},
			{
				Name:      "batch",
				Usage:     "Fetch highlights for many destinations concurrently",
				ArgsUsage: "[destination...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Fetch every catalog destination",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Concurrent workers",
						Value:   tasks.DefaultWorkers,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Requests per second",
						Value: tasks.DefaultRateLimit,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write one directory per destination plus a manifest",
					},
					&cli.BoolFlag{
						Name:  "images",
						Usage: "Download cover images with --output",
					},
					jsonFlag(),
				},
				Action: r.ExploreBatch,
			},
			{
				Name:      "image",
				Usage:     "Print the placeholder image URL for a destination",
				ArgsUsage: "<destination>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "destination"}},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "width",
						Usage: "Image width",
						Value: formatter.HeroWidth,
					},
					&cli.IntFlag{
						Name:  "height",
						Usage: "Image height",
						Value: formatter.HeroHeight,
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the image in the browser",
					},
				},
				Action: r.ExploreImage,
			},
		},
	}
}

// apiCommand handles direct API access
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "api",
		Usage:  "Direct travel API access",
		Before: r.Connect,
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Make a GET request",
				ArgsUsage: "<path>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "Make a POST request",
				ArgsUsage: "<path>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "data",
						Usage: "JSON request body",
					},
				},
				Action: r.APIPost,
			},
		},
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create configuration and the local database",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file from the template",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "show",
						Usage: "Print the effective configuration instead",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Run migrations on the local database",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Roll back the latest migration",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

func stubCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stub",
		Usage: "Serve a local in-memory travel API for development",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host; defaults to the configured server host",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port; defaults to the configured server port",
			},
			&cli.StringFlag{
				Name:  "secret",
				Usage: "Token signing secret; random when omitted",
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Usage: "Token lifetime",
				Value: 24 * time.Hour,
			},
		},
		Action: r.Stub,
	}
}

func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive comparison interface",
		Before: r.Connect,
		Action: r.TUI,
	}
}
