// Package cli provides the command-line interface for locator-finder.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/locator-finder/pkg/config"
	"github.com/devicelab-dev/locator-finder/pkg/locator"
	"github.com/devicelab-dev/locator-finder/pkg/logger"
)

// Version is set at build time.
var Version = "dev"

// DefaultAppiumURL is used when neither the flag, the environment nor the
// workspace config names a server.
const DefaultAppiumURL = "http://127.0.0.1:4723"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "appium-url",
		Usage:   "Appium server URL",
		Value:   DefaultAppiumURL,
		EnvVars: []string{"APPIUM_URL"},
	},
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Workspace config file (default: locator-finder.yaml in $LOCATOR_FINDER_HOME)",
		EnvVars: []string{"LOCATOR_FINDER_CONFIG"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable debug logging",
		EnvVars: []string{"LOCATOR_FINDER_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Write logs to this file",
		EnvVars: []string{"LOCATOR_FINDER_LOG"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// NewApp builds the CLI application.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "locator-finder",
		Usage:   "Discover iOS UI elements and generate locators for them",
		Version: Version,
		Description: `locator-finder loads XCUITest page source snapshots, searches them, and
generates ranked Appium locators (accessibility id, XPath, class chain,
predicate string) for every element.

Examples:
  locator-finder capture --device iphone15_sim
  locator-finder analyze --text Login --locators source.xml
  locator-finder export -o login_page source.xml
  locator-finder inspect login_page.json Button`,
		Flags:  GlobalFlags,
		Before: setup,
		After: func(c *cli.Context) error {
			logger.Close()
			return nil
		},
		Commands: []*cli.Command{
			captureCommand,
			analyzeCommand,
			exportCommand,
			inspectCommand,
		},
	}
}

// Execute runs the CLI.
func Execute() {
	// .env feeds the EnvVars of the flags above; a missing file is fine.
	_ = godotenv.Load()

	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setup(c *cli.Context) error {
	if c.Bool("no-ansi") {
		colorsEnabled = false
	}
	logger.SetVerbose(c.Bool("verbose"))
	if path := c.String("log-file"); path != "" {
		if err := logger.Init(path); err != nil {
			return err
		}
	}
	logger.Debug("locator-finder %s: %v", Version, os.Args)
	return nil
}

// loadConfig reads --config, or the workspace config in the home directory.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadFromDir(config.GetHome())
}

// appiumURL prefers an explicit flag or environment value over the config.
func appiumURL(c *cli.Context, cfg *config.Config) string {
	if c.IsSet("appium-url") || cfg.AppiumURL == "" {
		return c.String("appium-url")
	}
	return cfg.AppiumURL
}

var anchorFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:  "anchor",
		Usage: "Ancestor type(s) class chains anchor at (default: XCUIElementTypeWindow)",
	},
	&cli.BoolFlag{
		Name:  "no-anchor",
		Usage: "Generate unanchored class chains",
	},
}

// locatorOptions resolves anchor flags, then the config, then the default.
func locatorOptions(c *cli.Context, cfg *config.Config) locator.Options {
	switch {
	case c.Bool("no-anchor"):
		return locator.Options{AnchorTypes: []string{}}
	case len(c.StringSlice("anchor")) > 0:
		return locator.Options{AnchorTypes: expandTypes(c.StringSlice("anchor"))}
	case cfg != nil && len(cfg.AnchorTypes) > 0:
		return locator.Options{AnchorTypes: expandTypes(cfg.AnchorTypes)}
	default:
		return locator.DefaultOptions()
	}
}
