package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/locator-finder/pkg/export"
	"github.com/devicelab-dev/locator-finder/pkg/logger"
	"github.com/devicelab-dev/locator-finder/pkg/uitree"
)

const defaultExportFile = "page_elements.json"

var exportCommand = &cli.Command{
	Name:      "export",
	Usage:     "Export every element of a snapshot, with locators, to JSON",
	ArgsUsage: "<source.xml>",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output `FILE` (.json is appended if missing)",
			Value:   defaultExportFile,
		},
		&cli.BoolFlag{
			Name:  "no-locators",
			Usage: "Omit generated locators",
		},
	}, anchorFlags...),
	Action: runExport,
}

func exportPath(output string) string {
	if output == "" {
		return defaultExportFile
	}
	if !strings.HasSuffix(output, ".json") {
		return output + ".json"
	}
	return output
}

func runExport(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: %s export <source.xml>", c.App.Name)
	}

	tree, err := uitree.ParseFile(c.Args().First())
	if err != nil {
		return err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	records := export.FromTree(tree, !c.Bool("no-locators"), locatorOptions(c, cfg))
	path := exportPath(c.String("output"))
	if err := export.WriteFile(path, records); err != nil {
		return err
	}

	logger.Info("exported %d elements to %s", len(records), path)
	fmt.Fprintf(c.App.Writer, "%s✓%s Exported %d elements to %s\n",
		color(colorGreen), color(colorReset), len(records), path)
	return nil
}
