package cli

import (
	"fmt"
	"slices"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/locator-finder/pkg/export"
	"github.com/devicelab-dev/locator-finder/pkg/locator"
	"github.com/devicelab-dev/locator-finder/pkg/uitree"
)

const analyzeLimit = 20

var analyzeCommand = &cli.Command{
	Name:      "analyze",
	Usage:     "Query a saved page source snapshot",
	ArgsUsage: "<source.xml>",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:    "text",
			Aliases: []string{"t"},
			Usage:   "Find elements whose name, label or value contains `TEXT`",
		},
		&cli.BoolFlag{
			Name:  "case-sensitive",
			Usage: "Match --text exactly as written",
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "Find elements of `TYPE` (Button or XCUIElementTypeButton)",
		},
		&cli.StringFlag{
			Name:  "id",
			Usage: "Find elements whose accessibility id is `ID`",
		},
		&cli.BoolFlag{
			Name:    "summary",
			Aliases: []string{"s"},
			Usage:   "Print element counts per type",
		},
		&cli.BoolFlag{
			Name:    "locators",
			Aliases: []string{"l"},
			Usage:   "Print generated locators for each match",
		},
	}, anchorFlags...),
	Action: runAnalyze,
}

func runAnalyze(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: %s analyze <source.xml>", c.App.Name)
	}
	path := c.Args().First()
	w := c.App.Writer

	tree, err := uitree.ParseFile(path)
	if err != nil {
		return err
	}

	query := c.IsSet("text") || c.IsSet("type") || c.IsSet("id")
	if c.Bool("summary") || !query {
		printSummary(w, "Source: "+path, export.Summarize(export.FromTree(tree, false, locator.Options{})))
	}
	if !query {
		return nil
	}

	var matches []*uitree.Element
	var what string
	switch {
	case c.IsSet("id"):
		what = "accessibility id '" + c.String("id") + "'"
		matches = tree.FindByAccessibilityID(c.String("id"))
	case c.IsSet("type"):
		t := expandType(c.String("type"))
		what = "type '" + t + "'"
		matches = tree.FindByType(t)
	default:
		what = "text '" + c.String("text") + "'"
		matches = slices.Collect(tree.FindByText(c.String("text"), c.Bool("case-sensitive")))
	}

	fmt.Fprintf(w, "\n%s%s: %d found%s\n\n", color(colorCyan), what, len(matches), color(colorReset))
	if len(matches) == 0 {
		return nil
	}
	printElementTable(w, matches, analyzeLimit)

	if !c.Bool("locators") {
		return nil
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	opts := locatorOptions(c, cfg)
	for i, e := range matches {
		if i == analyzeLimit {
			break
		}
		fmt.Fprintln(w)
		rule(w, "=")
		fmt.Fprintf(w, "#%d %s %s\n", i+1, uitree.ShortType(e.Type), orNone(firstNonEmpty(e.Name, e.Label, e.Value)))
		rule(w, "=")
		printLocatorSet(w, locator.Generate(tree, e, opts))
		fmt.Fprintf(w, "\n  Page object:\n    %s\n", locator.SuggestCode(e))
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
