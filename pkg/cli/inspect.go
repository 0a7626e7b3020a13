package cli

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/locator-finder/pkg/export"
	"github.com/devicelab-dev/locator-finder/pkg/uitree"
)

const inspectLimit = 10

var inspectCommand = &cli.Command{
	Name:      "inspect",
	Usage:     "Search a saved element export",
	ArgsUsage: "<export.json> [term]",
	Description: `Without a term, prints a per-type summary of the export.
A term starting with XCUIElementType, or a capitalised single word such as
Button, searches by element type. Anything else searches name, label and
value, ignoring case.

Examples:
  locator-finder inspect student_home.json
  locator-finder inspect student_home.json 수강신청
  locator-finder inspect student_home.json Button`,
	Action: runInspect,
}

type searchKind int

const (
	searchText searchKind = iota
	searchType
)

// classifyTerm decides how inspect interprets a search term.
func classifyTerm(term string) (searchKind, string) {
	if strings.HasPrefix(term, uitree.TypePrefix) {
		return searchType, term
	}
	first, _ := utf8.DecodeRuneInString(term)
	if unicode.IsUpper(first) && !strings.Contains(term, " ") {
		return searchType, uitree.TypePrefix + term
	}
	return searchText, term
}

func runInspect(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("usage: %s inspect <export.json> [term]", c.App.Name)
	}
	path := c.Args().First()
	w := c.App.Writer

	records, err := export.ReadFile(path)
	if err != nil {
		return err
	}

	if c.NArg() < 2 {
		printSummary(w, "File: "+path, export.Summarize(records))
		return nil
	}

	term := strings.Join(c.Args().Tail(), " ")
	var results []export.Record
	switch kind, query := classifyTerm(term); kind {
	case searchType:
		results = export.ByType(records, query)
		fmt.Fprintf(w, "\nType search '%s': %d found\n", query, len(results))
	default:
		results = export.Search(records, query)
		fmt.Fprintf(w, "\nSearch '%s': %d found\n", query, len(results))
	}

	if len(results) == 0 {
		fmt.Fprintf(w, "%sNo matching elements.%s\n", color(colorRed), color(colorReset))
		return nil
	}
	for i := range results {
		if i == inspectLimit {
			break
		}
		printRecord(w, i+1, &results[i])
	}
	if len(results) > inspectLimit {
		fmt.Fprintf(w, "\n%s... and %d more%s\n", color(colorYellow), len(results)-inspectLimit, color(colorReset))
	}
	return nil
}
