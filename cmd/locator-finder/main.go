// Command locator-finder captures iOS UI trees from Appium and generates
// locators for their elements.
package main

import "github.com/devicelab-dev/locator-finder/pkg/cli"

func main() {
	cli.Execute()
}
