package main

import (
	"fmt"

	"github.com/hopsage/TigerC/pkg/driver"
)

func (c *cli) runTest(args []string) int {
	fs := c.flags("test")
	verbose := fs.Bool("v", false, "list every case, not only failures")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		c.errorf("test needs at least one suite file")
		return exitUsage
	}

	passed, failed := 0, 0
	for _, path := range fs.Args() {
		suite, err := driver.LoadFixtures(path)
		if err != nil {
			c.errorf("%v", err)
			return exitFailure
		}
		for _, result := range driver.RunFixtures(c.ctx, suite) {
			if result.Passed() {
				passed++
				if *verbose {
					fmt.Fprintf(c.stdout, "%s %s/%s\n", green("PASS"), suite.Name, result.Name)
				}
				continue
			}
			failed++
			fmt.Fprintf(c.stdout, "%s %s/%s\n", red("FAIL"), suite.Name, result.Name)
			for _, mismatch := range result.Mismatches {
				fmt.Fprintf(c.stdout, "    %s\n", mismatch)
			}
		}
		if err := c.ctx.Err(); err != nil {
			c.errorf("%v", err)
			return exitFailure
		}
	}
	fmt.Fprintf(c.stdout, "%d passed, %d failed\n", passed, failed)
	if failed > 0 {
		return exitFailure
	}
	return exitOK
}
