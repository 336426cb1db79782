package main

import "fmt"

func (c *cli) printUsage() {
	fmt.Fprintln(c.stderr, "Usage:")
	fmt.Fprintln(c.stderr, "  tiger run [-result] <file.tig|->")
	fmt.Fprintln(c.stderr, "  tiger check <file.tig|->")
	fmt.Fprintln(c.stderr, "  tiger compile [-o dir] [-class Name] [-max-stack n] <file.tig|->")
	fmt.Fprintln(c.stderr, "  tiger parse <file.tig|->")
	fmt.Fprintln(c.stderr, "  tiger test <suite.yml> [suite.yml ...]")
	fmt.Fprintln(c.stderr, "  tiger repl")
	fmt.Fprintln(c.stderr, "  tiger build")
	fmt.Fprintln(c.stderr, "")
	fmt.Fprintln(c.stderr, "A file of - (or none) reads the program from standard input; getchar then")
	fmt.Fprintln(c.stderr, "sees end of input, so pass a file to programs that read stdin.")
}
