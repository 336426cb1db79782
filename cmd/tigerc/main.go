package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hopsage/TigerC/pkg/driver"
)

func main() {
	outputDir := flag.String("o", ".", "output directory for the generated .j file")
	class := flag.String("class", "", "class name (defaults to the source file name)")
	maxStack := flag.Int("max-stack", 0, "minimum .limit stack for every method")
	flag.Parse()

	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "usage: tigerc [options] [file.tig|-]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	entry := flag.Arg(0)
	if entry == "" {
		entry = driver.StdinName
	}

	pipe := driver.NewPipeline()
	pipe.MaxStack = *maxStack
	prog, err := pipe.Load(entry)
	if err != nil {
		fmt.Fprintln(os.Stderr, driver.DescribeParseError(err))
		fmt.Fprintln(os.Stderr, "Error - no code was generated.")
		os.Exit(1)
	}
	result, err := pipe.Compile(prog, *class)
	if err != nil {
		if errors.Is(err, driver.ErrHasDiagnostics) {
			for _, line := range driver.DescribeDiagnostics(prog) {
				fmt.Fprintln(os.Stderr, line)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		fmt.Fprintln(os.Stderr, "Error - no code was generated.")
		os.Exit(1)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(os.Stderr, warning)
	}
	if err := result.Write(*outputDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
