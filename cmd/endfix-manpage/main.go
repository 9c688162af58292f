package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/endfix/internal/cli"
	"github.com/arthur-debert/endfix/internal/version"
)

func main() {
	rootCmd := cli.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "ENDFIX",
		Section: "1",
		Source:  "endfix " + version.Version,
		Manual:  "endfix manual",
	}

	// With a directory argument, write one page per command
	if len(os.Args) > 1 {
		if err := doc.GenManTree(rootCmd, header, os.Args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating man pages: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
