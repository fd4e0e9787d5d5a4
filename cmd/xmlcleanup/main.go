// Command xmlcleanup indents XML and XSD files in place, or formats a
// single file to stdout or to an explicit output path.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/PantelisAndrianakis/XmlCleanup/internal/discovery"
	"github.com/PantelisAndrianakis/XmlCleanup/internal/postprocess"
)

func newApp() *cli.App {
	return &cli.App{
		Name:      "xmlcleanup",
		Usage:     "A tool for indenting XML files",
		ArgsUsage: "[input-file] [output-file]",
		Description: "If no arguments are given, all XML and XSD files in the current folder\n" +
			"and subfolders are indented in place using tabs and indent-only mode.\n" +
			"If output-file is not specified, output is written to stdout.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "tabs", Aliases: []string{"t"}, Value: true, Usage: "use tabs for indentation (default)"},
			&cli.IntFlag{Name: "spaces", Aliases: []string{"s"}, Usage: "use N spaces for indentation"},
			&cli.BoolFlag{Name: "indent-only", Aliases: []string{"i"}, Value: true, Usage: "only adjust indentation, preserve linebreaks (default)"},
			&cli.BoolFlag{Name: "full-format", Aliases: []string{"f"}, Usage: "full formatting (adds linebreaks)"},
			&cli.BoolFlag{Name: "auto-close", Aliases: []string{"a"}, Value: true, Usage: "auto-close empty elements (default)"},
			&cli.BoolFlag{Name: "no-auto-close", Aliases: []string{"n"}, Usage: "don't auto-close empty elements"},
		},
		Action: run,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func optionsFromContext(c *cli.Context) postprocess.Options {
	opts := postprocess.DefaultOptions()
	if c.IsSet("spaces") {
		opts.IndentChars = strings.Repeat(" ", c.Int("spaces"))
	} else if c.IsSet("tabs") {
		opts.IndentChars = "\t"
	}
	if c.Bool("full-format") {
		opts.IndentOnly = false
	} else if c.Bool("indent-only") {
		opts.IndentOnly = true
	}
	if c.Bool("no-auto-close") {
		opts.AutoCloseEmptyElements = false
	} else if c.Bool("auto-close") {
		opts.AutoCloseEmptyElements = true
	}
	return opts
}

func run(c *cli.Context) error {
	opts := optionsFromContext(c)

	if c.NArg() == 0 {
		return runBulkMode(opts)
	}

	inputFile := c.Args().Get(0)
	outputFile := c.Args().Get(1)
	return processFile(inputFile, outputFile, opts, false)
}

func runBulkMode(opts postprocess.Options) error {
	fmt.Println("No arguments provided. Processing all XML and XSD files in current directory and subdirectories...")

	files, err := discovery.FindXMLFiles(".", nil)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No XML or XSD files found.")
		return nil
	}

	fmt.Printf("Found %d XML/XSD files to process.\n", len(files))

	successCount := 0
	for _, file := range files {
		if err := processFile(file, "", opts, true); err != nil {
			fmt.Fprintln(os.Stderr, "Error processing", file, ":", err)
			continue
		}
		successCount++
	}

	fmt.Printf("Successfully processed %d out of %d files.\n", successCount, len(files))
	return nil
}

// processFile formats inputPath and writes the result to outputPath, to
// inputPath itself (overwriteInPlace, used by bulk mode), or to stdout
// (single-file mode with no output path given).
func processFile(inputPath, outputPath string, opts postprocess.Options, overwriteInPlace bool) error {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("cannot open input file %s: %w", inputPath, err)
	}

	formatted := postprocess.IndentXMLString(string(content), opts)

	switch {
	case outputPath != "":
		if err := os.WriteFile(outputPath, []byte(formatted), 0o644); err != nil {
			return fmt.Errorf("cannot write output file %s: %w", outputPath, err)
		}
		fmt.Println("Formatted XML written to", outputPath)
	case overwriteInPlace:
		if err := os.WriteFile(inputPath, []byte(formatted), 0o644); err != nil {
			return fmt.Errorf("cannot write file %s: %w", inputPath, err)
		}
		fmt.Println("Formatted:", inputPath)
	default:
		fmt.Print(formatted)
	}
	return nil
}
