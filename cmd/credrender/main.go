// credrender — credential artifact rendering.
//
// Usage:
//
//	credrender -template <path> [-values <path>] -o <file> [options]
//	credrender serve [--port 8080] [--font-cache-dir <dir>]
//	credrender init
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarthakpriyadarshi/credrender/clients/server"
	"github.com/sarthakpriyadarshi/credrender/pkg/artifact"
	"github.com/sarthakpriyadarshi/credrender/pkg/fontres"
	"github.com/sarthakpriyadarshi/credrender/pkg/render"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		if err := runInit(); err != nil {
			fatal(err)
		}
	case "serve":
		if err := server.RunServe(os.Args[2:]); err != nil {
			fatal(err)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		if err := run(os.Args[1:]); err != nil {
			fatal(err)
		}
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("credrender", flag.ExitOnError)

	var (
		templatePath string
		valuesPath   string
		output       string
		kind         string
		cacheDir     string
		verbose      bool
	)

	fs.StringVar(&templatePath, "template", "", "Path to template JSON")
	fs.StringVar(&templatePath, "t", "", "Path to template JSON")
	fs.StringVar(&valuesPath, "values", "", "Path to values JSON (optional)")
	fs.StringVar(&valuesPath, "v", "", "Path to values JSON (optional)")
	fs.StringVar(&output, "o", "", "Output file path (.png)")
	fs.StringVar(&output, "output", "", "Output file path (.png)")
	fs.StringVar(&kind, "type", "", "Artifact kind: certificate or badge (default: from template)")
	fs.StringVar(&cacheDir, "font-cache-dir", "", "Writable directory for the font disk cache (optional)")
	fs.BoolVar(&verbose, "verbose", false, "Log font resolution and render progress")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}

	if templatePath == "" {
		printUsage()
		return fmt.Errorf("template file is required (-template)")
	}
	if output == "" {
		printUsage()
		return fmt.Errorf("output file is required (-o)")
	}

	tmpl, err := render.LoadTemplateFile(templatePath)
	if err != nil {
		return err
	}

	var values *render.Values
	if valuesPath != "" {
		var warnings []string
		values, warnings, err = render.LoadValuesFile(valuesPath)
		if err != nil {
			return err
		}
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "Warning:", w)
		}
	}

	var logger *slog.Logger
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	resolver, err := fontres.NewResolver(fontres.ResolverOptions{
		CacheDir: cacheDir,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	compositor, err := render.NewCompositor(render.CompositorOptions{
		Resolver: resolver,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	req := tmpl.Request(values)
	for _, w := range render.CheckFieldValues(req.Placeholders, req.FieldValues) {
		fmt.Fprintln(os.Stderr, "Warning:", w)
	}

	if kind == "" {
		kind = tmpl.Type
	}

	ctx := context.Background()
	var result *render.RenderResult
	if kind == "badge" {
		result, err = compositor.RenderBadge(ctx, req)
	} else {
		result, err = compositor.RenderCertificate(ctx, req)
	}
	if err != nil {
		return err
	}

	if err := artifact.WriteFile(output, result.EncodedImage); err != nil {
		return err
	}

	fmt.Printf("Rendered %dx%d %s → %s\n", result.Width, result.Height, result.MIMEType, output)
	return nil
}

// runInit writes starter template and values files into the current directory.
func runInit() error {
	templateJSON, valuesJSON := render.ExampleJSON()

	if err := writeIfAbsent("template.json", templateJSON); err != nil {
		return err
	}
	if err := writeIfAbsent("values.json", valuesJSON); err != nil {
		return err
	}

	fmt.Println("Created template.json and values.json")
	fmt.Println("Render with: credrender -template template.json -values values.json -o out.png")
	return nil
}

func writeIfAbsent(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, not overwriting", path)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func printUsage() {
	fmt.Println(`credrender — credential artifact rendering

Usage:
  credrender -template <path> [-values <path>] -o <file> [options]
  credrender serve [--port 8080] [--font-cache-dir <dir>]
  credrender init

Options:
  -template, -t     Template JSON: {image, placeholders}
  -values, -v       Values JSON: {values, overrides}
  -o, -output       Output file path (.png)
  -type             certificate | badge (default: from template)
  -font-cache-dir   Writable scratch directory for fetched fonts
  -verbose          Debug logging to stderr

Commands:
  serve             Start the JSON HTTP API
  init              Write starter template.json and values.json`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
