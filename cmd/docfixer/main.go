// Command docfixer synchronizes an mdoc documentation tree with the metadata
// exported from a binding module.
//
// Usage:
//
//	docfixer [flags] <manifest> <docroot>
//
// The documentation root must contain the "en" locale directory.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/FocuswithJustin/docfixer/core/docfix"
	"github.com/FocuswithJustin/docfixer/core/docstore"
	"github.com/FocuswithJustin/docfixer/core/metadata"
	"github.com/FocuswithJustin/docfixer/core/platformdoc"
	"github.com/FocuswithJustin/docfixer/core/sqlite"
	"github.com/FocuswithJustin/docfixer/internal/archive"
	"github.com/FocuswithJustin/docfixer/internal/logging"
	"github.com/FocuswithJustin/docfixer/internal/validation"
	"github.com/alecthomas/kong"
)

const version = "0.1.0"

// CLI defines the command-line interface for docfixer.
type CLI struct {
	Manifest string `arg:"" help:"Metadata manifest exported from the binding module" type:"existingfile"`
	DocRoot  string `arg:"" name:"docroot" help:"Documentation root containing the en directory" type:"path"`

	AppleDocs string           `name:"appledocs" help:"Merge notification docs from this platform reference index" type:"existingfile"`
	DebugDoc  bool             `name:"debugdoc" short:"v" help:"Trace every type and log at debug level"`
	Only      string           `help:"Only process the type with this full name" env:"DOCFIXER"`
	Platform  string           `help:"Binding namespace prefix" default:"${platform}"`
	DryRun    bool             `name:"dry-run" help:"Print unified diffs instead of writing files"`
	Backup    string           `help:"Archive original units to this .tar.xz or .tar.gz before overwriting" type:"path" xor:"backup"`
	Restore   string           `help:"Put back the units saved in this backup archive and exit" type:"existingfile" xor:"backup"`
	LogFormat string           `name:"log-format" help:"Log output format" enum:"text,json" default:"text"`
	Version   kong.VersionFlag `help:"Print version information"`
}

// Run performs one synchronization pass.
func (c *CLI) Run(ctx context.Context, stdout io.Writer) error {
	level := logging.LevelInfo
	if c.DebugDoc {
		level = logging.LevelDebug
	}
	logging.InitLogger(level, logging.ParseFormat(c.LogFormat))

	enRoot, err := validation.ValidateDocRoot(c.DocRoot)
	if err != nil {
		return fmt.Errorf("invalid documentation root: %w", err)
	}

	if c.Restore != "" {
		n, err := archive.Restore(c.Restore, c.DocRoot)
		if err != nil {
			return fmt.Errorf("restoring %s: %w", c.Restore, err)
		}
		logging.Info("restored units", "archive", c.Restore, "count", n)
		fmt.Fprintf(stdout, "restored %d units\n", n)
		return nil
	}

	model, err := metadata.Load(c.Manifest)
	if err != nil {
		return err
	}

	opts := docfix.Options{
		Only:     c.Only,
		Platform: c.Platform,
		Verbose:  c.DebugDoc,
		Out:      stdout,
	}
	if c.AppleDocs != "" {
		index, err := platformdoc.Open(c.AppleDocs)
		if err != nil {
			return err
		}
		defer index.Close()
		opts.Merge = index
	}

	store := docstore.New(docstore.Options{
		Root:     enRoot,
		Platform: c.Platform,
		DryRun:   c.DryRun,
		Diff:     stdout,
		Backup:   c.Backup,
	})

	ctx = logging.WithRunID(ctx, logging.NewRunID())
	logging.InfoContext(ctx, "starting run", "manifest", c.Manifest, "docroot", enRoot, "types", len(model.Types()))

	report, runErr := docfix.New(model, store, opts).Run(ctx)
	if err := store.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}
	logging.InfoContext(ctx, "run complete",
		"written", report.Saved.Written,
		"unchanged", report.Saved.Unchanged,
		"skipped", report.Skipped)
	return nil
}

// run parses args and executes the command, returning the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	var cli CLI
	exitCode := -1
	parser, err := kong.New(&cli,
		kong.Name("docfixer"),
		kong.Description("Synchronize mdoc documentation with binding metadata"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":  version + " (sqlite: " + sqlite.Current().String() + ")",
			"platform": docfix.DefaultPlatform,
		},
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) {
			if exitCode < 0 {
				exitCode = code
			}
		}),
	)
	if err != nil {
		fmt.Fprintf(stderr, "docfixer: %v\n", err)
		return 2
	}

	_, err = parser.Parse(args)
	if exitCode >= 0 {
		return exitCode
	}
	if err != nil {
		fmt.Fprintf(stderr, "docfixer: %v\n", err)
		return 2
	}

	if err := cli.Run(context.Background(), stdout); err != nil {
		fmt.Fprintf(stderr, "docfixer: %v\n", err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
