package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"glimt/internal/diag"
	"glimt/internal/diagfmt"
	"glimt/internal/driver"
	"glimt/internal/project"
	"glimt/internal/source"
	"glimt/internal/ui"
)

var (
	checkFormat   string
	checkUI       string
	checkJobs     int
	checkNoCache  bool
	checkMaxDepth int
	checkSigs     bool
)

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().StringVar(&checkUI, "ui", "auto", "interactive progress (auto|on|off)")
	checkCmd.Flags().IntVar(&checkJobs, "jobs", 0, "parallel workers (0 = GOMAXPROCS)")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "disable the signature cache")
	checkCmd.Flags().IntVar(&checkMaxDepth, "max-depth", 0, "template resolution depth limit (0 = configured default)")
	checkCmd.Flags().BoolVar(&checkSigs, "sigs", false, "print inferred template signatures")
}

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Check every invocation trace under a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		mode, err := readUIMode(checkUI)
		if err != nil {
			return err
		}
		if checkFormat != "pretty" && checkFormat != "json" {
			return fmt.Errorf("unsupported format %q (must be pretty or json)", checkFormat)
		}

		manifest, _, err := project.Load(dir)
		if err != nil {
			return err
		}

		colorFlag, _ := cmd.Flags().GetString("color")
		manifestColor := ""
		if manifest != nil {
			manifestColor = manifest.Config.Check.Color
		}
		useColor := resolveColor(colorFlag, manifestColor)

		maxDiagnostics, _ := cmd.Flags().GetInt("max-diagnostics")
		if maxDiagnostics <= 0 {
			maxDiagnostics = manifest.MaxDiagnostics()
		}
		maxDepth := checkMaxDepth
		if maxDepth <= 0 && manifest != nil {
			maxDepth = manifest.Config.Check.MaxDepth
		}

		opts := driver.Options{
			Jobs:           checkJobs,
			MaxDiagnostics: maxDiagnostics,
			MaxDepth:       maxDepth,
		}
		if cache := openCache(dir, manifest); cache != nil {
			opts.Cache = cache
		}

		fileSet, results, err := runCheck(cmd.Context(), dir, opts, mode)
		if err != nil {
			return err
		}
		return report(cmd, fileSet, results, useColor)
	},
}

func openCache(dir string, manifest *project.Manifest) *driver.DiskCache {
	if checkNoCache {
		return nil
	}
	cacheDir := manifest.CacheDir()
	if cacheDir == "" {
		cacheDir = filepath.Join(dir, ".glimt-cache")
	}
	if manifest != nil && !manifest.Config.Cache.CacheEnabled() {
		return nil
	}
	cache, err := driver.OpenDiskCache(cacheDir)
	if err != nil {
		// Checking works without a cache; it is only slower.
		return nil
	}
	return cache
}

// runCheck drives the directory check, with or without the progress TUI.
func runCheck(ctx context.Context, dir string, opts driver.Options, mode uiMode) (*source.FileSet, []driver.Result, error) {
	if !shouldUseTUI(mode) || checkFormat == "json" {
		return driver.CheckDir(ctx, dir, opts)
	}

	files, err := driver.ListTraces(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return source.NewFileSet(dir), nil, nil
	}

	events := make(chan driver.Event, len(files))
	opts.Events = events

	var (
		fileSet *source.FileSet
		results []driver.Result
		ckErr   error
	)
	done := make(chan struct{})
	go func() {
		fileSet, results, ckErr = driver.CheckDir(ctx, dir, opts)
		close(events)
		close(done)
	}()

	model := ui.NewProgressModel("checking traces", files, events)
	if _, err := tea.NewProgram(model).Run(); err != nil {
		<-done
		return fileSet, results, err
	}
	<-done
	return fileSet, results, ckErr
}

func report(cmd *cobra.Command, fileSet *source.FileSet, results []driver.Result, useColor bool) error {
	out := cmd.OutOrStdout()

	merged := diag.NewBag(0)
	cachedCount := 0
	for _, r := range results {
		merged.Merge(r.Bag)
		if r.Cached {
			cachedCount++
		}
	}
	merged.Sort()
	merged.Dedup()

	if checkFormat == "json" {
		if err := diagfmt.JSON(out, merged, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		}); err != nil {
			return err
		}
	} else {
		diagfmt.Pretty(out, merged, fileSet, diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   true,
			ShowNotes: true,
		})
		if checkSigs {
			for _, r := range results {
				for _, s := range r.Signatures {
					fmt.Fprintf(out, "%s: %s %s\n", r.Path, s.Template, s.Contract)
				}
			}
		}
		fmt.Fprintf(out, "checked %d traces (%d cached), %d diagnostics\n",
			len(results), cachedCount, merged.Len())
	}

	if merged.HasErrors() {
		os.Exit(1)
	}
	return nil
}
