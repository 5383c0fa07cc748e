package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/docket/internal/cli"
	"github.com/Veraticus/docket/internal/common"
	"github.com/Veraticus/docket/internal/config"
	"github.com/Veraticus/docket/internal/engine"
	"github.com/Veraticus/docket/internal/extract"
	"github.com/Veraticus/docket/internal/naming"
	"github.com/Veraticus/docket/internal/storage"
)

// ErrDocumentsFailed makes the exit status non-zero when any document failed.
var ErrDocumentsFailed = errors.New("some documents could not be classified")

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [paths...]",
		Short: "Classify documents and propose archive names",
		Long: `Classify every PDF (or JSON line fixture) under the given files and
directories, printing the canonical archive name proposed for each.

Documents no bank recognises are reported as UNKNOWN. Every outcome is
recorded in the ledger unless --no-ledger is given.

Examples:
  docket classify ~/scans             # Propose names for every scan
  docket classify --rename ~/scans    # Rename the files in place
  docket classify --rename --dry-run  # Show what --rename would do`,
		RunE: runClassify,
	}

	cmd.Flags().IntP("workers", "w", 0, "documents classified concurrently (0 = one per CPU)")
	cmd.Flags().Bool("rename", false, "rename classified files to their proposed names")
	cmd.Flags().Bool("dry-run", false, "with --rename, print the renames without touching files or the ledger")
	cmd.Flags().Bool("skip-known", true, "skip files whose content is already in the ledger")
	cmd.Flags().Bool("no-ledger", false, "do not read or write the ledger")
	cmd.Flags().Bool("progress", false, "show a progress bar on stderr")

	_ = viper.BindPFlag(config.KeyWorkers, cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag(config.KeyRename, cmd.Flags().Lookup("rename"))
	_ = viper.BindPFlag(config.KeySkipKnown, cmd.Flags().Lookup("skip-known"))

	return cmd
}

type classifyRun struct {
	ledger   *storage.SQLiteStorage
	out      io.Writer
	hashes   map[string]string
	cfg      *config.Config
	skipped  int
	dryRun   bool
	progress bool
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	run := &classifyRun{
		cfg:    cfg,
		out:    cmd.OutOrStdout(),
		hashes: make(map[string]string),
	}
	run.dryRun, _ = cmd.Flags().GetBool("dry-run")
	run.progress, _ = cmd.Flags().GetBool("progress")
	if noLedger, _ := cmd.Flags().GetBool("no-ledger"); noLedger || run.dryRun {
		cfg.Ledger.Enabled = false
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	paths, err := extract.Find(roots...)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return common.NewUserError("no PDF or JSON documents found", common.ErrNoDocuments)
	}

	if cfg.Ledger.Enabled {
		run.ledger, err = storage.Open(ctx, cfg.Ledger.Path)
		if err != nil {
			return fmt.Errorf("failed to open ledger: %w", err)
		}
		defer func() {
			if closeErr := run.ledger.Close(); closeErr != nil {
				common.LogError(closeErr, "Failed to close ledger", nil)
			}
		}()
	}

	pending, err := run.filterKnown(ctx, paths)
	if err != nil {
		return err
	}

	var results []engine.Result
	if len(pending) > 0 {
		results, err = run.classify(ctx, cmd.ErrOrStderr(), pending)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}

	for _, res := range results {
		run.report(ctx, res)
	}

	summary := engine.Summarize(results)
	if _, printErr := fmt.Fprintln(run.out, cli.RenderSummary(summary, run.skipped)); printErr != nil {
		return printErr
	}

	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrDocumentsFailed, summary.Failed, summary.Total)
	}
	return nil
}

// filterKnown hashes every path and drops those the ledger already holds
// with a non-failed outcome.
func (r *classifyRun) filterKnown(ctx context.Context, paths []string) ([]string, error) {
	pending := make([]string, 0, len(paths))
	for _, path := range paths {
		sum, err := hashFile(path)
		if err != nil {
			common.LogWarn("Failed to hash document", common.Fields{"path": path, "error": err.Error()})
			pending = append(pending, path)
			continue
		}
		r.hashes[path] = sum

		if r.ledger == nil || !r.cfg.Classify.SkipKnown {
			pending = append(pending, path)
			continue
		}

		rec, err := r.ledger.GetRecordByHash(ctx, sum)
		switch {
		case errors.Is(err, common.ErrNotFound):
		case err != nil:
			return nil, fmt.Errorf("failed to query ledger: %w", err)
		case rec.Status != storage.StatusFailed:
			r.skipped++
			common.LogDebug("Skipping known document", common.Fields{"path": path, "known_as": rec.Path})
			if _, err := fmt.Fprintln(r.out, cli.SkippedLine(path, rec)); err != nil {
				return nil, err
			}
			continue
		}
		pending = append(pending, path)
	}
	return pending, nil
}

func (r *classifyRun) classify(ctx context.Context, stderr io.Writer, paths []string) ([]engine.Result, error) {
	layout := extract.DefaultLayout()
	layout.LineMargin = r.cfg.Extract.LineMargin
	loader := extract.NewLoader(layout)

	handler := cli.NewInterruptHandler(stderr)
	ctx, stop := handler.HandleInterrupts(ctx, r.ledger != nil)
	defer stop()

	progress := cli.NewProgress(stderr, len(paths), r.progress)
	defer progress.Finish()

	common.LogInfo("Classifying documents", common.Fields{"documents": len(paths), "workers": r.cfg.Classify.Workers})
	return engine.New().ClassifyFiles(ctx, paths, loader, engine.BatchOptions{
		Workers:  r.cfg.Classify.Workers,
		OnResult: func(engine.Result) { progress.Add() },
	})
}

// report prints, renames and records one outcome.
func (r *classifyRun) report(ctx context.Context, res engine.Result) {
	var name string
	if res.Err == nil && !res.Unclassified() {
		name = naming.FileName(res.Metadata)
		if r.cfg.Classify.Rename {
			target, err := naming.Rename(res.Path, res.Metadata, r.dryRun)
			if err != nil {
				res.Err = err
			} else {
				name = filepath.Base(target)
			}
		}
	}

	if _, err := fmt.Fprintln(r.out, cli.ResultLine(res, name)); err != nil {
		common.LogWarn("Failed to write result", common.Fields{"path": res.Path, "error": err.Error()})
	}
	fields := common.Fields{"path": res.Path, "bank": string(res.Metadata.Bank), "lines": res.Lines}
	if res.Err != nil {
		common.LogDebug("Document failed", fields)
	} else {
		common.LogDebug("Document classified", fields)
	}

	if r.ledger == nil || errors.Is(res.Err, context.Canceled) {
		return
	}
	hash, ok := r.hashes[res.Path]
	if !ok {
		return
	}
	rec := storage.NewRecord(res.Path, hash, res.Metadata, name, res.Err)
	if err := r.ledger.SaveRecord(ctx, &rec); err != nil {
		common.LogError(err, "Failed to record document", common.Fields{"path": res.Path})
	}
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
