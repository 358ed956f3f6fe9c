package main

import (
	"time"

	"github.com/spf13/cobra"

	"renamer/internal/batch"
	"renamer/internal/executor"
	"renamer/internal/watcher"
)

func buildWatchCommand(a *app) *cobra.Command {
	flags := &transformFlags{}

	cmd := &cobra.Command{
		Use:   "watch DIR...",
		Short: "Rename files as they appear in the given directories",
		Long: `watch applies the transform flags to every file created directly inside
the given directories until interrupted. Temporary download files are ignored
and each file is renamed once its size has settled.

Example:
  renamer watch ~/Downloads -m 'IMG-\d+' -r 'IMG_{num4}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.buildConfig(cmd.Flags())
			if err != nil {
				return err
			}

			out, err := a.openOutput(cfg)
			if err != nil {
				return err
			}
			defer out.Close()

			proc, err := newProcessor(cfg, out, executor.ModeFor(cfg.DryRun))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			session := &batch.Summary{}
			handler := func(path string) (string, error) {
				summary := proc.Process(ctx, []string{path})
				session.Merge(summary)
				for _, r := range summary.Results {
					switch r.Status {
					case batch.StatusFailed:
						return "", r.Error
					case batch.StatusRenamed:
						return r.NewPath, nil
					}
				}
				return "", nil
			}

			w := watcher.New(&watcher.Config{
				Debounce:        cfg.Watch.Debounce,
				StableThreshold: cfg.Watch.StableThreshold,
				IgnorePatterns:  cfg.Watch.IgnorePatterns,
			}, handler, out)

			wc := w.Config()
			out.Debug("Debounce %s, stable after %s", wc.Debounce, wc.StableThreshold)
			out.Info("Watching %d directories, press Ctrl+C to stop", len(args))
			stats, err := w.Run(ctx, args)
			if err != nil {
				return err
			}

			out.Info("Watched for %s: %d renamed, %d kept, %d ignored, %d failed",
				stats.Duration.Round(time.Second), stats.Renamed, stats.Kept, stats.Ignored, stats.Failed)
			out.Debug("%s", session)
			if session.HasErrors() {
				return errRenamesFailed
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}
