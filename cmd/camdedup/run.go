package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/CavaJ/ImagingInterview/internal/app"
	"github.com/CavaJ/ImagingInterview/internal/model"
	"github.com/CavaJ/ImagingInterview/internal/service/events"
)

type runOptions struct {
	action     string
	listen     string
	noProgress bool
	dryRun     bool
}

func newRunCmd() *cobra.Command {
	var ro runOptions

	cmd := &cobra.Command{
		Use:   "run [dir]",
		Short: "Find near-duplicate frames per camera and remove or move them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("action") {
				if err := applyAction(cfg, ro.action); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("listen") {
				cfg.ListenAddr = ro.listen
			}
			if cmd.Flags().Changed("dry-run") {
				cfg.DryRun = ro.dryRun
			}

			showProgress := !ro.noProgress && isTerminal(os.Stderr)
			if showProgress {
				cfg.Quiet = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			var observers []events.Observer
			if showProgress {
				observers = append(observers, newProgressObserver(os.Stderr))
			}

			run, runErr := application.Dedup(cmd.Context(), observers...)
			if run != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderRunSummary(run))
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&ro.action, "action", "a", string(model.ActionMove), "remove or move")
	cmd.Flags().StringVar(&ro.listen, "listen", "", "serve live events on this address (e.g. :8080)")
	cmd.Flags().BoolVar(&ro.noProgress, "no-progress", false, "disable the progress bar")
	cmd.Flags().BoolVar(&ro.dryRun, "dry-run", false, "report decisions without touching files")
	return cmd
}

func renderRunSummary(run *model.Run) string {
	action := string(run.Action)
	if run.DryRun {
		action += " (dry run)"
	}
	rows := [][]string{
		{"Run", run.ID},
		{"Root", run.Root},
		{"Action", action},
		{"Cameras", strconv.Itoa(run.Groups)},
		{"Images", strconv.Itoa(run.Records)},
		{"Comparisons", strconv.Itoa(run.Comparisons)},
		{"Duplicates", strconv.Itoa(run.Duplicates)},
		{"Anomalies (CUI)", strconv.Itoa(run.Anomalies)},
		{"Failures", strconv.Itoa(run.Failures)},
		{"Duration", run.Duration().Round(time.Millisecond).String()},
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
