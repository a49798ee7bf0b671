package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/CavaJ/ImagingInterview/internal/app"
	"github.com/CavaJ/ImagingInterview/internal/model"
)

func newHistoryCmd() *cobra.Command {
	var runID string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, or the audited events of one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			cfg.Quiet = true

			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			out := cmd.OutOrStdout()
			if runID != "" {
				run, evs, err := application.RunEvents(runID)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderRunSummary(run))
				fmt.Fprintln(out, renderEvents(evs))
				return nil
			}

			runs, err := application.History(limit)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderRuns(runs))
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "show the events of this run")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list")
	return cmd
}

func renderRuns(runs []model.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := "running"
		if !run.FinishedAt.IsZero() {
			finished = run.Duration().Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			string(run.Action),
			strconv.Itoa(run.Records),
			strconv.Itoa(run.Duplicates),
			strconv.Itoa(run.Anomalies),
			strconv.Itoa(run.Failures),
			finished,
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Action", "Images", "Dups", "CUI", "Failed", "Took"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}

func renderEvents(evs []model.Event) string {
	rows := make([][]string, 0, len(evs))
	for _, ev := range evs {
		detail := ev.Detail
		switch ev.Kind {
		case model.EventDuplicateFound:
			detail = fmt.Sprintf("of %s (score %.0f < %.0f, %s)", ev.BasePath, ev.Score, ev.Threshold, ev.Tier)
		case model.EventDispositionFailed:
			detail = ev.Error
		}
		rows = append(rows, []string{string(ev.Kind), ev.CameraID, ev.Path, detail})
	}
	return renderTable([]string{"Event", "Camera", "Image", "Detail"}, rows, nil)
}
