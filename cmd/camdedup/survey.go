package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/CavaJ/ImagingInterview/internal/app"
	"github.com/CavaJ/ImagingInterview/internal/dto"
)

func newSurveyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "survey [dir]",
		Short: "Show frame sizes and aspect ratios per camera",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			cfg.Quiet = true

			application, err := app.NewApp(cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Survey()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSurvey(report))
			if len(report.Unreadable) > 0 {
				fmt.Fprintf(out, "\n%d unreadable image(s):\n", len(report.Unreadable))
				for _, path := range report.Unreadable {
					fmt.Fprintf(out, "  %s\n", path)
				}
			}
			return nil
		},
	}
}

func renderSurvey(report dto.SurveyReport) string {
	rows := make([][]string, 0, len(report.Stats))
	for _, stat := range report.Stats {
		rows = append(rows, []string{
			stat.Camera,
			fmt.Sprintf("%dx%d", stat.Width, stat.Height),
			strconv.Itoa(stat.Count),
			strconv.FormatFloat(stat.AspectRatio, 'f', 3, 64),
		})
	}
	return renderTable(
		[]string{"Camera", "Size (WxH)", "Frames", "Aspect"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
}
