package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/noah-isme/attendance-register/internal/models"
)

// ValidFormats defines the allowed stats output formats.
var ValidFormats = []string{"text", "json"}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print today's attendance counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(format) {
				return fmt.Errorf("invalid format %q: must be one of %v", format, ValidFormats)
			}
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			logr, err := commandLogger(cfg, rootOpts, false)
			if err != nil {
				return err
			}
			app, err := NewApp(cmd.Context(), cfg, logr)
			if err != nil {
				return err
			}
			defer app.Close() //nolint:errcheck

			return writeStats(cmd.OutOrStdout(), format, app.Register.Stats())
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format (json|text)")

	return cmd
}

func writeStats(w io.Writer, format string, stats models.AttendanceStats) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	_, err := fmt.Fprintf(w, "Date:            %s\nTotal Students:  %d\nPresent Today:   %d\nAbsent Today:    %d\nAttendance Rate: %s\n",
		stats.Date, stats.TotalStudents, stats.PresentToday, stats.AbsentToday, stats.RateLabel)
	return err
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
