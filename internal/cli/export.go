package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/noah-isme/attendance-register/internal/models"
)

// ExportOptions holds the export command flags.
type ExportOptions struct {
	Format string
	Class  string
	Date   string
	Status string
	Out    string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the filtered attendance table",
		Long: `Export the attendance table as CSV, PDF or XLSX.

Filters combine as a logical AND. Without --out the file is written to
EXPORT_DIR under a name derived from today's date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "csv", "output format (csv|pdf|xlsx)")
	cmd.Flags().StringVar(&opts.Class, "class", "", "filter by class")
	cmd.Flags().StringVar(&opts.Date, "date", "", "filter by date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by status (Present|Absent|Late)")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file")

	return cmd
}

func runExport(cmd *cobra.Command, rootOpts *RootOptions, opts *ExportOptions) error {
	cfg, err := loadConfig(rootOpts)
	if err != nil {
		return err
	}
	logr, err := commandLogger(cfg, rootOpts, false)
	if err != nil {
		return err
	}
	if opts.Out != "" {
		cfg.Storage.ExportDir = ""
	}

	app, err := NewApp(cmd.Context(), cfg, logr)
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck

	filter := models.AttendanceFilter{
		Class:  opts.Class,
		Date:   opts.Date,
		Status: models.AttendanceStatus(opts.Status),
	}

	if opts.Out == "" {
		path, result, err := app.Exports.Save(cmd.Context(), filter, opts.Format)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d record(s) to %s\n", result.RowCount, path)
		return nil
	}

	result, err := app.Exports.Export(cmd.Context(), filter, opts.Format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(opts.Out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.Out, result.Payload, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d record(s) to %s\n", result.RowCount, opts.Out)
	return nil
}
