package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/ttdash/internal/export"
)

var (
	exportFlags  filterFlags
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the visible entries of a month to CSV or XLSX",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportFlags.register(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", export.CSV, "Output format: csv, xlsx")
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "Directory to write the file to")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != export.CSV && exportFormat != export.XLSX {
		usageError("invalid --format %q (want csv or xlsx)", exportFormat)
	}
	a := loadApp()
	d := a.loadMonth(context.Background(), exportFlags.month, exportFlags.filters())

	path, n, err := export.ToFile(exportDir, d.Snapshot(), exportFormat)
	if err != nil {
		fail(err)
	}
	if n == 0 {
		fmt.Println("No visible entries to export.")
		return nil
	}
	fmt.Printf("Exported %d entries to %s\n", n, path)
	return nil
}
