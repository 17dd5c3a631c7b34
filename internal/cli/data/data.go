package data

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/studystreak/internal/cli"
	"github.com/julianstephens/studystreak/internal/export"
)

type ExportCmd struct {
	Format string `help:"Export format: json, csv, markdown or pdf." short:"f" default:"json"`
	Output string `help:"Output file. Defaults to study-streak-data.<ext>; '-' writes to stdout." short:"o"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	res, err := ctx.Service().Snapshot()
	if err != nil {
		return err
	}
	opts := export.Options{Location: ctx.Location(), Now: ctx.Now()}

	if c.Output == "-" {
		return export.Write(ctx.Writer(), format, res.State, opts)
	}

	path := c.Output
	if path == "" {
		path = format.Filename()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.Write(f, format, res.State, opts); err != nil {
		f.Close()
		return fmt.Errorf("export failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	ctx.Printf("✓ Exported %d log entries to %s\n", len(res.State.Logs), filepath.Clean(path))
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"JSON export or appData dump to import." type:"existingfile"`
	Yes  bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	current, err := ctx.Service().Snapshot()
	if err != nil {
		return err
	}
	imported, err := export.Import(f, current.State)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	ctx.Printf("Importing streak %d with %d log entries (currently streak %d with %d entries).\n",
		imported.Streak, len(imported.Logs), current.State.Streak, len(current.State.Logs))
	if !c.Yes {
		ok, err := ctx.Confirm("This replaces your current data. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	res, err := ctx.Service().Replace(imported)
	if err != nil {
		return fmt.Errorf("failed to save imported data: %w", err)
	}
	ctx.Printf("✓ Imported %d log entries. Streak: %d day(s).\n", len(res.State.Logs), res.State.Streak)
	ctx.ReportResult(res)
	return nil
}
