package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintCount outputs the single summary number.
func PrintCount(report schema.MetadataReport, cfg *contract.Config) error {
	out := schema.CountOutput{SourceRoot: report.SourceRoot, Total: report.Total}
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, out)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"source_root", "total"}, func(cw *csv.Writer) error {
				return cw.Write([]string{out.SourceRoot, strconv.Itoa(out.Total)})
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "%s%s Metadata\n", headerPrefix("☁️", cfg), contract.ColorTotal(out.Total, cfg.UseColors))
			return err
		}, "Wrote text")
	}
}

// PrintLocate outputs where the project and its source directory were found.
func PrintLocate(root schema.SourceRoot, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, root)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"project_root", "source_root", "layout"}, func(cw *csv.Writer) error {
				return cw.Write([]string{root.ProjectRoot, root.Path, string(root.Layout)})
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			width := GetMaxTablePathWidth(cfg)
			_, err := fmt.Fprintf(w, "%sProject root: %s\nSource root:  %s\nLayout:       %s\n",
				headerPrefix("📁", cfg),
				contract.TruncatePath(root.ProjectRoot, width),
				contract.TruncatePath(root.Path, width),
				root.Layout)
			return err
		}, "Wrote text")
	}
}

// PrintTypes outputs the active classification tables.
func PrintTypes(rules []schema.TypeRule, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rules)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"kind", "key", "type"}, func(cw *csv.Writer) error {
				for _, r := range rules {
					if err := cw.Write([]string{string(r.Kind), r.Key, r.Type}); err != nil {
						return fmt.Errorf("failed to write CSV record: %w", err)
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errParquetUnsupported
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			table := tablewriter.NewWriter(w)
			table.Header([]string{"Kind", "Key", "Type"})
			var data [][]string
			for _, r := range rules {
				data = append(data, []string{string(r.Kind), r.Key, r.Type})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		}, "Wrote text")
	}
}
