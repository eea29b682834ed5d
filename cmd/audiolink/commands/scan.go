package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/audiolink"
)

// record is one scanned file.
type record struct {
	Path   string `json:"path" yaml:"path"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	// Status is the identifier validity (absent, invalid, valid), or
	// "error" when the file could not be read.
	Status string `json:"status" yaml:"status"`
	Link   string `json:"link,omitempty" yaml:"link,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

type summary struct {
	Total        int `json:"total" yaml:"total"`
	Valid        int `json:"valid" yaml:"valid"`
	Absent       int `json:"absent" yaml:"absent"`
	Invalid      int `json:"invalid" yaml:"invalid"`
	Errors       int `json:"errors" yaml:"errors"`
	LinksPresent int `json:"links_present,omitempty" yaml:"links_present,omitempty"`
	LinksAbsent  int `json:"links_absent,omitempty" yaml:"links_absent,omitempty"`
	LinksStale   int `json:"links_stale,omitempty" yaml:"links_stale,omitempty"`
}

type report struct {
	Root    string   `json:"root" yaml:"root"`
	LinkDir string   `json:"link_dir,omitempty" yaml:"link_dir,omitempty"`
	Files   []record `json:"files" yaml:"files"`
	Summary summary  `json:"summary" yaml:"summary"`
}

func newScanCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "scan <dir>",
		Short: "Report identifier and link state for every supported file under a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case "table", "json", "yaml":
			default:
				return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
			}

			var linkDir string
			if dir, _ := cmd.Flags().GetString("dir"); dir != "" || a.cfg.LinkDir != "" {
				var err error
				if linkDir, err = a.linkDir(cmd); err != nil {
					return err
				}
			}

			rep, err := scan(cmd.Context(), args[0], linkDir, a.cfg.Scan.Workers, a.fileOptions())
			if err != nil {
				return err
			}
			a.logger.Debug("scan complete", "root", rep.Root, "files", rep.Summary.Total)

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(rep); err != nil {
					return err
				}
				return enc.Close()
			default:
				return renderTable(out, rep)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", "table", "output format: table, json, yaml")
	cmd.Flags().String("dir", "", "link directory to check links against (overrides link_dir)")
	return cmd
}

// scan walks root and inspects every file with a supported extension.
// Unreadable files become error records; only walk failures abort.
func scan(ctx context.Context, root, linkDir string, workers int, opts []audiolink.Option) (*report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && linkDir != "" && sameDir(path, linkDir) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && audiolink.IsSupportedPath(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	records := make([]record, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records[i] = inspect(path, linkDir, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &report{Root: root, LinkDir: linkDir, Files: records}
	for _, r := range records {
		rep.Summary.Total++
		switch r.Status {
		case "valid":
			rep.Summary.Valid++
		case "absent":
			rep.Summary.Absent++
		case "invalid":
			rep.Summary.Invalid++
		default:
			rep.Summary.Errors++
		}
		switch r.Link {
		case "present":
			rep.Summary.LinksPresent++
		case "absent":
			rep.Summary.LinksAbsent++
		case "stale":
			rep.Summary.LinksStale++
		}
	}
	return rep, nil
}

func inspect(path, linkDir string, opts []audiolink.Option) record {
	r := record{Path: path}
	file, err := audiolink.Open(path, opts...)
	if err != nil {
		r.Status = "error"
		r.Error = err.Error()
		return r
	}
	r.Format = file.Format().String()
	r.ID = file.ID()
	r.Status = audiolink.ValidateID(file.ID()).String()
	if linkDir != "" && file.HasID() {
		if state, err := file.LinkStatus(linkDir); err == nil {
			r.Link = state.String()
		}
	}
	return r
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
	stateStyles = map[string]lipgloss.Style{
		"valid":   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"present": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"absent":  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"invalid": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"stale":   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// renderTable prints one row per file. Colors are applied only when the
// output is a terminal; lipgloss drops them otherwise.
func renderTable(w io.Writer, rep *report) error {
	header := []string{"PATH", "FORMAT", "ID", "STATUS"}
	if rep.LinkDir != "" {
		header = append(header, "LINK")
	}

	rows := make([][]string, 0, len(rep.Files))
	for _, r := range rep.Files {
		id := r.ID
		if id == "" {
			id = "-"
		}
		status := r.Status
		if r.Error != "" {
			status = "error: " + r.Error
		}
		row := []string{r.Path, r.Format, id, status}
		if rep.LinkDir != "" {
			row = append(row, r.Link)
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for _, row := range slices.Concat([][]string{header}, rows) {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for i, h := range header {
		b.WriteString(cellStyle.Width(widths[i] + 2).Render(headerStyle.Render(h)))
	}
	b.WriteString("\n")
	for _, row := range rows {
		for i, cell := range row {
			if style, ok := stateStyles[strings.SplitN(cell, ":", 2)[0]]; ok && i >= 3 {
				cell = style.Render(cell)
			}
			b.WriteString(cellStyle.Width(widths[i] + 2).Render(cell))
		}
		b.WriteString("\n")
	}
	s := rep.Summary
	fmt.Fprintf(&b, "\n%d files: %d valid, %d without id, %d invalid, %d unreadable\n",
		s.Total, s.Valid, s.Absent, s.Invalid, s.Errors)
	if rep.LinkDir != "" {
		fmt.Fprintf(&b, "links: %d present, %d absent, %d stale\n", s.LinksPresent, s.LinksAbsent, s.LinksStale)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
