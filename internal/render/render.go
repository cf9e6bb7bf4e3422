// Package render prints registry listings and clean summaries as a table
// or as tab separated text.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mchineboy/ecrtool/internal/registry"
)

// Missing is printed in place of absent values.
const Missing = "n/a"

const (
	FormatTable = "table"
	FormatPlain = "plain"
)

// Renderer writes results to Out in the chosen format.
type Renderer struct {
	Out    io.Writer
	Format string
}

// New returns a Renderer. An unknown format falls back to a table.
func New(out io.Writer, format string) *Renderer {
	return &Renderer{Out: out, Format: format}
}

// StringOrDefault returns *s, or Missing when s is nil or empty.
func StringOrDefault(s *string) string {
	if s == nil || *s == "" {
		return Missing
	}
	return *s
}

// TimeOrDefault formats t as RFC 3339 in UTC, or Missing when nil.
func TimeOrDefault(t *time.Time) string {
	if t == nil {
		return Missing
	}
	return t.UTC().Format(time.RFC3339)
}

// SizeOrDefault formats a byte count in MB, or Missing when nil.
func SizeOrDefault(n *int64) string {
	if n == nil {
		return Missing
	}
	return FormatSize(*n)
}

// FormatSize formats a byte count in MB.
func FormatSize(n int64) string {
	return fmt.Sprintf("%.2f MB", float64(n)/1024/1024)
}

func tagsOrDefault(tags []string) string {
	if len(tags) == 0 {
		return Missing
	}
	return strings.Join(tags, ",")
}

// Repositories prints name and URI of every repository.
func (r *Renderer) Repositories(repositories []registry.Repository) error {
	rows := make([][]string, 0, len(repositories))
	for _, repo := range repositories {
		rows = append(rows, []string{StringOrDefault(repo.Name), StringOrDefault(repo.URI)})
	}
	return r.write([]string{"Name", "URI"}, rows)
}

// Images prints digest, push time, size and tags of every image.
func (r *Renderer) Images(images []registry.Image) error {
	rows := make([][]string, 0, len(images))
	for _, img := range images {
		rows = append(rows, []string{
			StringOrDefault(img.Digest),
			TimeOrDefault(img.PushedAt),
			SizeOrDefault(img.SizeBytes),
			tagsOrDefault(img.Tags),
		})
	}
	return r.write([]string{"Digest", "Pushed at", "Size", "Tags"}, rows)
}

// CleanResult prints what a clean run selected and removed.
func (r *Renderer) CleanResult(result registry.CleanResult, threshold, count uint64) error {
	if !result.Decision.Act {
		_, err := fmt.Fprintf(r.Out, "Repository %s holds %d images, below the threshold of %d. Nothing deleted.\n",
			result.Repository, result.Total, threshold)
		return err
	}

	verb := "Deleting"
	if result.DryRun {
		verb = "Would delete"
	}
	if _, err := fmt.Fprintf(r.Out, "Repository %s met threshold of %d images. %s the oldest %d images.\n",
		result.Repository, threshold, verb, count); err != nil {
		return err
	}

	if err := r.Images(result.Decision.Victims); err != nil {
		return err
	}

	for _, f := range result.Failures {
		if _, err := fmt.Fprintf(r.Out, "Failed to delete image %s: %s (%s)\n", f.Digest, f.Reason, f.Code); err != nil {
			return err
		}
	}

	if result.DryRun {
		_, err := fmt.Fprintf(r.Out, "Dry run: %d images (%s) would be deleted.\n",
			len(result.Decision.Victims), FormatSize(result.SpaceFreed))
		return err
	}

	_, err := fmt.Fprintf(r.Out, "Deleted %d images (%s).\n", result.Deleted, FormatSize(result.SpaceFreed))
	return err
}

func (r *Renderer) write(headers []string, rows [][]string) error {
	if r.Format == FormatPlain {
		return writePlain(r.Out, headers, rows)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderColumn(false).
		BorderHeader(true).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...).
		Rows(rows...)

	_, err := fmt.Fprintln(r.Out, t.String())
	return err
}

func writePlain(out io.Writer, headers []string, rows [][]string) error {
	if _, err := fmt.Fprintln(out, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(out, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return nil
}
