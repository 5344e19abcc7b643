// ABOUTME: Table and JSON output helpers for confhub-admin
// ABOUTME: Tables go through text/tabwriter with bold colored headers

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/2389/confhub/internal/client"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	mutedColor   = color.New(color.FgHiBlack)
)

// table writes rows under a header, aligned in columns.
type table struct {
	tw *tabwriter.Writer
}

func newTable(out io.Writer, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	for i, h := range headers {
		headers[i] = headerColor.Sprint(h)
	}
	fmt.Fprintln(t.tw, strings.Join(headers, "\t"))
	return t
}

func (t *table) row(cols ...any) {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(t.tw, strings.Join(parts, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) success(format string, args ...any) {
	successColor.Fprintf(a.out, "✓ "+format+"\n", args...)
}

func (a *app) empty(what string) {
	mutedColor.Fprintf(a.out, "No %s.\n", what)
}

// formatDate renders a registration time, or "-" when unknown.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// truncate shortens s to n runes for table cells.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// bar draws a share as a row of blocks, one per 5%.
func bar(percent float64) string {
	n := int(percent/5 + 0.5)
	if n < 1 && percent > 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// apiError adds a login hint to authentication failures.
func apiError(err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return fmt.Errorf("%w (run: confhub-admin login)", err)
	}
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
