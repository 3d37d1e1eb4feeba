package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// printer writes tables, key/value blocks and JSON to w.
type printer struct {
	w       io.Writer
	noColor bool
}

func newPrinter(w io.Writer, noColor bool) *printer {
	return &printer{w: w, noColor: noColor}
}

// color returns a color that honors the printer's no-color setting.
func (p *printer) color(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if p.noColor {
		c.DisableColor()
	}
	return c
}

// JSON writes v indented.
func (p *printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes headers and rows as aligned columns.
func (p *printer) Table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	header := p.color(color.Bold, color.FgCyan)
	for i, h := range headers {
		header.Fprint(p.w, padRight(h, widths[i]))
		if i < len(headers)-1 {
			fmt.Fprint(p.w, "  ")
		}
	}
	fmt.Fprintln(p.w)

	gray := p.color(color.FgHiBlack)
	for i, width := range widths {
		gray.Fprint(p.w, strings.Repeat("─", width))
		if i < len(widths)-1 {
			gray.Fprint(p.w, "  ")
		}
	}
	fmt.Fprintln(p.w)

	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if i == len(row)-1 {
				fmt.Fprint(p.w, cell)
				continue
			}
			fmt.Fprint(p.w, padRight(cell, widths[i]), "  ")
		}
		fmt.Fprintln(p.w)
	}
}

// KeyValue writes one "key: value" line with the key highlighted.
func (p *printer) KeyValue(key, value string) {
	p.color(color.FgCyan, color.Bold).Fprintf(p.w, "%-10s", key+":")
	fmt.Fprintln(p.w, value)
}

// Success writes a green check line.
func (p *printer) Success(format string, args ...any) {
	p.color(color.FgGreen).Fprintf(p.w, "✓ "+format+"\n", args...)
}

// Failure writes a red cross line.
func (p *printer) Failure(format string, args ...any) {
	p.color(color.FgRed).Fprintf(p.w, "✗ "+format+"\n", args...)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
