// Package observability provides formatted terminal output for the CLI commands.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/agrimrv-lite/internal/navigation"
	"github.com/jonathan/agrimrv-lite/internal/proofs"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of rows to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted CLI output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

// PrintRouteTable outputs every route with its back/forward availability.
func (p *Printer) PrintRouteTable(t navigation.Table) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-3s %-15s %-14s %-5s %s\n", "#", "PATH", "NAME", "BACK", "FORWARD"))
	for i, r := range t.Routes() {
		sb.WriteString(fmt.Sprintf("%-3d %-15s %-14s %-5s %s\n",
			i, r.Path, r.Name, mark(t.CanGoBack(r.Path)), mark(t.CanGoForward(r.Path))))
	}
	p.printBox("ROUTE TABLE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCounts outputs a status breakdown.
func (p *Printer) PrintCounts(title string, c proofs.Counts) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total:    %d\n", c.Total))
	sb.WriteString(fmt.Sprintf("%s Verified: %d\n", proofs.Badge(proofs.StatusVerified).Icon, c.Verified))
	sb.WriteString(fmt.Sprintf("%s Pending:  %d\n", proofs.Badge(proofs.StatusPending).Icon, c.Pending))
	sb.WriteString(fmt.Sprintf("%s Rejected: %d", proofs.Badge(proofs.StatusRejected).Icon, c.Rejected))
	if c.Unknown > 0 {
		sb.WriteString(fmt.Sprintf("\n%s Other:    %d", proofs.Badge("").Icon, c.Unknown))
	}
	p.printBox(title, sb.String())
}

// PrintProofs outputs the most recent proofs of a history view.
func (p *Printer) PrintProofs(v proofs.ProofsView) {
	if len(v.Rows) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(v.Rows), maxItemsToShow)
	for i := 0; i < count; i++ {
		row := v.Rows[i]
		label := row.Badge.Label
		if label == "" {
			label = string(row.Status)
		}
		sb.WriteString(fmt.Sprintf("%s %-8s %-10s %-10s %s\n", row.Badge.Icon, row.ProofID, row.Crop, row.DisplayDate(), label))
	}
	if len(v.Rows) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more proofs\n", len(v.Rows)-maxItemsToShow))
	}

	p.printBox("PROOF HISTORY", strings.TrimSuffix(sb.String(), "\n"))
}
