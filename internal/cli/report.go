package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/docket/internal/banks"
	"github.com/Veraticus/docket/internal/engine"
	"github.com/Veraticus/docket/internal/model"
	"github.com/Veraticus/docket/internal/storage"
)

// ResultLine renders one document outcome: "<path> = <name>" when
// classified, "<path> --> UNKNOWN" when no bank recognised it.
func ResultLine(res engine.Result, name string) string {
	switch {
	case res.Err != nil:
		return FormatError(fmt.Sprintf("%s: %v", res.Path, res.Err))
	case res.Unclassified():
		return WarningStyle.Render(fmt.Sprintf("%s %s --> %s", UnknownIcon, res.Path, model.BankUnknown))
	default:
		return FormatSuccess(res.Path) + " = " + BoldStyle.Render(name)
	}
}

// SkippedLine renders a document found in the ledger.
func SkippedLine(path string, rec *storage.Record) string {
	detail := string(rec.Status)
	if rec.FileName != "" {
		detail = rec.FileName
	}
	return SubtleStyle.Render(fmt.Sprintf("%s %s (known: %s)", SkipIcon, path, detail))
}

// RenderSummary renders batch totals.
func RenderSummary(s engine.Summary, skipped int) string {
	rows := []string{
		fmt.Sprintf("%-13s %d", "Documents:", s.Total+skipped),
		SuccessStyle.Render(fmt.Sprintf("%-13s %d", "Classified:", s.Classified)),
		WarningStyle.Render(fmt.Sprintf("%-13s %d", "Unknown:", s.Unclassified)),
		ErrorStyle.Render(fmt.Sprintf("%-13s %d", "Failed:", s.Failed)),
	}
	if skipped > 0 {
		rows = append(rows, SubtleStyle.Render(fmt.Sprintf("%-13s %d", "Skipped:", skipped)))
	}
	return RenderBox("Summary", strings.Join(rows, "\n"))
}

// RenderTable writes rows under header, padding each column to its widest cell.
func RenderTable(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		rendered := make([]string, len(cells))
		for i, cell := range cells {
			s := style
			if i < len(cells)-1 {
				s = s.Width(widths[i] + style.GetPaddingRight())
			}
			rendered[i] = s.Render(cell)
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, rendered...), " ")
	}

	if _, err := fmt.Fprintln(w, line(header, TableHeaderStyle)); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, line(row, TableCellStyle)); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory writes ledger records as a table.
func RenderHistory(w io.Writer, records []storage.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No documents in the ledger."))
		return err
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		outcome := r.FileName
		switch r.Status {
		case storage.StatusFailed:
			outcome = r.Error
		case storage.StatusUnclassified:
			outcome = "--> " + string(model.BankUnknown)
		}
		rows = append(rows, []string{
			r.ProcessedAt.Local().Format("2006-01-02 15:04"),
			string(r.Status),
			string(r.Bank),
			r.Path,
			outcome,
		})
	}
	return RenderTable(w, []string{"PROCESSED", "STATUS", "BANK", "PATH", "RESULT"}, rows)
}

// RenderBanks writes the registry in evaluation order.
func RenderBanks(w io.Writer, registry banks.Registry) error {
	if _, err := fmt.Fprintln(w, FormatTitle("Banks, in evaluation order")); err != nil {
		return err
	}
	for i, c := range registry {
		title := fmt.Sprintf("%d. %s", i+1, c.Bank())
		var body []string
		if is, ok := c.(*banks.Issuer); ok {
			body = append(body,
				"rules: "+strconv.Itoa(len(is.Rules())),
				"gate:  "+strings.Join(quoteAll(is.Needles()), ", "),
			)
			if special := is.SpecialCases(); len(special) > 0 {
				body = append(body, "special cases: "+strings.Join(special, ", "))
			}
		}
		if _, err := fmt.Fprintln(w, RenderBox(title, strings.Join(body, "\n"))); err != nil {
			return err
		}
	}
	return nil
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strconv.Quote(s)
	}
	return out
}
