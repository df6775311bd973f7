// Package export renders the practice's record set as the downloadable
// physio_report.csv file.
//
// Fields are joined with commas and written verbatim. Embedded commas or
// quotes are not escaped, so free-text fields containing them shift columns
// in the output.
package export

import (
	"io"
	"strings"

	"physiobudget/internal/core"
)

const (
	// Filename is the name the download is offered under.
	Filename = "physio_report.csv"

	// ContentType is sent with the download.
	ContentType = "text/csv;charset=utf-8"
)

// Header is the fixed first row of the report.
var Header = []string{
	"Physio Name",
	"Day",
	"Patient",
	"Plan",
	"Duration",
	"Session Type",
	"Fuel Cost",
	"Income From Patient",
	"Session Salary",
	"Subtotal",
}

// Rows returns the header followed by one row per session, practitioner
// by practitioner and weekday by weekday.
func Rows(b core.Book) [][]string {
	rows := make([][]string, 0, 1+len(b.Practitioners)*core.DaysPerWeek)
	rows = append(rows, append([]string(nil), Header...))
	for _, p := range b.Practitioners {
		for _, s := range p.WeeklySessions {
			rows = append(rows, sessionRow(p.Name, s))
		}
	}
	return rows
}

func sessionRow(name string, s core.Session) []string {
	return []string{
		name,
		s.Day,
		s.Patient,
		s.Plan,
		s.Duration,
		s.SessionType,
		core.FormatPlain(s.FuelCost),
		core.FormatPlain(s.IncomeFromPatient),
		core.FormatPlain(s.SessionSalary),
		core.FormatFixed(core.SessionTotal(s)),
	}
}

// Write streams the report to w.
func Write(w io.Writer, b core.Book) error {
	_, err := io.WriteString(w, Render(b))
	return err
}

// Render returns the whole report as text, each row terminated by "\n".
func Render(b core.Book) string {
	var sb strings.Builder
	for _, row := range Rows(b) {
		sb.WriteString(strings.Join(row, ","))
		sb.WriteByte('\n')
	}
	return sb.String()
}
