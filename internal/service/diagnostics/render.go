package diagnostics

import (
	"fmt"
	"strings"

	"github.com/meridianpsych/clinic-api/internal/model"
)

// RenderText formats a report as a plain-text summary suitable for
// email bodies and operator terminals.
func RenderText(report *model.DiagnosticReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Payer diagnostics: %s\n", report.PayerName)
	fmt.Fprintf(&b, "As of: %s\n", report.AsOf.Format("2006-01-02"))

	switch {
	case report.HasErrors:
		b.WriteString("Status: ERRORS FOUND\n")
	case report.HasWarnings:
		b.WriteString("Status: warnings\n")
	default:
		b.WriteString("Status: ok\n")
	}
	b.WriteString("\n")

	for _, f := range report.Findings {
		fmt.Fprintf(&b, "[%s] %s: %s\n", strings.ToUpper(string(f.Level)), f.Category, f.Message)
	}

	if len(report.BookableProviders) > 0 {
		b.WriteString("\nBookable providers:\n")
		for _, p := range report.BookableProviders {
			line := fmt.Sprintf("  - %s %s (%s, %s)", p.FirstName, p.LastName, p.Role, p.NetworkStatus)
			if len(p.SupervisingAttendings) > 0 {
				line += " under " + strings.Join(p.SupervisingAttendings, "; ")
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}
