package services

import (
	"fmt"
	"html"
	"strings"
)

const emailLayout = `
		<html>
		<body style="font-family: 'Segoe UI', sans-serif; color: #333; line-height: 1.6; background-color: #f4f4f4; margin: 0; padding: 20px;">
			<div style="max-width: 600px; margin: 0 auto; background: white; border-radius: 8px; overflow: hidden; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
				<div style="background-color: %s; padding: 20px; text-align: center; color: white;">
					<h2 style="margin: 0;">%s</h2>
				</div>
				<div style="padding: 20px;">
					%s
				</div>
			</div>
		</body>
		</html>
	`

func renderList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(item))
	}
	return b.String()
}

// RenderWarningSection renders the skipped-rows section. Returns "" when there
// is nothing to show.
func RenderWarningSection(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}

	return fmt.Sprintf(`
		<div style="background-color: #fff8e6; border-left: 5px solid #f7a600; padding: 15px; margin-top: 20px;">
			<h3 style="color: #8a5d00; margin-top: 0; font-size: 18px;">Some rows were skipped</h3>
			<ul style="margin-bottom: 0; padding-left: 20px;">
				%s
			</ul>
		</div>
	`, renderList(warnings))
}

// RenderSummaryBody renders the HTML body for a completed import.
func RenderSummaryBody(filename string, count int, warnings []string) string {
	content := fmt.Sprintf("<p>Imported <strong>%d</strong> transactions from <strong>%s</strong>.</p>%s",
		count, html.EscapeString(filename), RenderWarningSection(warnings))
	return fmt.Sprintf(emailLayout, "#107c10", "Import Complete", content)
}

// RenderErrorBody renders the HTML body for a failed import.
func RenderErrorBody(filename string, errs []string) string {
	content := fmt.Sprintf(`<p>%s could not be imported:</p>
					<ul style="padding-left: 20px;">%s</ul>`, html.EscapeString(filename), renderList(errs))
	return fmt.Sprintf(emailLayout, "#d13438", "Import Failed", content)
}
