package service

import (
	"bytes"
	"fmt"
	"html"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/microcosm-cc/bluemonday"

	"runpool/internal/models"
)

var namePolicy = bluemonday.StrictPolicy()

var recapFuncs = map[string]any{
	"miles": func(v float64) string { return fmt.Sprintf("%.1f", v) },
	"inc":   func(i int) int { return i + 1 },
}

var recapHTML = htmltemplate.Must(htmltemplate.New("recap_html").Funcs(recapFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #e2574c; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.stats td { padding: 4px 12px 4px 0; }
		.button { display: inline-block; padding: 12px 30px; background-color: #e2574c; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>{{.Group}} weekly recap</h1>
			<p>{{.Period}}</p>
		</div>
		<div class="content">
			<table class="stats">
				<tr><td>Runners</td><td><strong>{{.Recap.Summary.Participants}}</strong></td></tr>
				<tr><td>Total miles</td><td><strong>{{miles .Recap.Summary.TotalMiles}}</strong></td></tr>
				<tr><td>Average miles</td><td><strong>{{miles .Recap.Summary.AvgMiles}}</strong></td></tr>
				<tr><td>Pot</td><td><strong>{{.Pot}}</strong></td></tr>
			</table>
			{{if .Top}}
			<h2>Podium</h2>
			<ol>
				{{range .Top}}<li>{{.Name}} ({{miles .Miles}} mi)</li>
				{{end}}
			</ol>
			{{else}}
			<p>Nobody logged a run this week.</p>
			{{end}}
			{{if .Link}}
			<p style="text-align: center;">
				<a href="{{.Link}}" class="button">View leaderboard</a>
			</p>
			{{end}}
		</div>
		<div class="footer">
			<p>This is an automated email from RunPool. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`))

var recapText = texttemplate.Must(texttemplate.New("recap_text").Funcs(recapFuncs).Parse(`{{.Group}} weekly recap
{{.Period}}

Runners: {{.Recap.Summary.Participants}}
Total miles: {{miles .Recap.Summary.TotalMiles}}
Average miles: {{miles .Recap.Summary.AvgMiles}}
Pot: {{.Pot}}
{{if .Top}}
Podium:
{{range $i, $r := .Top}}{{inc $i}}. {{$r.Name}} ({{miles $r.Miles}} mi)
{{end}}{{else}}
Nobody logged a run this week.
{{end}}{{if .Link}}
View leaderboard: {{.Link}}
{{end}}
---
This is an automated email from RunPool. Please do not reply.
`))

type recapEmailData struct {
	Recap  models.Recap
	Group  string
	Period string
	Pot    string
	Top    []models.LeaderboardRow
	Link   string
}

// RenderRecapEmail builds the subject and bodies for one recap. The
// recipient is filled in by the caller.
func RenderRecapEmail(recap models.Recap, appBaseURL string) (EmailMessage, error) {
	data := recapEmailData{
		Recap:  recap,
		Group:  cleanName(recap.Group.Name),
		Period: formatPeriod(recap.Challenge),
		Pot:    recap.Pot.StringFixed(2),
		Top:    make([]models.LeaderboardRow, len(recap.Top3)),
	}
	if data.Group == "" {
		data.Group = "Your group"
	}
	for i, r := range recap.Top3 {
		r.Name = cleanName(r.Name)
		if r.Name == "" {
			r.Name = "A runner"
		}
		data.Top[i] = r
	}
	if appBaseURL != "" {
		data.Link = fmt.Sprintf("%s/challenges/%s/leaderboard", strings.TrimRight(appBaseURL, "/"), recap.Challenge.ID)
	}

	var htmlBody, textBody bytes.Buffer
	if err := recapHTML.Execute(&htmlBody, data); err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render recap html: %w", err)
	}
	if err := recapText.Execute(&textBody, data); err != nil {
		return EmailMessage{}, fmt.Errorf("failed to render recap text: %w", err)
	}

	return EmailMessage{
		Subject:  fmt.Sprintf("%s recap: %s", data.Group, data.Period),
		HTMLBody: htmlBody.String(),
		TextBody: textBody.String(),
	}, nil
}

// cleanName strips markup from user-supplied names. The templates escape
// again on output.
func cleanName(name string) string {
	return strings.TrimSpace(html.UnescapeString(namePolicy.Sanitize(name)))
}

func formatPeriod(c models.RecapChallenge) string {
	const layout = "Jan 2"
	if c.WeekStart.Year() != c.WeekEnd.Year() {
		return fmt.Sprintf("%s, %d to %s, %d", c.WeekStart.Format(layout), c.WeekStart.Year(), c.WeekEnd.Format(layout), c.WeekEnd.Year())
	}
	return fmt.Sprintf("%s to %s, %d", c.WeekStart.Format(layout), c.WeekEnd.Format(layout), c.WeekEnd.Year())
}
