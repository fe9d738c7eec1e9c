package email

import (
	"bytes"
	"fmt"
	"html/template"
)

type leadAssignedData struct {
	LeadName  string
	Territory string
	Reason    string
}

type staleLeadData struct {
	LeadName  string
	IdleHours int
}

type stageChangedData struct {
	LeadName  string
	FromStage string
	ToStage   string
}

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "lead_assigned"}}
<html><body>
<h2>New lead assigned</h2>
<p><strong>{{.LeadName}}</strong> ({{.Territory}}) has been routed to you.</p>
<p>Routing decision: {{.Reason}}</p>
<p>Reach out within one business day to keep the lead warm.</p>
</body></html>
{{end}}

{{define "stale_lead"}}
<html><body>
<h2>Lead going cold</h2>
<p><strong>{{.LeadName}}</strong> has been sitting in contacted for {{.IdleHours}} hours without movement.</p>
<p>Consider a follow-up call or moving the lead to lost.</p>
</body></html>
{{end}}

{{define "stage_changed"}}
<html><body>
<h2>Lead stage update</h2>
<p><strong>{{.LeadName}}</strong> moved from {{.FromStage}} to {{.ToStage}}.</p>
</body></html>
{{end}}
`))

func renderTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}
	return buf.String(), nil
}
