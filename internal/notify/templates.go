package notify

import (
	"context"
	"html/template"

	"socialdesk/internal/domain"
)

var funcs = template.FuncMap{
	"date": func(v any) string {
		switch t := v.(type) {
		case interface{ Format(string) string }:
			return t.Format("2006-01-02")
		default:
			return ""
		}
	},
}

var bookingTemplate = template.Must(template.New("booking").Funcs(funcs).Parse(`
<h2>New booking</h2>
<table>
<tr><td>Name</td><td>{{.FullName}}</td></tr>
<tr><td>Email</td><td>{{.Email}}</td></tr>
<tr><td>Phone</td><td>{{.PhoneNumber}}</td></tr>
<tr><td>Platform</td><td>{{.Platform}}</td></tr>
<tr><td>Service</td><td>{{.ServiceType}}</td></tr>
<tr><td>Date</td><td>{{date .AppointmentDate}} {{.AppointmentTime}}</td></tr>
</table>
{{with .AdditionalNotes}}<p>{{.}}</p>{{end}}
`))

var reportTemplate = template.Must(template.New("report").Funcs(funcs).Parse(`
<h2>New fake account report</h2>
<p>Reported account: <b>{{.FakeAccount.Username}}</b> on {{.FakeAccount.Platform}}</p>
{{with .FakeAccount.AccountLink}}<p>{{.}}</p>{{end}}
{{with .FakeAccount.Description}}<p>{{.}}</p>{{end}}
<p>Reporter: {{.PersonalInfo.FirstName}} {{.PersonalInfo.LastName}} ({{.PersonalInfo.Occupation}})</p>
<p>Attachments: {{len .Attachments}}</p>
`))

var recoveryTemplate = template.Must(template.New("recovery").Funcs(funcs).Parse(`
<h2>New account recovery request</h2>
<table>
<tr><td>Platform</td><td>{{.Platform}}</td></tr>
<tr><td>Username</td><td>{{.Username}}</td></tr>
<tr><td>Full name</td><td>{{.FullName}}</td></tr>
<tr><td>Email</td><td>{{.Email}}</td></tr>
<tr><td>Phone</td><td>{{.PhoneNumber}}</td></tr>
</table>
<p>Identity documents: {{len .IdentityDocuments}}</p>
`))

func (d *Dispatcher) BookingCreated(ctx context.Context, b *domain.Booking) {
	d.Notify(ctx, "New booking: "+b.FullName, bookingTemplate, b)
}

func (d *Dispatcher) ReportCreated(ctx context.Context, r *domain.Report) {
	d.Notify(ctx, "New report: "+r.FakeAccount.Username, reportTemplate, r)
}

func (d *Dispatcher) RecoveryCreated(ctx context.Context, a *domain.AccountRecovery) {
	d.Notify(ctx, "New account recovery: "+a.Username, recoveryTemplate, a)
}
