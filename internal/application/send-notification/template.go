// internal/application/send-notification/template.go
package sendnotification

import (
	"html/template"
	"strings"

	"builder-network/internal/models"
	"builder-network/pkg/registry"
)

var emailTemplate = template.Must(template.New("application").Parse(`
<h1>New Builder Network Application</h1>

<h2>Company Information</h2>
<p><strong>Legal Business Name:</strong> {{.App.LegalBusinessName}}</p>
<p><strong>DBA:</strong> {{.DBA}}</p>
<p><strong>Years in Business:</strong> {{.App.YearsInBusiness}}</p>
<p><strong>Contractor's License:</strong> {{.App.ContractorLicense}}</p>
<p><strong>Federal Tax ID:</strong> {{.App.FederalTaxID}}</p>

<h2>Principal Contact</h2>
<p><strong>Name:</strong> {{.App.ContactName}}</p>
<p><strong>Title:</strong> {{.App.ContactTitle}}</p>
<p><strong>Phone:</strong> {{.App.ContactPhone}}</p>
<p><strong>Email:</strong> {{.App.ContactEmail}}</p>
<p><strong>Address:</strong> {{.App.BusinessAddress}}</p>
<p><strong>City/State/ZIP:</strong> {{.App.CityStateZip}}</p>

<h2>Business Profile</h2>
<p><strong>Full-Time Employees:</strong> {{.App.FullTimeEmployees}}</p>
<p><strong>Annual Revenue:</strong> {{.App.AnnualRevenue}}</p>
<p><strong>Projects Completed:</strong> {{.App.ProjectsCompleted}}</p>
<p><strong>Service Area:</strong> {{.App.ServiceArea}}</p>

<h2>Experience &amp; Expertise</h2>
<p><strong>Steel Frame Experience:</strong> {{.App.SteelFrameExperience}} years</p>
<p><strong>Barndominiums Completed:</strong> {{.App.BarndominiumsCompleted}}</p>
{{template "flags" .Expertise}}

<h2>Insurance</h2>
<p><strong>Liability Carrier:</strong> {{.App.LiabilityCarrier}}</p>
<p><strong>Liability Policy Number:</strong> {{.App.LiabilityPolicyNumber}}</p>
<p><strong>Liability Coverage:</strong> {{.App.LiabilityCoverage}}</p>
<p><strong>Workers' Comp Carrier:</strong> {{.App.WorkersCompCarrier}}</p>
<p><strong>Workers' Comp Policy:</strong> {{.App.WorkersCompPolicy}}</p>

<h2>Project History</h2>
{{range .Projects}}
<h3>Project {{.Number}}</h3>
<p><strong>Location:</strong> {{.Location}}</p>
<p><strong>Square Footage:</strong> {{.SquareFootage}}</p>
<p><strong>Completion Date:</strong> {{.CompletionDate}}</p>
<p><strong>Project Value:</strong> {{.ProjectValue}}</p>
<p><strong>Reference Contact:</strong> {{.ReferenceContact}}</p>
{{end}}

<h2>Building Standards</h2>
{{template "flags" .Standards}}

<h2>Additional Information</h2>
<p>{{.AdditionalInfo}}</p>

<p><strong>Database ID:</strong> {{.RecordID}}</p>
<p><em>Submitted at: {{.SubmittedAt}}</em></p>
{{define "flags"}}<p><strong>{{.Title}}:</strong> {{if .Selected}}{{.Selected}}{{else}}None selected{{end}}</p>{{end}}
`))

type emailView struct {
	App            *models.Application
	DBA            string
	Expertise      flagSection
	Standards      flagSection
	Projects       []projectView
	AdditionalInfo string
	RecordID       string
	SubmittedAt    string
}

type flagSection struct {
	Title    string
	Selected string
}

type projectView struct {
	Number int
	models.Project
}

func newEmailView(cat *registry.Catalog, app *models.Application, rec *models.Record) emailView {
	view := emailView{
		App:            app,
		DBA:            orDefault(app.DBA, "N/A"),
		Expertise:      newFlagSection(cat, registry.SectionExpertise, app.Expertise),
		Standards:      newFlagSection(cat, registry.SectionBuildingStandards, app.BuildingStandards),
		AdditionalInfo: orDefault(app.AdditionalInfo, "No additional information provided."),
	}
	for i, p := range app.Projects {
		view.Projects = append(view.Projects, projectView{Number: i + 1, Project: p})
	}
	if rec != nil {
		view.RecordID = rec.ID
		view.SubmittedAt = rec.SubmittedAt.Format(submittedAtLayout)
	}
	return view
}

func newFlagSection(cat *registry.Catalog, section string, flags map[string]bool) flagSection {
	return flagSection{
		Title:    cat.Title(section),
		Selected: strings.Join(cat.SelectedLabels(section, flags), ", "),
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
