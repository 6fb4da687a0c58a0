// internal/models/application.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"builder-network/pkg/registry"
)

const (
	ProjectSlots       = 3
	ReferenceSlots     = 3
	CertificationSlots = 3
)

// Application is the builder-network form as posted by the wizard.
type Application struct {
	LegalBusinessName string `json:"legalBusinessName"`
	DBA               string `json:"dba"`
	YearsInBusiness   string `json:"yearsInBusiness"`
	ContractorLicense string `json:"contractorLicense"`
	FederalTaxID      string `json:"federalTaxId"`

	ContactName     string `json:"contactName"`
	ContactTitle    string `json:"contactTitle"`
	ContactPhone    string `json:"contactPhone"`
	ContactEmail    string `json:"contactEmail"`
	BusinessAddress string `json:"businessAddress"`
	CityStateZip    string `json:"cityStateZip"`

	FullTimeEmployees string `json:"fullTimeEmployees"`
	AnnualRevenue     string `json:"annualRevenue"`
	ProjectsCompleted string `json:"projectsCompleted"`
	ServiceArea       string `json:"serviceArea"`

	SteelFrameExperience   string          `json:"steelFrameExperience"`
	BarndominiumsCompleted string          `json:"barndominiumsCompleted"`
	Expertise              map[string]bool `json:"expertise"`

	LiabilityCarrier      string `json:"liabilityCarrier"`
	LiabilityPolicyNumber string `json:"liabilityPolicyNumber"`
	LiabilityCoverage     string `json:"liabilityCoverage"`
	WorkersCompCarrier    string `json:"workersCompCarrier"`
	WorkersCompPolicy     string `json:"workersCompPolicy"`

	Projects          []Project       `json:"projects"`
	Certifications    []string        `json:"certifications"`
	BuildingStandards map[string]bool `json:"buildingStandards"`
	References        []Reference     `json:"references,omitempty"`

	AdditionalInfo string `json:"additionalInfo"`
}

type Project struct {
	Location         string `json:"location"`
	SquareFootage    Text   `json:"squareFootage"`
	CompletionDate   string `json:"completionDate"`
	ProjectValue     string `json:"projectValue"`
	ReferenceContact string `json:"referenceContact"`
}

type Reference struct {
	Name         string `json:"name"`
	Company      string `json:"company"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// Record is a persisted submission.
type Record struct {
	ID                string          `json:"id"`
	LegalBusinessName string          `json:"legalBusinessName"`
	ContactName       string          `json:"contactName"`
	ContactEmail      string          `json:"contactEmail"`
	Payload           json.RawMessage `json:"payload"`
	SubmittedAt       time.Time       `json:"submittedAt"`
}

// Text is free text that also accepts a bare JSON number.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*t = Text(n.String())
	return nil
}

// Float parses the text as a number, if it is one.
func (t Text) Float() (float64, bool) {
	f, err := strconv.ParseFloat(string(t), 64)
	return f, err == nil
}

// NewApplication returns an empty draft with every slot allocated and every flag off.
func NewApplication(cat *registry.Catalog) *Application {
	if cat == nil {
		cat = registry.Default()
	}
	app := &Application{
		Expertise:         make(map[string]bool),
		BuildingStandards: make(map[string]bool),
		Projects:          make([]Project, ProjectSlots),
		References:        make([]Reference, ReferenceSlots),
		Certifications:    make([]string, CertificationSlots),
	}
	for _, key := range cat.Keys(registry.SectionExpertise) {
		app.Expertise[key] = false
	}
	for _, key := range cat.Keys(registry.SectionBuildingStandards) {
		app.BuildingStandards[key] = false
	}
	return app
}

// Clone returns a deep copy.
func (a *Application) Clone() *Application {
	c := *a
	c.Expertise = cloneFlags(a.Expertise)
	c.BuildingStandards = cloneFlags(a.BuildingStandards)
	if a.Projects != nil {
		c.Projects = append([]Project(nil), a.Projects...)
	}
	if a.References != nil {
		c.References = append([]Reference(nil), a.References...)
	}
	if a.Certifications != nil {
		c.Certifications = append([]string(nil), a.Certifications...)
	}
	return &c
}

func cloneFlags(m map[string]bool) map[string]bool {
	if m == nil {
		return nil
	}
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Flags returns the flag map for a registry section id.
func (a *Application) Flags(section string) (map[string]bool, bool) {
	switch section {
	case registry.SectionExpertise:
		if a.Expertise == nil {
			a.Expertise = make(map[string]bool)
		}
		return a.Expertise, true
	case registry.SectionBuildingStandards:
		if a.BuildingStandards == nil {
			a.BuildingStandards = make(map[string]bool)
		}
		return a.BuildingStandards, true
	}
	return nil, false
}

// Field returns a pointer to the scalar field with the given JSON name.
func (a *Application) Field(name string) (*string, bool) {
	switch name {
	case "legalBusinessName":
		return &a.LegalBusinessName, true
	case "dba":
		return &a.DBA, true
	case "yearsInBusiness":
		return &a.YearsInBusiness, true
	case "contractorLicense":
		return &a.ContractorLicense, true
	case "federalTaxId":
		return &a.FederalTaxID, true
	case "contactName":
		return &a.ContactName, true
	case "contactTitle":
		return &a.ContactTitle, true
	case "contactPhone":
		return &a.ContactPhone, true
	case "contactEmail":
		return &a.ContactEmail, true
	case "businessAddress":
		return &a.BusinessAddress, true
	case "cityStateZip":
		return &a.CityStateZip, true
	case "fullTimeEmployees":
		return &a.FullTimeEmployees, true
	case "annualRevenue":
		return &a.AnnualRevenue, true
	case "projectsCompleted":
		return &a.ProjectsCompleted, true
	case "serviceArea":
		return &a.ServiceArea, true
	case "steelFrameExperience":
		return &a.SteelFrameExperience, true
	case "barndominiumsCompleted":
		return &a.BarndominiumsCompleted, true
	case "liabilityCarrier":
		return &a.LiabilityCarrier, true
	case "liabilityPolicyNumber":
		return &a.LiabilityPolicyNumber, true
	case "liabilityCoverage":
		return &a.LiabilityCoverage, true
	case "workersCompCarrier":
		return &a.WorkersCompCarrier, true
	case "workersCompPolicy":
		return &a.WorkersCompPolicy, true
	case "additionalInfo":
		return &a.AdditionalInfo, true
	}
	return nil, false
}

func (p *Project) Field(name string) (*string, bool) {
	switch name {
	case "location":
		return &p.Location, true
	case "squareFootage":
		return (*string)(&p.SquareFootage), true
	case "completionDate":
		return &p.CompletionDate, true
	case "projectValue":
		return &p.ProjectValue, true
	case "referenceContact":
		return &p.ReferenceContact, true
	}
	return nil, false
}

func (r *Reference) Field(name string) (*string, bool) {
	switch name {
	case "name":
		return &r.Name, true
	case "company":
		return &r.Company, true
	case "phone":
		return &r.Phone, true
	case "relationship":
		return &r.Relationship, true
	}
	return nil, false
}
