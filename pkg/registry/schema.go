// pkg/registry/schema.go
package registry

const (
	SectionExpertise         = "expertise"
	SectionBuildingStandards = "buildingStandards"
)

type Catalog struct {
	Version     string    `json:"version"`
	LastUpdated string    `json:"lastUpdated"`
	Sections    []Section `json:"sections"`
}

type Section struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Options []Option `json:"options"`
}

type Option struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}
