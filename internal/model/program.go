package model

// ProgramStatus is the display state of a charity program.
type ProgramStatus string

const (
	ProgramActive     ProgramStatus = "ACTIVE"
	ProgramComingSoon ProgramStatus = "COMING_SOON"
	ProgramCompleted  ProgramStatus = "COMPLETED"
)

// Program is a charity initiative, e.g. a weekly food-sharing batch.
type Program struct {
	ID          string        `json:"id" yaml:"id"`
	Title       string        `json:"title" yaml:"title"`
	Batch       string        `json:"batch" yaml:"batch"`
	Status      ProgramStatus `json:"status" yaml:"status"`
	Description string        `json:"description" yaml:"description"`
	Image       string        `json:"image" yaml:"image"`
	Link        string        `json:"link,omitempty" yaml:"link,omitempty"`
}

// MapLocation is a distribution point shown on the map page.
type MapLocation struct {
	ID           string  `json:"id" yaml:"id"`
	Title        string  `json:"title" yaml:"title"`
	Lat          float64 `json:"lat" yaml:"lat"`
	Lng          float64 `json:"lng" yaml:"lng"`
	Description  string  `json:"description" yaml:"description"`
	ProgramBatch string  `json:"programBatch" yaml:"program_batch"`
}
