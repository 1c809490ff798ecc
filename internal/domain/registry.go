package domain

// Program is one trial program of the task tracker.
type Program struct {
	Name              string
	ObservationTarget string
	// Active is set once a tractor is linked.
	Active      bool
	Tractors    []string
	Departments []string
	Reports     []int
}

// Tractor is one machine under trial, keyed by serial number.
type Tractor struct {
	Serial       string
	Model        string
	WarrantyDate string
	Programs     []string
	Reports      []int
}

// Department is a bureau owning programs.
type Department struct {
	Name     string
	Programs []string
}

// FieldReport is one field observation of a tractor under a program.
type FieldReport struct {
	ID             int
	Program        string
	Tractor        string
	Comment        string
	OperatingHours string
	DefectHours    string
	ReportTime     string
}

// RegistryStats summarizes a registry.
type RegistryStats struct {
	Programs             int
	ActivePrograms       int
	Tractors             int
	TractorsWithPrograms int
	Departments          int
	Reports              int
}
