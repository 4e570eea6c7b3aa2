package scan

// State accumulates the results of each stage. Finalization reads only from State,
// so every value the report needs must be recorded here by the stage that computes it.
type State struct {
	Website            string
	DNSInfo            string
	HTTPS              bool
	HTTPSChecked       bool
	OpenAdminPages     []string
	AdminPathsChecked  bool
	SensitiveInfoFound bool
	SensitiveChecked   bool
	Findings           []Finding
}

// NewState starts an empty accumulation for website
func NewState(website string) *State {
	return &State{
		Website:  website,
		Findings: make([]Finding, 0, len(StageOrder)),
	}
}

// Record appends a stage finding
func (s *State) Record(f Finding) {
	s.Findings = append(s.Findings, f)
}

// Risk is the most severe risk recorded so far
func (s *State) Risk() RiskLevel {
	risk := RiskLow
	for _, f := range s.Findings {
		risk = risk.Max(f.Risk)
	}
	return risk
}

// Complete reports whether every pre-finalization stage has run
func (s *State) Complete() bool {
	return s.DNSInfo != "" && s.HTTPSChecked && s.AdminPathsChecked && s.SensitiveChecked
}

// HTTPSCheck returns the recorded HTTPS message
func (s *State) HTTPSCheck() string {
	return HTTPSCheck(s.HTTPS)
}

// OpenAdminPagesSummary returns the recorded admin-path message
func (s *State) OpenAdminPagesSummary() string {
	return OpenAdminPagesSummary(s.OpenAdminPages)
}

// SensitiveInfoSummary returns the recorded sensitive-info message
func (s *State) SensitiveInfoSummary() string {
	return SensitiveInfoSummary(s.SensitiveInfoFound)
}
