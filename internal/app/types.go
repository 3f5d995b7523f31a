package app

type GenerateRequest struct {
	Workspace     string
	Destination   string
	Packages      []string
	Skip          []string
	ResumeAt      string
	Remote        bool
	OverridesPath string
	Layout        string
	Prefix        string
	Jobs          int
}

type GenerateResult struct {
	Generated []string
	Bundled   []string
	Excluded  []string
	Committed []string
	// Lookups is the number of distinct resolver queries made.
	Lookups int
}
