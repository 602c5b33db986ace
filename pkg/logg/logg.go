package logg

// Structured field keys shared by every layer.
const (
	Layer      = "layer"
	Operation  = "operation"
	RunID      = "run_id"
	SpecName   = "spec_name"
	Step       = "step"
	Action     = "action"
	Path       = "path"
	URL        = "url"
	Query      = "query"
	Candidates = "candidates"
)
