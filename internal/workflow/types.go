package workflow

const (
	KeyLocators     = "locators"
	KeyAggregation  = "aggregation"
	KeyStageResults = "stage_results"
	KeyCombined     = "combined_markdown"
	KeyPlan         = "plan"
	KeyRequirements = "requirements"
	KeyResult       = "result"
)

// Section headings of the composite document.
const (
	HeadingPlan         = "Project Plan"
	HeadingRequirements = "Requirements Specification"
)

// StageResult is the outcome of processing one image. Markdown holds the
// generated section on success and an error stub on failure.
type StageResult struct {
	Stage    int         `json:"stage"`
	Locator  string      `json:"locator"`
	Markdown string      `json:"markdown"`
	Success  bool        `json:"success"`
	Err      *StageError `json:"-"`
}

// Result is the composite output of a batch run. Stages preserves input order.
type Result struct {
	Markdown     string        `json:"result"`
	Stages       []StageResult `json:"stages"`
	Plan         string        `json:"plan,omitempty"`
	Requirements string        `json:"requirements,omitempty"`
}

// Succeeded returns the number of successful stages.
func (r *Result) Succeeded() int {
	n := 0
	for _, s := range r.Stages {
		if s.Success {
			n++
		}
	}
	return n
}

// ImageAnalysis is the output of single-image analysis.
type ImageAnalysis struct {
	ExtractedText string `json:"extracted_text"`
	Description   string `json:"description"`
}
