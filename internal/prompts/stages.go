package prompts

// Stage bounds of the registry. Batch position i maps to stage FirstStage+i.
const (
	FirstStage = 3
	LastStage  = 9
)

// FallbackDescription is returned for stages outside the registry.
const FallbackDescription = "No description available for this stage."

// StageDescriptor pairs a stage number with its description.
type StageDescriptor struct {
	Stage       int    `json:"stage"`
	Description string `json:"description"`
}

var stageDescriptions = map[int]string{
	3: "Idea Sketch: the rough concept drawing that frames the problem, the target users and the core value of the service.",
	4: "Persona & Scenario: the primary user personas and the step-by-step scenarios in which they use the service.",
	5: "Information Architecture: the menu structure, screen inventory and navigation flow between screens.",
	6: "Wireframes: low-fidelity screen layouts showing the placement of content, inputs and actions.",
	7: "Feature Specification: the detailed behavior of each feature, including inputs, outputs and business rules.",
	8: "Prototype Review: the interactive prototype with reviewer feedback and the changes agreed for implementation.",
	9: "Launch Plan: the release checklist, schedule, operating policies and success metrics for launch.",
}

// Describe returns the description for stage, or FallbackDescription when
// the stage is outside FirstStage..LastStage.
func Describe(stage int) string {
	if d, ok := stageDescriptions[stage]; ok {
		return d
	}
	return FallbackDescription
}

// StageCount is the number of registered stages, which is also the
// required batch length.
func StageCount() int {
	return LastStage - FirstStage + 1
}

// Stages returns the registry in stage order.
func Stages() []StageDescriptor {
	out := make([]StageDescriptor, 0, StageCount())
	for s := FirstStage; s <= LastStage; s++ {
		out = append(out, StageDescriptor{Stage: s, Description: stageDescriptions[s]})
	}
	return out
}
