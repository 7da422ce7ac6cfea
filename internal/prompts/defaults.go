package prompts

// Template names.
const (
	NameImage        = "image"
	NamePlan         = "plan"
	NameRequirements = "requirements"
	NameDescribe     = "describe"
)

// Template variables.
const (
	VarStageNumber      = "stage_number"
	VarStageDescription = "stage_description"
	VarExtractedText    = "extracted_text"
	VarImageLocator     = "image_locator"
	VarCombinedMarkdown = "combined_markdown"
)

const imageTemplate = `You are documenting one stage of a product planning process from a scanned planning board.

Stage {{.stage_number}}: {{.stage_description}}
Source image: {{.image_locator}}

The following text was extracted from the image by OCR and may contain recognition errors:

{{.extracted_text}}

Write a markdown section for this stage:
- Start with a level-2 heading "Stage {{.stage_number}}" followed by the stage name
- Summarize what the board communicates in the context of the stage description
- List the concrete items (features, screens, users, decisions) the text mentions
- Note any text that is unreadable or ambiguous instead of guessing
- Respond with markdown only, no code fencing`

const planTemplate = `You are a product manager consolidating stage documents into a project plan.

The documents below describe stages 3 through 9 of a product planning process. Some stages may
contain an error notice instead of content; treat those stages as missing information.

{{.combined_markdown}}

Write a project plan in markdown covering:
- Goals and scope of the project
- Milestones ordered by stage, each with deliverables
- Risks and open questions, including any missing stages
- Respond with markdown only, no code fencing and no top-level heading`

const requirementsTemplate = `You are a systems analyst writing a requirements specification from stage documents.

The documents below describe stages 3 through 9 of a product planning process. Some stages may
contain an error notice instead of content; do not invent requirements for those stages.

{{.combined_markdown}}

Write a requirements specification in markdown covering:
- Functional requirements, numbered (FR-1, FR-2, ...) and traced to the stage they come from
- Non-functional requirements (performance, security, availability) where the documents imply them
- Screens and user flows referenced by the requirements
- Respond with markdown only, no code fencing and no top-level heading`

const describeTemplate = `The following text was extracted from an image:

{{.extracted_text}}

Based on this text, write a markdown document that describes the image. Respond with markdown only, no code fencing.`

type definition struct {
	text     string
	required []string
}

var definitions = map[string]definition{
	NameImage: {
		text:     imageTemplate,
		required: []string{VarStageNumber, VarStageDescription, VarExtractedText, VarImageLocator},
	},
	NamePlan: {
		text:     planTemplate,
		required: []string{VarCombinedMarkdown},
	},
	NameRequirements: {
		text:     requirementsTemplate,
		required: []string{VarCombinedMarkdown},
	},
	NameDescribe: {
		text:     describeTemplate,
		required: []string{VarExtractedText},
	},
}
