package workflow

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"
)

const sectionSeparator = "\n\n"

// singleLine keeps a stub message inside its one-line alert block.
var singleLine = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// errorStub renders the section that replaces a failed stage.
func errorStub(stage int, loc, message string) string {
	md := markdown.NewMarkdown(io.Discard)
	md.H2(fmt.Sprintf("Stage %d", stage))
	md.PlainText("")
	md.Cautionf("Failed to process image %s: %s", loc, singleLine.Replace(message))
	return md.String()
}

// stubMessage returns the text embedded in an error stub. When exposure is
// off only the failure category is shown.
func stubMessage(err *StageError, expose bool) string {
	if expose {
		return err.Err.Error()
	}
	if c := err.Category(); c != nil {
		return c.Error()
	}
	return "processing failed"
}

func combine(results []StageResult) string {
	sections := make([]string, len(results))
	for i, r := range results {
		sections[i] = r.Markdown
	}
	return strings.Join(sections, sectionSeparator)
}

// compose appends the aggregation sections that were produced, in fixed
// order, after the combined stage sections.
func compose(combined string, plan, requirements *string) string {
	md := markdown.NewMarkdown(io.Discard)
	md.PlainText(combined)

	if plan != nil {
		md.PlainText("")
		md.H2(HeadingPlan)
		md.PlainText("")
		md.PlainText(*plan)
	}

	if requirements != nil {
		md.PlainText("")
		md.H2(HeadingRequirements)
		md.PlainText("")
		md.PlainText(*requirements)
	}

	return md.String()
}
