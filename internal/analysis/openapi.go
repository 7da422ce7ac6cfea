package analysis

import (
	"maps"

	"github.com/JaimeStill/stagedoc/internal/prompts"
	"github.com/JaimeStill/stagedoc/pkg/openapi"
)

var errorResponses = map[int]*openapi.Response{
	400: openapi.ResponseRef("BadRequest"),
	404: openapi.ResponseRef("NotFound"),
	413: openapi.ResponseRef("PayloadTooLarge"),
	500: openapi.ResponseRef("InternalError"),
}

func withErrors(ok *openapi.Response) map[int]*openapi.Response {
	out := map[int]*openapi.Response{200: ok}
	maps.Copy(out, errorResponses)
	return out
}

// Paths describes the analysis routes relative to the API base path.
func Paths() map[string]*openapi.PathItem {
	return map[string]*openapi.PathItem{
		"/analysis/image": {
			Post: &openapi.Operation{
				Summary:     "Analyze one image",
				Description: "Fetch an image by locator or by container and key, extract its text and generate a description.",
				Tags:        []string{"analysis"},
				RequestBody: openapi.RequestBodyJSON("ImageRequest", true),
				Responses:   withErrors(openapi.ResponseJSON("Extracted text and description", "ImageAnalysis")),
			},
		},
		"/analysis/batch": {
			Post: &openapi.Operation{
				Summary:     "Run the staged pipeline",
				Description: "Analyze one image per stage in order and compose a single markdown document.",
				Tags:        []string{"analysis"},
				RequestBody: openapi.RequestBodyJSON("BatchRequest", true),
				Responses:   withErrors(openapi.ResponseJSON("Composite document", "BatchResult")),
			},
		},
		"/analysis/stages": {
			Get: &openapi.Operation{
				Summary: "List the stage registry",
				Tags:    []string{"analysis"},
				Responses: map[int]*openapi.Response{
					200: {
						Description: "Stages in order",
						Content: map[string]*openapi.MediaType{
							"application/json": {
								Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("StageDescriptor")},
							},
						},
					},
				},
			},
		},
	}
}

// Schemas returns the component schemas referenced by Paths.
func Schemas() map[string]*openapi.Schema {
	count := prompts.StageCount()

	return map[string]*openapi.Schema{
		"ImageRequest": {
			Type:        "object",
			Description: "Either locator, or container and key.",
			Properties: map[string]*openapi.Schema{
				"locator":   {Type: "string", Description: "Object locator URL", Example: "s3://boards/stage3.png"},
				"container": {Type: "string", Description: "Bucket or container name"},
				"key":       {Type: "string", Description: "Object key within the container"},
			},
		},
		"ImageAnalysis": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"extracted_text": {Type: "string"},
				"description":    {Type: "string"},
			},
		},
		"BatchRequest": {
			Type:     "object",
			Required: []string{"locators"},
			Properties: map[string]*openapi.Schema{
				"locators": {
					Type:        "array",
					Description: "One locator per stage, in stage order.",
					Items:       &openapi.Schema{Type: "string"},
					MinItems:    &count,
					MaxItems:    &count,
				},
			},
		},
		"StageSummary": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stage":   {Type: "integer"},
				"locator": {Type: "string"},
				"success": {Type: "boolean"},
			},
		},
		"BatchResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"request_id": {Type: "string", Format: "uuid"},
				"result":     {Type: "string", Description: "Composite markdown document"},
				"stages":     {Type: "array", Items: openapi.SchemaRef("StageSummary")},
			},
		},
		"StageDescriptor": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"stage":       {Type: "integer"},
				"description": {Type: "string"},
			},
		},
	}
}
