package openapi

import "maps"

var errorBody = map[string]*MediaType{
	"application/json": {Schema: SchemaRef("ErrorResponse")},
}

// NewComponents creates Components with the shared error schema and the
// error responses every handler can produce.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"ErrorResponse": {
				Type: "object",
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
				Required: []string{"error"},
			},
		},
		Responses: map[string]*Response{
			"BadRequest": {
				Description: "Invalid request",
				Content:     errorBody,
			},
			"NotFound": {
				Description: "Referenced object not found",
				Content:     errorBody,
			},
			"PayloadTooLarge": {
				Description: "Request body exceeds the configured limit",
				Content:     errorBody,
			},
			"InternalError": {
				Description: "Processing failed",
				Content:     errorBody,
			},
		},
	}
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
