package prompts

import "github.com/JaimeStill/stapler/pkg/openapi"

var spec = struct {
	List       *openapi.Operation
	Sections   *openapi.Operation
	Spec       *openapi.Operation
	Compose    *openapi.Operation
	Find       *openapi.Operation
	Content    *openapi.Operation
	Create     *openapi.Operation
	Update     *openapi.Operation
	Delete     *openapi.Operation
	Search     *openapi.Operation
	Activate   *openapi.Operation
	Deactivate *openapi.Operation
	Schemas    map[string]*openapi.Schema
}{
	List: &openapi.Operation{
		Summary: "List prompt overrides",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Match name or content", false),
			openapi.QueryParam("sort", "string", "Sort fields", false),
			openapi.QueryParam("section", "string", "instructions or domain", false),
			openapi.QueryParam("name", "string", "Name contains", false),
			openapi.QueryParam("active", "boolean", "Active flag", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated prompts", "PromptPage"),
		},
	},
	Sections: &openapi.Operation{
		Summary: "List tunable sections",
		Responses: map[int]*openapi.Response{
			200: {Description: "Section names"},
		},
	},
	Spec: &openapi.Operation{
		Summary: "Show the fixed output specification",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Output specification", "SectionContent"),
		},
	},
	Compose: &openapi.Operation{
		Summary:     "Compose the effective prompt",
		Description: "Returns the prompt the next run sends to the sequencing engine.",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Composed prompt", "ComposedPrompt"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find a prompt override",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt UUID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("The prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Content: &openapi.Operation{
		Summary:    "Effective section content",
		Parameters: []*openapi.Parameter{openapi.PathParam("section", "instructions or domain")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Section content", "SectionContent"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Create a prompt override",
		RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Update: &openapi.Operation{
		Summary:     "Update a prompt override",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Prompt UUID")},
		RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
	Delete: &openapi.Operation{
		Summary:    "Delete a prompt override",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt UUID")},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search prompt overrides",
		RequestBody: openapi.RequestBodyJSON("PromptSearch", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated prompts", "PromptPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Activate: &openapi.Operation{
		Summary:    "Activate a prompt override",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt UUID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Activated prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Deactivate: &openapi.Operation{
		Summary:    "Deactivate a prompt override",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Prompt UUID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Deactivated prompt", "Prompt"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Prompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"name":        {Type: "string"},
				"section":     {Type: "string", Enum: []any{"instructions", "domain"}},
				"content":     {Type: "string"},
				"description": {Type: "string"},
				"active":      {Type: "boolean"},
			},
		},
		"PromptCommand": {
			Type:     "object",
			Required: []string{"name", "section", "content"},
			Properties: map[string]*openapi.Schema{
				"name":        {Type: "string"},
				"section":     {Type: "string", Enum: []any{"instructions", "domain"}},
				"content":     {Type: "string"},
				"description": {Type: "string"},
			},
		},
		"PromptPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Prompt")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"PromptSearch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":      {Type: "integer"},
				"page_size": {Type: "integer"},
				"search":    {Type: "string"},
				"sort":      {Type: "string"},
				"section":   {Type: "string"},
				"name":      {Type: "string"},
				"active":    {Type: "boolean"},
			},
		},
		"SectionContent": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"section": {Type: "string"},
				"content": {Type: "string"},
			},
		},
		"ComposedPrompt": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"prompt": {Type: "string"},
			},
		},
	},
}
