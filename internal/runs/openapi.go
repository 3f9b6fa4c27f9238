package runs

import "github.com/JaimeStill/stapler/pkg/openapi"

var spec = struct {
	List    *openapi.Operation
	Find    *openapi.Operation
	Search  *openapi.Operation
	Delete  *openapi.Operation
	Page    *openapi.Operation
	Schemas map[string]*openapi.Schema
}{
	List: &openapi.Operation{
		Summary: "List runs",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Match folder path or request id", false),
			openapi.QueryParam("sort", "string", "Sort fields", false),
			openapi.QueryParam("status", "string", "complete or failed", false),
			openapi.QueryParam("request_id", "string", "Exact request id", false),
			openapi.QueryParam("folder_path", "string", "Folder path contains", false),
			openapi.QueryParam("model_name", "string", "Engine model", false),
			openapi.QueryParam("started_after", "string", "RFC 3339 lower bound", false),
			openapi.QueryParam("started_before", "string", "RFC 3339 upper bound", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated runs", "RunPage"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find a run",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Run UUID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("The run", "Run"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search runs",
		RequestBody: openapi.RequestBodyJSON("RunSearch", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated runs", "RunPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete a run",
		Description: "Removes the run, its documents, and its archived page images.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Run UUID")},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Page: &openapi.Operation{
		Summary: "Download an archived page image",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Run UUID"),
			openapi.PathParam("position", "1-based manifest position"),
		},
		Responses: map[int]*openapi.Response{
			200: {Description: "Page image bytes"},
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"RunPageImage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"position":    {Type: "integer"},
				"page_id":     {Type: "string"},
				"storage_key": {Type: "string"},
				"origin":      {Type: "string", Enum: []any{"DIGITAL", "SCANNED"}},
				"mime_type":   {Type: "string"},
			},
		},
		"Run": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "string", Format: "uuid"},
				"request_id":       {Type: "string"},
				"folder_path":      {Type: "string"},
				"mapping_path":     {Type: "string"},
				"status":           {Type: "string", Enum: []any{"complete", "failed"}},
				"file_count":       {Type: "integer"},
				"page_count":       {Type: "integer"},
				"document_count":   {Type: "integer"},
				"unresolved_count": {Type: "integer"},
				"outcomes":         {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"pages":            {Type: "array", Items: openapi.SchemaRef("RunPageImage")},
				"model_name":       {Type: "string"},
				"provider_name":    {Type: "string"},
				"error":            {Type: "string"},
				"started_at":       {Type: "string", Format: "date-time"},
				"completed_at":     {Type: "string", Format: "date-time"},
			},
		},
		"RunPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Run")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"RunSearch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":           {Type: "integer"},
				"page_size":      {Type: "integer"},
				"search":         {Type: "string"},
				"sort":           {Type: "string"},
				"status":         {Type: "string"},
				"request_id":     {Type: "string"},
				"folder_path":    {Type: "string"},
				"model_name":     {Type: "string"},
				"started_after":  {Type: "string", Format: "date-time"},
				"started_before": {Type: "string", Format: "date-time"},
			},
		},
	},
}
