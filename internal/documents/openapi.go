package documents

import "github.com/JaimeStill/stapler/pkg/openapi"

var spec = struct {
	Process *openapi.Operation
	List    *openapi.Operation
	Find    *openapi.Operation
	Search  *openapi.Operation
	Schemas map[string]*openapi.Schema
}{
	Process: &openapi.Operation{
		Summary:     "Process a folder",
		Description: "Renders, enhances, and sequences every page in the folder, then resolves page ids through the optional mapping file.",
		RequestBody: openapi.RequestBodyJSON("ProcessCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Sequenced documents", "ProcessResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			502: openapi.ResponseRef("BadGateway"),
		},
	},
	List: &openapi.Operation{
		Summary: "List documents",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Match document id, type, or summary", false),
			openapi.QueryParam("sort", "string", "Sort fields", false),
			openapi.QueryParam("run_id", "string", "Owning run", false),
			openapi.QueryParam("document_type", "string", "Exact document type", false),
			openapi.QueryParam("document_id", "string", "Engine document id contains", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated documents", "DocumentPage"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find a document",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Document UUID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("The document", "Document"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Search: &openapi.Operation{
		Summary:     "Search documents",
		RequestBody: openapi.RequestBodyJSON("DocumentSearch", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Paginated documents", "DocumentPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"ProcessCommand": {
			Type:     "object",
			Required: []string{"folder_path"},
			Properties: map[string]*openapi.Schema{
				"folder_path":       {Type: "string", Description: "Absolute path of the folder to process"},
				"mapping_file_path": {Type: "string", Description: "Optional JSON file mapping random to original filenames"},
			},
		},
		"SequencedDocument": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"document_id":      {Type: "string"},
				"document_type":    {Type: "string"},
				"document_summary": {Type: "string"},
				"pages":            {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"page_ids":         {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"reasoning":        {Type: "string"},
				"confidence_score": {Type: "number"},
			},
		},
		"ProcessResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"request_id":          {Type: "string"},
				"run_id":              {Type: "string", Format: "uuid"},
				"documents":           {Type: "array", Items: openapi.SchemaRef("SequencedDocument")},
				"processing_metadata": {Type: "object"},
			},
		},
		"Document": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "string", Format: "uuid"},
				"run_id":           {Type: "string", Format: "uuid"},
				"position":         {Type: "integer"},
				"document_id":      {Type: "string"},
				"document_type":    {Type: "string"},
				"document_summary": {Type: "string"},
				"reasoning":        {Type: "string"},
				"confidence_score": {Type: "number"},
				"pages": {Type: "array", Items: &openapi.Schema{
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"page_id":           {Type: "string"},
						"original_filename": {Type: "string"},
					},
				}},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
		"DocumentPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Document")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"DocumentSearch": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"page":          {Type: "integer"},
				"page_size":     {Type: "integer"},
				"search":        {Type: "string"},
				"sort":          {Type: "string"},
				"run_id":        {Type: "string", Format: "uuid"},
				"document_type": {Type: "string"},
				"document_id":   {Type: "string"},
			},
		},
	},
}
