package prompts

// OutputSpec is the fixed response contract appended to every prompt.
const OutputSpec = `Output format:
Respond with a single JSON object matching this exact structure:

{
  "documents": [
    {
      "document_id": "<short unique identifier for the document>",
      "document_type": "<one category from the domain context>",
      "document_summary": "<summary drawn from every page of the document>",
      "pages": ["<document_page_image_filename>", "..."],
      "reasoning": "<why these pages belong together in this order>",
      "confidence_score": 0.0
    }
  ]
}

Field constraints:
- pages: page filenames exactly as they appear in the image manifest, in reading order.
- Every manifest filename appears in exactly one document.
- confidence_score: a number between 0 and 1.

Behavioral constraints:
- Respond with valid JSON only. Do not add commentary before or after the object.`

// Compose assembles a complete prompt from section content and the output
// specification.
func Compose(instructions, domain string) string {
	return instructions + "\n\n" + domain + "\n\n" + OutputSpec
}
