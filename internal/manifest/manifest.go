// Package manifest assembles a folder of scanned artifacts into an ordered
// manifest of enhanced page images.
package manifest

import (
	"fmt"

	"github.com/JaimeStill/stapler/pkg/rasterize"
)

// PageRecord is one physical page produced from one input file.
type PageRecord struct {
	SourceFilename string           `json:"source_filename"`
	PageIndex      int              `json:"page_index"`
	PageID         string           `json:"page_id"`
	Origin         rasterize.Origin `json:"origin_classification"`
	MimeType       string           `json:"mime_type"`
	Image          []byte           `json:"-"`
}

// PageID returns the manifest identifier of a page within filename.
func PageID(filename string, index int) string {
	return fmt.Sprintf("%s_page_%d", filename, index)
}

// Status is the result of processing one file.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// FileOutcome records what happened to one regular file in the folder.
type FileOutcome struct {
	Filename     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	Status       Status `json:"status"`
	Reason       string `json:"reason,omitempty"`
	PageCount    int    `json:"page_count"`
	SkippedPages []int  `json:"skipped_pages,omitempty"`
}

// Manifest is the ordered output of a folder build. Pages are sorted by
// source filename, then page index. Files holds one outcome per regular
// file in filename order.
type Manifest struct {
	Folder string        `json:"folder"`
	Pages  []PageRecord  `json:"pages"`
	Files  []FileOutcome `json:"files"`
}

func (m *Manifest) Empty() bool {
	return len(m.Pages) == 0
}

func (m *Manifest) PageIDs() []string {
	ids := make([]string, len(m.Pages))
	for i, p := range m.Pages {
		ids[i] = p.PageID
	}
	return ids
}

// Count returns the number of outcomes with status s.
func (m *Manifest) Count(s Status) int {
	n := 0
	for _, f := range m.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}
