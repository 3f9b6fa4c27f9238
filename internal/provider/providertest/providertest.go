// Package providertest supplies a scripted Provider for tests.
package providertest

import (
	"context"
	"strings"
	"sync"

	"github.com/JaimeStill/stapler/internal/provider"
)

// Fake answers Sequence with Group applied to the request. A nil Group puts
// every page into a single document. Err, when set, is returned instead.
type Fake struct {
	Group func(req provider.Request) []provider.Document
	Err   error

	mu    sync.Mutex
	calls []provider.Request
}

// Sequence records req and returns the scripted grouping.
func (f *Fake) Sequence(ctx context.Context, req provider.Request) (*provider.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}

	var docs []provider.Document
	if f.Group != nil {
		docs = f.Group(req)
	} else {
		docs = []provider.Document{{
			DocumentID:   "doc-1",
			DocumentType: "INVOICE",
			Pages:        req.IDs(),
		}}
	}

	res := provider.Validate(docs, req.IDs())
	res.Model = "fake"
	return res, nil
}

// Calls returns the requests received so far.
func (f *Fake) Calls() []provider.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]provider.Request(nil), f.calls...)
}

// PerFile groups pages by their source prefix, one document per distinct
// prefix before the "_page_" marker, preserving request order.
func PerFile(req provider.Request) []provider.Document {
	var docs []provider.Document
	index := make(map[string]int)

	for _, id := range req.IDs() {
		key, _, _ := strings.Cut(id, "_page_")

		n, ok := index[key]
		if !ok {
			n = len(docs)
			index[key] = n
			docs = append(docs, provider.Document{DocumentID: key, DocumentType: "INVOICE"})
		}
		docs[n].Pages = append(docs[n].Pages, id)
	}

	return docs
}
