package elasticsearch

import (
	"strings"

	"github.com/sanavullashaik/salesFlow/internal/domain"
)

// Suggester weights. Product name suggestions outrank category suggestions.
const (
	nameSuggestWeight     = 10
	categorySuggestWeight = 5
)

// suggestField is a completion-suggester input attached to a document.
type suggestField struct {
	Input  []string `json:"input"`
	Weight int      `json:"weight"`
}

// document is the engine-specific representation of a product: the product
// fields plus the completion-suggester inputs derived from them.
type document struct {
	domain.Product
	NameSuggest     *suggestField `json:"name_suggest,omitempty"`
	CategorySuggest *suggestField `json:"category_suggest,omitempty"`
}

// newDocument builds the index document for a product. The name suggester is
// populated with the full name plus each word token so both full-name and
// per-word prefixes complete.
func newDocument(p *domain.Product) *document {
	doc := &document{Product: *p}

	if p.Name != "" {
		inputs := append([]string{p.Name}, strings.Fields(p.Name)...)
		doc.NameSuggest = &suggestField{Input: inputs, Weight: nameSuggestWeight}
	}
	if p.Category != "" {
		doc.CategorySuggest = &suggestField{Input: []string{p.Category}, Weight: categorySuggestWeight}
	}

	return doc
}
