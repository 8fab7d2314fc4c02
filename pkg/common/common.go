package common

// Page is one unit of raw document text as produced by a loader.
// PDF files yield one Page per physical page; Word documents yield a
// single Page holding the whole document. Pages are immutable once
// loaded and carry enough metadata to trace a chunk back to its origin.
type Page struct {
	Text       string `json:"text"`
	PageNumber int    `json:"page_number"`
	SourceFile string `json:"source_file"`
}

// Chunk is a contiguous text window cut from one or more Pages. It is
// the unit stored in the vector index and surfaced to retrieval.
//
// Index is assigned after noise filtering and is only stable within one
// processing run: whenever the chunk set changes the surviving chunks
// are renumbered 0..N-1.
type Chunk struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	SourceFile string `json:"source_file"`
	Page       int    `json:"page"`
	Index      int    `json:"chunk_index"`
}

// EntityRecord is the extraction output for one document: five named
// entity lists. The category set is closed, every consumer assumes
// exactly these five fields, so this is a fixed-shape struct rather
// than an open map.
//
// Lists may contain duplicates as returned by the model; the graph
// builder deduplicates per document after canonicalization, preserving
// first-seen order.
type EntityRecord struct {
	Keywords     []string `json:"keywords"`
	Methods      []string `json:"methods"`
	Fields       []string `json:"fields"`
	Datasets     []string `json:"datasets"`
	Applications []string `json:"applications"`
}

// Categories lists the entity categories in their fixed processing order.
var Categories = []string{"keywords", "methods", "fields", "datasets", "applications"}

// Category returns the named entity list. Unknown names return nil.
func (e *EntityRecord) Category(name string) []string {
	switch name {
	case "keywords":
		return e.Keywords
	case "methods":
		return e.Methods
	case "fields":
		return e.Fields
	case "datasets":
		return e.Datasets
	case "applications":
		return e.Applications
	}
	return nil
}

// SetCategory replaces the named entity list. Unknown names are ignored.
func (e *EntityRecord) SetCategory(name string, values []string) {
	switch name {
	case "keywords":
		e.Keywords = values
	case "methods":
		e.Methods = values
	case "fields":
		e.Fields = values
	case "datasets":
		e.Datasets = values
	case "applications":
		e.Applications = values
	}
}

// IsEmpty reports whether no category holds any entity.
func (e *EntityRecord) IsEmpty() bool {
	return len(e.Keywords) == 0 && len(e.Methods) == 0 && len(e.Fields) == 0 &&
		len(e.Datasets) == 0 && len(e.Applications) == 0
}
