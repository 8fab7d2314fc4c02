// Package graph builds and queries the document-entity knowledge
// graph. Documents and extracted entities are nodes; typed, weighted
// edges connect a document to each of its entities. Entity surface
// forms are canonicalized before insertion so variants of one name
// share a single node.
package graph

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/papermind-ai/papermind/pkg/common"
	"github.com/papermind-ai/papermind/pkg/logger"
)

// Node types.
const (
	NodeDocument    = "document"
	NodeKeyword     = "keyword"
	NodeMethod      = "method"
	NodeDataset     = "dataset"
	NodeField       = "field"
	NodeApplication = "application"
)

// Edge types.
const (
	EdgeContainsKeyword = "CONTAINS_KEYWORD"
	EdgeUsesMethod      = "USES_METHOD"
	EdgeUsesDataset     = "USES_DATASET"
	EdgeBelongsToField  = "BELONGS_TO_FIELD"
	EdgeHasApplication  = "HAS_APPLICATION"
)

type Node struct {
	ID       string `json:"id"`
	NodeType string `json:"node_type"`
	Label    string `json:"label"`
	Title    string `json:"title"`
}

type Edge struct {
	Source   string  `json:"source"`
	Target   string  `json:"target"`
	EdgeType string  `json:"edge_type"`
	Weight   float64 `json:"weight"`
}

// relation fixes the node type, edge type and edge weight for one
// entity category.
type relation struct {
	nodeType string
	edgeType string
	weight   float64
	icon     string
}

var relations = map[string]relation{
	"keywords":     {NodeKeyword, EdgeContainsKeyword, 1.0, "🏷️"},
	"methods":      {NodeMethod, EdgeUsesMethod, 1.5, "⚙️"},
	"datasets":     {NodeDataset, EdgeUsesDataset, 1.2, "📊"},
	"fields":       {NodeField, EdgeBelongsToField, 1.3, "📖"},
	"applications": {NodeApplication, EdgeHasApplication, 1.1, "💻"},
}

// Builder accumulates the knowledge graph for one analysis session.
// All methods serialize on an internal mutex because canonical-form
// registration is a read-modify-write operation.
type Builder struct {
	mu sync.Mutex

	nodes     map[string]*Node
	nodeOrder []string
	edges     []*Edge
	neighbors map[string]map[string]*Edge

	documentEntities map[string]*common.EntityRecord
	entityCounts     map[string]map[string]int
	canonical        *canonicalRegistry
}

func NewBuilder() *Builder {
	b := &Builder{}
	b.reset()
	return b
}

func (b *Builder) reset() {
	b.nodes = map[string]*Node{}
	b.nodeOrder = nil
	b.edges = nil
	b.neighbors = map[string]map[string]*Edge{}
	b.documentEntities = map[string]*common.EntityRecord{}
	b.entityCounts = map[string]map[string]int{}
	for _, category := range common.Categories {
		b.entityCounts[category] = map[string]int{}
	}
	b.canonical = newCanonicalRegistry()
}

// DocumentID derives the node identity for a document: path and
// extension stripped.
func DocumentID(docName string) string {
	base := filepath.Base(docName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// AddDocument normalizes and deduplicates the extracted entities, then
// upserts the document node, its entity nodes and one typed edge per
// (document, entity) pair. Per-category frequency counters are bumped
// for every mention.
func (b *Builder) AddDocument(docName string, entities *common.EntityRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()

	docID := DocumentID(docName)
	b.insertDocument(docID, entities)

	logger.Info("[Graph] Document added",
		"document", docID, "nodes", len(b.nodes), "edges", len(b.edges))
}

func (b *Builder) insertDocument(docID string, entities *common.EntityRecord) {
	normalized := b.normalizeRecord(entities)
	b.documentEntities[docID] = normalized

	b.upsertNode(&Node{
		ID:       docID,
		NodeType: NodeDocument,
		Label:    docID,
		Title:    "📄 " + docID,
	})

	for _, category := range common.Categories {
		rel := relations[category]
		for _, entity := range normalized.Category(category) {
			b.upsertNode(&Node{
				ID:       entity,
				NodeType: rel.nodeType,
				Label:    entity,
				Title:    rel.icon + " " + entity,
			})
			b.addEdge(docID, entity, rel.edgeType, rel.weight)
			b.entityCounts[category][entity]++
		}
	}
}

// RemoveDocument deletes a document and rebuilds the graph from the
// remaining records. Entity nodes, counters and the canonical registry
// are shared across documents, so a rebuild is the only way to drop
// exactly the state the removed document contributed. Returns false if
// the document is unknown.
func (b *Builder) RemoveDocument(docName string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	docID := DocumentID(docName)
	if _, ok := b.documentEntities[docID]; !ok {
		return false
	}
	delete(b.documentEntities, docID)

	remaining := b.documentEntities
	b.reset()

	names := make([]string, 0, len(remaining))
	for name := range remaining {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.insertDocument(name, remaining[name])
	}

	logger.Info("[Graph] Document removed",
		"document", docID, "nodes", len(b.nodes), "edges", len(b.edges))
	return true
}

// normalizeRecord canonicalizes every entity and removes
// within-document duplicates preserving first-seen order.
func (b *Builder) normalizeRecord(entities *common.EntityRecord) *common.EntityRecord {
	normalized := &common.EntityRecord{}
	if entities == nil {
		return normalized
	}
	for _, category := range common.Categories {
		seen := map[string]bool{}
		var kept []string
		for _, entity := range entities.Category(category) {
			canonical := b.canonical.Normalize(entity)
			if canonical == "" || seen[canonical] {
				continue
			}
			seen[canonical] = true
			kept = append(kept, canonical)
		}
		normalized.SetCategory(category, kept)
	}
	return normalized
}

// upsertNode keeps the first node registered under an ID. Adding the
// same entity from a second document reuses the existing node.
func (b *Builder) upsertNode(node *Node) {
	if _, exists := b.nodes[node.ID]; exists {
		return
	}
	b.nodes[node.ID] = node
	b.nodeOrder = append(b.nodeOrder, node.ID)
}

// addEdge links two nodes unless an edge between them already exists.
// The graph is simple, not multi-edge.
func (b *Builder) addEdge(source, target, edgeType string, weight float64) {
	if _, exists := b.neighbors[source][target]; exists {
		return
	}
	edge := &Edge{Source: source, Target: target, EdgeType: edgeType, Weight: weight}
	b.edges = append(b.edges, edge)
	if b.neighbors[source] == nil {
		b.neighbors[source] = map[string]*Edge{}
	}
	if b.neighbors[target] == nil {
		b.neighbors[target] = map[string]*Edge{}
	}
	b.neighbors[source][target] = edge
	b.neighbors[target][source] = edge
}

// SharedEntities returns the entities adjacent to both documents,
// sorted for stable output.
func (b *Builder) SharedEntities(docA, docB string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var shared []string
	for id := range b.neighbors[DocumentID(docA)] {
		if _, ok := b.neighbors[DocumentID(docB)][id]; ok {
			shared = append(shared, id)
		}
	}
	sort.Strings(shared)
	return shared
}

// RelatedDocument is one entry of a RelatedDocuments result.
type RelatedDocument struct {
	Document string   `json:"document"`
	Shared   []string `json:"shared_entities"`
}

// RelatedDocuments finds documents reachable through a shared entity,
// sorted by number of shared entities descending, name ascending on
// ties.
func (b *Builder) RelatedDocuments(docName string) []RelatedDocument {
	b.mu.Lock()
	defer b.mu.Unlock()

	docID := DocumentID(docName)
	grouped := map[string][]string{}
	for entity := range b.neighbors[docID] {
		for neighbor := range b.neighbors[entity] {
			if neighbor == docID {
				continue
			}
			if node, ok := b.nodes[neighbor]; !ok || node.NodeType != NodeDocument {
				continue
			}
			grouped[neighbor] = append(grouped[neighbor], entity)
		}
	}

	related := make([]RelatedDocument, 0, len(grouped))
	for document, shared := range grouped {
		sort.Strings(shared)
		related = append(related, RelatedDocument{Document: document, Shared: shared})
	}
	sort.Slice(related, func(i, j int) bool {
		if len(related[i].Shared) != len(related[j].Shared) {
			return len(related[i].Shared) > len(related[j].Shared)
		}
		return related[i].Document < related[j].Document
	})
	return related
}

// EntitySources returns every document whose stored entity lists
// contain the given canonical entity string.
func (b *Builder) EntitySources(entity string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sources []string
	for document, record := range b.documentEntities {
		if record == nil {
			continue
		}
		for _, category := range common.Categories {
			if containsString(record.Category(category), entity) {
				sources = append(sources, document)
				break
			}
		}
	}
	sort.Strings(sources)
	return sources
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

// EntityCount pairs an entity with its corpus-wide frequency.
type EntityCount struct {
	Entity string `json:"entity"`
	Count  int    `json:"count"`
}

// Statistics is a read-only snapshot of graph composition.
type Statistics struct {
	TotalNodes       int                       `json:"total_nodes"`
	TotalEdges       int                       `json:"total_edges"`
	DocumentCount    int                       `json:"document_count"`
	KeywordCount     int                       `json:"keyword_count"`
	MethodCount      int                       `json:"method_count"`
	DatasetCount     int                       `json:"dataset_count"`
	FieldCount       int                       `json:"field_count"`
	ApplicationCount int                       `json:"application_count"`
	TopKeywords      []EntityCount             `json:"top_keywords"`
	TopMethods       []EntityCount             `json:"top_methods"`
	TopFields        []EntityCount             `json:"top_fields"`
	EntityCounts     map[string][]EntityCount  `json:"entity_counts"`
	Documents        []string                  `json:"documents"`
}

// Statistics computes node and edge counts by type plus the most
// frequent entities per category.
func (b *Builder) Statistics() Statistics {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := Statistics{
		TotalNodes:   len(b.nodes),
		TotalEdges:   len(b.edges),
		EntityCounts: map[string][]EntityCount{},
	}
	for _, id := range b.nodeOrder {
		switch b.nodes[id].NodeType {
		case NodeDocument:
			stats.DocumentCount++
			stats.Documents = append(stats.Documents, id)
		case NodeKeyword:
			stats.KeywordCount++
		case NodeMethod:
			stats.MethodCount++
		case NodeDataset:
			stats.DatasetCount++
		case NodeField:
			stats.FieldCount++
		case NodeApplication:
			stats.ApplicationCount++
		}
	}
	for _, category := range common.Categories {
		stats.EntityCounts[category] = sortedCounts(b.entityCounts[category])
	}
	stats.TopKeywords = topN(stats.EntityCounts["keywords"], 5)
	stats.TopMethods = topN(stats.EntityCounts["methods"], 5)
	stats.TopFields = topN(stats.EntityCounts["fields"], 3)
	return stats
}

func sortedCounts(counts map[string]int) []EntityCount {
	sorted := make([]EntityCount, 0, len(counts))
	for entity, count := range counts {
		sorted = append(sorted, EntityCount{Entity: entity, Count: count})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Entity < sorted[j].Entity
	})
	return sorted
}

func topN(sorted []EntityCount, n int) []EntityCount {
	if len(sorted) <= n {
		return sorted
	}
	return sorted[:n]
}

// Normalize exposes canonicalization for callers that need the
// canonical form of a single entity string outside AddDocument.
func (b *Builder) Normalize(entity string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canonical.Normalize(entity)
}

// CanonicalFor resolves the canonical form of an entity without
// registering the caller-supplied surface form. Read paths over a
// loaded graph must not grow the registry.
func (b *Builder) CanonicalFor(entity string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.canonical.lookup(entity)
}

// DocumentEntities returns the stored post-normalization record for a
// document, or nil if the document is unknown.
func (b *Builder) DocumentEntities(docName string) *common.EntityRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.documentEntities[DocumentID(docName)]
}

// Clear resets the graph, the per-document entity map, the canonical
// registry and the frequency counters in one step.
func (b *Builder) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reset()
	logger.Info("[Graph] Cleared")
}
