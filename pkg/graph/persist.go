package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/papermind-ai/papermind/pkg/common"
	"github.com/papermind-ai/papermind/pkg/logger"
)

// graphFile is the on-disk JSON layout. entity_canonical_forms was
// added after the first deployments wrote graphs without it, so Load
// rebuilds the registry when the key is missing.
type graphFile struct {
	Nodes            []*Node                         `json:"nodes"`
	Edges            []*Edge                         `json:"edges"`
	DocumentEntities map[string]*common.EntityRecord `json:"document_entities"`
	EntityCounts     map[string]map[string]int       `json:"entity_counts"`
	CanonicalForms   map[string]string               `json:"entity_canonical_forms"`
}

// Save serializes the full graph state to path as indented UTF-8 JSON,
// creating parent directories as needed.
func (b *Builder) Save(path string) error {
	b.mu.Lock()
	file := graphFile{
		Nodes:            make([]*Node, 0, len(b.nodeOrder)),
		Edges:            b.edges,
		DocumentEntities: b.documentEntities,
		EntityCounts:     b.entityCounts,
		CanonicalForms:   b.canonical.forms,
	}
	for _, id := range b.nodeOrder {
		file.Nodes = append(file.Nodes, b.nodes[id])
	}
	payload, err := json.MarshalIndent(file, "", "  ")
	b.mu.Unlock()
	if err != nil {
		return fmt.Errorf("marshaling graph: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating graph directory: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("writing graph file: %w", err)
	}

	logger.Info("[Graph] Saved", "path", path, "nodes", len(file.Nodes), "edges", len(file.Edges))
	return nil
}

// Load replaces the in-memory graph with the contents of path. On any
// failure the current state is left untouched.
func (b *Builder) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading graph file: %w", err)
	}

	var file graphFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return fmt.Errorf("parsing graph file: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.reset()
	for _, node := range file.Nodes {
		if node != nil && node.ID != "" {
			b.upsertNode(node)
		}
	}
	for _, edge := range file.Edges {
		if edge != nil {
			b.addEdge(edge.Source, edge.Target, edge.EdgeType, edge.Weight)
		}
	}
	if file.DocumentEntities != nil {
		b.documentEntities = file.DocumentEntities
	}
	for _, category := range common.Categories {
		if counts := file.EntityCounts[category]; counts != nil {
			b.entityCounts[category] = counts
		}
	}
	if file.CanonicalForms != nil {
		b.canonical.forms = file.CanonicalForms
	} else {
		b.canonical.rebuild(b.documentEntities)
	}

	logger.Info("[Graph] Loaded", "path", path, "nodes", len(b.nodes), "edges", len(b.edges))
	return nil
}
