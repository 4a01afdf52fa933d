// Package search provides full-text search over the entity table of an
// ingested model, backed by an in-memory bleve index.
package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/strata-bim/strata/internal/model"
)

// Searcher defines the interface for full-text entity search.
type Searcher interface {
	// Search executes a keyword search using FTS query syntax.
	// Supports field scoping, boolean operators, phrase search, wildcards,
	// and fuzzy matching. Options parameter may be nil (defaults apply).
	Search(ctx context.Context, queryStr string, options *Options) ([]*Result, error)

	// Close releases resources held by the searcher.
	Close() error
}

// Options narrows a search beyond the query string.
type Options struct {
	Limit  int    // maximum hits, defaults when out of range
	Type   string // exact entity type filter, e.g. "IFCWALL"
	Storey string // match against the enclosing storey path
}

// DefaultOptions returns the option defaults applied to nil options.
func DefaultOptions() *Options {
	return &Options{Limit: 15}
}

// Result is a single entity hit with highlighting.
type Result struct {
	ID         uint32   `json:"id"`
	Type       string   `json:"type"`
	Name       string   `json:"name,omitempty"`
	GlobalID   string   `json:"global_id,omitempty"`
	Storey     string   `json:"storey,omitempty"`
	Score      float64  `json:"score"`
	Highlights []string `json:"highlights,omitempty"`
}

// entitySearcher implements Searcher using bleve full-text search.
type entitySearcher struct {
	index bleve.Index
	mu    sync.RWMutex
}

// NewSearcher creates a Searcher backed by an in-memory bleve index over
// the store's kept entity rows. Relationship records are skipped: they have
// no display identity worth a hit.
func NewSearcher(ctx context.Context, st *model.Store) (Searcher, error) {
	indexMapping := buildMapping()
	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create bleve index: %w", err)
	}

	if err := indexEntities(ctx, index, st); err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to index entities: %w", err)
	}

	return &entitySearcher{
		index: index,
	}, nil
}

// buildMapping creates the index mapping for entity documents.
// All fields are indexed and stored for native filtering and retrieval.
func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	// Name field (primary search target) - standard analyzer
	nameMapping := bleve.NewTextFieldMapping()
	nameMapping.Analyzer = "standard"
	nameMapping.Store = true
	nameMapping.Index = true
	nameMapping.IncludeTermVectors = true // Enable phrase search

	// Description field - standard analyzer
	descMapping := bleve.NewTextFieldMapping()
	descMapping.Analyzer = "standard"
	descMapping.Store = true
	descMapping.Index = true
	descMapping.IncludeTermVectors = true

	// Object type field - standard analyzer for partial matching
	objTypeMapping := bleve.NewTextFieldMapping()
	objTypeMapping.Analyzer = "standard"
	objTypeMapping.Store = true
	objTypeMapping.Index = true

	// Entity type field (filterable) - keyword analyzer for exact matching
	typeMapping := bleve.NewTextFieldMapping()
	typeMapping.Analyzer = "keyword"
	typeMapping.Store = true
	typeMapping.Index = true

	// Global id field - keyword, exchange GUIDs only match whole
	globalIDMapping := bleve.NewTextFieldMapping()
	globalIDMapping.Analyzer = "keyword"
	globalIDMapping.Store = true
	globalIDMapping.Index = true

	// Storey path field - standard analyzer so "Level 1" matches a segment
	storeyMapping := bleve.NewTextFieldMapping()
	storeyMapping.Analyzer = "standard"
	storeyMapping.Store = true
	storeyMapping.Index = true

	// ID field (stored but not analyzed) - retrieval only
	idMapping := bleve.NewTextFieldMapping()
	idMapping.Analyzer = "keyword"
	idMapping.Store = true
	idMapping.Index = false

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt("id", idMapping)
	docMapping.AddFieldMappingsAt("name", nameMapping)
	docMapping.AddFieldMappingsAt("description", descMapping)
	docMapping.AddFieldMappingsAt("object_type", objTypeMapping)
	docMapping.AddFieldMappingsAt("type", typeMapping)
	docMapping.AddFieldMappingsAt("global_id", globalIDMapping)
	docMapping.AddFieldMappingsAt("storey", storeyMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// indexEntities adds entity rows to the bleve index in batches.
func indexEntities(ctx context.Context, index bleve.Index, st *model.Store) error {
	const batchSize = 1000

	table := st.Table()
	hier := st.Hierarchy()

	batch := index.NewBatch()
	for i := 0; i < table.Len(); i++ {
		// Check cancellation periodically
		if i%batchSize == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
		}

		info := table.At(i)
		if st.Index().IsRelationship(info.ID) {
			continue
		}

		doc := entityDocument(info, storeyPath(hier, info.ID))
		docID := strconv.FormatUint(uint64(info.ID), 10)
		if err := batch.Index(docID, doc); err != nil {
			return fmt.Errorf("failed to add entity #%d to batch: %w", info.ID, err)
		}

		// Execute batch every 1000 docs (optimal size)
		if batch.Size() >= batchSize {
			if err := index.Batch(batch); err != nil {
				return fmt.Errorf("failed to execute batch: %w", err)
			}
			batch = index.NewBatch()
		}
	}

	// Execute remaining
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			return fmt.Errorf("failed to execute final batch: %w", err)
		}
	}

	return nil
}

// storeyPath resolves the containment path of the storey enclosing id.
func storeyPath(hier *model.Hierarchy, id uint32) string {
	if hier == nil {
		return ""
	}
	storeyID, ok := hier.StoreyOf(id)
	if !ok {
		return ""
	}
	if node, ok := hier.Node(storeyID); ok {
		return node.Path
	}
	return ""
}

// entityDocument converts an entity row to a bleve document.
func entityDocument(info model.Info, storey string) map[string]interface{} {
	return map[string]interface{}{
		"id":          strconv.FormatUint(uint64(info.ID), 10),
		"name":        info.Name,
		"description": info.Description,
		"object_type": info.ObjectType,
		"type":        info.Type,
		"global_id":   info.GlobalID,
		"storey":      storey,
	}
}

// Search executes a keyword search using bleve QueryStringQuery syntax.
func (s *entitySearcher) Search(ctx context.Context, queryStr string, options *Options) ([]*Result, error) {
	if options == nil {
		options = DefaultOptions()
	}

	limit := options.Limit
	if limit <= 0 || limit > 100 {
		limit = 15
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Build query with filters
	var queries []query.Query
	queries = append(queries, bleve.NewQueryStringQuery(queryStr))

	// Add entity type filter if specified
	if options.Type != "" {
		typeQuery := bleve.NewMatchQuery(strings.ToUpper(options.Type))
		typeQuery.SetField("type")
		queries = append(queries, typeQuery)
	}

	// Add storey filter if specified. All terms must match, otherwise
	// "Level 1" would match every path sharing the word "Level".
	if options.Storey != "" {
		storeyQuery := bleve.NewMatchQuery(options.Storey)
		storeyQuery.SetField("storey")
		storeyQuery.SetOperator(query.MatchQueryOperatorAnd)
		queries = append(queries, storeyQuery)
	}

	// Combine with conjunction (AND)
	var finalQuery query.Query
	if len(queries) == 1 {
		finalQuery = queries[0]
	} else {
		finalQuery = bleve.NewConjunctionQuery(queries...)
	}

	// Execute search with highlighting
	searchRequest := bleve.NewSearchRequestOptions(finalQuery, limit, 0, false)
	highlightStyle := "html" // <em> tags
	searchRequest.Highlight = bleve.NewHighlight()
	searchRequest.Highlight.Style = &highlightStyle
	searchRequest.Highlight.Fields = []string{"name", "description"}

	// Request stored fields for result reconstruction
	searchRequest.Fields = []string{"id", "name", "type", "global_id", "storey"}

	searchResult, err := s.index.Search(searchRequest)
	if err != nil {
		return nil, fmt.Errorf("bleve search failed: %w", err)
	}

	results := make([]*Result, 0, len(searchResult.Hits))
	for _, hit := range searchResult.Hits {
		idStr, _ := hit.Fields["id"].(string)
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			continue
		}
		name, _ := hit.Fields["name"].(string)
		typeName, _ := hit.Fields["type"].(string)
		globalID, _ := hit.Fields["global_id"].(string)
		storey, _ := hit.Fields["storey"].(string)

		results = append(results, &Result{
			ID:         uint32(id),
			Type:       typeName,
			Name:       name,
			GlobalID:   globalID,
			Storey:     storey,
			Score:      hit.Score,
			Highlights: extractHighlights(hit.Fragments),
		})
	}

	return results, nil
}

// extractHighlights extracts highlighted snippets from bleve fragments.
// Limits to 3 highlights per result to keep responses compact.
func extractHighlights(fragments map[string][]string) []string {
	var highlights []string

	// Bleve returns fragments as map[field][]snippets
	for _, snippets := range fragments {
		highlights = append(highlights, snippets...)
	}

	if len(highlights) > 3 {
		highlights = highlights[:3]
	}

	return highlights
}

// Close releases resources held by the searcher.
func (s *entitySearcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index != nil {
		return s.index.Close()
	}
	return nil
}
