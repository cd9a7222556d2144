/*
Copyright © 2025 Global Type System
Released under Apache License 2.0
*/

package gts

import (
	"errors"
	"log"
	"sort"
)

// DuplicateID is a load-time diagnostic: two entities claimed the same id.
// The first insertion wins; all duplicates are reported (spec §4.3, §7).
type DuplicateID struct {
	ID      string
	Sources []string
}

// BrokenReference is a schema→schema (or schema→instance) edge whose
// target id does not resolve inside the store (spec §4.3, §7).
type BrokenReference struct {
	From       string
	To         string
	SourcePath string
}

// Store is the in-memory, load-once collection of entities with its
// derived indexes (spec §3 "Store", §4.3). It is immutable after Load
// returns and may be shared read-only across goroutines (spec §5).
type Store struct {
	cfg       *Config
	entities  map[string]*Entity
	bySchema  map[string][]string // schema id -> instance ids
	edges     map[string][]Reference
	duplicate map[string]*DuplicateID
	broken    []BrokenReference
}

// NewStore creates an empty store. Use Load to populate one from a Reader.
func NewStore(cfg *Config) *Store {
	return &Store{
		cfg:       cfg.orDefault(),
		entities:  make(map[string]*Entity),
		bySchema:  make(map[string][]string),
		edges:     make(map[string][]Reference),
		duplicate: make(map[string]*DuplicateID),
	}
}

// Load consumes reader to completion, builds the store, and returns it
// (spec §4.3 "Construction"). Loading is the sole mutation point; the
// returned store is then read-only.
func Load(reader Reader, cfg *Config) *Store {
	s := NewStore(cfg)

	for {
		doc, ok := reader.Next()
		if !ok {
			break
		}
		entity := FromDocument(doc.Content, s.cfg)
		if entity == nil {
			continue
		}
		entity.Source = doc.Source
		s.insert(entity)
	}

	s.buildReferenceIndex()

	log.Printf("gts: loaded store with %d entities (%d duplicates, %d broken references)",
		len(s.entities), len(s.duplicate), len(s.broken))

	return s
}

func (s *Store) insert(e *Entity) {
	key := e.Key()
	if key == "" {
		return
	}

	if existing, ok := s.entities[key]; ok {
		dup, tracked := s.duplicate[key]
		if !tracked {
			dup = &DuplicateID{ID: key, Sources: []string{existing.Source}}
			s.duplicate[key] = dup
		}
		dup.Sources = append(dup.Sources, e.Source)
		return // first insertion wins
	}

	s.entities[key] = e
	if !e.IsSchema && !e.Anonymous && e.SchemaID != "" {
		s.bySchema[e.SchemaID] = append(s.bySchema[e.SchemaID], key)
	}
}

// buildReferenceIndex walks every schema entity's document collecting GTS
// references and records broken ones (spec §4.3 "Reference extraction").
func (s *Store) buildReferenceIndex() {
	for id, e := range s.entities {
		if !e.IsSchema {
			continue
		}
		refs := extractReferences(e.Document, s.cfg)
		s.edges[id] = refs
		for _, ref := range refs {
			if ref.ID == id {
				continue
			}
			if _, ok := s.entities[ref.ID]; !ok {
				s.broken = append(s.broken, BrokenReference{From: id, To: ref.ID, SourcePath: ref.SourcePath})
			}
		}
	}
}

// Get retrieves an entity by id, or nil if absent.
func (s *Store) Get(id string) *Entity {
	return s.entities[id]
}

// Count returns the number of entities in the store.
func (s *Store) Count() int { return len(s.entities) }

// All returns the store's entity map, keyed by id. The map is the store's
// own; its iteration order is not defined.
func (s *Store) All() map[string]*Entity { return s.entities }

// SortedIDs returns every entity id in the store sorted by canonical id
// string, for callers (the CLI's "list" and the HTTP server's /entities)
// that paginate over the whole collection and need a stable order across
// calls (spec §4.3 "Ordering guarantees").
func (s *Store) SortedIDs() []string {
	ids := make([]string, 0, len(s.entities))
	for id := range s.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Duplicates returns the load-time duplicate-id diagnostics.
func (s *Store) Duplicates() []DuplicateID {
	out := make([]DuplicateID, 0, len(s.duplicate))
	for _, d := range s.duplicate {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// BrokenReferences returns every broken reference discovered at load time.
func (s *Store) BrokenReferences() []BrokenReference {
	out := append([]BrokenReference{}, s.broken...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// InstancesOf returns every instance of schemaID, sorted by canonical id
// string for determinism (spec §4.3 "Ordering guarantees").
func (s *Store) InstancesOf(schemaID string) []*Entity {
	ids := append([]string{}, s.bySchema[schemaID]...)
	sort.Strings(ids)
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.entities[id])
	}
	return out
}

// GraphNode is one node of the dependency graph BuildSchemaGraph returns.
type GraphNode struct {
	ID     string
	Edges  []GraphEdge
	Broken []string
	Cycle  bool
}

// GraphEdge is a single schema→schema reference edge.
type GraphEdge struct {
	SourcePath string
	Node       *GraphNode
}

// BuildSchemaGraph walks schema→schema reference edges depth-first
// starting at rootID, producing a directed subgraph with broken-reference
// annotations. Cycles are permitted and enumerated rather than causing an
// infinite walk (spec §4.3, design note "reference cycles").
func (s *Store) BuildSchemaGraph(rootID string) (*GraphNode, error) {
	if s.Get(rootID) == nil {
		return nil, &NoSuchEntityError{ID: rootID}
	}
	seen := make(map[string]*GraphNode)
	return s.buildNode(rootID, seen), nil
}

func (s *Store) buildNode(id string, seen map[string]*GraphNode) *GraphNode {
	if done, ok := seen[id]; ok {
		if done != nil {
			// Already completed through another edge (not a cycle): share it.
			return done
		}
		// A back-reference to a node already on the current path: stop
		// descending here rather than returning the in-progress node
		// itself (its Edges are still being filled in by an enclosing
		// buildNode call, so a snapshot now would be incomplete) or a copy
		// that embeds it (which would make the result genuinely cyclic and
		// hang json.Marshal). A bare, edge-less stub both terminates the
		// walk and keeps the returned graph a finite tree.
		return &GraphNode{ID: id, Cycle: true}
	}

	node := &GraphNode{ID: id}
	// nil marks the node as on the current path until its edges are filled in.
	seen[id] = nil
	defer func() { seen[id] = node }()

	e := s.entities[id]
	if e == nil {
		node.Broken = append(node.Broken, id)
		return node
	}
	if !e.IsSchema {
		return node
	}

	for _, ref := range s.edges[id] {
		if ref.ID == id {
			continue
		}
		if _, ok := s.entities[ref.ID]; !ok {
			node.Broken = append(node.Broken, ref.ID)
			continue
		}
		node.Edges = append(node.Edges, GraphEdge{SourcePath: ref.SourcePath, Node: s.buildNode(ref.ID, seen)})
	}

	sort.Slice(node.Edges, func(i, j int) bool { return node.Edges[i].SourcePath < node.Edges[j].SourcePath })
	sort.Strings(node.Broken)

	return node
}

// ValidateInstance looks up instanceID, resolves its schema, and delegates
// to validator (spec §4.3 "validate_instance"). Errors: NoSuchInstance,
// NoSuchSchema, or a *SchemaViolationError-wrapping slice via the returned
// error when the validator reports violations.
func (s *Store) ValidateInstance(instanceID string, validator Validator) error {
	e := s.Get(instanceID)
	if e == nil {
		return &NoSuchInstanceError{ID: instanceID}
	}
	if e.SchemaID == "" {
		return &NoSchemaForInstanceError{ID: instanceID}
	}
	schema := s.Get(e.SchemaID)
	if schema == nil || !schema.IsSchema {
		return &NoSuchSchemaError{ID: e.SchemaID}
	}

	violations, err := validator(e.Document, schema.Document)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		errs := make([]error, 0, len(violations))
		for _, v := range violations {
			errs = append(errs, &SchemaViolationError{Path: v.Path, Message: v.Message})
		}
		return errors.Join(errs...)
	}
	return nil
}
