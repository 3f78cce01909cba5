// Package graph keeps the game glossary in Neo4j: one Term node per source
// term, with optional RELATED_TO edges between terms.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog/log"
)

// Term is a fixed source→target translation, e.g. a character or item name.
type Term struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Category string   `json:"category,omitempty"` // character, item, location, ui, general
	Related  []string `json:"related,omitempty"`  // source forms of related terms
}

// Relationship is a RELATED_TO edge between two matched terms.
type Relationship struct {
	From string
	To   string
}

// Match holds the glossary entries found in a text.
type Match struct {
	Terms         []Term
	Relationships []Relationship
}

// Glossary reads and writes terms in Neo4j.
type Glossary struct {
	driver neo4j.DriverWithContext
}

// NewGlossary creates a glossary on an open driver.
func NewGlossary(driver neo4j.DriverWithContext) *Glossary {
	return &Glossary{driver: driver}
}

// Connect opens and verifies a Neo4j driver.
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("connect to neo4j: %w", err)
	}
	return driver, nil
}

// EnsureSchema creates the uniqueness constraint on Term.source.
func (g *Glossary) EnsureSchema(ctx context.Context) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	if _, err := session.Run(ctx, "CREATE CONSTRAINT term_source IF NOT EXISTS FOR (t:Term) REQUIRE t.source IS UNIQUE", nil); err != nil {
		return fmt.Errorf("create constraint: %w", err)
	}

	log.Info().Msg("Glossary schema ensured")
	return nil
}

// UpsertTerms stores terms and their relationships. Relationships to
// terms that are not in the glossary are skipped with a warning.
func (g *Glossary) UpsertTerms(ctx context.Context, terms []Term) error {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer session.Close(ctx)

	for _, t := range terms {
		_, err := session.Run(ctx, `
			MERGE (t:Term {source: $source})
			SET t.target = $target,
			    t.category = $category
		`, map[string]any{
			"source":   t.Source,
			"target":   t.Target,
			"category": t.Category,
		})
		if err != nil {
			return fmt.Errorf("upsert term %s: %w", t.Source, err)
		}
	}

	edges := 0
	for _, t := range terms {
		for _, rel := range t.Related {
			_, err := session.Run(ctx, `
				MATCH (a:Term {source: $from})
				MATCH (b:Term {source: $to})
				MERGE (a)-[:RELATED_TO]->(b)
			`, map[string]any{"from": t.Source, "to": rel})
			if err != nil {
				log.Warn().Err(err).Str("from", t.Source).Str("to", rel).Msg("Failed to create relationship")
				continue
			}
			edges++
		}
	}

	log.Info().Int("terms", len(terms)).Int("relationships", edges).Msg("Upserted glossary")
	return nil
}

// FindTerms returns the terms whose source form occurs in text, longest
// first, with the relationships among their neighbours.
func (g *Glossary) FindTerms(ctx context.Context, text string) (*Match, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	match := &Match{}

	termsResult, err := session.Run(ctx, `
		MATCH (t:Term)
		WHERE $text CONTAINS t.source
		RETURN t.source AS source, t.target AS target, t.category AS category
		ORDER BY size(t.source) DESC
	`, map[string]any{"text": text})
	if err != nil {
		return nil, fmt.Errorf("query terms: %w", err)
	}
	for termsResult.Next(ctx) {
		record := termsResult.Record()
		match.Terms = append(match.Terms, Term{
			Source:   recordString(record, "source"),
			Target:   recordString(record, "target"),
			Category: recordString(record, "category"),
		})
	}
	if err := termsResult.Err(); err != nil {
		return nil, fmt.Errorf("read terms: %w", err)
	}

	if len(match.Terms) == 0 {
		return match, nil
	}

	relsResult, err := session.Run(ctx, `
		MATCH (t:Term)-[:RELATED_TO]-(n:Term)
		WHERE $text CONTAINS t.source
		RETURN DISTINCT t.source AS from_node, n.source AS to_node
	`, map[string]any{"text": text})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to query relationships")
		return match, nil
	}
	for relsResult.Next(ctx) {
		record := relsResult.Record()
		match.Relationships = append(match.Relationships, Relationship{
			From: recordString(record, "from_node"),
			To:   recordString(record, "to_node"),
		})
	}

	log.Debug().
		Int("terms", len(match.Terms)).
		Int("relationships", len(match.Relationships)).
		Msg("Glossary query complete")

	return match, nil
}

// All returns the whole glossary as a source→target map.
func (g *Glossary) All(ctx context.Context) (map[string]string, error) {
	session := g.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `MATCH (t:Term) RETURN t.source AS source, t.target AS target`, nil)
	if err != nil {
		return nil, fmt.Errorf("list glossary: %w", err)
	}

	terms := make(map[string]string)
	for result.Next(ctx) {
		record := result.Record()
		terms[recordString(record, "source")] = recordString(record, "target")
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("list glossary: %w", err)
	}

	log.Info().Int("count", len(terms)).Msg("Loaded glossary")
	return terms, nil
}

func recordString(record *neo4j.Record, key string) string {
	v, ok := record.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// LoadTermsFile reads a JSON array of terms. Entries without a source or
// target are rejected.
func LoadTermsFile(path string) ([]Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary file: %w", err)
	}

	var terms []Term
	if err := json.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("parse glossary file %s: %w", path, err)
	}

	for i := range terms {
		terms[i].Source = strings.TrimSpace(terms[i].Source)
		terms[i].Target = strings.TrimSpace(terms[i].Target)
		if terms[i].Source == "" || terms[i].Target == "" {
			return nil, fmt.Errorf("glossary entry %d: source and target are required", i+1)
		}
	}
	return terms, nil
}

// FormatMatch renders matched terms and relationships as prompt context.
func FormatMatch(m *Match) string {
	if m == nil || len(m.Terms) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("=== Terminology (ALWAYS USE THESE) ===\n")
	for _, t := range m.Terms {
		sb.WriteString(fmt.Sprintf("• %s → %s", t.Source, t.Target))
		if t.Category != "" {
			sb.WriteString(fmt.Sprintf(" [%s]", t.Category))
		}
		sb.WriteString("\n")
	}
	if len(m.Relationships) > 0 {
		sb.WriteString("Related: ")
		for i, r := range m.Relationships {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%s ~ %s", r.From, r.To))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	return sb.String()
}
