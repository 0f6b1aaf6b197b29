package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/kevinvandever/secureask/internal/pkg/logger"
)

// Node is a knowledge-graph node as returned by text search.
type Node struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	Name       string                 `json:"name"`
	Properties map[string]interface{} `json:"properties"`
}

// IClient is the fixed call contract the pipeline has with the graph
// database: lookup-by-text and write-triple, both best effort. No retry or
// caching lives here.
type IClient interface {
	SearchNodes(ctx context.Context, queryText, nodeType string, limit int) ([]Node, error)
	CreateTriple(ctx context.Context, subjectID, predicate, objectID string, props map[string]interface{}) error
	NodeCount(ctx context.Context) (int64, error)
	Close(ctx context.Context) error
}

type client struct {
	driver neo4j.DriverWithContext
	logger logger.ILogger
}

// NewClient connects to Neo4j. A failed connectivity check is returned to
// the caller, who decides whether to run without a graph.
func NewClient(ctx context.Context, uri, user, password string, log logger.ILogger) (IClient, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("neo4j connectivity check failed: %w", err)
	}

	log.Info("graph", "Neo4j connected", map[string]interface{}{"uri": uri})
	return &client{driver: driver, logger: log}, nil
}

func (c *client) SearchNodes(ctx context.Context, queryText, nodeType string, limit int) ([]Node, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	cypher := `
		MATCH (n)
		WHERE n.name CONTAINS $query OR n.description CONTAINS $query
		RETURN n
		ORDER BY n.name
		LIMIT $limit`
	if nodeType != "" {
		cypher = fmt.Sprintf(`
			MATCH (n:%s)
			WHERE n.name CONTAINS $query OR n.description CONTAINS $query
			RETURN n
			ORDER BY n.name
			LIMIT $limit`, nodeType)
	}

	result, err := session.Run(ctx, cypher, map[string]interface{}{
		"query": queryText,
		"limit": limit,
	})
	if err != nil {
		return nil, fmt.Errorf("node search failed: %w", err)
	}

	var nodes []Node
	for result.Next(ctx) {
		raw, ok := result.Record().Get("n")
		if !ok {
			continue
		}
		node, ok := raw.(neo4j.Node)
		if !ok {
			continue
		}
		nodes = append(nodes, parseNode(node))
	}
	if err := result.Err(); err != nil {
		return nodes, fmt.Errorf("node search failed: %w", err)
	}

	return nodes, nil
}

func (c *client) CreateTriple(ctx context.Context, subjectID, predicate, objectID string, props map[string]interface{}) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if props == nil {
		props = map[string]interface{}{}
	}

	_, err := session.Run(ctx, `
		MERGE (s {id: $subject_id})
		MERGE (o {id: $object_id})
		MERGE (s)-[r:RELATES {type: $predicate}]->(o)
		SET r += $props`,
		map[string]interface{}{
			"subject_id": subjectID,
			"object_id":  objectID,
			"predicate":  predicate,
			"props":      props,
		})
	if err != nil {
		return fmt.Errorf("triple creation failed: %w", err)
	}
	return nil
}

func (c *client) NodeCount(ctx context.Context) (int64, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, "MATCH (n) RETURN count(n) as count", nil)
	if err != nil {
		return 0, err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, err
	}
	count, _ := record.Get("count")
	n, ok := count.(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected count type %T", count)
	}
	return n, nil
}

func (c *client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func parseNode(n neo4j.Node) Node {
	node := Node{
		ID:         n.ElementId,
		Type:       "Node",
		Properties: n.Props,
	}
	if len(n.Labels) > 0 {
		node.Type = n.Labels[0]
	}
	if id, ok := n.Props["id"].(string); ok && id != "" {
		node.ID = id
	}
	if name, ok := n.Props["name"].(string); ok {
		node.Name = name
	}
	return node
}
