// Package treedoc reads and writes decision trees as standalone JSON
// documents: the import/export format of the CLI and the carrier of the
// bundled sample trees. Documents are validated against a JSON schema
// before any field reaches the tree builder.
package treedoc

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/orthodx/arbor/internal/decisiontree"
)

// Version is the current document format version.
const Version = 1

// Document is the interchange form of one tree.
type Document struct {
	Version int        `json:"version"`
	Tree    TreeMeta   `json:"tree"`
	Nodes   []NodeStub `json:"nodes"`
}

// TreeMeta mirrors the stored tree record.
type TreeMeta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	IsFree      bool   `json:"isFree,omitempty"`
}

// NodeStub mirrors a node row, with answers as a typed array rather than an
// embedded blob.
type NodeStub struct {
	ID             string                    `json:"id"`
	ParentID       string                    `json:"parentId,omitempty"`
	ParentAnswerID string                    `json:"parentAnswerId,omitempty"`
	NodeType       string                    `json:"nodeType"`
	Content        string                    `json:"content"`
	TestID         string                    `json:"testId,omitempty"`
	OrderIndex     int                       `json:"orderIndex"`
	Answers        []decisiontree.AnswerStub `json:"answers"`
}

const documentSchema = `{
	"type": "object",
	"properties": {
		"version": {"type": "integer", "minimum": 1, "maximum": 1},
		"tree": {
			"type": "object",
			"properties": {
				"id": {"type": "string", "minLength": 1},
				"name": {"type": "string", "minLength": 1},
				"description": {"type": "string"},
				"category": {"type": "string"},
				"isFree": {"type": "boolean"}
			},
			"required": ["id", "name"],
			"additionalProperties": false
		},
		"nodes": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"id": {"type": "string", "minLength": 1},
					"parentId": {"type": "string"},
					"parentAnswerId": {"type": "string"},
					"nodeType": {"enum": ["question", "test", "diagnosis"]},
					"content": {"type": "string"},
					"testId": {"type": "string"},
					"orderIndex": {"type": "integer", "minimum": 0},
					"answers": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"id": {"type": "string", "minLength": 1},
								"label": {"type": "string"}
							},
							"required": ["id", "label"],
							"additionalProperties": false
						}
					}
				},
				"required": ["id", "nodeType", "content"],
				"additionalProperties": false
			}
		}
	},
	"required": ["version", "tree", "nodes"],
	"additionalProperties": false
}`

var (
	schemaOnce     sync.Once
	schemaCompiled *jsonschema.Schema
	schemaErr      error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(documentSchema), &def); err != nil {
			schemaErr = fmt.Errorf("parse document schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://treedoc.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add document schema: %w", err)
			return
		}
		schemaCompiled, schemaErr = c.Compile(url)
	})
	return schemaCompiled, schemaErr
}

// Decode validates a document and builds the tree it describes.
func Decode(data []byte) (*decisiontree.Tree, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid tree document: %w", err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("tree document schema: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tree document: %w", err)
	}

	rec := decisiontree.TreeRecord{
		ID:          doc.Tree.ID,
		Name:        doc.Tree.Name,
		Description: doc.Tree.Description,
		Category:    doc.Tree.Category,
		Free:        doc.Tree.IsFree,
	}
	rows := make([]decisiontree.NodeRow, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		answersJSON, err := json.Marshal(n.Answers)
		if err != nil {
			return nil, fmt.Errorf("encode answers of node %s: %w", n.ID, err)
		}
		rows = append(rows, decisiontree.NodeRow{
			ID:             n.ID,
			TreeID:         rec.ID,
			ParentID:       n.ParentID,
			ParentAnswerID: n.ParentAnswerID,
			Kind:           decisiontree.NodeKind(n.NodeType),
			Content:        n.Content,
			TestID:         n.TestID,
			OrderIndex:     n.OrderIndex,
			AnswersJSON:    string(answersJSON),
		})
	}
	return decisiontree.Build(rec, rows)
}

// Encode flattens a tree into an indented document.
func Encode(t *decisiontree.Tree) ([]byte, error) {
	rows, err := t.Flatten()
	if err != nil {
		return nil, fmt.Errorf("flatten tree %s: %w", t.ID, err)
	}

	doc := Document{
		Version: Version,
		Tree: TreeMeta{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
			Category:    t.Category,
			IsFree:      t.Free,
		},
		Nodes: make([]NodeStub, 0, len(rows)),
	}
	for _, row := range rows {
		stubs, err := decisiontree.DecodeAnswers(row.AnswersJSON)
		if err != nil {
			return nil, fmt.Errorf("decode answers of node %s: %w", row.ID, err)
		}
		if stubs == nil {
			stubs = []decisiontree.AnswerStub{}
		}
		doc.Nodes = append(doc.Nodes, NodeStub{
			ID:             row.ID,
			ParentID:       row.ParentID,
			ParentAnswerID: row.ParentAnswerID,
			NodeType:       string(row.Kind),
			Content:        row.Content,
			TestID:         row.TestID,
			OrderIndex:     row.OrderIndex,
			Answers:        stubs,
		})
	}

	return json.MarshalIndent(doc, "", "  ")
}
