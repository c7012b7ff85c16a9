package decisiontree

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// NodeRow is the flat storage shape of a single node, as read from and
// written to the persistence store. Children reference their parent by
// ParentAnswerID; OrderIndex records the answer-slot position at flatten
// time and serves as the link fallback for rows persisted before the
// answer-id column existed.
type NodeRow struct {
	ID             string
	TreeID         string
	ParentID       string // empty for the root row
	ParentAnswerID string
	Kind           NodeKind
	Content        string // diagnosis rows: JSON object, see diagnosisContent
	TestID         string
	OrderIndex     int
	AnswersJSON    string // serialized []AnswerStub
}

// AnswerStub is the persisted form of an answer edge: targets are not
// stored here, they are re-linked from the child rows.
type AnswerStub struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// answersSchema validates decoded answersJson before it reaches the builder.
// The blob comes from a free-form text column, so it is checked against a
// real schema rather than trusted.
const answersSchema = `{
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
}`

var (
	answersSchemaOnce     sync.Once
	answersSchemaCompiled *jsonschema.Schema
	answersSchemaErr      error
)

func compiledAnswersSchema() (*jsonschema.Schema, error) {
	answersSchemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(answersSchema), &def); err != nil {
			answersSchemaErr = fmt.Errorf("parse answers schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://answers.json"
		if err := c.AddResource(url, def); err != nil {
			answersSchemaErr = fmt.Errorf("add answers schema: %w", err)
			return
		}
		answersSchemaCompiled, answersSchemaErr = c.Compile(url)
	})
	return answersSchemaCompiled, answersSchemaErr
}

// DecodeAnswers parses and validates an answersJson blob.
func DecodeAnswers(raw string) ([]AnswerStub, error) {
	if raw == "" {
		return nil, nil
	}
	var parsed any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("invalid answers JSON: %w", err)
	}
	schema, err := compiledAnswersSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("answers JSON schema: %w", err)
	}
	var stubs []AnswerStub
	if err := json.Unmarshal([]byte(raw), &stubs); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	return stubs, nil
}

// EncodeAnswers serializes a node's own answers to the answersJson blob.
// Targets are deliberately excluded; they become rows of their own.
func EncodeAnswers(answers []*Answer) (string, error) {
	stubs := make([]AnswerStub, len(answers))
	for i, a := range answers {
		stubs[i] = AnswerStub{ID: a.ID, Label: a.Label}
	}
	b, err := json.Marshal(stubs)
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	return string(b), nil
}

// diagnosisContent is the structured form stored in the content column of
// diagnosis rows.
type diagnosisContent struct {
	Label           string        `json:"label"`
	Kind            DiagnosisKind `json:"kind,omitempty"`
	Urgency         Urgency       `json:"urgency,omitempty"`
	Recommendations string        `json:"recommendations,omitempty"`
	Referral        string        `json:"referral,omitempty"`
}

// encodeContent produces the content column value for a node.
func encodeContent(n *Node) (string, error) {
	if n.Kind != KindDiagnosis {
		return n.Content, nil
	}
	dc := diagnosisContent{Label: n.Content}
	if n.Diagnosis != nil {
		dc.Kind = n.Diagnosis.Kind
		dc.Urgency = n.Diagnosis.Urgency
		dc.Recommendations = n.Diagnosis.Recommendations
		dc.Referral = n.Diagnosis.Referral
	}
	b, err := json.Marshal(dc)
	if err != nil {
		return "", fmt.Errorf("encode diagnosis content: %w", err)
	}
	return string(b), nil
}

// decodeContent fills a node's content and diagnosis metadata from the
// content column. Plain-string diagnosis content (hand-entered rows) is
// accepted as a bare label.
func decodeContent(n *Node, raw string) error {
	if n.Kind != KindDiagnosis {
		n.Content = raw
		return nil
	}
	var dc diagnosisContent
	if err := json.Unmarshal([]byte(raw), &dc); err != nil {
		n.Content = raw
		return nil
	}
	n.Content = dc.Label
	if dc.Kind != "" || dc.Urgency != "" || dc.Recommendations != "" || dc.Referral != "" {
		n.Diagnosis = &DiagnosisInfo{
			Kind:            dc.Kind,
			Urgency:         dc.Urgency,
			Recommendations: dc.Recommendations,
			Referral:        dc.Referral,
		}
	}
	return nil
}
