package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orthodx/arbor/internal/decisiontree"
)

// treeRepo implements TreeRepo on raw SQL.
type treeRepo struct {
	db *sql.DB
}

func (r *treeRepo) Save(ctx context.Context, rec decisiontree.TreeRecord, rows []decisiontree.NodeRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tree: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO trees (id, name, description, category, is_free)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   category = excluded.category,
		   is_free = excluded.is_free`,
		rec.ID, rec.Name, rec.Description, rec.Category, rec.Free,
	)
	if err != nil {
		return fmt.Errorf("upsert tree %s: %w", rec.ID, err)
	}

	// Whole-set replacement: there is no per-node diffing, so the old
	// rows go and the fresh flatten comes in, all inside this
	// transaction.
	if _, err := tx.ExecContext(ctx, `DELETE FROM tree_nodes WHERE tree_id = ?`, rec.ID); err != nil {
		return fmt.Errorf("clear nodes of tree %s: %w", rec.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tree_nodes
		   (id, tree_id, parent_id, parent_answer_id, node_type, content, test_id, order_index, answers_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare node insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.ID, rec.ID,
			nullable(row.ParentID), nullable(row.ParentAnswerID),
			string(row.Kind), row.Content, nullable(row.TestID),
			row.OrderIndex, row.AnswersJSON,
		)
		if err != nil {
			return fmt.Errorf("insert node %s: %w", row.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save tree %s: %w", rec.ID, err)
	}
	return nil
}

func (r *treeRepo) Load(ctx context.Context, treeID string) (decisiontree.TreeRecord, []decisiontree.NodeRow, error) {
	var rec decisiontree.TreeRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, category, is_free FROM trees WHERE id = ?`, treeID,
	).Scan(&rec.ID, &rec.Name, &rec.Description, &rec.Category, &rec.Free)
	if errors.Is(err, sql.ErrNoRows) {
		return decisiontree.TreeRecord{}, nil, ErrTreeNotFound
	}
	if err != nil {
		return decisiontree.TreeRecord{}, nil, fmt.Errorf("load tree %s: %w", treeID, err)
	}

	rowsQ, err := r.db.QueryContext(ctx,
		`SELECT id, parent_id, parent_answer_id, node_type, content, test_id, order_index, answers_json
		 FROM tree_nodes WHERE tree_id = ?`, treeID,
	)
	if err != nil {
		return decisiontree.TreeRecord{}, nil, fmt.Errorf("load nodes of tree %s: %w", treeID, err)
	}
	defer rowsQ.Close()

	var rows []decisiontree.NodeRow
	for rowsQ.Next() {
		var row decisiontree.NodeRow
		var parentID, parentAnswerID, testID sql.NullString
		var kind string
		err := rowsQ.Scan(&row.ID, &parentID, &parentAnswerID, &kind, &row.Content, &testID, &row.OrderIndex, &row.AnswersJSON)
		if err != nil {
			return decisiontree.TreeRecord{}, nil, fmt.Errorf("scan node row: %w", err)
		}
		row.TreeID = treeID
		row.ParentID = parentID.String
		row.ParentAnswerID = parentAnswerID.String
		row.Kind = decisiontree.NodeKind(kind)
		row.TestID = testID.String
		rows = append(rows, row)
	}
	if err := rowsQ.Err(); err != nil {
		return decisiontree.TreeRecord{}, nil, fmt.Errorf("iterate node rows: %w", err)
	}
	return rec, rows, nil
}

func (r *treeRepo) List(ctx context.Context) ([]decisiontree.TreeRecord, error) {
	rowsQ, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, category, is_free FROM trees ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	defer rowsQ.Close()

	var recs []decisiontree.TreeRecord
	for rowsQ.Next() {
		var rec decisiontree.TreeRecord
		if err := rowsQ.Scan(&rec.ID, &rec.Name, &rec.Description, &rec.Category, &rec.Free); err != nil {
			return nil, fmt.Errorf("scan tree record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rowsQ.Err(); err != nil {
		return nil, fmt.Errorf("iterate tree records: %w", err)
	}
	return recs, nil
}

func (r *treeRepo) Delete(ctx context.Context, treeID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tree: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tree_nodes WHERE tree_id = ?`, treeID); err != nil {
		return fmt.Errorf("delete nodes of tree %s: %w", treeID, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM trees WHERE id = ?`, treeID)
	if err != nil {
		return fmt.Errorf("delete tree %s: %w", treeID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tree %s: %w", treeID, err)
	}
	if n == 0 {
		return ErrTreeNotFound
	}
	return tx.Commit()
}

// nullable maps empty strings to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
