package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/orthodx/arbor/internal/catalog"
)

// catalogRepo implements CatalogRepo on raw SQL.
type catalogRepo struct {
	db *sql.DB
}

func (r *catalogRepo) GetTest(ctx context.Context, id string) (*catalog.Test, error) {
	var t catalog.Test
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, sensitivity, specificity, video_url
		 FROM catalog_tests WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.Sensitivity, &t.Specificity, &t.VideoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get test %s: %w", id, err)
	}
	return &t, nil
}

func (r *catalogRepo) Put(ctx context.Context, tests []catalog.Test) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put tests: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO catalog_tests (id, name, description, sensitivity, specificity, video_url)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   sensitivity = excluded.sensitivity,
		   specificity = excluded.specificity,
		   video_url = excluded.video_url`,
	)
	if err != nil {
		return fmt.Errorf("prepare test upsert: %w", err)
	}
	defer stmt.Close()

	for _, t := range tests {
		if _, err := stmt.ExecContext(ctx, t.ID, t.Name, t.Description, t.Sensitivity, t.Specificity, t.VideoURL); err != nil {
			return fmt.Errorf("upsert test %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}
