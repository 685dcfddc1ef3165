package repository

import (
	"context"
	"database/sql"
	"fmt"

	"starwars-api/internal/database"
	"starwars-api/internal/entity"
)

// ResourceRepository reads and writes one catalogue table. One instance is
// created per kind.
type ResourceRepository struct {
	db   *database.DB
	kind entity.Kind
}

func NewResourceRepository(db *database.DB, kind entity.Kind) *ResourceRepository {
	return &ResourceRepository{db: db, kind: kind}
}

// Kind returns the catalogue kind this repository serves.
func (r *ResourceRepository) Kind() entity.Kind {
	return r.kind
}

func (r *ResourceRepository) GetResources(ctx context.Context) ([]*entity.Resource, error) {
	var resources []*entity.Resource

	query := fmt.Sprintf(`SELECT id, name, description FROM %s ORDER BY id`, r.kind.Table())
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		resource, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}

	return resources, rows.Err()
}

func (r *ResourceRepository) GetResourceByID(ctx context.Context, id int) (*entity.Resource, error) {
	query := fmt.Sprintf(`SELECT id, name, description FROM %s WHERE id = ?`, r.kind.Table())
	resource, err := r.scan(r.db.QueryRowContext(ctx, r.db.Rebind(query), id))
	if err != nil {
		return nil, translate(err)
	}

	return resource, nil
}

// GetResourceByName returns the first row with the given name.
func (r *ResourceRepository) GetResourceByName(ctx context.Context, name string) (*entity.Resource, error) {
	query := fmt.Sprintf(`SELECT id, name, description FROM %s WHERE name = ? ORDER BY id LIMIT 1`, r.kind.Table())
	resource, err := r.scan(r.db.QueryRowContext(ctx, r.db.Rebind(query), name))
	if err != nil {
		return nil, translate(err)
	}

	return resource, nil
}

func (r *ResourceRepository) CreateResource(ctx context.Context, resource *entity.Resource) (*entity.Resource, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name, description) VALUES (?, ?)`, r.kind.Table())
	id, err := r.db.InsertReturningID(ctx, query, resource.Name, resource.Description)
	if err != nil {
		return nil, translate(err)
	}

	resource.ID = id
	resource.Kind = r.kind
	return resource, nil
}

// DeleteResource removes the row, returning ErrNotFound when nothing matched.
func (r *ResourceRepository) DeleteResource(ctx context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.kind.Table())
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *ResourceRepository) scan(row scanner) (*entity.Resource, error) {
	var (
		resource    = entity.Resource{Kind: r.kind}
		description sql.NullString
	)
	if err := row.Scan(&resource.ID, &resource.Name, &description); err != nil {
		return nil, err
	}
	if description.Valid {
		resource.Description = &description.String
	}
	return &resource, nil
}
