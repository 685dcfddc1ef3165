package repository

import (
	"context"
	"fmt"

	"starwars-api/internal/database"
	"starwars-api/internal/entity"
)

// FavoriteRepository reads and writes one favorite join table.
type FavoriteRepository struct {
	db   *database.DB
	kind entity.Kind
}

func NewFavoriteRepository(db *database.DB, kind entity.Kind) *FavoriteRepository {
	return &FavoriteRepository{db: db, kind: kind}
}

// Kind returns the catalogue kind this repository serves.
func (r *FavoriteRepository) Kind() entity.Kind {
	return r.kind
}

// GetFavorites returns the favorites of every user.
func (r *FavoriteRepository) GetFavorites(ctx context.Context) ([]*entity.Favorite, error) {
	query := fmt.Sprintf(`SELECT id, user_id, %s FROM %s ORDER BY id`, r.kind.ForeignKey(), r.kind.FavoriteTable())
	return r.query(ctx, query)
}

func (r *FavoriteRepository) GetFavoritesByUser(ctx context.Context, userID int) ([]*entity.Favorite, error) {
	query := fmt.Sprintf(`SELECT id, user_id, %s FROM %s WHERE user_id = ? ORDER BY id`, r.kind.ForeignKey(), r.kind.FavoriteTable())
	return r.query(ctx, r.db.Rebind(query), userID)
}

func (r *FavoriteRepository) GetFavorite(ctx context.Context, userID, targetID int) (*entity.Favorite, error) {
	favorite := &entity.Favorite{Kind: r.kind}
	query := fmt.Sprintf(`SELECT id, user_id, %[1]s FROM %[2]s WHERE user_id = ? AND %[1]s = ?`, r.kind.ForeignKey(), r.kind.FavoriteTable())
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), userID, targetID).Scan(&favorite.ID, &favorite.UserID, &favorite.TargetID)
	if err != nil {
		return nil, translate(err)
	}

	return favorite, nil
}

// CreateFavorite inserts the join row. A (user, target) pair that already
// exists yields ErrDuplicate.
func (r *FavoriteRepository) CreateFavorite(ctx context.Context, favorite *entity.Favorite) (*entity.Favorite, error) {
	query := fmt.Sprintf(`INSERT INTO %s (user_id, %s) VALUES (?, ?)`, r.kind.FavoriteTable(), r.kind.ForeignKey())
	id, err := r.db.InsertReturningID(ctx, query, favorite.UserID, favorite.TargetID)
	if err != nil {
		return nil, translate(err)
	}

	favorite.ID = id
	favorite.Kind = r.kind
	return favorite, nil
}

func (r *FavoriteRepository) DeleteFavorite(ctx context.Context, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.kind.FavoriteTable())
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

func (r *FavoriteRepository) query(ctx context.Context, query string, args ...interface{}) ([]*entity.Favorite, error) {
	var favorites []*entity.Favorite

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		favorite := entity.Favorite{Kind: r.kind}
		if err := rows.Scan(&favorite.ID, &favorite.UserID, &favorite.TargetID); err != nil {
			return nil, err
		}
		favorites = append(favorites, &favorite)
	}

	return favorites, rows.Err()
}
