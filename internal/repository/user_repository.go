package repository

import (
	"context"

	"starwars-api/internal/database"
	"starwars-api/internal/entity"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db}
}

func (r *UserRepository) GetUsers(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User

	query := `SELECT id, email, password FROM users ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var user entity.User
		if err := rows.Scan(&user.ID, &user.Email, &user.Password); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user := &entity.User{}
	query := r.db.Rebind(`SELECT id, email, password FROM users WHERE id = ?`)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Email, &user.Password)
	if err != nil {
		return nil, translate(err)
	}

	return user, nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	user := &entity.User{}
	query := r.db.Rebind(`SELECT id, email, password FROM users WHERE email = ?`)
	err := r.db.QueryRowContext(ctx, query, email).Scan(&user.ID, &user.Email, &user.Password)
	if err != nil {
		return nil, translate(err)
	}

	return user, nil
}

// CreateUser inserts user and fills in its id. A taken email yields ErrDuplicate.
func (r *UserRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `INSERT INTO users (email, password) VALUES (?, ?)`
	id, err := r.db.InsertReturningID(ctx, query, user.Email, user.Password)
	if err != nil {
		return nil, translate(err)
	}

	user.ID = id
	return user, nil
}
