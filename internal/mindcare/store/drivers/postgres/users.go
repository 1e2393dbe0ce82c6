package postgres

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/mindcare/internal/mindcare/domain"
	"github.com/aussiebroadwan/mindcare/internal/mindcare/store"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
)

const userColumns = `id, username, email, password_hash, role, created_at`

type usersRepo struct {
	pool Pool
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return domain.User{}, oops.Code("USER_GET_FAILED").With("operation", "get user by id").With("user_id", id).Wrap(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	u, err := r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		return domain.User{}, oops.Code("USER_GET_FAILED").With("operation", "get user by username").With("username", username).Wrap(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return domain.User{}, oops.Code("USER_GET_FAILED").With("operation", "get user by email").Wrap(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt.UTC(),
	)
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return oops.Code("USER_EXISTS").With("username", u.Username).Wrap(errors.Join(store.ErrAlreadyExists, err))
	}
	return oops.Code("USER_CREATE_FAILED").With("operation", "insert user").With("username", u.Username).Wrap(err)
}

func (r *usersRepo) getOne(ctx context.Context, query string, arg any) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, store.ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}
