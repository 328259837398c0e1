package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/michat/michat/internal/access/domain"
	"github.com/michat/michat/internal/access/store"
)

const userColumns = `userId, email, username, password, datacreated, dataupdated`

type usersRepo struct {
	db dbtx
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	now := time.Now().UTC()
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (userId, email, username, password, datacreated, dataupdated)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		u.ID, u.Email, u.Username, u.PasswordHash, now, now,
	)

	created, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}
	return created, nil
}

func (r *usersRepo) UserExists(ctx context.Context, email, username string) (domain.Existence, error) {
	var ex domain.Existence

	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email,
	).Scan(&ex.EmailExists)
	if err != nil {
		return domain.Existence{}, err
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)`, username,
	).Scan(&ex.UsernameExists)
	if err != nil {
		return domain.Existence{}, err
	}

	return ex, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE userId = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

func (r *usersRepo) UpdateUsername(ctx context.Context, userID, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET username = ?, dataupdated = ?
		WHERE userId = ?
		RETURNING `+userColumns,
		username, time.Now().UTC(), userID,
	)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}
	return u, nil
}

func (r *usersRepo) UpdateEmail(ctx context.Context, userID, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET email = ?, dataupdated = ?
		WHERE userId = ?
		RETURNING `+userColumns,
		email, time.Now().UTC(), userID,
	)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}
	return u, nil
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users SET password = ?, dataupdated = ?
		WHERE userId = ?
		RETURNING `+userColumns,
		newHash, time.Now().UTC(), userID,
	)
	return scanUser(row)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE userId = ?`, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
