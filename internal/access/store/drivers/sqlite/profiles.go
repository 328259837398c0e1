package sqlite

import (
	"context"
	"database/sql"

	"github.com/michat/michat/internal/access/domain"
)

const profileColumns = `iduser, name, about_me, birthday, image`

type profilesRepo struct {
	db dbtx
}

func scanProfile(row *sql.Row) (domain.Profile, error) {
	var (
		p        domain.Profile
		name     sql.NullString
		aboutMe  sql.NullString
		birthday sql.NullTime
	)
	err := row.Scan(&p.UserID, &name, &aboutMe, &birthday, &p.Image)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}

	p.Name = mapNullString(name)
	p.AboutMe = mapNullString(aboutMe)
	p.Birthday = mapNullTime(birthday)
	return p, nil
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO profiles (iduser, name, about_me, birthday, image)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+profileColumns,
		p.UserID,
		mapOptionalString(p.Name),
		mapOptionalString(p.AboutMe),
		mapOptionalTime(p.Birthday),
		p.Image,
	)

	created, err := scanProfile(row)
	if err != nil {
		return domain.Profile{}, mapConstraint(err)
	}
	return created, nil
}

func (r *profilesRepo) GetProfileByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	return scanProfile(r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE iduser = ?`, userID))
}

func (r *profilesRepo) UpdateProfile(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE profiles SET name = ?, about_me = ?, birthday = ?, image = ?
		WHERE iduser = ?
		RETURNING `+profileColumns,
		mapOptionalString(p.Name),
		mapOptionalString(p.AboutMe),
		mapOptionalTime(p.Birthday),
		p.Image,
		p.UserID,
	)
	return scanProfile(row)
}

func (r *profilesRepo) DeleteProfile(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE iduser = ?`, userID)
	return err
}
