package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type Fellow struct {
	Identity         string
	Name             string
	AwardYear        int64
	Age              int64
	BirthYear        int64
	Gender           string
	Title            string
	Affiliation      string
	Location         string
	Area             string
	Biography        string
	ShortTitle       string
	ShortAffiliation string
}

const deleteFellows = `DELETE FROM fellow`

func (q *Queries) DeleteFellows(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteFellows)
	return err
}

const createFellow = `
INSERT INTO fellow (
    identity, name, award_year, age, birth_year, gender, title,
    affiliation, location, area, biography, short_title, short_affiliation
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateFellow(ctx context.Context, arg Fellow) error {
	_, err := q.db.ExecContext(ctx, createFellow,
		arg.Identity,
		arg.Name,
		arg.AwardYear,
		arg.Age,
		arg.BirthYear,
		arg.Gender,
		arg.Title,
		arg.Affiliation,
		arg.Location,
		arg.Area,
		arg.Biography,
		arg.ShortTitle,
		arg.ShortAffiliation,
	)
	return err
}

const listFellows = `
SELECT identity, name, award_year, age, birth_year, gender, title,
    affiliation, location, area, biography, short_title, short_affiliation
FROM fellow ORDER BY identity
`

func (q *Queries) ListFellows(ctx context.Context) ([]Fellow, error) {
	rows, err := q.db.QueryContext(ctx, listFellows)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Fellow
	for rows.Next() {
		var f Fellow
		err := rows.Scan(
			&f.Identity,
			&f.Name,
			&f.AwardYear,
			&f.Age,
			&f.BirthYear,
			&f.Gender,
			&f.Title,
			&f.Affiliation,
			&f.Location,
			&f.Area,
			&f.Biography,
			&f.ShortTitle,
			&f.ShortAffiliation,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
