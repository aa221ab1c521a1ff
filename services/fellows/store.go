package fellows

import (
	"context"
	"database/sql"
	"time"

	"fellowharvest/services/fellows/db"

	_ "modernc.org/sqlite"
)

// Store persists one finished table per pipeline run. Push replaces the
// previous run wholesale; the table is never mutated in place.
type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

func (s Store) Push(ctx context.Context, table FellowTable) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.DeleteFellows(ctx)
	if err != nil {
		return err
	}
	for _, row := range table.Rows {
		err := txqry.CreateFellow(ctx, db.Fellow{
			Identity:         row.Identity(),
			Name:             row.Name,
			AwardYear:        int64(row.AwardYear),
			Age:              int64(row.Age),
			BirthYear:        int64(row.BirthYear),
			Gender:           string(row.Gender),
			Title:            row.Title,
			Affiliation:      row.Affiliation,
			Location:         row.Location,
			Area:             row.Area,
			Biography:        row.Biography,
			ShortTitle:       row.ShortTitle,
			ShortAffiliation: row.ShortAffiliation,
		})
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s Store) Pull(ctx context.Context) (FellowTable, error) {
	rows, err := s.qry.ListFellows(ctx)
	if err != nil {
		return FellowTable{}, err
	}

	table := FellowTable{Rows: make([]Subject, len(rows))}
	for i, r := range rows {
		subject := Subject{
			Name:             r.Name,
			AwardYear:        int(r.AwardYear),
			Age:              int(r.Age),
			BirthYear:        int(r.BirthYear),
			Gender:           Gender(r.Gender),
			Title:            r.Title,
			Affiliation:      r.Affiliation,
			Location:         r.Location,
			Area:             r.Area,
			Biography:        r.Biography,
			ShortTitle:       r.ShortTitle,
			ShortAffiliation: r.ShortAffiliation,
		}
		if subject.AwardYear != 0 {
			subject.AwardDate = time.Date(subject.AwardYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
		table.Rows[i] = subject
	}
	return table, nil
}
