package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dekarrin/drawlang/server/dao"
	"github.com/google/uuid"
)

type ProgramsDB struct {
	db *sql.DB
}

func (repo *ProgramsDB) init(fk bool) error {
	stmt := `CREATE TABLE IF NOT EXISTS programs (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES users(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		name TEXT NOT NULL,
		source TEXT NOT NULL,
		png TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	return wrapDBError(err)
}

func (repo *ProgramsDB) Create(ctx context.Context, p dao.Program) (dao.Program, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Program{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO programs (id, user_id, name, source, png, created, modified) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Program{}, wrapDBError(err)
	}

	_, err = stmt.ExecContext(ctx,
		convertToDB_UUID(newUUID),
		convertToDB_UUID(p.UserID),
		p.Name,
		convertToDB_ByteSlice(p.Source),
		convertToDB_ByteSlice(p.PNG),
		convertToDB_Time(p.Created),
		convertToDB_Time(p.Modified),
	)
	if err != nil {
		return dao.Program{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *ProgramsDB) scanRow(row interface {
	Scan(dest ...any) error
}) (dao.Program, error) {
	var p dao.Program
	var id, userID, source, png string
	var created, modified int64

	err := row.Scan(&id, &userID, &p.Name, &source, &png, &created, &modified)
	if err != nil {
		return dao.Program{}, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &p.ID); err != nil {
		return dao.Program{}, err
	}
	if err := convertFromDB_UUID(userID, &p.UserID); err != nil {
		return dao.Program{}, err
	}
	if err := convertFromDB_ByteSlice(source, &p.Source); err != nil {
		return dao.Program{}, err
	}
	if err := convertFromDB_ByteSlice(png, &p.PNG); err != nil {
		return dao.Program{}, err
	}
	convertFromDB_Time(created, &p.Created)
	convertFromDB_Time(modified, &p.Modified)

	return p, nil
}

func (repo *ProgramsDB) GetAll(ctx context.Context) ([]dao.Program, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, user_id, name, source, png, created, modified FROM programs;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Program
	for rows.Next() {
		p, err := repo.scanRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, p)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *ProgramsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Program, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, user_id, name, source, png, created, modified FROM programs WHERE user_id = ?;`, convertToDB_UUID(userID))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Program
	for rows.Next() {
		p, err := repo.scanRow(rows)
		if err != nil {
			return all, err
		}
		all = append(all, p)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *ProgramsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Program, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT id, user_id, name, source, png, created, modified FROM programs WHERE id = ?;`, convertToDB_UUID(id))
	return repo.scanRow(row)
}

func (repo *ProgramsDB) Update(ctx context.Context, id uuid.UUID, p dao.Program) (dao.Program, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE programs SET id=?, user_id=?, name=?, source=?, png=?, modified=? WHERE id=?;`,
		convertToDB_UUID(p.ID),
		convertToDB_UUID(p.UserID),
		p.Name,
		convertToDB_ByteSlice(p.Source),
		convertToDB_ByteSlice(p.PNG),
		convertToDB_Time(p.Modified),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.Program{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Program{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Program{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, p.ID)
}

func (repo *ProgramsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Program, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *ProgramsDB) Close() error {
	return nil
}
