package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"asset-registry-api/internal/model"
)

// personRepository persists model.Person rows.
type personRepository struct {
	DB *sql.DB
}

// NewPersonRepository creates a Repository over the person table.
func NewPersonRepository(db *sql.DB) Repository[model.Person] {
	return &personRepository{DB: db}
}

// role is an enumerated column, so it matches exactly rather than by
// partial text.
var personFields = allowedFields{
	"fullname": {column: "fullname"},
	"document": {column: "document"},
	"role":     {column: "role", exact: true},
}

func (r *personRepository) baseSelect() sq.SelectBuilder {
	return psql.Select("id", "fullname", "document", "role").From("person")
}

func scanPerson(s rowScanner) (model.Person, error) {
	var p model.Person
	err := s.Scan(&p.ID, &p.FullName, &p.Document, &p.Role)
	return p, err
}

func (r *personRepository) Create(ctx context.Context, entity model.Person) (model.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if entity.ID != uuid.Nil {
		return model.Person{}, fmt.Errorf("%w: person %s", ErrAlreadyIdentified, entity.ID)
	}

	query := `
		INSERT INTO person (fullname, document, role)
		VALUES ($1, $2, $3::person_role)
		RETURNING id`

	err := r.DB.QueryRowContext(ctx, query, entity.FullName, entity.Document, string(entity.Role)).Scan(&entity.ID)
	if err != nil {
		return model.Person{}, persistence("failed to create person", err)
	}

	return entity, nil
}

func (r *personRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, args, err := r.baseSelect().Where(sq.Expr("id = ?", id)).ToSql()
	if err != nil {
		return model.Person{}, persistence("failed to build person query", err)
	}

	p, err := scanPerson(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Person{}, fmt.Errorf("%w: person %s", ErrNotFound, id)
		}
		return model.Person{}, persistence("failed to get person by ID", err)
	}
	return p, nil
}

func (r *personRepository) FindAll(ctx context.Context) ([]model.Person, error) {
	return r.list(ctx, r.baseSelect())
}

func (r *personRepository) FindBy(ctx context.Context, attribute, value string) ([]model.Person, error) {
	cond, err := personFields.where(attribute, value)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, r.baseSelect().Where(cond))
}

func (r *personRepository) list(ctx context.Context, qb sq.SelectBuilder) ([]model.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, persistence("failed to build person query", err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence("failed to query persons", err)
	}
	defer rows.Close()

	persons := []model.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, persistence("failed to scan person", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("person row iteration error", err)
	}

	return persons, nil
}

func (r *personRepository) Update(ctx context.Context, entity model.Person) (model.Person, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		UPDATE person
		SET fullname = $1, document = $2, role = $3::person_role
		WHERE id = $4`

	result, err := r.DB.ExecContext(ctx, query, entity.FullName, entity.Document, string(entity.Role), entity.ID)
	if err != nil {
		return model.Person{}, persistence("failed to update person", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return model.Person{}, persistence("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return model.Person{}, fmt.Errorf("%w: person %s", ErrNotFound, entity.ID)
	}

	return entity, nil
}

func (r *personRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctx, `DELETE FROM person WHERE id = $1`, id)
	if err != nil {
		return false, persistence("failed to delete person", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, persistence("failed to get rows affected", err)
	}
	return rowsAffected > 0, nil
}
