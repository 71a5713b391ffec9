package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careboard/careboard/pkg/apperr"
)

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &patientRepoPG{pool: pool} }

const patCols = `id, full_name, email, phone, date_of_birth, gender,
	blood_group, address, emergency_contact, created_at, updated_at`

var orderable = map[string]bool{
	"created_at": true, "full_name": true, "date_of_birth": true,
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FullName, &p.Email, &p.Phone, &p.DateOfBirth, &p.Gender,
		&p.BloodGroup, &p.Address, &p.EmergencyContact, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) List(ctx context.Context, opts ListOptions, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, apperr.Store("counting patients", err)
	}

	orderBy := "created_at"
	if opts.OrderBy != "" {
		if !orderable[opts.OrderBy] {
			return nil, 0, apperr.Validationf("cannot order patients by %q", opts.OrderBy)
		}
		orderBy = opts.OrderBy
	}
	dir := "DESC"
	if opts.Ascending {
		dir = "ASC"
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+patCols+` FROM patients ORDER BY `+orderBy+` `+dir+` LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, apperr.Store("listing patients", err)
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, apperr.Store("scanning patient row", err)
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := scanPatient(r.pool.QueryRow(ctx, `SELECT `+patCols+` FROM patients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("patient not found")
	}
	if err != nil {
		return nil, apperr.Store("fetching patient", err)
	}
	return p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients (full_name, email, phone, date_of_birth, gender,
			blood_group, address, emergency_contact)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`,
		p.FullName, p.Email, p.Phone, p.DateOfBirth, p.Gender,
		p.BloodGroup, p.Address, p.EmergencyContact)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return apperr.Store("inserting patient", err)
	}
	return nil
}

func (r *patientRepoPG) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Patient, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var args []interface{}
	args = append(args, id)
	idx := 2

	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}
	if patch.FullName != nil {
		add("full_name", *patch.FullName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Phone != nil {
		add("phone", *patch.Phone)
	}
	if patch.DateOfBirth != nil {
		add("date_of_birth", *patch.DateOfBirth)
	}
	if patch.Gender != nil {
		add("gender", *patch.Gender)
	}
	if patch.BloodGroup != nil {
		add("blood_group", *patch.BloodGroup)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.EmergencyContact != nil {
		add("emergency_contact", *patch.EmergencyContact)
	}

	query := `UPDATE patients SET ` + strings.Join(sets, ", ") +
		`, updated_at = NOW() WHERE id = $1 RETURNING ` + patCols
	p, err := scanPatient(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("patient not found")
	}
	if err != nil {
		return nil, apperr.Store("updating patient", err)
	}
	return p, nil
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return apperr.Store("deleting patient", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("patient not found")
	}
	return nil
}
