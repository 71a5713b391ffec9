package doctor

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

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &doctorRepoPG{pool: pool} }

const docCols = `id, full_name, specialization, email, phone, experience_years,
	qualification, created_at, updated_at`

// orderable whitelists columns accepted in ListOptions.OrderBy.
var orderable = map[string]bool{
	"created_at": true, "full_name": true, "specialization": true, "experience_years": true,
}

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.FullName, &d.Specialization, &d.Email, &d.Phone,
		&d.ExperienceYears, &d.Qualification, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *doctorRepoPG) List(ctx context.Context, opts ListOptions, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&total); err != nil {
		return nil, 0, apperr.Store("counting doctors", err)
	}

	orderBy := "created_at"
	if opts.OrderBy != "" {
		if !orderable[opts.OrderBy] {
			return nil, 0, apperr.Validationf("cannot order doctors by %q", opts.OrderBy)
		}
		orderBy = opts.OrderBy
	}
	dir := "DESC"
	if opts.Ascending {
		dir = "ASC"
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+docCols+` FROM doctors ORDER BY `+orderBy+` `+dir+` LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, apperr.Store("listing doctors", err)
	}
	defer rows.Close()

	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, apperr.Store("scanning doctor row", err)
		}
		items = append(items, d)
	}
	return items, total, nil
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := scanDoctor(r.pool.QueryRow(ctx, `SELECT `+docCols+` FROM doctors WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("doctor not found")
	}
	if err != nil {
		return nil, apperr.Store("fetching doctor", err)
	}
	return d, nil
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO doctors (full_name, specialization, email, phone, experience_years, qualification)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`,
		d.FullName, d.Specialization, d.Email, d.Phone, d.ExperienceYears, d.Qualification)
	if err := row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return apperr.Store("inserting doctor", err)
	}
	return nil
}

func (r *doctorRepoPG) Update(ctx context.Context, id uuid.UUID, p Patch) (*Doctor, error) {
	if p.IsEmpty() {
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
	if p.FullName != nil {
		add("full_name", *p.FullName)
	}
	if p.Specialization != nil {
		add("specialization", *p.Specialization)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	if p.Phone != nil {
		add("phone", *p.Phone)
	}
	if p.ExperienceYears != nil {
		add("experience_years", *p.ExperienceYears)
	}
	if p.Qualification != nil {
		add("qualification", *p.Qualification)
	}

	query := `UPDATE doctors SET ` + strings.Join(sets, ", ") +
		`, updated_at = NOW() WHERE id = $1 RETURNING ` + docCols
	d, err := scanDoctor(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("doctor not found")
	}
	if err != nil {
		return nil, apperr.Store("updating doctor", err)
	}
	return d, nil
}

func (r *doctorRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return apperr.Store("deleting doctor", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("doctor not found")
	}
	return nil
}
