package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/careboard/careboard/internal/domain/doctor"
	"github.com/careboard/careboard/internal/domain/patient"
	"github.com/careboard/careboard/pkg/apperr"
)

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &appointmentRepoPG{pool: pool} }

const apptCols = `id, patient_id, doctor_id, appointment_date, appointment_time,
	status, reason, notes, created_at, updated_at`

// Snapshot columns for the embedded join. Both sides of the join are LEFT,
// so every column scans through a nullable holder.
const apptJoinCols = `a.id, a.patient_id, a.doctor_id, a.appointment_date, a.appointment_time,
	a.status, a.reason, a.notes, a.created_at, a.updated_at,
	p.id, p.full_name, p.email, p.phone, p.date_of_birth, p.gender,
	p.blood_group, p.address, p.emergency_contact, p.created_at, p.updated_at,
	d.id, d.full_name, d.specialization, d.email, d.phone, d.experience_years,
	d.qualification, d.created_at, d.updated_at`

var orderable = map[string]bool{
	"appointment_date": true, "created_at": true, "status": true,
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.AppointmentDate, &a.AppointmentTime,
		&a.Status, &a.Reason, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func scanAppointmentJoin(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var (
		pID                              *uuid.UUID
		pFullName, pEmail, pPhone        *string
		pDOB, pGender                    *string
		pBloodGroup, pAddr, pEmergency   *string
		pCreatedAt, pUpdatedAt           *time.Time
		dID                              *uuid.UUID
		dFullName, dSpec, dEmail, dPhone *string
		dExperience                      *int
		dQualification                   *string
		dCreatedAt, dUpdatedAt           *time.Time
	)
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.AppointmentDate, &a.AppointmentTime,
		&a.Status, &a.Reason, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&pID, &pFullName, &pEmail, &pPhone, &pDOB, &pGender,
		&pBloodGroup, &pAddr, &pEmergency, &pCreatedAt, &pUpdatedAt,
		&dID, &dFullName, &dSpec, &dEmail, &dPhone, &dExperience,
		&dQualification, &dCreatedAt, &dUpdatedAt)
	if err != nil {
		return nil, err
	}
	if pID != nil {
		a.Patient = &patient.Patient{
			ID:               *pID,
			FullName:         *pFullName,
			Email:            *pEmail,
			Phone:            *pPhone,
			DateOfBirth:      *pDOB,
			Gender:           *pGender,
			BloodGroup:       pBloodGroup,
			Address:          pAddr,
			EmergencyContact: pEmergency,
			CreatedAt:        *pCreatedAt,
			UpdatedAt:        *pUpdatedAt,
		}
	}
	if dID != nil {
		a.Doctor = &doctor.Doctor{
			ID:              *dID,
			FullName:        *dFullName,
			Specialization:  *dSpec,
			Email:           *dEmail,
			Phone:           *dPhone,
			ExperienceYears: *dExperience,
			Qualification:   *dQualification,
			CreatedAt:       *dCreatedAt,
			UpdatedAt:       *dUpdatedAt,
		}
	}
	return &a, nil
}

func orderClause(opts ListOptions, prefix string) (string, error) {
	col := "appointment_date"
	if opts.OrderBy != "" {
		if !orderable[opts.OrderBy] {
			return "", apperr.Validationf("cannot order appointments by %q", opts.OrderBy)
		}
		col = opts.OrderBy
	}
	dir := "DESC"
	if opts.Ascending {
		dir = "ASC"
	}
	// created_at keeps the tie-break stable across repeated fetches.
	return fmt.Sprintf(" ORDER BY %s%s %s, %screated_at DESC", prefix, col, dir, prefix), nil
}

func (r *appointmentRepoPG) List(ctx context.Context, opts ListOptions, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return nil, 0, apperr.Store("counting appointments", err)
	}

	if opts.Embed {
		order, err := orderClause(opts, "a.")
		if err != nil {
			return nil, 0, err
		}
		rows, err := r.pool.Query(ctx, `
			SELECT `+apptJoinCols+`
			FROM appointments a
			LEFT JOIN patients p ON p.id = a.patient_id
			LEFT JOIN doctors d ON d.id = a.doctor_id`+order+` LIMIT $1 OFFSET $2`,
			limit, offset)
		if err != nil {
			return nil, 0, apperr.Store("listing appointments with snapshots", err)
		}
		defer rows.Close()

		var items []*Appointment
		for rows.Next() {
			a, err := scanAppointmentJoin(rows)
			if err != nil {
				return nil, 0, apperr.Store("scanning appointment join row", err)
			}
			items = append(items, a)
		}
		return items, total, nil
	}

	order, err := orderClause(opts, "")
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+apptCols+` FROM appointments`+order+` LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, apperr.Store("listing appointments", err)
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, apperr.Store("scanning appointment row", err)
		}
		items = append(items, a)
	}
	return items, total, nil
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointmentJoin(r.pool.QueryRow(ctx, `
		SELECT `+apptJoinCols+`
		FROM appointments a
		LEFT JOIN patients p ON p.id = a.patient_id
		LEFT JOIN doctors d ON d.id = a.doctor_id
		WHERE a.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return nil, apperr.Store("fetching appointment", err)
	}
	return a, nil
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (patient_id, doctor_id, appointment_date, appointment_time,
			status, reason, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at`,
		a.PatientID, a.DoctorID, a.AppointmentDate, a.AppointmentTime,
		a.Status, a.Reason, a.Notes)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return apperr.Store("inserting appointment", err)
	}
	return nil
}

func (r *appointmentRepoPG) Update(ctx context.Context, id uuid.UUID, p Patch) (*Appointment, error) {
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
	if p.PatientID != nil {
		add("patient_id", *p.PatientID)
	}
	if p.DoctorID != nil {
		add("doctor_id", *p.DoctorID)
	}
	if p.AppointmentDate != nil {
		add("appointment_date", *p.AppointmentDate)
	}
	if p.AppointmentTime != nil {
		add("appointment_time", *p.AppointmentTime)
	}
	if p.Status != nil {
		add("status", *p.Status)
	}
	if p.Reason != nil {
		add("reason", *p.Reason)
	}
	if p.Notes != nil {
		add("notes", *p.Notes)
	}

	query := `UPDATE appointments SET ` + strings.Join(sets, ", ") +
		`, updated_at = NOW() WHERE id = $1 RETURNING ` + apptCols
	a, err := scanAppointment(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("appointment not found")
	}
	if err != nil {
		return nil, apperr.Store("updating appointment", err)
	}
	return a, nil
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return apperr.Store("deleting appointment", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("appointment not found")
	}
	return nil
}
