package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/biofad/lis/pkg/apperror"
)

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

const patientCols = `id, dni, apellido_nombre, fecha_nacimiento, telefono, email,
	domicilio, obra_social, nro_afiliado, created_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.DNI, &p.FullName, &p.BirthDate, &p.Phone, &p.Email,
		&p.Address, &p.Insurer, &p.MemberNumber, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("paciente")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO pacientes (dni, apellido_nombre, fecha_nacimiento, telefono,
			email, domicilio, obra_social, nro_afiliado)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at`,
		p.DNI, p.FullName, p.BirthDate, p.Phone,
		p.Email, p.Address, p.Insurer, p.MemberNumber).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM pacientes WHERE id = $1`, id))
}

func (r *patientRepoPG) GetByDNI(ctx context.Context, dni string) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM pacientes WHERE dni = $1 ORDER BY id LIMIT 1`, dni))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE pacientes SET dni=$2, apellido_nombre=$3, fecha_nacimiento=$4,
			telefono=$5, email=$6, domicilio=$7, obra_social=$8, nro_afiliado=$9
		WHERE id = $1`,
		p.ID, p.DNI, p.FullName, p.BirthDate,
		p.Phone, p.Email, p.Address, p.Insurer, p.MemberNumber)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("paciente %d", p.ID)
	}
	return nil
}

// =========== Physician Repository ===========

type physicianRepoPG struct{ pool *pgxpool.Pool }

func NewPhysicianRepoPG(pool *pgxpool.Pool) PhysicianRepository {
	return &physicianRepoPG{pool: pool}
}

func scanPhysician(row pgx.Row) (*Physician, error) {
	var m Physician
	err := row.Scan(&m.ID, &m.License, &m.FullName, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("medico")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *physicianRepoPG) Create(ctx context.Context, m *Physician) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO medicos (matricula, nombre_completo)
		VALUES ($1,$2)
		RETURNING id, created_at`,
		m.License, m.FullName).
		Scan(&m.ID, &m.CreatedAt)
}

func (r *physicianRepoPG) GetByID(ctx context.Context, id int64) (*Physician, error) {
	return scanPhysician(r.pool.QueryRow(ctx,
		`SELECT id, matricula, nombre_completo, created_at FROM medicos WHERE id = $1`, id))
}

func (r *physicianRepoPG) GetByLicense(ctx context.Context, license string) (*Physician, error) {
	return scanPhysician(r.pool.QueryRow(ctx,
		`SELECT id, matricula, nombre_completo, created_at FROM medicos WHERE matricula = $1 ORDER BY id LIMIT 1`, license))
}

func (r *physicianRepoPG) UpdateName(ctx context.Context, id int64, name string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE medicos SET nombre_completo = $2 WHERE id = $1`, id, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("medico %d", id)
	}
	return nil
}
