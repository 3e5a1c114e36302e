package portal

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/biofad/lis/pkg/apperror"
)

const uniqueViolation = "23505"

type credentialRepoPG struct{ pool *pgxpool.Pool }

func NewCredentialRepoPG(pool *pgxpool.Pool) CredentialRepository {
	return &credentialRepoPG{pool: pool}
}

const credentialCols = `id, dni, password_hash, id_paciente, activo, ultimo_acceso, created_at`

func scanCredential(row pgx.Row) (*Credential, error) {
	var c Credential
	err := row.Scan(&c.ID, &c.DNI, &c.PasswordHash, &c.PatientID,
		&c.Active, &c.LastAccess, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("usuario")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *credentialRepoPG) Create(ctx context.Context, c *Credential) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO pacientes_usuarios (dni, password_hash, id_paciente, activo)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		c.DNI, c.PasswordHash, c.PatientID, c.Active).
		Scan(&c.ID, &c.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.Conflict("ya existe un usuario con este DNI")
	}
	return err
}

func (r *credentialRepoPG) GetByDNI(ctx context.Context, dni string) (*Credential, error) {
	return scanCredential(r.pool.QueryRow(ctx,
		`SELECT `+credentialCols+` FROM pacientes_usuarios WHERE dni = $1`, dni))
}

func (r *credentialRepoPG) GetActiveByDNI(ctx context.Context, dni string) (*Credential, error) {
	return scanCredential(r.pool.QueryRow(ctx,
		`SELECT `+credentialCols+` FROM pacientes_usuarios WHERE dni = $1 AND activo`, dni))
}

func (r *credentialRepoPG) TouchLastAccess(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE pacientes_usuarios SET ultimo_acceso = NOW() WHERE id = $1`, id)
	return err
}
