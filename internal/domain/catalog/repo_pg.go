package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/biofad/lis/pkg/apperror"
)

type determinationRepoPG struct{ pool *pgxpool.Pool }

func NewDeterminationRepoPG(pool *pgxpool.Pool) DeterminationRepository {
	return &determinationRepoPG{pool: pool}
}

const detCols = `id, nbu, nombre, ub, metodo, es_perfil, hijos_nbu, tipo_resultado,
	unidades_resultado, valores_referencia, opciones_lista, activo, created_at`

func scanDetermination(row pgx.Row) (*Determination, error) {
	var d Determination
	err := row.Scan(&d.ID, &d.NBU, &d.Name, &d.UB, &d.Method, &d.IsProfile, &d.ChildNBUs,
		&d.ResultType, &d.ResultUnits, &d.ReferenceValues, &d.ListOptions, &d.Active, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("determinación")
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// uniqueViolation is the postgres SQLSTATE for duplicate unique keys.
const uniqueViolation = "23505"

func (r *determinationRepoPG) Create(ctx context.Context, d *Determination) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO determinaciones (nbu, nombre, ub, metodo, es_perfil, hijos_nbu,
			tipo_resultado, unidades_resultado, valores_referencia, opciones_lista, activo)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at`,
		d.NBU, d.Name, d.UB, d.Method, d.IsProfile, d.ChildNBUs,
		d.ResultType, d.ResultUnits, d.ReferenceValues, d.ListOptions, d.Active).
		Scan(&d.ID, &d.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.Conflict("ya existe una determinación con ese NBU")
	}
	return err
}

func (r *determinationRepoPG) GetByID(ctx context.Context, id int64) (*Determination, error) {
	return scanDetermination(r.pool.QueryRow(ctx,
		`SELECT `+detCols+` FROM determinaciones WHERE id = $1`, id))
}

func (r *determinationRepoPG) GetByNBU(ctx context.Context, nbu string) (*Determination, error) {
	return scanDetermination(r.pool.QueryRow(ctx,
		`SELECT `+detCols+` FROM determinaciones WHERE nbu = $1`, nbu))
}

func (r *determinationRepoPG) ListActive(ctx context.Context) ([]*Determination, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+detCols+` FROM determinaciones WHERE activo ORDER BY nombre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Determination
	for rows.Next() {
		d, err := scanDetermination(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

func (r *determinationRepoPG) Update(ctx context.Context, d *Determination) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE determinaciones SET nbu=$2, nombre=$3, ub=$4, metodo=$5, es_perfil=$6,
			hijos_nbu=$7, tipo_resultado=$8, unidades_resultado=$9,
			valores_referencia=$10, opciones_lista=$11
		WHERE id = $1`,
		d.ID, d.NBU, d.Name, d.UB, d.Method, d.IsProfile,
		d.ChildNBUs, d.ResultType, d.ResultUnits,
		d.ReferenceValues, d.ListOptions)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.Conflict("ya existe una determinación con ese NBU")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("determinación %d", d.ID)
	}
	return nil
}

func (r *determinationRepoPG) SoftDelete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE determinaciones SET activo = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("determinación %d", id)
	}
	return nil
}
