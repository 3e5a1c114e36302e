package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/biofad/lis/pkg/apperror"
)

// =========== Order Repository ===========

type orderRepoPG struct{ pool *pgxpool.Pool }

func NewOrderRepoPG(pool *pgxpool.Pool) OrderRepository {
	return &orderRepoPG{pool: pool}
}

const orderCols = `id, protocolo, id_paciente, id_medico, lista_determinaciones_nbu,
	estado, fecha_creacion`

const summaryCols = `o.id, o.protocolo, o.fecha_creacion, o.estado,
	p.apellido_nombre, COALESCE(p.dni, ''), m.nombre_completo`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Protocolo, &o.PatientID, &o.PhysicianID,
		&o.Determinations, &o.Estado, &o.FechaCreacion)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("orden")
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanSummaries(rows pgx.Rows) ([]*OrderSummary, error) {
	defer rows.Close()
	summaries := make([]*OrderSummary, 0)
	for rows.Next() {
		var s OrderSummary
		if err := rows.Scan(&s.ID, &s.Protocolo, &s.FechaCreacion, &s.Estado,
			&s.ApellidoNombre, &s.DNI, &s.MedicoNombre); err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

func (r *orderRepoPG) Create(ctx context.Context, o *Order) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO ordenes (protocolo, id_paciente, id_medico, lista_determinaciones_nbu, estado)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, fecha_creacion`,
		o.Protocolo, o.PatientID, o.PhysicianID, o.Determinations, o.Estado).
		Scan(&o.ID, &o.FechaCreacion)
}

func (r *orderRepoPG) GetByID(ctx context.Context, id int64) (*Order, error) {
	return scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderCols+` FROM ordenes WHERE id = $1`, id))
}

func (r *orderRepoPG) List(ctx context.Context, limit, offset int) ([]*OrderSummary, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ordenes`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+summaryCols+`
		FROM ordenes o
		JOIN pacientes p ON p.id = o.id_paciente
		LEFT JOIN medicos m ON m.id = o.id_medico
		ORDER BY o.fecha_creacion DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	summaries, err := scanSummaries(rows)
	return summaries, total, err
}

func (r *orderRepoPG) ListRecentByPatient(ctx context.Context, patientID int64, limit int) ([]*Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+orderCols+` FROM ordenes
		WHERE id_paciente = $1
		ORDER BY fecha_creacion DESC
		LIMIT $2`, patientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *orderRepoPG) ListCompletedByPatient(ctx context.Context, patientID int64) ([]*OrderSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+summaryCols+`
		FROM ordenes o
		JOIN pacientes p ON p.id = o.id_paciente
		LEFT JOIN medicos m ON m.id = o.id_medico
		WHERE o.id_paciente = $1 AND o.estado = 'Completado'
		ORDER BY o.fecha_creacion DESC`, patientID)
	if err != nil {
		return nil, err
	}
	return scanSummaries(rows)
}

func (r *orderRepoPG) UpdateEstado(ctx context.Context, id int64, estado string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE ordenes SET estado = $2 WHERE id = $1`, id, estado)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("orden %d", id)
	}
	return nil
}

func (r *orderRepoPG) AttachPhysician(ctx context.Context, orderID, physicianID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE ordenes SET id_medico = $2 WHERE id = $1`, orderID, physicianID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("orden %d", orderID)
	}
	return nil
}

func (r *orderRepoPG) NextPendingAfter(ctx context.Context, id int64) (int64, error) {
	var next int64
	err := r.pool.QueryRow(ctx, `
		SELECT id FROM ordenes
		WHERE estado = 'Pendiente' AND id > $1
		ORDER BY id
		LIMIT 1`, id).Scan(&next)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return next, nil
}

// =========== Result Repository ===========

type resultRepoPG struct{ pool *pgxpool.Pool }

func NewResultRepoPG(pool *pgxpool.Pool) ResultRepository {
	return &resultRepoPG{pool: pool}
}

const resultCols = `id, id_orden, nbu, valor, estado, fecha_carga`

func scanResult(row pgx.Row) (*Result, error) {
	var res Result
	err := row.Scan(&res.ID, &res.OrderID, &res.NBU, &res.Valor, &res.Estado, &res.FechaCarga)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("resultado")
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *resultRepoPG) Create(ctx context.Context, res *Result) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO resultados (id_orden, nbu, valor, estado, fecha_carga)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		res.OrderID, res.NBU, res.Valor, res.Estado, res.FechaCarga).
		Scan(&res.ID)
}

func (r *resultRepoPG) GetByOrderAndNBU(ctx context.Context, orderID int64, nbu string) (*Result, error) {
	return scanResult(r.pool.QueryRow(ctx,
		`SELECT `+resultCols+` FROM resultados WHERE id_orden = $1 AND nbu = $2`,
		orderID, nbu))
}

func (r *resultRepoPG) Update(ctx context.Context, res *Result) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE resultados SET valor = $2, estado = $3, fecha_carga = $4
		WHERE id = $1`,
		res.ID, res.Valor, res.Estado, res.FechaCarga)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("resultado %d", res.ID)
	}
	return nil
}

func (r *resultRepoPG) ListByOrder(ctx context.Context, orderID int64) ([]*Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultCols+` FROM resultados WHERE id_orden = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*Result, 0)
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func (r *resultRepoPG) DeleteByOrderExcept(ctx context.Context, orderID int64, keep []string) error {
	if keep == nil {
		keep = []string{}
	}
	_, err := r.pool.Exec(ctx,
		`DELETE FROM resultados WHERE id_orden = $1 AND nbu <> ALL($2)`,
		orderID, keep)
	return err
}
