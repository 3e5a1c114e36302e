package orders

import "context"

// OrderRepository is the persistence port for ordenes.
type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, limit, offset int) ([]*OrderSummary, int, error)
	ListRecentByPatient(ctx context.Context, patientID int64, limit int) ([]*Order, error)
	ListCompletedByPatient(ctx context.Context, patientID int64) ([]*OrderSummary, error)
	UpdateEstado(ctx context.Context, id int64, estado string) error
	AttachPhysician(ctx context.Context, orderID, physicianID int64) error
	// NextPendingAfter returns the id of the oldest order newer than id that
	// is still Pendiente, or 0 when the queue is empty.
	NextPendingAfter(ctx context.Context, id int64) (int64, error)
}

// ResultRepository is the persistence port for resultados.
type ResultRepository interface {
	Create(ctx context.Context, r *Result) error
	GetByOrderAndNBU(ctx context.Context, orderID int64, nbu string) (*Result, error)
	Update(ctx context.Context, r *Result) error
	ListByOrder(ctx context.Context, orderID int64) ([]*Result, error)
	// DeleteByOrderExcept removes every result of the order whose nbu is not
	// in keep. An empty keep list deletes them all.
	DeleteByOrderExcept(ctx context.Context, orderID int64, keep []string) error
}
