package catalog

import "context"

type DeterminationRepository interface {
	Create(ctx context.Context, d *Determination) error
	GetByID(ctx context.Context, id int64) (*Determination, error)
	GetByNBU(ctx context.Context, nbu string) (*Determination, error)
	ListActive(ctx context.Context) ([]*Determination, error)
	Update(ctx context.Context, d *Determination) error
	SoftDelete(ctx context.Context, id int64) error
}
