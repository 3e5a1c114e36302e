package identity

import "context"

type PatientRepository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	GetByDNI(ctx context.Context, dni string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
}

type PhysicianRepository interface {
	Create(ctx context.Context, m *Physician) error
	GetByID(ctx context.Context, id int64) (*Physician, error)
	GetByLicense(ctx context.Context, license string) (*Physician, error)
	UpdateName(ctx context.Context, id int64, name string) error
}
