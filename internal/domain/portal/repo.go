package portal

import "context"

// CredentialRepository is the persistence port for pacientes_usuarios.
type CredentialRepository interface {
	Create(ctx context.Context, c *Credential) error
	// GetByDNI returns the credential regardless of its activo flag; used to
	// detect duplicates on signup.
	GetByDNI(ctx context.Context, dni string) (*Credential, error)
	// GetActiveByDNI returns the credential only when activo is set.
	GetActiveByDNI(ctx context.Context, dni string) (*Credential, error)
	TouchLastAccess(ctx context.Context, id int64) error
}
