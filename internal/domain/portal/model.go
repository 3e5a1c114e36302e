package portal

import "time"

// Credential maps to the pacientes_usuarios table: one login per dni, tied
// to a pacientes row. The hash never leaves the package.
type Credential struct {
	ID           int64      `db:"id" json:"id"`
	DNI          string     `db:"dni" json:"dni"`
	PasswordHash string     `db:"password_hash" json:"-"`
	PatientID    int64      `db:"id_paciente" json:"id_paciente"`
	Active       bool       `db:"activo" json:"activo"`
	LastAccess   *time.Time `db:"ultimo_acceso" json:"ultimo_acceso,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// LoginDTO is the portal login body.
type LoginDTO struct {
	DNI      string `json:"dni"`
	Password string `json:"password"`
}

// RegisterDTO is the portal signup body. The front end sends the patient id
// it obtained from the laboratory, and the dni must belong to that patient.
type RegisterDTO struct {
	DNI        string `json:"dni"`
	Password   string `json:"password"`
	PacienteID int64  `json:"id_paciente"`
}

// Profile is the reduced patient view returned after login.
type Profile struct {
	ID       int64   `json:"id"`
	Nombre   string  `json:"nombre"`
	DNI      string  `json:"dni"`
	Email    *string `json:"email"`
	Telefono *string `json:"telefono"`
}

// ResultView is one loaded result on the portal order screen, enriched with
// its catalog entry.
type ResultView struct {
	NBU               string     `json:"nbu"`
	Nombre            string     `json:"nombre"`
	Valor             *string    `json:"valor"`
	Unidades          string     `json:"unidades"`
	ValoresReferencia string     `json:"valores_referencia"`
	Estado            string     `json:"estado"`
	FechaCarga        *time.Time `json:"fecha_carga,omitempty"`
}

// CompletedOrder is one row of the portal results listing. It carries only
// what the results screen shows, never the patient's own demographics.
type CompletedOrder struct {
	IDOrden   int64     `json:"id_orden"`
	Protocolo string    `json:"protocolo"`
	Fecha     time.Time `json:"fecha"`
	Medico    string    `json:"medico"`
	Estado    string    `json:"estado"`
}

// OrderView is the portal-facing order detail.
type OrderView struct {
	ID         int64        `json:"id"`
	Protocolo  string       `json:"protocolo"`
	Fecha      time.Time    `json:"fecha"`
	Estado     string       `json:"estado"`
	Paciente   string       `json:"paciente"`
	Medico     string       `json:"medico"`
	Resultados []ResultView `json:"resultados"`
}
