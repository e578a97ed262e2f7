package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile é um registro de identidade cadastrado, chaveado por id_number
type Profile struct {
	IDNumber    string    `json:"id_number"`
	Surname     string    `json:"surname"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"date_of_birth"`
	ChiefCode   string    `json:"chief_code"`
	PhotoRef    string    `json:"-"`
	Embedding   []float64 `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClaimedDetails carries the fields a caller claims about themselves.
// It exists only for the duration of one verification request.
type ClaimedDetails struct {
	Surname     string
	Name        string
	DateOfBirth string
	ChiefCode   string
}

// Mismatches reports, per field, whether the claimed value disagrees
// with the stored profile.
type Mismatches struct {
	Surname   bool `json:"surnameMismatch"`
	Names     bool `json:"namesMismatch"`
	DOB       bool `json:"dobMismatch"`
	ChiefCode bool `json:"chiefCodeMismatch"`
}

// DetailsMatch is true iff no field mismatched.
func (m Mismatches) DetailsMatch() bool {
	return !m.Surname && !m.Names && !m.DOB && !m.ChiefCode
}

// Comparison is the outcome of a two-image face comparison (no profile
// lookup involved).
type Comparison struct {
	Score   float64
	Match   bool
	Message string
}

// IdentityVerification is the outcome of a full identity verification:
// biometric match against the enrolled photo plus demographic detail
// comparison. Accepted is the conjunction of both decisions; each is
// reported independently even when the other already failed.
type IdentityVerification struct {
	Score          float64
	BiometricMatch bool
	DetailsMatch   bool
	Mismatches     Mismatches
	Accepted       bool
	Message        string
}

// Verification representa um registro de verificação (audit)
type Verification struct {
	ID             uuid.UUID `json:"id"`
	Mode           string    `json:"mode"`
	IDNumber       string    `json:"id_number,omitempty"`
	Score          float64   `json:"score"`
	BiometricMatch bool      `json:"biometric_match"`
	DetailsMatch   *bool     `json:"details_match,omitempty"`
	LatencyMs      int64     `json:"latency_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// Verification modes recorded in the audit trail.
const (
	ModeCompare  = "compare"
	ModeIdentity = "identity"
)
