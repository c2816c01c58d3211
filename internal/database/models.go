package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type JobDescription struct {
	ID          uuid.UUID
	UserID      string
	Title       string
	Description string
	CreatedAt   time.Time
}

type Candidate struct {
	ID                  uuid.UUID
	ResumeURL           string
	ResumeHash          string
	Name                string
	ContactDetails      json.RawMessage
	ProfessionalTitle   sql.NullString
	ProfessionalSummary sql.NullString
	SocialLinks         json.RawMessage
	ProjectLinks        json.RawMessage
	Experience          string
	Education           string
	TotalExperience     sql.NullFloat64
	ExceptionalAbility  string
	TechStack           []string
	Skills              string
	Embedding           []float32
	CreatedAt           time.Time
}
