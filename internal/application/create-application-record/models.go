// internal/application/create-application-record/models.go
package createapplicationrecord

import "builder-network/internal/models"

type Input struct {
	Application *models.Application `json:"application"`
}

type Output struct {
	Record *models.Record `json:"record"`
}

const (
	insertApplicationSQL = `
		INSERT INTO builder_applications (
			id, legal_business_name, contact_name, contact_email, payload, submitted_at
		) VALUES ($1, $2, $3, $4, $5, $6)`

	createTableSQL = `
		CREATE TABLE IF NOT EXISTS builder_applications (
			id                  UUID PRIMARY KEY,
			legal_business_name TEXT NOT NULL,
			contact_name        TEXT NOT NULL,
			contact_email       TEXT NOT NULL,
			payload             JSONB NOT NULL,
			submitted_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	createSubmittedAtIndexSQL = `
		CREATE INDEX IF NOT EXISTS builder_applications_submitted_at_idx
			ON builder_applications (submitted_at DESC)`
)
