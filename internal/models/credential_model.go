package models

import (
	"database/sql"
	"time"
)

// Credential holds the delegated org-admin token pair. One row per purpose,
// written only by the token service; rows are overwritten, never deleted.
type Credential struct {
	ID               int64        `db:"id" json:"id"`
	Purpose          string       `db:"purpose" json:"purpose"`
	AccessToken      string       `db:"access_token" json:"-"`
	RefreshToken     string       `db:"refresh_token" json:"-"`
	AccessExpiresAt  time.Time    `db:"access_expires_at" json:"access_expires_at"`
	RefreshExpiresAt sql.NullTime `db:"refresh_expires_at" json:"refresh_expires_at"`
	UpdatedAt        time.Time    `db:"updated_at" json:"updated_at"`
}

const CredentialPurposeLinkedInAdmin = "linkedin-admin"
