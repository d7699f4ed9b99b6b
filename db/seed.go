// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielhkuo/student-vote/auth"
	"github.com/danielhkuo/student-vote/models"
)

// SeedData is the reference data and credentials loaded out-of-band.
// Passwords are plaintext in the file and hashed on load.
type SeedData struct {
	Organizations []SeedOrganization `json:"organizations"`
	Admins        []SeedAdmin        `json:"admins"`
	Students      []SeedStudent      `json:"students"`
}

type SeedOrganization struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Pairs []SeedPair `json:"pairs"`
}

type SeedPair struct {
	ID      int64        `json:"id"`
	Members []SeedMember `json:"members"`
}

type SeedMember struct {
	ID            int64   `json:"id"`
	Nickname      string  `json:"nickname"`
	FullName      *string `json:"fullName,omitempty"`
	Role          string  `json:"role"`
	ImageFileName *string `json:"imageFileName,omitempty"`
}

type SeedAdmin struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type SeedStudent struct {
	ID       int64  `json:"id"`
	Password string `json:"password"`
}

// LoadSeedFile reads seed data from a JSON file
func LoadSeedFile(path string) (SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SeedData{}, fmt.Errorf("failed to read seed file: %w", err)
	}

	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return SeedData{}, fmt.Errorf("failed to parse seed file: %w", err)
	}

	if err := data.Validate(); err != nil {
		return SeedData{}, err
	}

	return data, nil
}

// Validate checks the structural rules of reference data
// Results are keyed by organization name, so names must be unique too.
func (s SeedData) Validate() error {
	orgIDs := make(map[int64]bool)
	orgNames := make(map[string]bool)
	pairIDs := make(map[int64]bool)
	memberIDs := make(map[int64]bool)

	for _, org := range s.Organizations {
		if org.ID <= 0 || org.Name == "" {
			return fmt.Errorf("organization %d: id and name are required", org.ID)
		}
		if orgIDs[org.ID] {
			return fmt.Errorf("organization %d: duplicate id", org.ID)
		}
		if orgNames[org.Name] {
			return fmt.Errorf("organization %d: duplicate name %q", org.ID, org.Name)
		}
		orgIDs[org.ID] = true
		orgNames[org.Name] = true
		if len(org.Pairs) == 0 {
			return fmt.Errorf("organization %d: at least one pair is required", org.ID)
		}
		for _, pair := range org.Pairs {
			if pair.ID <= 0 {
				return fmt.Errorf("organization %d: pair id is required", org.ID)
			}
			if pairIDs[pair.ID] {
				return fmt.Errorf("pair %d: duplicate id", pair.ID)
			}
			pairIDs[pair.ID] = true
			if len(pair.Members) == 0 || len(pair.Members) > 2 {
				return fmt.Errorf("pair %d: must have one or two members", pair.ID)
			}
			for _, m := range pair.Members {
				if m.Role != models.RoleChairman && m.Role != models.RoleViceChairman {
					return fmt.Errorf("member %d: invalid role %q", m.ID, m.Role)
				}
				if m.Nickname == "" {
					return fmt.Errorf("member %d: nickname is required", m.ID)
				}
				if memberIDs[m.ID] {
					return fmt.Errorf("member %d: duplicate id", m.ID)
				}
				memberIDs[m.ID] = true
			}
		}
	}
	for _, a := range s.Admins {
		if a.Username == "" || a.Password == "" {
			return fmt.Errorf("admin %d: username and password are required", a.ID)
		}
	}
	for _, st := range s.Students {
		if st.ID <= 0 || st.Password == "" {
			return fmt.Errorf("student %d: id and password are required", st.ID)
		}
	}
	return nil
}

// Seed upserts reference data and credentials in one transaction.
// Safe to call repeatedly with the same file.
func Seed(ctx context.Context, conn *sql.DB, data SeedData) error {
	if err := data.Validate(); err != nil {
		return err
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, org := range data.Organizations {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO organization (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name
		`, org.ID, org.Name)
		if err != nil {
			return fmt.Errorf("failed to seed organization %d: %w", org.ID, err)
		}

		for _, pair := range org.Pairs {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO pair (id, organization_id) VALUES ($1, $2)
				ON CONFLICT (id) DO UPDATE SET organization_id = excluded.organization_id
			`, pair.ID, org.ID)
			if err != nil {
				return fmt.Errorf("failed to seed pair %d: %w", pair.ID, err)
			}

			for _, m := range pair.Members {
				_, err = tx.ExecContext(ctx, `
					INSERT INTO organization_member
						(id, organization_id, pair_id, nickname, full_name, role, image_file_name)
					VALUES ($1, $2, $3, $4, $5, $6, $7)
					ON CONFLICT (id) DO UPDATE SET
						organization_id = excluded.organization_id,
						pair_id = excluded.pair_id,
						nickname = excluded.nickname,
						full_name = excluded.full_name,
						role = excluded.role,
						image_file_name = excluded.image_file_name
				`, m.ID, org.ID, pair.ID, m.Nickname, m.FullName, m.Role, m.ImageFileName)
				if err != nil {
					return fmt.Errorf("failed to seed member %d: %w", m.ID, err)
				}
			}
		}
	}

	for _, a := range data.Admins {
		hash, err := auth.HashPassword(a.Password)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO admin (id, username, password_hash) VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET
				username = excluded.username,
				password_hash = excluded.password_hash
		`, a.ID, a.Username, hash)
		if err != nil {
			return fmt.Errorf("failed to seed admin %q: %w", a.Username, err)
		}
	}

	for _, st := range data.Students {
		hash, err := auth.HashPassword(st.Password)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO student (id, password_hash) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET password_hash = excluded.password_hash
		`, st.ID, hash)
		if err != nil {
			return fmt.Errorf("failed to seed student %d: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	return nil
}
