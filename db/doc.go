// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles connections, schema creation, and seed data.

# Dialects

The same queries run on PostgreSQL (production) and SQLite (development and
tests). Only the vote id column differs between the two schemas:

	d, err := db.ParseDialect("postgres")
	conn, err := db.Open(d, url)

# Schema Creation

	if err := db.CreateSchema(conn, d); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - organization: voting organizations
  - pair: candidate pairs per organization
  - organization_member: chairman / vice chairman of a pair
  - vote: one row per student per organization
  - admin, student: bcrypt credentials
  - admin_session: admin session tokens

# Relationships

	organization 1──* pair 1──* organization_member
	organization 1──* vote *──1 pair
	admin 1──* admin_session

# Seeding

Reference data is loaded from JSON and upserted by id:

	data, err := db.LoadSeedFile("seed.json")
	err = db.Seed(ctx, conn, data)
*/
package db
