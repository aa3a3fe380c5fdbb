package model

import (
	"context"
	"fmt"

	"simpleorm/internal/orm"
)

// ddl holds the CREATE statements per dialect name, in creation order
var ddl = map[string][]string{
	"sqlite": {
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"name" TEXT NOT NULL,
			"email" TEXT NOT NULL UNIQUE,
			"password_hash" TEXT,
			"is_active" INTEGER NOT NULL DEFAULT 1,
			"created_at" TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS "servicos" (
			"id" INTEGER PRIMARY KEY AUTOINCREMENT,
			"name" TEXT NOT NULL,
			"descricao" TEXT,
			"created_at" TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	},
	"postgres": {
		`CREATE TABLE IF NOT EXISTS "users" (
			"id" SERIAL PRIMARY KEY,
			"name" VARCHAR(100) NOT NULL,
			"email" VARCHAR(255) NOT NULL UNIQUE,
			"password_hash" VARCHAR(255),
			"is_active" BOOLEAN NOT NULL DEFAULT TRUE,
			"created_at" TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS "servicos" (
			"id" SERIAL PRIMARY KEY,
			"name" VARCHAR(100) NOT NULL,
			"descricao" VARCHAR(100),
			"created_at" TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
	},
}

// Migrate creates the users and servicos tables when they are missing
func Migrate(ctx context.Context, eng *orm.Engine) error {
	name := eng.Dialect().Name()
	stmts, ok := ddl[name]
	if !ok {
		return fmt.Errorf("no schema for dialect %q", name)
	}

	for _, stmt := range stmts {
		if _, err := eng.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	eng.InvalidateSchema()
	return nil
}
