package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createEventsTable,
		createTicketsTable,
		createHoldsTable,
		createHoldTicketsTable,
		createTicketIndexes,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createEventsTable = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
CREATE TABLE IF NOT EXISTS events (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    title VARCHAR(500) NOT NULL,
    starts_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    price_pence BIGINT NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'AVAILABLE',
    owner_id UUID,
    hold_id UUID,
    hold_expires_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (status IN ('AVAILABLE', 'HELD', 'SOLD', 'REDEEMED')),
    CHECK (status != 'HELD' OR (hold_id IS NOT NULL AND hold_expires_at IS NOT NULL)),
    CHECK (status NOT IN ('SOLD', 'REDEEMED') OR owner_id IS NOT NULL)
);`

const createHoldsTable = `
CREATE TABLE IF NOT EXISTS holds (
    id UUID PRIMARY KEY,
    event_id UUID NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    buyer_session_id VARCHAR(255) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
    owner_id UUID,
    expires_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    CHECK (status IN ('ACTIVE', 'FINALIZED', 'CANCELLED', 'EXPIRED'))
);`

const createHoldTicketsTable = `
CREATE TABLE IF NOT EXISTS hold_tickets (
    id SERIAL PRIMARY KEY,
    hold_id UUID NOT NULL REFERENCES holds(id) ON DELETE CASCADE,
    ticket_id UUID NOT NULL REFERENCES tickets(id) ON DELETE CASCADE,
    reserved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    UNIQUE(hold_id, ticket_id)
);`

const createTicketIndexes = `
CREATE INDEX IF NOT EXISTS tickets_available_idx
    ON tickets (event_id) WHERE status = 'AVAILABLE';
CREATE INDEX IF NOT EXISTS tickets_hold_idx
    ON tickets (hold_id) WHERE status = 'HELD';
CREATE INDEX IF NOT EXISTS tickets_owner_idx
    ON tickets (owner_id) WHERE owner_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS holds_expiry_idx
    ON holds (expires_at) WHERE status = 'ACTIVE';`
