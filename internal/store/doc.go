// Package store provides persistent storage for confhub using SQLite.
//
// # Data Models
//
//   - Registration: an attendee sign-up, unique by lowercased email
//   - Speaker: a speaker profile with optional image and social links
//   - Session: a scheduled talk referencing speakers by ID
//
// Session speaker references are stored as a JSON array in the sessions
// table. They are not foreign keys: deleting a speaker leaves dangling IDs
// behind, and readers skip IDs they cannot resolve.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA busy_timeout=5000;
//
// Database file locations:
//
//   - Production: /var/lib/confhub/confhub.db
//   - Development: ~/.local/share/confhub/confhub.db
//   - Testing: :memory: (in-memory database)
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested entity does not exist
//   - ErrDuplicateRegistration: Email address already registered
//
// All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewMockStore() for unit tests:
//
//	s := store.NewMockStore()
//
// Use NewSQLiteStore(":memory:") or a t.TempDir() path for integration
// tests with real SQLite.
//
// # Migrations
//
// The schema is created with CREATE TABLE IF NOT EXISTS on open. Columns
// added after the first release are applied by runMigrations, which checks
// pragma_table_info before each ALTER TABLE.
package store
