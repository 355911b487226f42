package postgres

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"staffhub/internal/config"

	"github.com/jmoiron/sqlx"
)

var DB_Status bool

func ConnectAndCreateDB(cfg config.PostgresConfig) (*sqlx.DB, error) {
	defaultConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	defaultDB, err := sql.Open("postgres", defaultConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to default postgres db: %w", err)
	}
	defer defaultDB.Close()

	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)`
	err = defaultDB.QueryRow(checkQuery, cfg.DBName).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check if database exists: %w", err)
	}

	if !exists {
		createQuery := fmt.Sprintf(`CREATE DATABASE "%s"`, cfg.DBName)
		_, err = defaultDB.Exec(createQuery)
		if err != nil {
			return nil, fmt.Errorf("failed to create database %s: %w", cfg.DBName, err)
		}
		log.Printf("database %q created", cfg.DBName)
	}

	targetConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.DBName)

	db, err := sqlx.Connect("postgres", targetConnStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to target database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping target database: %w", err)
	}
	DB_Status = true

	return db, nil
}

func RetryConnectOnFailed(waitAmount time.Duration, db **sqlx.DB, cfg config.PostgresConfig) {
	if DB_Status {
		log.Printf("false database lost connection alert! abort retry")
		return
	}
	curDB := *db
	if curDB != nil {
		if err := curDB.Ping(); err != nil {
			log.Printf("failed to ping target database: %s, retry db connection\n", err)
		}
	}

	newDB, err := ConnectAndCreateDB(cfg)
	if err == nil {
		*db = newDB
		log.Printf("database retry connection successfully\n")
		return
	}
	log.Printf("failed to retry connect database: %s, next retry in %v\n", err, waitAmount)
	time.Sleep(waitAmount)

	RetryConnectOnFailed(waitAmount, db, cfg)
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(64) PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		employee_id VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_login TIMESTAMPTZ,
		login_attempts INT NOT NULL DEFAULT 0,
		locked_until BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_sessions (
		id VARCHAR(64) PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL REFERENCES users(id),
		token VARCHAR(64) UNIQUE NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		revoked BOOLEAN NOT NULL DEFAULT false
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_refresh_sessions_live_user ON refresh_sessions(user_id) WHERE NOT revoked`,
	`CREATE TABLE IF NOT EXISTS roles (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) UNIQUE NOT NULL,
		display_name VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS user_roles (
		id SERIAL PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL REFERENCES users(id),
		role_id INT NOT NULL REFERENCES roles(id),
		assigned_by VARCHAR(64),
		assigned_at BIGINT NOT NULL DEFAULT 0,
		expires_at BIGINT,
		is_active BOOLEAN NOT NULL DEFAULT true,
		UNIQUE (user_id, role_id)
	)`,
	`CREATE TABLE IF NOT EXISTS departments (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(100) UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS designations (
		id VARCHAR(64) PRIMARY KEY,
		title VARCHAR(100) NOT NULL,
		department_id VARCHAR(64) NOT NULL REFERENCES departments(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id VARCHAR(64) PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		phone VARCHAR(20) NOT NULL DEFAULT '',
		department_id VARCHAR(64) NOT NULL REFERENCES departments(id),
		designation_id VARCHAR(64) NOT NULL REFERENCES designations(id),
		manager_id VARCHAR(64),
		hire_date VARCHAR(10) NOT NULL,
		salary NUMERIC(12,2) NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id VARCHAR(64) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		assignee_id VARCHAR(64) NOT NULL REFERENCES employees(id),
		assigner_id VARCHAR(64) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		priority VARCHAR(20) NOT NULL DEFAULT 'normal',
		due_date VARCHAR(10),
		completed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS manager_notes (
		id VARCHAR(64) PRIMARY KEY,
		employee_id VARCHAR(64) NOT NULL REFERENCES employees(id),
		author_id VARCHAR(64) NOT NULL,
		content TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS announcements (
		id VARCHAR(64) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		body TEXT NOT NULL,
		author_id VARCHAR(64) NOT NULL,
		department_id VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id SERIAL PRIMARY KEY,
		user_id VARCHAR(64),
		action VARCHAR(50) NOT NULL,
		resource_type VARCHAR(50),
		resource_id VARCHAR(64),
		success BOOLEAN NOT NULL DEFAULT true,
		error_message TEXT,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// InitSchema creates any missing tables. Statements are idempotent, a
// restart against a provisioned database is a no-op.
func InitSchema(db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}
