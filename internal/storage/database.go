package storage

import (
	"database/sql"
	"fmt"
	"strings"

	"sentracker/internal/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the database configured for the given driver.
func Open(dbType string, cfg *config.Config) (*sql.DB, error) {
	dbCfg, ok := cfg.Databases[dbType]
	if !ok {
		return nil, fmt.Errorf("database config for %s not found", dbType)
	}

	var (
		db  *sql.DB
		err error
	)

	switch strings.ToLower(dbType) {
	case "sqlite", "sqlite3":
		if dbCfg.DSN == "" {
			return nil, fmt.Errorf("sqlite dsn must be provided")
		}
		db, err = sql.Open("sqlite3", dbCfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			dbCfg.Username,
			dbCfg.Password,
			dbCfg.Host,
			dbCfg.Port,
			dbCfg.DBName,
			dbCfg.Params,
		)
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", dbType)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate ensures the required tables are present. Conversations and
// alerts carry foreign keys to customer_profiles so no row can ever
// reference a nonexistent customer.
func Migrate(db *sql.DB, driver string) error {
	var stmts []string
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS customer_profiles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				customer_id TEXT NOT NULL UNIQUE,
				lifetime_sentiment REAL NOT NULL DEFAULT 50,
				churn_risk REAL NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS conversations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				customer_id TEXT NOT NULL,
				context_type TEXT NOT NULL,
				sentiment_score REAL NOT NULL,
				trend TEXT NOT NULL,
				risk_level TEXT NOT NULL,
				messages_analyzed INTEGER NOT NULL,
				predicted_action TEXT NOT NULL,
				confidence REAL NOT NULL,
				messages TEXT NOT NULL,
				created_at DATETIME NOT NULL,
				FOREIGN KEY(customer_id) REFERENCES customer_profiles(customer_id) ON DELETE CASCADE
			)`,
			`CREATE TABLE IF NOT EXISTS risk_alerts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				customer_id TEXT NOT NULL,
				severity TEXT NOT NULL,
				message TEXT NOT NULL,
				resolved INTEGER NOT NULL DEFAULT 0,
				note TEXT NOT NULL DEFAULT '',
				created_at DATETIME NOT NULL,
				FOREIGN KEY(customer_id) REFERENCES customer_profiles(customer_id) ON DELETE CASCADE
			)`,
			`CREATE INDEX IF NOT EXISTS idx_conversations_customer ON conversations(customer_id)`,
			`CREATE INDEX IF NOT EXISTS idx_risk_alerts_customer ON risk_alerts(customer_id)`,
			`CREATE INDEX IF NOT EXISTS idx_risk_alerts_resolved ON risk_alerts(resolved)`,
			`CREATE INDEX IF NOT EXISTS idx_customer_profiles_risk ON customer_profiles(churn_risk DESC)`,
		}
	case "mysql":
		stmts = []string{
			`CREATE TABLE IF NOT EXISTS customer_profiles (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				customer_id VARCHAR(255) NOT NULL UNIQUE,
				lifetime_sentiment DOUBLE NOT NULL DEFAULT 50,
				churn_risk DOUBLE NOT NULL DEFAULT 0,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_customer_profiles_risk (churn_risk)
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS conversations (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				customer_id VARCHAR(255) NOT NULL,
				context_type VARCHAR(50) NOT NULL,
				sentiment_score DOUBLE NOT NULL,
				trend VARCHAR(50) NOT NULL,
				risk_level VARCHAR(50) NOT NULL,
				messages_analyzed INT NOT NULL,
				predicted_action VARCHAR(50) NOT NULL,
				confidence DOUBLE NOT NULL,
				messages MEDIUMTEXT NOT NULL,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_conversations_customer (customer_id),
				CONSTRAINT fk_conversations_customer FOREIGN KEY (customer_id) REFERENCES customer_profiles(customer_id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS risk_alerts (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
				customer_id VARCHAR(255) NOT NULL,
				severity VARCHAR(50) NOT NULL,
				message TEXT NOT NULL,
				resolved TINYINT(1) NOT NULL DEFAULT 0,
				note TEXT,
				created_at DATETIME NOT NULL,
				PRIMARY KEY (id),
				INDEX idx_risk_alerts_customer (customer_id),
				INDEX idx_risk_alerts_resolved (resolved),
				CONSTRAINT fk_risk_alerts_customer FOREIGN KEY (customer_id) REFERENCES customer_profiles(customer_id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		}
	default:
		return fmt.Errorf("unsupported driver for migration: %s", driver)
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate (%s): %w", driver, err)
		}
	}
	return nil
}
