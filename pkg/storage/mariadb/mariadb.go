package mariadb

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/medifront/frontdesk-backend/config"
)

var (
	db   *sql.DB
	once sync.Once
)

// Connect opens the MariaDB connection pool. Credentials come from the
// environment through config.LoadConfig.
func Connect() *sql.DB {
	once.Do(func() {
		cfg := config.LoadConfig()
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

		var err error
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			log.Fatalf("Failed to open database connection: %v", err)
		}
		db.SetMaxOpenConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err = db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
	})

	return db
}

// GetDB returns the pool created by Connect.
func GetDB() *sql.DB {
	return db
}
