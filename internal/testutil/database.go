package testutil

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/grubdash_test?parseTime=true"

// OrdersTableDDL mirrors the schema created by the MySQL order repository.
const OrdersTableDDL = `
	CREATE TABLE IF NOT EXISTS Orders (
		seq BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id VARCHAR(64) NOT NULL,
		deliverTo VARCHAR(255) NOT NULL,
		mobileNumber VARCHAR(50) NOT NULL,
		status VARCHAR(32) NOT NULL,
		dishes JSON NOT NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_orders_id (id)
	)`

// SetupTestDB opens the MySQL test database named by GRUBDASH_TEST_DSN, or a
// local grubdash_test database. The test is skipped when it is unreachable.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("GRUBDASH_TEST_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables creates the tables used by the tests.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec(OrdersTableDDL); err != nil {
		t.Fatalf("failed to create table Orders: %v", err)
	}
}

// CleanupTestDB empties the test tables and closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	if _, err := db.Exec("DELETE FROM Orders"); err != nil {
		t.Logf("failed to clean table Orders: %v", err)
	}

	db.Close()
}
