package migrations

import (
	"database/sql"
	"time"
)

const usersSQLite = `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'user'
	);
`

const usersMySQL = `
	CREATE TABLE IF NOT EXISTS users (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(50) NOT NULL UNIQUE,
		email VARCHAR(50) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'user'
	);
`

const tasksSQLite = `
	CREATE TABLE IF NOT EXISTS tasks (
		task_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		due_date TEXT NOT NULL,
		priority INTEGER NOT NULL,
		posted_date TEXT NOT NULL,
		status INTEGER NOT NULL DEFAULT 1,
		user_id INTEGER NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);
`

const tasksMySQL = `
	CREATE TABLE IF NOT EXISTS tasks (
		task_id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		due_date VARCHAR(20) NOT NULL,
		priority INT NOT NULL,
		posted_date VARCHAR(30) NOT NULL,
		status INT NOT NULL DEFAULT 1,
		user_id INT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);
`

// AutoMigrateUsers creates the users table if it does not exist.
func AutoMigrateUsers(driver string, retries int, dbs ...*sql.DB) error {
	query := usersSQLite
	if driver == "mysql" {
		query = usersMySQL
	}
	return run(query, retries, dbs...)
}

// AutoMigrateTasks creates the tasks table if it does not exist.
func AutoMigrateTasks(driver string, retries int, dbs ...*sql.DB) error {
	query := tasksSQLite
	if driver == "mysql" {
		query = tasksMySQL
	}
	return run(query, retries, dbs...)
}

func run(query string, retries int, dbs ...*sql.DB) error {
	for _, db := range dbs {
		_, err := db.Exec(query)
		for i := 0; err != nil && i < retries; i++ {
			time.Sleep(1 * time.Second)
			_, err = db.Exec(query)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
