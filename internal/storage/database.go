package storage

import (
	"database/sql"
	"log"

	_ "modernc.org/sqlite"
)

var db *sql.DB

// 시간은 RFC3339 문자열로 저장함 (sqlite 드라이버의 DATETIME 파싱 문제 회피)
const timeLayout = "2006-01-02T15:04:05Z07:00"

func InitDB(path string) {
	var err error

	db, err = sql.Open("sqlite", path)
	if err != nil {
		log.Fatal("InitDB(): Failed to open database :", err)
	}
	if err = db.Ping(); err != nil {
		log.Fatal("storage.InitDB(): Failed to connect to database: ", err)
	}

	createUsersTable := `
	CREATE TABLE IF NOT EXISTS users (
			"id" TEXT PRIMARY KEY,
			"email" TEXT NOT NULL UNIQUE,
			"password_hash" TEXT NOT NULL,
			"created_at" TEXT NOT NULL
	);`
	createProfilesTable := `
	CREATE TABLE IF NOT EXISTS profiles (
			"user_id" TEXT PRIMARY KEY,
			"email" TEXT,
			"display_name" TEXT,
			"gender" TEXT,
			"avatar_url" TEXT,
			"measurements" TEXT,
			"created_at" TEXT NOT NULL,
			"updated_at" TEXT NOT NULL,
			FOREIGN KEY(user_id) REFERENCES users(id)
	);`
	createCaptureSessionsTable := `
	CREATE TABLE IF NOT EXISTS capture_sessions (
			"id" TEXT PRIMARY KEY,
			"profile_id" TEXT NOT NULL,
			"state" TEXT NOT NULL,
			"created_at" TEXT NOT NULL,
			"expires_at" TEXT NOT NULL,
			FOREIGN KEY(profile_id) REFERENCES profiles(user_id)
	);`

	if _, err := db.Exec(createUsersTable); err != nil {
		log.Fatalf("InitDB(): Failed to create users table: %v", err)
	}
	if _, err := db.Exec(createProfilesTable); err != nil {
		log.Fatalf("InitDB(): Failed to create profiles table: %v", err)
	}
	if _, err := db.Exec(createCaptureSessionsTable); err != nil {
		log.Fatalf("InitDB(): Failed to create capture_sessions table: %v", err)
	}
	log.Println("InitDB(): Init and create table successfully!")
}

func CloseDB() {
	if db != nil {
		db.Close()
		db = nil
	}
}
