// Command seed bootstraps a development database: the grade ladder and an
// initial admin login. It is idempotent and safe to rerun.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolsync/school-admin-api/pkg/config"
	"github.com/schoolsync/school-admin-api/pkg/database"
)

func main() {
	email := flag.String("admin-email", "admin@school.local", "email for the seeded admin login")
	password := flag.String("admin-password", "", "password for the seeded admin login (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("-admin-password is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for level := 1; level <= 12; level++ {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO grades (level) VALUES ($1) ON CONFLICT (level) DO NOTHING`, level); err != nil {
			log.Fatalf("seed grade %d: %v", level, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, role, active, created_at, updated_at)
		 VALUES ($1, $2, $3, 'Administrator', 'ADMIN', TRUE, now(), now())
		 ON CONFLICT (email) DO NOTHING`,
		uuid.NewString(), *email, string(hash))
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		log.Printf("admin %s already present, left untouched", *email)
	} else {
		log.Printf("admin %s created", *email)
	}
	log.Println("seed complete")
}
