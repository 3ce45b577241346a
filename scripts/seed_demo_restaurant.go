package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/getauthentic/backend/pkg/auth"
)

// Seeds one verified restaurant account so the SPA can be exercised without
// going through the mail verification loop. Run with:
//
//	DB_DSN=... DEMO_EMAIL=... DEMO_PASSWORD=... go run ./scripts
func main() {
	fmt.Println("adding demo restaurant into database...")

	err := godotenv.Load()
	if err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	dsn := os.Getenv("DB_DSN")
	email := os.Getenv("DEMO_EMAIL")
	password := os.Getenv("DEMO_PASSWORD")
	restaurantName := os.Getenv("DEMO_RESTAURANT_NAME")
	if restaurantName == "" {
		restaurantName = "Demo Thai Kitchen"
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	query := `
		INSERT INTO users (id, email, restaurant_name, password_hash, is_verified, chat_history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, '[]', NOW(), NOW())
		ON CONFLICT (email) DO UPDATE SET password_hash = $4, is_verified = TRUE
	`
	_, err = pool.Exec(context.Background(), query, uuid.New(), email, restaurantName, hash)
	if err != nil {
		log.Fatalf("cannot add user: %v", err)
	}

	fmt.Printf("added or updated demo restaurant '%s' (%s) successfully!\n", restaurantName, email)
}
