package main

import (
	"context"
	"log"
	"os"
	"time"

	"task_tracker/internal/db"
	"task_tracker/internal/domain"
	"task_tracker/internal/repository"
	"task_tracker/internal/service"
)

func main() {
	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	email := "tester@example.com"

	u, err := repo.GetByEmail(ctx, email)
	if err == nil {
		log.Printf("user already exists id=%d\n", u.ID)
	} else {
		hash, err := service.HashPassword("password123")
		if err != nil {
			log.Fatalf("hash password failed: %v", err)
		}
		u = &domain.User{Email: email, Name: "Tester", PasswordHash: hash}
		if err := repo.Create(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created id=%d\n", u.ID)
	}

	service.InitJWT(secret, 24*time.Hour)
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("email=%s password=password123\n", email)
	log.Printf("token=Bearer %s\n", token)
}
