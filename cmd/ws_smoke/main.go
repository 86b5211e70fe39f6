package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"task_tracker/internal/db"
	"task_tracker/internal/domain"
	"task_tracker/internal/repository"
	"task_tracker/internal/service"
)

// Smoke test for the live timer feed: seeds a user with a running task, dials
// /ws/timer against a locally running server and prints a few frames.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ctx := context.Background()
	users := repository.NewUserRepository(pool)
	tasks := repository.NewTaskRepository(pool)

	u, err := users.GetByEmail(ctx, "smoke@example.com")
	if err != nil {
		hash, err := service.HashPassword("smoke-password")
		if err != nil {
			log.Fatalf("hash: %v", err)
		}
		u = &domain.User{Email: "smoke@example.com", Name: "Smoke", PasswordHash: hash}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create user: %v", err)
		}
	}

	task := &domain.Task{UserID: u.ID, Title: "smoke task"}
	if err := tasks.Create(ctx, task); err != nil {
		log.Fatalf("create task: %v", err)
	}

	timer := service.NewTimerService(tasks, nil)
	if _, err := timer.Start(ctx, u.ID, task.ID); err != nil {
		log.Fatalf("start timer: %v", err)
	}
	defer func() {
		if _, err := timer.Stop(ctx, u.ID, task.ID, true); err != nil {
			log.Printf("stop timer: %v", err)
		}
	}()

	service.InitJWT(secret, time.Hour)
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		log.Fatalf("gen token: %v", err)
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := fmt.Sprintf("ws://127.0.0.1:%s/ws/timer?token=%s", port, token)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	for i := 0; i < 3; i++ {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read: %v", err)
		}
		log.Printf("frame %d: %s", i+1, string(msg))
	}

	log.Println("smoke test finished")
}
