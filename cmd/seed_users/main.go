package main

import (
	"context"
	"log"
	"os"

	"apoema_board/internal/db"
	"apoema_board/internal/domain"
	"apoema_board/internal/repository"
	"apoema_board/internal/service"
)

// Seeds the user directory with a demo user and prints a JWT for it, so a
// fresh deployment can be exercised without wiring up the real directory sync.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	email := "demo@apoema.local"

	u, err := repo.GetByEmail(ctx, email)
	if err != nil {
		u = &domain.User{Name: "Demo User", Email: email}
		if err := repo.Create(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created id=%d\n", u.ID)
	} else {
		log.Printf("user already exists id=%d\n", u.ID)
	}

	service.InitJWT()
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
