package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"souq/internal/config"
	"souq/internal/db"
	"souq/internal/model"
	"souq/internal/repository"
	"souq/internal/service"
)

// seedPost describes one demo listing inserted by the seed tool.
type seedPost struct {
	title       string
	price       string
	contactInfo string
	username    string
	password    string
	items       []service.ItemInput
}

var demoPosts = []seedPost{
	{
		title:       "Standing desk, barely used",
		price:       "120.00",
		contactInfo: "alice@example.com",
		username:    "alice",
		password:    "alice-dev-password",
	},
	{
		title:       "Moving out sale",
		contactInfo: "bob@example.com",
		username:    "bob",
		password:    "bob-dev-password",
		items: []service.ItemInput{
			{Name: "Bookshelf", Price: decimal.NewFromInt(35)},
			{Name: "Reading lamp", Price: decimal.NewFromInt(15)},
			{Name: "Office chair", Price: decimal.NewFromInt(60)},
		},
	},
	{
		title:       "Road bike, 54cm frame",
		price:       "280.00",
		contactInfo: "alice@example.com",
		username:    "alice",
		password:    "alice-dev-password",
	},
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Post{}, &model.Item{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)
	credentials := service.NewCredentialService(userRepo)
	posts := service.NewPostService(postRepo, credentials, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created := 0
	for _, sp := range demoPosts {
		in := service.CreatePostInput{
			Title:       sp.title,
			ContactInfo: sp.contactInfo,
			Items:       sp.items,
			Username:    sp.username,
			Password:    sp.password,
		}
		if sp.price != "" {
			price, err := decimal.NewFromString(sp.price)
			if err != nil {
				log.Printf("Skipping %q, invalid price %q", sp.title, sp.price)
				continue
			}
			in.Price = &price
		}

		post, err := posts.CreatePost(ctx, in)
		if err != nil {
			log.Fatalf("Failed to seed post %q: %v", sp.title, err)
		}
		log.Printf("Seeded post %s (%s), expires %s", post.ID, post.Title, post.ExpiresAt.Format(time.RFC3339))
		created++
	}

	log.Printf("Seed complete, %d posts created", created)
}
