package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"triviabattle/internal/config"
	"triviabattle/internal/repository"
)

func main() {
	force := flag.Bool("force", false, "insert even when the bank already has questions")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewQuestionRepo(client.Database(cfg.MongoDB))

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count questions: %v", err)
	}
	if count > 0 && !*force {
		log.Printf("Question bank already has %d questions, skipping", count)
		return
	}

	n, err := repo.InsertMany(ctx, sampleQuestions)
	if err != nil {
		log.Fatalf("Failed to insert questions: %v", err)
	}
	log.Printf("Seeded %d questions", n)
}
