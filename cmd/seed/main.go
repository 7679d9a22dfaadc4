// Command main runs the database seeder for ArtLink.
package main

import (
	"context"
	"flag"
	"log"

	"artlink/internal/cache"
	"artlink/internal/config"
	"artlink/internal/database"
	"artlink/internal/featureflags"
	"artlink/internal/repository"
	"artlink/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numArtworks := flag.Int("artworks", 60, "Number of artworks to create")
	numSupplies := flag.Int("supplies", 30, "Number of supplies to create")
	numPosts := flag.Int("posts", 40, "Number of posts to create")
	numComments := flag.Int("comments", 3, "Comments per post")
	numOrders := flag.Int("orders", 10, "Number of orders to place")
	fakerSeed := flag.Int64("seed", 0, "Faker seed (0 = random)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Writes bump the list cache generation so running servers see the new data.
	cache.InitRedis(cfg.RedisURL)

	repos := repository.NewRepositories(db, featureflags.NewManager(cfg.FeatureFlags))
	_, err = seed.NewSeeder(repos, *fakerSeed).Run(context.Background(), seed.Options{
		Users:           *numUsers,
		Artworks:        *numArtworks,
		Supplies:        *numSupplies,
		Posts:           *numPosts,
		CommentsPerPost: *numComments,
		Orders:          *numOrders,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with demo data.")
}
