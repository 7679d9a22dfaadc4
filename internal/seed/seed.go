package seed

import (
	"context"
	"fmt"
	"log"

	"artlink/internal/models"
	"artlink/internal/repository"
	"artlink/internal/service"
)

// Options controls how much demo data is created.
type Options struct {
	Users           int
	Artworks        int
	Supplies        int
	Posts           int
	CommentsPerPost int
	Orders          int
}

// Summary counts the documents created by a run.
type Summary struct {
	Users            int
	Artworks         int
	PurchaseRequests int
	Supplies         int
	Orders           int
	Posts            int
	Comments         int
}

// Seeder writes demo data through the document collections.
type Seeder struct {
	repos   *repository.Repositories
	orders  *service.OrderService
	factory *Factory
}

func NewSeeder(repos *repository.Repositories, seed int64) *Seeder {
	return &Seeder{
		repos:   repos,
		orders:  service.NewOrderService(repos.Orders),
		factory: NewFactory(seed),
	}
}

// Run creates users first and attaches artworks, posts and comments to them.
// Orders are placed against the created supplies through the order service, so
// their totals are computed the same way as for API orders.
func (s *Seeder) Run(ctx context.Context, opts Options) (Summary, error) {
	var sum Summary
	f := s.factory

	userIDs := make([]string, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		id, err := create(ctx, s.repos.Users, f.BuildUser())
		if err != nil {
			return sum, fmt.Errorf("seed user: %w", err)
		}
		userIDs = append(userIDs, id)
		sum.Users++
	}
	if len(userIDs) == 0 && (opts.Artworks > 0 || opts.Posts > 0) {
		return sum, fmt.Errorf("seed: artworks and posts need at least one user")
	}

	pick := func() string { return userIDs[f.faker.Number(0, len(userIDs)-1)] }

	for i := 0; i < opts.Artworks; i++ {
		artworkID, err := create(ctx, s.repos.Artworks, f.BuildArtwork(pick()))
		if err != nil {
			return sum, fmt.Errorf("seed artwork: %w", err)
		}
		sum.Artworks++

		if f.faker.Number(0, 3) == 0 {
			pr := models.NewPurchaseRequest()
			pr.ArtworkID = artworkID
			pr.BuyerName = f.faker.Name()
			pr.BuyerEmail = f.faker.Email()
			pr.Message = f.text(f.faker.Sentence(10))
			if _, err := create(ctx, s.repos.PurchaseRequests, pr); err != nil {
				return sum, fmt.Errorf("seed purchase request: %w", err)
			}
			sum.PurchaseRequests++
		}
	}

	supplies := make([]models.Supply, 0, opts.Supplies)
	for i := 0; i < opts.Supplies; i++ {
		supply := f.BuildSupply()
		if _, err := create(ctx, s.repos.Supplies, supply); err != nil {
			return sum, fmt.Errorf("seed supply: %w", err)
		}
		supplies = append(supplies, *supply)
		sum.Supplies++
	}

	if len(supplies) > 0 {
		for i := 0; i < opts.Orders; i++ {
			if _, err := s.orders.CreateOrder(ctx, f.BuildOrderInput(supplies)); err != nil {
				return sum, fmt.Errorf("seed order: %w", err)
			}
			sum.Orders++
		}
	}

	for i := 0; i < opts.Posts; i++ {
		post := f.BuildPost(pick())
		post.CommentsCount = opts.CommentsPerPost
		postID, err := create(ctx, s.repos.Posts, post)
		if err != nil {
			return sum, fmt.Errorf("seed post: %w", err)
		}
		sum.Posts++

		for j := 0; j < opts.CommentsPerPost; j++ {
			if _, err := create(ctx, s.repos.Comments, f.BuildComment(postID, pick())); err != nil {
				return sum, fmt.Errorf("seed comment: %w", err)
			}
			sum.Comments++
		}
	}

	log.Printf("seeded %d users, %d artworks, %d purchase requests, %d supplies, %d orders, %d posts, %d comments",
		sum.Users, sum.Artworks, sum.PurchaseRequests, sum.Supplies, sum.Orders, sum.Posts, sum.Comments)
	return sum, nil
}
