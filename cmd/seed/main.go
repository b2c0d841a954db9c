package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"closerlab/internal/config"
	"closerlab/internal/model"
	"closerlab/internal/repository"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	offerRepo := repository.NewOfferRepo(client.Database(cfg.MongoDB))

	offers := []*model.Offer{
		{
			Name:           "Pipeline Accelerator",
			TargetAudience: "B2B founders doing $20k-$100k/month",
			TargetProblem:  "Inconsistent outbound pipeline and long sales cycles",
			Promise:        "A repeatable outbound system producing 15+ qualified calls per month within 90 days",
			PriceRange:     "$6,000 - $12,000",
			Guarantees:     []string{"Work free until the first 10 qualified calls land"},
		},
		{
			Name:           "Retention Engine",
			TargetAudience: "DTC e-commerce brands above $1M ARR",
			TargetProblem:  "High churn and flat repeat-purchase rates",
			Promise:        "Lift 90-day repeat purchase rate by 20% through lifecycle automation",
			PriceRange:     "$4,000/month",
			Guarantees:     []string{"Month-to-month, cancel anytime"},
		},
		{
			Name:           "Hiring Sprint",
			TargetAudience: "Seed to Series A startups",
			TargetProblem:  "Key roles staying open for months and burning the team out",
			Promise:        "Two signed offers for any engineering role within 6 weeks",
			PriceRange:     "$15,000 flat",
			Guarantees:     []string{"Full refund if no offer is signed in 8 weeks"},
		},
	}

	for _, offer := range offers {
		offer.ID = uuid.New().String()
		offer.CreatedAt = time.Now()
		if err := offerRepo.Create(ctx, offer); err != nil {
			log.Fatalf("Failed to seed offer %q: %v", offer.Name, err)
		}
		log.Printf("Seeded offer %q (%s)", offer.Name, offer.ID)
	}

	log.Printf("Done: %d offers seeded", len(offers))
}
