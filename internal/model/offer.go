package model

import "time"

// Offer is the product/service the rep is selling. Read-only from the
// roleplay engine's perspective; it only feeds the generation brief.
type Offer struct {
	ID             string   `json:"id" bson:"_id,omitempty"`
	Name           string   `json:"name" bson:"name"`
	TargetAudience string   `json:"targetAudience" bson:"targetAudience"`
	TargetProblem  string   `json:"targetProblem" bson:"targetProblem"`
	Promise        string   `json:"promise" bson:"promise"`
	PriceRange     string   `json:"priceRange" bson:"priceRange"`
	Guarantees     []string `json:"guarantees,omitempty" bson:"guarantees,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
