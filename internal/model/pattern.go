package model

import "time"

// TraineePattern stores rolling per-trainee aggregates across finished
// analyses. Surfaced as prior-pattern hints in the policy brief; advisory
// only, never part of a DifficultyProfile.
type TraineePattern struct {
	TraineeID string `json:"traineeId" bson:"traineeId"`

	SessionCount   int                `json:"sessionCount" bson:"sessionCount"`
	CategoryAvg    map[string]float64 `json:"categoryAvg" bson:"categoryAvg"`       // category -> rolling avg 0-100
	WeakCategories []string           `json:"weakCategories" bson:"weakCategories"` // lowest two, recomputed on update

	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
