package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"closerlab/internal/model"
)

type AnalysisRepo interface {
	// Save writes a complete result. Results are immutable once written;
	// a second save for the same session is rejected.
	Save(ctx context.Context, result *model.AnalysisResult) error
	// GetBySessionID returns (nil, nil) when no result exists yet.
	GetBySessionID(ctx context.Context, sessionID string) (*model.AnalysisResult, error)
}

// ErrAlreadyAnalyzed is returned when a session already has a stored result.
var ErrAlreadyAnalyzed = errors.New("analysis result already exists")

type analysisRepo struct {
	collection *mongo.Collection
}

func NewAnalysisRepo(db *mongo.Database) AnalysisRepo {
	return &analysisRepo{collection: db.Collection("analyses")}
}

func (r *analysisRepo) Save(ctx context.Context, result *model.AnalysisResult) error {
	_, err := r.collection.InsertOne(ctx, result)
	if mongo.IsDuplicateKeyError(err) {
		return ErrAlreadyAnalyzed
	}
	return err
}

func (r *analysisRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.AnalysisResult, error) {
	var result model.AnalysisResult
	err := r.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
