package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"closerlab/internal/model"
)

// ErrNotFound is returned when a looked-up document does not exist.
var ErrNotFound = errors.New("not found")

type SessionRepo interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	// AppendTurns adds turns and refreshes the durable state snapshot in one
	// update, so a crashed request never leaves turns without their state.
	AppendTurns(ctx context.Context, id string, turns []model.ConversationTurn, snapshot *model.BehaviourState) error
	SetStatus(ctx context.Context, id string, status model.SessionStatus, endedAt *time.Time) error
	SetAnalysisStatus(ctx context.Context, id string, status model.AnalysisStatus) error
	ListByTrainee(ctx context.Context, traineeID string) ([]*model.Session, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{collection: db.Collection("sessions")}
}

func (r *sessionRepo) Create(ctx context.Context, session *model.Session) error {
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) AppendTurns(ctx context.Context, id string, turns []model.ConversationTurn, snapshot *model.BehaviourState) error {
	update := bson.M{
		"$push": bson.M{"turns": bson.M{"$each": turns}},
		"$set":  bson.M{"stateSnapshot": snapshot},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sessionRepo) SetStatus(ctx context.Context, id string, status model.SessionStatus, endedAt *time.Time) error {
	set := bson.M{"status": status}
	if endedAt != nil {
		set["endedAt"] = endedAt
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sessionRepo) SetAnalysisStatus(ctx context.Context, id string, status model.AnalysisStatus) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"analysisStatus": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sessionRepo) ListByTrainee(ctx context.Context, traineeID string) ([]*model.Session, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"traineeId": traineeID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
