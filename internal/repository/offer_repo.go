package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"closerlab/internal/model"
)

type OfferRepo interface {
	Create(ctx context.Context, offer *model.Offer) error
	GetByID(ctx context.Context, id string) (*model.Offer, error)
	List(ctx context.Context) ([]*model.Offer, error)
}

type offerRepo struct {
	collection *mongo.Collection
}

func NewOfferRepo(db *mongo.Database) OfferRepo {
	return &offerRepo{collection: db.Collection("offers")}
}

func (r *offerRepo) Create(ctx context.Context, offer *model.Offer) error {
	_, err := r.collection.InsertOne(ctx, offer)
	return err
}

func (r *offerRepo) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	var offer model.Offer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&offer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepo) List(ctx context.Context) ([]*model.Offer, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var offers []*model.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}
