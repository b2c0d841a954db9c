package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"closerlab/internal/model"
	"closerlab/internal/repository"
)

var ErrOfferIncomplete = errors.New("offer requires name, target problem and promise")

// OfferService manages the catalog of offers used in roleplay briefs.
type OfferService struct {
	offerRepo repository.OfferRepo
}

func NewOfferService(offerRepo repository.OfferRepo) *OfferService {
	return &OfferService{offerRepo: offerRepo}
}

func (s *OfferService) Create(ctx context.Context, offer *model.Offer) (*model.Offer, error) {
	if offer.Name == "" || offer.TargetProblem == "" || offer.Promise == "" {
		return nil, ErrOfferIncomplete
	}
	offer.ID = uuid.New().String()
	offer.CreatedAt = time.Now()
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

func (s *OfferService) Get(ctx context.Context, id string) (*model.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOfferNotFound
	}
	return offer, err
}

func (s *OfferService) List(ctx context.Context) ([]*model.Offer, error) {
	return s.offerRepo.List(ctx)
}
