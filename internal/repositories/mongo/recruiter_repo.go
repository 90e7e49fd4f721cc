package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RecruiterRepository interface {
	Create(ctx context.Context, p *models.RecruiterProfile) error
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.RecruiterProfile, error)
	Update(ctx context.Context, userID primitive.ObjectID, set bson.M) (*models.RecruiterProfile, error)
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error
}

type recruiterRepo struct {
	col *mongo.Collection
}

func NewRecruiterRepo(db *mongo.Database) RecruiterRepository {
	return &recruiterRepo{col: db.Collection("recruiter_profiles")}
}

func (r *recruiterRepo) Create(ctx context.Context, p *models.RecruiterProfile) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	res, err := r.col.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrDuplicate
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

func (r *recruiterRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.RecruiterProfile, error) {
	var p models.RecruiterProfile
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *recruiterRepo) Update(ctx context.Context, userID primitive.ObjectID, set bson.M) (*models.RecruiterProfile, error) {
	var p models.RecruiterProfile
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		updateDoc(set, nil),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *recruiterRepo) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}
