package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type JobSeekerRepository interface {
	Create(ctx context.Context, p *models.JobSeekerProfile) error
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.JobSeekerProfile, error)
	// Update applies set/unset to the user's profile and returns the result.
	Update(ctx context.Context, userID primitive.ObjectID, set bson.M, unset []string) (*models.JobSeekerProfile, error)
	SetVectorID(ctx context.Context, userID primitive.ObjectID, vectorID string) error
	DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error
	Search(ctx context.Context, q models.SeekerQuery) ([]*models.JobSeekerProfile, int64, error)
}

type jobSeekerRepo struct {
	col *mongo.Collection
}

func NewJobSeekerRepo(db *mongo.Database) JobSeekerRepository {
	return &jobSeekerRepo{col: db.Collection("jobseeker_profiles")}
}

func (r *jobSeekerRepo) Create(ctx context.Context, p *models.JobSeekerProfile) error {
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

func (r *jobSeekerRepo) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.JobSeekerProfile, error) {
	var p models.JobSeekerProfile
	err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *jobSeekerRepo) Update(ctx context.Context, userID primitive.ObjectID, set bson.M, unset []string) (*models.JobSeekerProfile, error) {
	var p models.JobSeekerProfile
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID},
		updateDoc(set, unset),
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

func (r *jobSeekerRepo) SetVectorID(ctx context.Context, userID primitive.ObjectID, vectorID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"vectorId": vectorID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *jobSeekerRepo) DeleteByUserID(ctx context.Context, userID primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *jobSeekerRepo) Search(ctx context.Context, q models.SeekerQuery) ([]*models.JobSeekerProfile, int64, error) {
	filter, opts := buildSeekerSearch(q)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*models.JobSeekerProfile{}, 0, nil
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	out := make([]*models.JobSeekerProfile, 0, q.Limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// buildSeekerSearch turns a query into a filter and find options. Keywords
// use the text index and sort by relevance; location filters are
// case-insensitive substring matches; filter-only queries sort newest first.
func buildSeekerSearch(q models.SeekerQuery) (bson.M, *options.FindOptions) {
	filter := bson.M{}

	keywords := strings.TrimSpace(q.Keywords)
	if keywords != "" {
		filter["$text"] = bson.M{"$search": keywords}
	}
	for field, v := range map[string]string{
		"location.city":    q.City,
		"location.state":   q.State,
		"location.country": q.Country,
	} {
		if v = strings.TrimSpace(v); v != "" {
			filter[field] = primitive.Regex{Pattern: regexp.QuoteMeta(v), Options: "i"}
		}
	}

	opts := options.Find().
		SetSkip(int64(q.Page-1) * int64(q.Limit)).
		SetLimit(int64(q.Limit))

	if keywords != "" {
		score := bson.M{"$meta": "textScore"}
		opts.SetProjection(bson.M{"score": score})
		opts.SetSort(bson.D{{Key: "score", Value: score}, {Key: "_id", Value: 1}})
	} else {
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	}
	return filter, opts
}
