package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update applies set/unset and returns the updated document.
	Update(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, f models.UserFilter) ([]*models.User, int64, error)
	Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error)
	Stats(ctx context.Context, recent int64) (*models.UserStats, error)
}

type userRepo struct {
	col *mongo.Collection
}

func NewUserRepo(db *mongo.Database) UserRepository {
	return &userRepo{col: db.Collection("users")}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return utils.ErrDuplicate
	}
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Update(ctx context.Context, id primitive.ObjectID, set bson.M, unset []string) (*models.User, error) {
	var u models.User
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		updateDoc(set, unset),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, utils.ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.ErrNotFound
	}
	return nil
}

var userSortFields = map[string]string{
	"createdAt": "createdAt",
	"name":      "name",
	"email":     "email",
	"role":      "role",
}

func (r *userRepo) List(ctx context.Context, f models.UserFilter) ([]*models.User, int64, error) {
	filter := bson.M{}
	if f.Role.Valid() {
		filter["role"] = f.Role
	}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{bson.M{"name": rx}, bson.M{"email": rx}}
	}

	sortField, ok := userSortFields[f.SortBy]
	if !ok {
		sortField = "createdAt"
	}
	dir := 1
	if f.Desc {
		dir = -1
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64(f.Page-1) * int64(f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	users := make([]*models.User, 0, f.Limit)
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepo) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error) {
	out := make(map[primitive.ObjectID]*models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	cur, err := r.col.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1, "role": 1}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var s models.UserSummary
		if err := cur.Decode(&s); err != nil {
			return nil, err
		}
		out[s.ID] = &s
	}
	return out, cur.Err()
}

func (r *userRepo) Stats(ctx context.Context, recent int64) (*models.UserStats, error) {
	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$role", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	stats := &models.UserStats{}
	for cur.Next(ctx) {
		var row struct {
			Role  models.Role `bson:"_id"`
			Count int64       `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		stats.Total += row.Count
		switch row.Role {
		case models.RoleJobSeeker:
			stats.JobSeekers = row.Count
		case models.RoleRecruiter:
			stats.Recruiters = row.Count
		case models.RoleAdmin:
			stats.Admins = row.Count
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	rc, err := r.col.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(recent))
	if err != nil {
		return nil, err
	}
	defer rc.Close(ctx)

	stats.RecentUsers = make([]*models.User, 0, recent)
	if err := rc.All(ctx, &stats.RecentUsers); err != nil {
		return nil, err
	}
	return stats, nil
}

// updateDoc builds {$set, $unset} and stamps updatedAt.
func updateDoc(set bson.M, unset []string) bson.M {
	s := bson.M{"updatedAt": time.Now().UTC()}
	for k, v := range set {
		s[k] = v
	}
	doc := bson.M{"$set": s}
	if len(unset) > 0 {
		u := bson.M{}
		for _, k := range unset {
			u[k] = ""
		}
		doc["$unset"] = u
	}
	return doc
}
