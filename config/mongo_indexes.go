package config

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	users := db.Collection("users")
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("by_role_created"),
		},
	})
	if err != nil {
		return err
	}

	seekers := db.Collection("jobseeker_profiles")
	_, err = seekers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("uniq_user").SetUnique(true),
		},
		// keyword search
		{
			Keys: bson.D{
				{Key: "skills", Value: "text"},
				{Key: "location.city", Value: "text"},
				{Key: "location.state", Value: "text"},
				{Key: "location.country", Value: "text"},
			},
			Options: options.Index().SetName("seeker_text"),
		},
		// location filters
		{
			Keys: bson.D{
				{Key: "location.city", Value: 1},
				{Key: "location.state", Value: 1},
				{Key: "location.country", Value: 1},
			},
			Options: options.Index().SetName("by_location"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("by_created"),
		},
	})
	if err != nil {
		return err
	}

	recruiters := db.Collection("recruiter_profiles")
	_, err = recruiters.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetName("uniq_user").SetUnique(true),
	})
	return err
}
