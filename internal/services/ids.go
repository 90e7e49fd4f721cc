package services

import (
	"github.com/yoockh/jobportal/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseUserID turns a hex id from a token or path into an ObjectID. A
// malformed id cannot name an existing user, so it is reported as NOT_FOUND.
func parseUserID(op, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, utils.E(utils.CodeNotFound, op, "user not found", utils.ErrNotFound)
	}
	return oid, nil
}
