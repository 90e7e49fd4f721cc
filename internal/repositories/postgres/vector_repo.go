package postgres

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"github.com/yoockh/jobportal/internal/models"
	"github.com/yoockh/jobportal/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VectorRepository interface {
	// Upsert stores v as the user's document. When the user already has
	// one, its row is overwritten in place and v.ID is set to the kept id.
	Upsert(ctx context.Context, v *models.ProfileVector) error
	// Delete removes a document by id; a missing id is utils.ErrNotFound.
	Delete(ctx context.Context, id string) error
	DeleteByUserID(ctx context.Context, userID string) error
	// Nearest returns the documents closest to query by cosine distance.
	Nearest(ctx context.Context, query []float32, limit int) ([]models.VectorMatch, error)
}

type vectorRepo struct {
	db *gorm.DB
}

func NewVectorRepo(db *gorm.DB) VectorRepository {
	return &vectorRepo{db: db}
}

var vectorColumns = []string{
	"content", "metadata", "skills", "city", "state", "country",
	"seniority_level", "years_of_experience", "embedding", "created_at",
}

func (r *vectorRepo) Upsert(ctx context.Context, v *models.ProfileVector) error {
	return r.db.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns(vectorColumns),
			},
			clause.Returning{Columns: []clause.Column{{Name: "id"}}},
		).
		Create(v).Error
}

func (r *vectorRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProfileVector{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *vectorRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ProfileVector{}).Error
}

func (r *vectorRepo) Nearest(ctx context.Context, query []float32, limit int) ([]models.VectorMatch, error) {
	vec := pgvector.NewVector(query)

	var rows []models.VectorMatch
	err := r.db.WithContext(ctx).
		Model(&models.ProfileVector{}).
		Select("user_id, metadata, embedding <=> ? AS distance", vec).
		Where("embedding IS NOT NULL").
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{vec}, WithoutParentheses: true},
		}).
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
