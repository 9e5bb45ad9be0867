package mongodb

import (
	"context"
	"errors"

	"motoride/internal/apperrors"
	"motoride/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// companyRepository is a read-only view onto the companies collection owned
// by the corporate dashboard. The booking gate only ever reads it.
type companyRepository struct {
	collection *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *companyRepository {
	return &companyRepository{
		collection: db.Collection("companies"),
	}
}

func (r *companyRepository) GetCompany(ctx context.Context, companyID string) (*models.Company, error) {
	var company models.Company
	err := r.collection.FindOne(ctx, bson.M{"_id": companyID}).Decode(&company)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, apperrors.NewTransientError("get company", err)
	}

	return &company, nil
}
