package reports

import (
	"context"
	"medreport-service/internal/app/contracts"
	"medreport-service/internal/app/models"
	"medreport-service/internal/pkg/constvars"
	"medreport-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReportMongoRepository struct {
	Collection *mongo.Collection
}

func NewReportMongoRepository(db *mongo.Client, dbName string) contracts.ReportRepository {
	return &ReportMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionResults),
	}
}

func (repo *ReportMongoRepository) InsertResult(ctx context.Context, result *models.PipelineResult) error {
	_, err := repo.Collection.InsertOne(ctx, result)
	if err != nil {
		return exceptions.ErrMongoDBInsertDocument(err)
	}
	return nil
}

func (repo *ReportMongoRepository) FindByReportID(ctx context.Context, reportID string) (*models.PipelineResult, error) {
	var result models.PipelineResult
	err := repo.Collection.FindOne(ctx, bson.M{"report_id": reportID}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &result, nil
}
