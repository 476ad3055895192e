// internal/repository/mongo/training_plan_repo.go
package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"alcyxob/marathon-trainer/internal/domain"
	"alcyxob/marathon-trainer/internal/repository"
)

const trainingPlanCollectionName = "training_plans"

// mongoTrainingPlanRepository implements repository.TrainingPlanRepository.
// Each plan is one document keyed by its UUID; weeks and workouts are embedded.
type mongoTrainingPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingPlanRepository creates a new TrainingPlan repository.
func NewMongoTrainingPlanRepository(db *mongo.Database) repository.TrainingPlanRepository {
	return &mongoTrainingPlanRepository{
		collection: db.Collection(trainingPlanCollectionName),
	}
}

// Create inserts a newly generated plan.
func (r *mongoTrainingPlanRepository) Create(ctx context.Context, plan *domain.TrainingPlan) error {
	if plan.ID == "" || plan.RunnerID == "" {
		return errors.New("plan requires id and runnerId")
	}
	if plan.Version == 0 {
		plan.Version = 1
	}
	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, plan); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

// GetByID retrieves a full plan by its ID.
func (r *mongoTrainingPlanRepository) GetByID(ctx context.Context, id string) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetActiveByRunnerID retrieves the runner's active plan, newest first if
// more than one is flagged.
func (r *mongoTrainingPlanRepository) GetActiveByRunnerID(ctx context.Context, runnerID string) (*domain.TrainingPlan, error) {
	var plan domain.TrainingPlan
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{"runnerId": runnerID, "isActive": true}, opts).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// ListByRunnerID returns plan summaries for a runner, newest first. Weeks are
// not loaded.
func (r *mongoTrainingPlanRepository) ListByRunnerID(ctx context.Context, runnerID string) ([]domain.TrainingPlan, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"weeks": 0})

	cursor, err := r.collection.Find(ctx, bson.M{"runnerId": runnerID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.TrainingPlan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Replace writes the whole aggregate, guarded by the version the caller read.
func (r *mongoTrainingPlanRepository) Replace(ctx context.Context, plan *domain.TrainingPlan) error {
	if plan.ID == "" {
		return errors.New("training plan ID is required for replace")
	}

	expected := plan.Version
	next := *plan
	next.Version = expected + 1
	next.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": plan.ID, "version": expected}, &next)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		n, err := r.collection.CountDocuments(ctx, bson.M{"_id": plan.ID})
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrConflict
	}

	plan.Version = next.Version
	plan.UpdatedAt = next.UpdatedAt
	return nil
}

// DeactivateOtherPlansForRunner keeps a single active plan per runner and
// reports which plans were switched off.
func (r *mongoTrainingPlanRepository) DeactivateOtherPlansForRunner(ctx context.Context, runnerID, keepID string) ([]string, error) {
	filter := bson.M{
		"runnerId": runnerID,
		"isActive": true,
		"_id":      bson.M{"$ne": keepID},
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	update := bson.M{
		"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	if _, err = r.collection.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}, "isActive": true}, update); err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes a plan.
func (r *mongoTrainingPlanRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTrainingPlanIndexes creates necessary indexes. Call during startup.
func EnsureTrainingPlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Active plan lookup
			Keys: bson.D{{Key: "runnerId", Value: 1}, {Key: "isActive", Value: 1}},
		},
		{
			// Plan history
			Keys: bson.D{{Key: "runnerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
