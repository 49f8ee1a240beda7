package testtrack

import (
	"context"

	"github.com/AzizRahmanYaad/cbs-dashboard/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TrackRepository interface {
	CreateModule(ctx context.Context, m *TestModule) error
	FindModule(ctx context.Context, id primitive.ObjectID) (*TestModule, error)
	ListModules(ctx context.Context) ([]TestModule, error)
	UpdateModule(ctx context.Context, m *TestModule) error
	DeleteModule(ctx context.Context, id primitive.ObjectID) error

	CreateCase(ctx context.Context, tc *TestCase) error
	FindCase(ctx context.Context, id primitive.ObjectID) (*TestCase, error)
	ListCases(ctx context.Context, filter bson.M, limit, offset int64) ([]TestCase, int64, error)
	UpdateCase(ctx context.Context, tc *TestCase) error
	DeleteCase(ctx context.Context, id primitive.ObjectID) error

	CreateExecution(ctx context.Context, e *TestExecution) error
	ListExecutions(ctx context.Context, testCaseID primitive.ObjectID) ([]TestExecution, error)

	CreateDefect(ctx context.Context, d *Defect) error
	FindDefect(ctx context.Context, id primitive.ObjectID) (*Defect, error)
	ListDefects(ctx context.Context, filter bson.M, limit, offset int64) ([]Defect, int64, error)
	UpdateDefect(ctx context.Context, d *Defect) error

	CreateComment(ctx context.Context, c *Comment) error
	ListComments(ctx context.Context, targetType string, targetID primitive.ObjectID) ([]Comment, error)
}

type TrackRepositoryImpl struct {
	Modules    *mongo.Collection
	Cases      *mongo.Collection
	Executions *mongo.Collection
	Defects    *mongo.Collection
	Comments   *mongo.Collection
}

func NewTrackRepository(mongodb *database.MongodbDB) TrackRepository {
	return &TrackRepositoryImpl{
		Modules:    mongodb.DB.Collection("test_modules"),
		Cases:      mongodb.DB.Collection("test_cases"),
		Executions: mongodb.DB.Collection("test_executions"),
		Defects:    mongodb.DB.Collection("defects"),
		Comments:   mongodb.DB.Collection("test_comments"),
	}
}

func (r *TrackRepositoryImpl) CreateModule(ctx context.Context, m *TestModule) error {
	_, err := r.Modules.InsertOne(ctx, m)
	return err
}

func (r *TrackRepositoryImpl) FindModule(ctx context.Context, id primitive.ObjectID) (*TestModule, error) {
	var m TestModule
	if err := r.Modules.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *TrackRepositoryImpl) ListModules(ctx context.Context) ([]TestModule, error) {
	cursor, err := r.Modules.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var modules []TestModule
	if err = cursor.All(ctx, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *TrackRepositoryImpl) UpdateModule(ctx context.Context, m *TestModule) error {
	_, err := r.Modules.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	return err
}

func (r *TrackRepositoryImpl) DeleteModule(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Modules.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *TrackRepositoryImpl) CreateCase(ctx context.Context, tc *TestCase) error {
	_, err := r.Cases.InsertOne(ctx, tc)
	return err
}

func (r *TrackRepositoryImpl) FindCase(ctx context.Context, id primitive.ObjectID) (*TestCase, error) {
	var tc TestCase
	if err := r.Cases.FindOne(ctx, bson.M{"_id": id}).Decode(&tc); err != nil {
		return nil, err
	}
	return &tc, nil
}

func (r *TrackRepositoryImpl) ListCases(ctx context.Context, filter bson.M, limit, offset int64) ([]TestCase, int64, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}

	cursor, err := r.Cases.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var cases []TestCase
	if err = cursor.All(ctx, &cases); err != nil {
		return nil, 0, err
	}

	total, err := r.Cases.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return cases, total, nil
}

func (r *TrackRepositoryImpl) UpdateCase(ctx context.Context, tc *TestCase) error {
	_, err := r.Cases.ReplaceOne(ctx, bson.M{"_id": tc.ID}, tc)
	return err
}

func (r *TrackRepositoryImpl) DeleteCase(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.Cases.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *TrackRepositoryImpl) CreateExecution(ctx context.Context, e *TestExecution) error {
	_, err := r.Executions.InsertOne(ctx, e)
	return err
}

func (r *TrackRepositoryImpl) ListExecutions(ctx context.Context, testCaseID primitive.ObjectID) ([]TestExecution, error) {
	cursor, err := r.Executions.Find(ctx, bson.M{"test_case_id": testCaseID},
		options.Find().SetSort(bson.D{{Key: "executed_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var executions []TestExecution
	if err = cursor.All(ctx, &executions); err != nil {
		return nil, err
	}
	return executions, nil
}

func (r *TrackRepositoryImpl) CreateDefect(ctx context.Context, d *Defect) error {
	_, err := r.Defects.InsertOne(ctx, d)
	return err
}

func (r *TrackRepositoryImpl) FindDefect(ctx context.Context, id primitive.ObjectID) (*Defect, error) {
	var d Defect
	if err := r.Defects.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *TrackRepositoryImpl) ListDefects(ctx context.Context, filter bson.M, limit, offset int64) ([]Defect, int64, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if offset > 0 {
		opts.SetSkip(offset)
	}

	cursor, err := r.Defects.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var defects []Defect
	if err = cursor.All(ctx, &defects); err != nil {
		return nil, 0, err
	}

	total, err := r.Defects.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return defects, total, nil
}

func (r *TrackRepositoryImpl) UpdateDefect(ctx context.Context, d *Defect) error {
	_, err := r.Defects.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	return err
}

func (r *TrackRepositoryImpl) CreateComment(ctx context.Context, c *Comment) error {
	_, err := r.Comments.InsertOne(ctx, c)
	return err
}

func (r *TrackRepositoryImpl) ListComments(ctx context.Context, targetType string, targetID primitive.ObjectID) ([]Comment, error) {
	cursor, err := r.Comments.Find(ctx, bson.M{"target_type": targetType, "target_id": targetID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var comments []Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}
