package dailyreport

import (
	"context"
	"errors"
	"time"

	"github.com/AzizRahmanYaad/cbs-dashboard/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListFilter narrows the administrative report listing
type ListFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	EmployeeID *primitive.ObjectID
	Status     ReportStatus
}

type ReportRepository interface {
	EnsureIndexes(ctx context.Context) error
	Insert(ctx context.Context, report *DailyReport) error
	Update(ctx context.Context, report *DailyReport) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*DailyReport, error)
	FindByDateAndEmployee(ctx context.Context, date time.Time, employeeID primitive.ObjectID) (*DailyReport, error)
	FindAllByDate(ctx context.Context, date time.Time) ([]*DailyReport, error)
	FindByEmployee(ctx context.Context, employeeID primitive.ObjectID, page, limit int64) ([]*DailyReport, int64, error)
	FindFiltered(ctx context.Context, filter ListFilter, page, limit int64) ([]*DailyReport, int64, error)
	FindByEmployeeAndRange(ctx context.Context, employeeID primitive.ObjectID, start, end *time.Time) ([]*DailyReport, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status ReportStatus) (int64, error)
	SectionTotals(ctx context.Context) (escalations, pending, ticketed int64, err error)
	EmployeeIDsWithReport(ctx context.Context, date time.Time) (map[primitive.ObjectID]bool, error)
}

type ReportRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewReportRepository(db *database.MongodbDB) ReportRepository {
	return &ReportRepositoryImpl{
		Collection: db.DB.Collection("daily_reports"),
	}
}

// EnsureIndexes creates the unique (business_date, employee_id) index. The
// index makes the one-report-per-employee-per-day rule hold even when two
// creates race past the pre-check.
func (r *ReportRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "business_date", Value: 1}, {Key: "employee_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "business_date", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	})
	return err
}

func (r *ReportRepositoryImpl) Insert(ctx context.Context, report *DailyReport) error {
	report.CreatedAt = time.Now()
	report.UpdatedAt = time.Now()
	res, err := r.Collection.InsertOne(ctx, report)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateReport
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		report.ID = oid
	}
	return nil
}

func (r *ReportRepositoryImpl) Update(ctx context.Context, report *DailyReport) error {
	report.UpdatedAt = time.Now()
	res, err := r.Collection.ReplaceOne(ctx, bson.M{"_id": report.ID}, report)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *ReportRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (r *ReportRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*DailyReport, error) {
	var report DailyReport
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepositoryImpl) FindByDateAndEmployee(ctx context.Context, date time.Time, employeeID primitive.ObjectID) (*DailyReport, error) {
	var report DailyReport
	filter := bson.M{"business_date": BusinessDay(date), "employee_id": employeeID}
	err := r.Collection.FindOne(ctx, filter).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepositoryImpl) FindAllByDate(ctx context.Context, date time.Time) ([]*DailyReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"business_date": BusinessDay(date)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []*DailyReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepositoryImpl) FindByEmployee(ctx context.Context, employeeID primitive.ObjectID, page, limit int64) ([]*DailyReport, int64, error) {
	filter := bson.M{"employee_id": employeeID}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "business_date", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var reports []*DailyReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *ReportRepositoryImpl) FindFiltered(ctx context.Context, f ListFilter, page, limit int64) ([]*DailyReport, int64, error) {
	filter := bson.M{}
	if f.StartDate != nil && f.EndDate != nil {
		filter["business_date"] = bson.M{
			"$gte": BusinessDay(*f.StartDate),
			"$lte": BusinessDay(*f.EndDate),
		}
	}
	if f.EmployeeID != nil {
		filter["employee_id"] = *f.EmployeeID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "business_date", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var reports []*DailyReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *ReportRepositoryImpl) FindByEmployeeAndRange(ctx context.Context, employeeID primitive.ObjectID, start, end *time.Time) ([]*DailyReport, error) {
	filter := bson.M{"employee_id": employeeID}
	if start != nil && end != nil {
		filter["business_date"] = bson.M{
			"$gte": BusinessDay(*start),
			"$lte": BusinessDay(*end),
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "business_date", Value: -1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []*DailyReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *ReportRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{})
}

func (r *ReportRepositoryImpl) CountByStatus(ctx context.Context, status ReportStatus) (int64, error) {
	return r.Collection.CountDocuments(ctx, bson.M{"status": status})
}

// SectionTotals sums section sizes across every report, for the dashboard.
func (r *ReportRepositoryImpl) SectionTotals(ctx context.Context) (escalations, pending, ticketed int64, err error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"escalations": bson.M{"$sum": bson.M{"$size": bson.M{"$ifNull": bson.A{"$problem_escalations", bson.A{}}}}},
			"pending":     bson.M{"$sum": bson.M{"$size": bson.M{"$ifNull": bson.A{"$pending_activities", bson.A{}}}}},
			"ticketed":    bson.M{"$sum": bson.M{"$size": bson.M{"$ifNull": bson.A{"$ticketed_issues", bson.A{}}}}},
		}}},
	}

	cursor, err := r.Collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, 0, err
	}
	defer cursor.Close(ctx)

	var result struct {
		Escalations int64 `bson:"escalations"`
		Pending     int64 `bson:"pending"`
		Ticketed    int64 `bson:"ticketed"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, 0, 0, err
		}
	}
	return result.Escalations, result.Pending, result.Ticketed, cursor.Err()
}

// EmployeeIDsWithReport returns the set of employees that already have a
// report for the given date; the reminder job diffs this against the roster.
func (r *ReportRepositoryImpl) EmployeeIDsWithReport(ctx context.Context, date time.Time) (map[primitive.ObjectID]bool, error) {
	cursor, err := r.Collection.Find(ctx,
		bson.M{"business_date": BusinessDay(date)},
		options.Find().SetProjection(bson.M{"employee_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	ids := make(map[primitive.ObjectID]bool)
	for cursor.Next(ctx) {
		var doc struct {
			EmployeeID primitive.ObjectID `bson:"employee_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		ids[doc.EmployeeID] = true
	}
	return ids, cursor.Err()
}
