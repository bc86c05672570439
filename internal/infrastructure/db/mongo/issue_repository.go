package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fixmycity/civic-api/internal/core/domain"
	"github.com/fixmycity/civic-api/internal/core/ports"
)

const collectionIssues = "issues"

// IssueRepository implements ports.IssueRepository using MongoDB. Transition
// writes pair a $set with a $push of the timeline entry in one update.
type IssueRepository struct {
	col *mongo.Collection
}

func NewIssueRepository(db *mongo.Database) *IssueRepository {
	return &IssueRepository{col: db.Collection(collectionIssues)}
}

func (r *IssueRepository) Create(ctx context.Context, issue *domain.Issue) (*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if issue.ID == "" {
		issue.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.col.InsertOne(ctx, issue); err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}
	return issue, nil
}

func (r *IssueRepository) FindByID(ctx context.Context, id string) (*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var issue domain.Issue
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&issue); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIssueNotFound
		}
		return nil, fmt.Errorf("find issue: %w", err)
	}
	return &issue, nil
}

func (r *IssueRepository) List(ctx context.Context, filter ports.IssueFilter) ([]*domain.Issue, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["$or"] = []bson.M{
			{"title": bson.M{"$regex": filter.Search, "$options": "i"}},
			{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count issues: %w", err)
	}

	skip := int64((filter.Page - 1) * filter.Limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(filter.Limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list issues: %w", err)
	}
	defer cursor.Close(ctx)

	var issues []*domain.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, 0, fmt.Errorf("decode issues: %w", err)
	}
	return issues, total, nil
}

func (r *IssueRepository) ListByReporter(ctx context.Context, email string) ([]*domain.Issue, error) {
	return r.listBy(ctx, bson.M{"reporter_email": email})
}

func (r *IssueRepository) ListByAssignee(ctx context.Context, email string) ([]*domain.Issue, error) {
	return r.listBy(ctx, bson.M{"staff_assigned.email": email})
}

func (r *IssueRepository) listBy(ctx context.Context, query bson.M) ([]*domain.Issue, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	defer cursor.Close(ctx)

	var issues []*domain.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	return issues, nil
}

func (r *IssueRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrIssueNotFound
	}
	return nil
}

func (r *IssueRepository) UpdateFields(ctx context.Context, id string, edit ports.IssueEdit) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"title":       edit.Title,
		"description": edit.Description,
		"category":    edit.Category,
		"location":    edit.Location,
	}})
	if err != nil {
		return fmt.Errorf("update issue fields: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIssueNotFound
	}
	return nil
}

func (r *IssueRepository) SetStatus(ctx context.Context, id string, status domain.Status, entry domain.TimelineEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":  bson.M{"status": status},
		"$push": bson.M{"timeline": entry},
	})
	if err != nil {
		return fmt.Errorf("set issue status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIssueNotFound
	}
	return nil
}

func (r *IssueRepository) AssignStaff(ctx context.Context, id string, staff domain.StaffRef, status domain.Status, entry domain.TimelineEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":  bson.M{"status": status, "staff_assigned": staff},
		"$push": bson.M{"timeline": entry},
	})
	if err != nil {
		return fmt.Errorf("assign staff: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIssueNotFound
	}
	return nil
}

func (r *IssueRepository) SetPriority(ctx context.Context, id string, priority domain.Priority, entry domain.TimelineEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set":  bson.M{"priority": priority},
		"$push": bson.M{"timeline": entry},
	})
	if err != nil {
		return fmt.Errorf("set issue priority: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIssueNotFound
	}
	return nil
}

// AddUpvote uses $addToSet so the upvote set can never grow twice for the
// same email, regardless of concurrent requests.
func (r *IssueRepository) AddUpvote(ctx context.Context, id string, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$addToSet": bson.M{"upvotes": email},
	})
	if err != nil {
		return false, fmt.Errorf("add upvote: %w", err)
	}
	if res.MatchedCount == 0 {
		return false, domain.ErrIssueNotFound
	}
	return res.ModifiedCount > 0, nil
}

func (r *IssueRepository) CountByStatus(ctx context.Context, reporterEmail string) ([]ports.StatusCount, error) {
	match := bson.M{}
	if reporterEmail != "" {
		match["reporter_email"] = reporterEmail
	}
	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}

	var counts []ports.StatusCount
	if err := r.aggregate(ctx, pipeline, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *IssueRepository) CountByCategory(ctx context.Context) ([]ports.CategoryCount, error) {
	pipeline := []bson.M{
		{"$group": bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}},
	}

	var counts []ports.CategoryCount
	if err := r.aggregate(ctx, pipeline, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *IssueRepository) CountAssignedByStatus(ctx context.Context, staffEmail string) ([]ports.StatusCount, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"staff_assigned.email": staffEmail}},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}

	var counts []ports.StatusCount
	if err := r.aggregate(ctx, pipeline, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *IssueRepository) aggregate(ctx context.Context, pipeline []bson.M, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate issues: %w", err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode aggregation: %w", err)
	}
	return nil
}

// EnsureIndexes creates the indexes used by the listing queries.
func (r *IssueRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "reporter_email", Value: 1}}},
		{Keys: bson.D{{Key: "staff_assigned.email", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
