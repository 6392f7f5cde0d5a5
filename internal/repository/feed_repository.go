package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"eduhub/internal/model"
)

// FeedFilter scopes a feed listing. StudentID drives the userLiked and
// userDisliked flags and is zero for non-student callers, which leaves both
// flags false. Year and Semester filter only when set.
type FeedFilter struct {
	CourseID  uint
	Year      *int
	Semester  *int
	StudentID uint
}

// FeedRepository defines feed and reaction persistence operations.
type FeedRepository interface {
	ListByCourse(ctx context.Context, filter FeedFilter) ([]model.Feed, error)
	FindByID(ctx context.Context, id uint) (*model.Feed, error)
	Create(ctx context.Context, feed *model.Feed) error
	UpdateDescription(ctx context.Context, id uint, description string) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)

	// Reaction primitives. Callers run them inside WithTransaction after
	// FindByIDForUpdate so that reactions on one post never interleave.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Feed, error)
	HasReaction(ctx context.Context, kind model.Reaction, studentID, feedID uint) (bool, error)
	AddReaction(ctx context.Context, kind model.Reaction, studentID, feedID uint) error
	RemoveReaction(ctx context.Context, kind model.Reaction, studentID, feedID uint) error
	AdjustCounter(ctx context.Context, kind model.Reaction, feedID uint, delta int) error
	Counters(ctx context.Context, feedID uint) (model.Counters, error)

	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo FeedRepository) error) error
}

type feedRepository struct {
	db *gorm.DB
}

// NewFeedRepository creates a new feed repository.
func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

// ListByCourse lists posts newest first with the caller's reaction flags.
func (r *feedRepository) ListByCourse(ctx context.Context, filter FeedFilter) ([]model.Feed, error) {
	var feeds []model.Feed
	q := r.db.WithContext(ctx).
		Table("feeds AS f").
		Select(`f.*,
			EXISTS (SELECT 1 FROM feed_likes l WHERE l.student_id = ? AND l.feed_id = f.feed_id) AS user_liked,
			EXISTS (SELECT 1 FROM feed_dislikes d WHERE d.student_id = ? AND d.feed_id = f.feed_id) AS user_disliked`,
			filter.StudentID, filter.StudentID).
		Where("f.course_id = ?", filter.CourseID)
	if filter.Year != nil {
		q = q.Where("f.year = ?", *filter.Year)
	}
	if filter.Semester != nil {
		q = q.Where("f.semester = ?", *filter.Semester)
	}
	if err := q.Order("f.upload_date DESC").Find(&feeds).Error; err != nil {
		return nil, err
	}
	return feeds, nil
}

// FindByID finds a post by ID.
func (r *feedRepository) FindByID(ctx context.Context, id uint) (*model.Feed, error) {
	var feed model.Feed
	if err := r.db.WithContext(ctx).Where("feed_id = ?", id).First(&feed).Error; err != nil {
		return nil, err
	}
	return &feed, nil
}

// Create creates a new post with zeroed counters.
func (r *feedRepository) Create(ctx context.Context, feed *model.Feed) error {
	feed.Likes, feed.Dislikes = 0, 0
	return r.db.WithContext(ctx).Create(feed).Error
}

// UpdateDescription changes the text of a post.
func (r *feedRepository) UpdateDescription(ctx context.Context, id uint, description string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Feed{}).
		Where("feed_id = ?", id).
		Update("description", description)
	return res.RowsAffected, res.Error
}

// Delete removes a post together with its reaction rows.
func (r *feedRepository) Delete(ctx context.Context, id uint) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feed_id = ?", id).Delete(&model.FeedLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("feed_id = ?", id).Delete(&model.FeedDislike{}).Error; err != nil {
			return err
		}
		res := tx.Where("feed_id = ?", id).Delete(&model.Feed{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

// FindByIDForUpdate finds a post by ID with a row-level lock.
func (r *feedRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Feed, error) {
	var feed model.Feed
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("feed_id = ?", id).
		First(&feed).Error; err != nil {
		return nil, err
	}
	return &feed, nil
}

// HasReaction reports whether the student holds a reaction of kind on the post.
func (r *feedRepository) HasReaction(ctx context.Context, kind model.Reaction, studentID, feedID uint) (bool, error) {
	row, err := reactionRow(kind)
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(row).
		Where("student_id = ? AND feed_id = ?", studentID, feedID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddReaction inserts a reaction row.
func (r *feedRepository) AddReaction(ctx context.Context, kind model.Reaction, studentID, feedID uint) error {
	switch kind {
	case model.ReactionLike:
		return r.db.WithContext(ctx).Create(&model.FeedLike{StudentID: studentID, FeedID: feedID}).Error
	case model.ReactionDislike:
		return r.db.WithContext(ctx).Create(&model.FeedDislike{StudentID: studentID, FeedID: feedID}).Error
	}
	return fmt.Errorf("unknown reaction %q", kind)
}

// RemoveReaction deletes a reaction row.
func (r *feedRepository) RemoveReaction(ctx context.Context, kind model.Reaction, studentID, feedID uint) error {
	row, err := reactionRow(kind)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("student_id = ? AND feed_id = ?", studentID, feedID).
		Delete(row).Error
}

// AdjustCounter adds delta to the likes or dislikes column.
func (r *feedRepository) AdjustCounter(ctx context.Context, kind model.Reaction, feedID uint, delta int) error {
	column, err := counterColumn(kind)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&model.Feed{}).
		Where("feed_id = ?", feedID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

// Counters reads the current likes and dislikes of a post.
func (r *feedRepository) Counters(ctx context.Context, feedID uint) (model.Counters, error) {
	var counters model.Counters
	err := r.db.WithContext(ctx).Model(&model.Feed{}).
		Select("likes, dislikes").
		Where("feed_id = ?", feedID).
		Take(&counters).Error
	return counters, err
}

// WithTransaction executes a function within a database transaction.
func (r *feedRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo FeedRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &feedRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

func reactionRow(kind model.Reaction) (interface{}, error) {
	switch kind {
	case model.ReactionLike:
		return &model.FeedLike{}, nil
	case model.ReactionDislike:
		return &model.FeedDislike{}, nil
	}
	return nil, fmt.Errorf("unknown reaction %q", kind)
}

func counterColumn(kind model.Reaction) (string, error) {
	switch kind {
	case model.ReactionLike:
		return "likes", nil
	case model.ReactionDislike:
		return "dislikes", nil
	}
	return "", fmt.Errorf("unknown reaction %q", kind)
}
