package model

import "time"

// Feed is a course-scoped post with like and dislike counters.
// Likes and Dislikes always equal the number of rows in feed_likes and
// feed_dislikes for the post.
type Feed struct {
	ID          uint      `json:"feed_id" gorm:"column:feed_id;primaryKey"`
	CourseID    uint      `json:"course_id" gorm:"index:idx_feeds_scope;not null"`
	Year        int       `json:"year" gorm:"index:idx_feeds_scope;not null"`
	Semester    int       `json:"semester" gorm:"index:idx_feeds_scope;not null"`
	Description string    `json:"description" gorm:"type:text"`
	ImagePath   string    `json:"image_path" gorm:"size:1024"`
	Likes       int       `json:"likes" gorm:"not null;default:0"`
	Dislikes    int       `json:"dislikes" gorm:"not null;default:0"`
	UploadDate  time.Time `json:"upload_date" gorm:"autoCreateTime"`

	UserLiked    bool `json:"userLiked" gorm:"->;-:migration"`
	UserDisliked bool `json:"userDisliked" gorm:"->;-:migration"`
}

// FeedLike records that a student likes a post.
type FeedLike struct {
	StudentID uint      `gorm:"primaryKey;autoIncrement:false"`
	FeedID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

// FeedDislike records that a student dislikes a post.
type FeedDislike struct {
	StudentID uint      `gorm:"primaryKey;autoIncrement:false"`
	FeedID    uint      `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

// Reaction is a like or dislike request.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// Counters is the state of a post after a reaction.
type Counters struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}
