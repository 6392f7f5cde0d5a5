package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "eduhub/internal/errors"
	"eduhub/internal/model"
	"eduhub/internal/repository"
)

type reactionKey struct {
	student uint
	feed    uint
}

// memoryFeedRepository keeps feeds and reactions in maps. WithTransaction
// holds a single lock for the whole callback, standing in for the row lock.
type memoryFeedRepository struct {
	tx sync.Mutex

	mu       sync.Mutex
	nextID   uint
	feeds    map[uint]*model.Feed
	likes    map[reactionKey]bool
	dislikes map[reactionKey]bool
}

func newMemoryFeedRepository() *memoryFeedRepository {
	return &memoryFeedRepository{
		feeds:    make(map[uint]*model.Feed),
		likes:    make(map[reactionKey]bool),
		dislikes: make(map[reactionKey]bool),
	}
}

func (r *memoryFeedRepository) table(kind model.Reaction) map[reactionKey]bool {
	if kind == model.ReactionLike {
		return r.likes
	}
	return r.dislikes
}

func (r *memoryFeedRepository) ListByCourse(ctx context.Context, filter repository.FeedFilter) ([]model.Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Feed
	for _, f := range r.feeds {
		if f.CourseID != filter.CourseID {
			continue
		}
		feed := *f
		key := reactionKey{filter.StudentID, f.ID}
		feed.UserLiked = r.likes[key]
		feed.UserDisliked = r.dislikes[key]
		out = append(out, feed)
	}
	return out, nil
}

func (r *memoryFeedRepository) FindByID(ctx context.Context, id uint) (*model.Feed, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.feeds[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	feed := *f
	return &feed, nil
}

func (r *memoryFeedRepository) Create(ctx context.Context, feed *model.Feed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	feed.ID = r.nextID
	feed.Likes, feed.Dislikes = 0, 0
	stored := *feed
	r.feeds[feed.ID] = &stored
	return nil
}

func (r *memoryFeedRepository) UpdateDescription(ctx context.Context, id uint, description string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.feeds[id]
	if !ok {
		return 0, nil
	}
	f.Description = description
	return 1, nil
}

func (r *memoryFeedRepository) Delete(ctx context.Context, id uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.feeds[id]; !ok {
		return 0, nil
	}
	delete(r.feeds, id)
	for k := range r.likes {
		if k.feed == id {
			delete(r.likes, k)
		}
	}
	for k := range r.dislikes {
		if k.feed == id {
			delete(r.dislikes, k)
		}
	}
	return 1, nil
}

func (r *memoryFeedRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Feed, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryFeedRepository) HasReaction(ctx context.Context, kind model.Reaction, studentID, feedID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table(kind)[reactionKey{studentID, feedID}], nil
}

func (r *memoryFeedRepository) AddReaction(ctx context.Context, kind model.Reaction, studentID, feedID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reactionKey{studentID, feedID}
	if r.table(kind)[key] {
		return gorm.ErrDuplicatedKey
	}
	r.table(kind)[key] = true
	return nil
}

func (r *memoryFeedRepository) RemoveReaction(ctx context.Context, kind model.Reaction, studentID, feedID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.table(kind), reactionKey{studentID, feedID})
	return nil
}

func (r *memoryFeedRepository) AdjustCounter(ctx context.Context, kind model.Reaction, feedID uint, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.feeds[feedID]
	if kind == model.ReactionLike {
		f.Likes += delta
	} else {
		f.Dislikes += delta
	}
	return nil
}

func (r *memoryFeedRepository) Counters(ctx context.Context, feedID uint) (model.Counters, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := r.feeds[feedID]
	return model.Counters{Likes: f.Likes, Dislikes: f.Dislikes}, nil
}

func (r *memoryFeedRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.FeedRepository) error) error {
	r.tx.Lock()
	defer r.tx.Unlock()
	return fn(ctx, r)
}

// assertCountersMatchRows checks that stored counters equal the surviving reaction rows.
func (r *memoryFeedRepository) assertCountersMatchRows(t *testing.T, feedID uint) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	likes, dislikes := 0, 0
	for k := range r.likes {
		if k.feed == feedID {
			likes++
			assert.False(t, r.dislikes[k], "student %d holds both reactions", k.student)
		}
	}
	for k := range r.dislikes {
		if k.feed == feedID {
			dislikes++
		}
	}
	assert.Equal(t, likes, r.feeds[feedID].Likes)
	assert.Equal(t, dislikes, r.feeds[feedID].Dislikes)
}

func seedFeed(t *testing.T, repo *memoryFeedRepository) uint {
	t.Helper()
	feed := &model.Feed{CourseID: 1, Year: 1, Semester: 1, Description: "welcome"}
	require.NoError(t, repo.Create(context.Background(), feed))
	return feed.ID
}

func TestFeedService_React(t *testing.T) {
	type step struct {
		student  uint
		action   model.Reaction
		likes    int
		dislikes int
	}
	tests := []struct {
		name  string
		steps []step
	}{
		{
			name: "like then like again toggles off",
			steps: []step{
				{1, model.ReactionLike, 1, 0},
				{1, model.ReactionLike, 0, 0},
			},
		},
		{
			name: "like blocks dislike",
			steps: []step{
				{1, model.ReactionLike, 1, 0},
				{1, model.ReactionDislike, 1, 0},
			},
		},
		{
			name: "dislike blocks like until removed",
			steps: []step{
				{1, model.ReactionDislike, 0, 1},
				{1, model.ReactionLike, 0, 1},
				{1, model.ReactionDislike, 0, 0},
				{1, model.ReactionLike, 1, 0},
			},
		},
		{
			name: "students are independent",
			steps: []step{
				{1, model.ReactionLike, 1, 0},
				{2, model.ReactionLike, 2, 0},
				{3, model.ReactionDislike, 2, 1},
				{1, model.ReactionLike, 1, 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemoryFeedRepository()
			feedID := seedFeed(t, repo)
			service := NewFeedService(repo, &memoryUploader{}, 0)

			for i, s := range tt.steps {
				counters, err := service.React(context.Background(), feedID, s.student, s.action)
				require.NoError(t, err, "step %d", i)
				assert.Equal(t, model.Counters{Likes: s.likes, Dislikes: s.dislikes}, counters, "step %d", i)
				repo.assertCountersMatchRows(t, feedID)
			}
		})
	}
}

func TestFeedService_ReactErrors(t *testing.T) {
	repo := newMemoryFeedRepository()
	feedID := seedFeed(t, repo)
	service := NewFeedService(repo, &memoryUploader{}, 0)

	_, err := service.React(context.Background(), feedID, 1, model.Reaction("love"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidAction)

	_, err = service.React(context.Background(), feedID+100, 1, model.ReactionLike)
	assert.ErrorIs(t, err, apperrors.ErrFeedNotFound)

	repo.assertCountersMatchRows(t, feedID)
}

func TestFeedService_ReactConcurrent(t *testing.T) {
	repo := newMemoryFeedRepository()
	feedID := seedFeed(t, repo)
	service := NewFeedService(repo, &memoryUploader{}, 0)

	const students = 20
	var wg sync.WaitGroup
	for s := uint(1); s <= students; s++ {
		for i := 0; i < 5; i++ {
			wg.Add(1)
			action := model.ReactionLike
			if i%2 == 1 {
				action = model.ReactionDislike
			}
			go func(student uint, action model.Reaction) {
				defer wg.Done()
				_, err := service.React(context.Background(), feedID, student, action)
				assert.NoError(t, err)
			}(s, action)
		}
	}
	wg.Wait()

	repo.assertCountersMatchRows(t, feedID)
	counters, err := repo.Counters(context.Background(), feedID)
	require.NoError(t, err)
	assert.LessOrEqual(t, counters.Likes+counters.Dislikes, students)
}

func TestFeedService_ListFlagsCallerReactions(t *testing.T) {
	repo := newMemoryFeedRepository()
	feedID := seedFeed(t, repo)
	service := NewFeedService(repo, &memoryUploader{}, 0)

	_, err := service.React(context.Background(), feedID, 4, model.ReactionDislike)
	require.NoError(t, err)

	feeds, err := service.List(context.Background(), repository.FeedFilter{CourseID: 1, StudentID: 4})
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.True(t, feeds[0].UserDisliked)
	assert.False(t, feeds[0].UserLiked)

	feeds, err = service.List(context.Background(), repository.FeedFilter{CourseID: 1, StudentID: 5})
	require.NoError(t, err)
	assert.False(t, feeds[0].UserDisliked)
}

func TestFeedService_Create(t *testing.T) {
	t.Run("missing image", func(t *testing.T) {
		service := NewFeedService(newMemoryFeedRepository(), &memoryUploader{}, 0)
		_, err := service.Create(context.Background(), CreateFeedInput{CourseID: 1, Description: "x"})
		assert.ErrorIs(t, err, apperrors.ErrMissingFile)
	})

	t.Run("uploads under feeds folder", func(t *testing.T) {
		uploader := &memoryUploader{}
		service := NewFeedService(newMemoryFeedRepository(), uploader, 0)
		feed, err := service.Create(context.Background(), CreateFeedInput{
			CourseID:    1,
			Year:        2,
			Semester:    1,
			Description: "Lab photos",
			Image:       &FileUpload{Name: "lab day.txt", ContentType: "text/plain", Data: []byte("not an image")},
		})
		require.NoError(t, err)
		assert.Contains(t, feed.ImagePath, "https://files.test/feeds/lab_day_")
		assert.Zero(t, feed.Likes)
		assert.Len(t, uploader.objects, 1)
	})

	t.Run("upload failure", func(t *testing.T) {
		service := NewFeedService(newMemoryFeedRepository(), &memoryUploader{err: errors.New("bucket down")}, 0)
		_, err := service.Create(context.Background(), CreateFeedInput{
			CourseID: 1, Description: "x", Image: &FileUpload{Name: "a.png", Data: []byte{1}},
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsInternal(err))
	})
}

func TestFeedService_UpdateAndDelete(t *testing.T) {
	repo := newMemoryFeedRepository()
	feedID := seedFeed(t, repo)
	service := NewFeedService(repo, &memoryUploader{}, 0)

	_, err := service.React(context.Background(), feedID, 1, model.ReactionLike)
	require.NoError(t, err)

	feed, err := service.UpdateDescription(context.Background(), feedID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", feed.Description)

	_, err = service.UpdateDescription(context.Background(), feedID+1, "edited")
	assert.ErrorIs(t, err, apperrors.ErrFeedNotFound)

	require.NoError(t, service.Delete(context.Background(), feedID))
	assert.Empty(t, repo.likes)
	assert.ErrorIs(t, service.Delete(context.Background(), feedID), apperrors.ErrFeedNotFound)
}
