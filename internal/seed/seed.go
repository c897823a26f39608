// Package seed provides helpers to create demo data for development and
// manual testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"devconnector/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much demo data Run creates.
type Options struct {
	Users           int
	PostsPerUser    int
	MaxLikesPerPost int
	MaxComments     int
}

// DefaultOptions returns a small but representative data set.
func DefaultOptions() Options {
	return Options{
		Users:           8,
		PostsPerUser:    3,
		MaxLikesPerPost: 5,
		MaxComments:     4,
	}
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a fake user with the shared demo password.
func (f *Factory) CreateUser() (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Password: string(hashed),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProfile persists a profile for the given user.
func (f *Factory) CreateProfile(user *models.User) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:   user.ID,
		Handle:   user.Username,
		Company:  gofakeit.Company(),
		Website:  gofakeit.URL(),
		Location: gofakeit.City(),
		Status:   gofakeit.JobTitle(),
		Bio:      gofakeit.Sentence(12),
	}
	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreatePost persists a post by the given user with a realistic created_at
// spread over the last 90 days.
func (f *Factory) CreatePost(user *models.User) (*models.Post, error) {
	daysBack := f.rng.Intn(90)
	hoursBack := f.rng.Intn(24)

	post := &models.Post{
		Text:      gofakeit.Paragraph(1, 2, 8, " "),
		Name:      user.Username,
		Avatar:    user.Avatar,
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour),
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// LikePost records a like; duplicate likes by the same user are ignored.
func (f *Factory) LikePost(user *models.User, post *models.Post) error {
	return f.db.Exec(
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES (?, ?, NOW())
		 ON CONFLICT (user_id, post_id) DO NOTHING`,
		user.ID, post.ID,
	).Error
}

// CommentOnPost appends a fake comment to the post.
func (f *Factory) CommentOnPost(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Text:   gofakeit.Sentence(10),
		Name:   user.Username,
		Avatar: user.Avatar,
		UserID: user.ID,
		PostID: post.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Run populates the database with users, profiles, posts, likes, and comments.
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return err
		}
		if _, err := f.CreateProfile(user); err != nil {
			return err
		}
		users = append(users, user)
	}

	for _, user := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			post, err := f.CreatePost(user)
			if err != nil {
				return err
			}

			for j := 0; j < f.rng.Intn(opts.MaxLikesPerPost+1); j++ {
				liker := users[f.rng.Intn(len(users))]
				if err := f.LikePost(liker, post); err != nil {
					return err
				}
			}
			for j := 0; j < f.rng.Intn(opts.MaxComments+1); j++ {
				commenter := users[f.rng.Intn(len(users))]
				if _, err := f.CommentOnPost(commenter, post); err != nil {
					return err
				}
			}
		}
	}

	log.Printf("Seeded %d users with %d posts each", opts.Users, opts.PostsPerUser)
	return nil
}
