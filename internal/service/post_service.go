// Package service contains the domain rules for mutating post aggregates.
package service

import (
	"context"

	"devconnector/internal/config"
	"devconnector/internal/models"
	"devconnector/internal/repository"
	"devconnector/internal/validation"
)

// PostService enforces the post aggregate invariants: one like per user per
// post, append-only comments, and author-only post deletion. It owns the
// mutation rules; durable storage belongs to the repositories.
type PostService struct {
	postRepo            repository.PostRepository
	profileRepo         repository.ProfileRepository
	commentDeletePolicy string
}

type CreatePostInput struct {
	UserID uint
	Text   string
	Name   string
	Avatar string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

type AddCommentInput struct {
	UserID uint
	PostID uint
	Text   string
	Name   string
	Avatar string
}

type RemoveCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
	commentDeletePolicy string,
) *PostService {
	return &PostService{
		postRepo:            postRepo,
		profileRepo:         profileRepo,
		commentDeletePolicy: commentDeletePolicy,
	}
}

// ListPosts returns all posts newest-first. An empty result is a valid,
// non-error outcome.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if errs, ok := validation.ValidatePostInput(in.Text); !ok {
		return nil, models.NewFieldValidationError(errs)
	}

	post := &models.Post{
		Text:   in.Text,
		Name:   in.Name,
		Avatar: in.Avatar,
		UserID: in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post. Only the post author may delete it.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}

	if post.UserID != in.UserID {
		return models.NewUnauthorizedError("User not authorized")
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// LikePost records a like for the requesting user. The requester must have a
// profile, and may hold at most one like on the post.
func (s *PostService) LikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if err := s.requireProfile(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, models.NewAlreadyLikedError()
	}

	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

// UnlikePost removes exactly the requesting user's like. Removing a like that
// does not exist is an error and mutates nothing.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if err := s.requireProfile(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !liked {
		return nil, models.NewNotLikedError()
	}

	if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) AddComment(ctx context.Context, in AddCommentInput) (*models.Post, error) {
	if errs, ok := validation.ValidatePostInput(in.Text); !ok {
		return nil, models.NewFieldValidationError(errs)
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:   in.Text,
		Name:   in.Name,
		Avatar: in.Avatar,
		UserID: in.UserID,
		PostID: in.PostID,
	}
	if err := s.postRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, in.PostID)
}

// RemoveComment deletes one comment from a post. Under the "owner" policy
// only the comment author or the post author may remove it; under "open"
// any authenticated user may.
func (s *PostService) RemoveComment(ctx context.Context, in RemoveCommentInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	comment, err := s.postRepo.GetComment(ctx, in.PostID, in.CommentID)
	if err != nil {
		return nil, err
	}

	if s.commentDeletePolicy == config.CommentDeleteOwner &&
		in.UserID != comment.UserID && in.UserID != post.UserID {
		return nil, models.NewUnauthorizedError("User not authorized")
	}

	if err := s.postRepo.RemoveComment(ctx, in.PostID, in.CommentID); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, in.PostID)
}

func (s *PostService) requireProfile(ctx context.Context, userID uint) error {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return models.NewNoProfileError()
	}
	return nil
}
