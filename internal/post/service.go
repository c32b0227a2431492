package post

import (
	"context"
	"errors"
	"time"

	"github.com/rakawanegan/Emotter/internal/db"
	"github.com/rakawanegan/Emotter/internal/emotion"
	"github.com/rakawanegan/Emotter/internal/imaging"
	"github.com/rakawanegan/Emotter/internal/stream"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Service struct {
	db              db.Querier
	classifier      emotion.Classifier
	textEstimator   emotion.TextEstimator
	hub             *stream.Hub
	classifyTimeout time.Duration
}

func NewService(q db.Querier, classifier emotion.Classifier, textEstimator emotion.TextEstimator, hub *stream.Hub, classifyTimeout time.Duration) *Service {
	if classifyTimeout <= 0 {
		classifyTimeout = 5 * time.Second
	}
	return &Service{
		db:              q,
		classifier:      classifier,
		textEstimator:   textEstimator,
		hub:             hub,
		classifyTimeout: classifyTimeout,
	}
}

// Ingest runs the decode, classify, persist flow for a new post. Any decode
// or classification failure aborts before the first write, so either a fully
// labeled post row exists afterwards or none does.
func (s *Service) Ingest(ctx context.Context, input IngestInput) (Post, error) {
	frame, err := imaging.Decode(input.ImageData)
	if err != nil {
		return Post{}, ingestionFailed(ReasonMalformedPayload, err)
	}

	classifyCtx, cancel := context.WithTimeout(ctx, s.classifyTimeout)
	defer cancel()

	pred, err := s.classifier.Classify(classifyCtx, frame)
	if err != nil {
		switch {
		case errors.Is(err, emotion.ErrNoFace):
			return Post{}, ingestionFailed(ReasonNoFace, err)
		case errors.Is(err, context.DeadlineExceeded):
			return Post{}, ingestionFailed(ReasonClassifierTimeout, err)
		default:
			return Post{}, ingestionFailed(ReasonClassifier, err)
		}
	}

	textLabel := s.textEstimator.Estimate(ctx, input.Content)

	p := Post{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		Content:     input.Content,
		FaceEmotion: string(pred.Label),
		TextEmotion: string(textLabel),
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO posts (id, user_id, content, face_emotion, text_emotion)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`, p.ID, p.UserID, p.Content, p.FaceEmotion, p.TextEmotion)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return Post{}, ingestionFailed(ReasonStorage, err)
	}

	if s.hub != nil {
		s.hub.Publish("home", stream.Event{
			Type:    "post.created",
			PostID:  p.ID,
			UserID:  p.UserID,
			Emotion: p.FaceEmotion,
		})
	}
	return p, nil
}

// Get loads a post with its comments and likers for the detail view.
func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, content, COALESCE(face_emotion,''), COALESCE(text_emotion,''), created_at, updated_at
		FROM posts WHERE id=$1
	`, id)

	var p Post
	err := row.Scan(&p.ID, &p.UserID, &p.Content, &p.FaceEmotion, &p.TextEmotion, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Post{}, ErrNotFound
	}
	if err != nil {
		return Post{}, err
	}

	if p.Comments, err = s.listComments(ctx, id); err != nil {
		return Post{}, err
	}
	if p.Likers, err = s.listLikers(ctx, id); err != nil {
		return Post{}, err
	}
	p.LikeCount = len(p.Likers)
	return p, nil
}

// Update rewrites the post content. Only the author may edit.
func (s *Service) Update(ctx context.Context, id, userID, content string) (Post, error) {
	if err := s.requireOwner(ctx, id, userID); err != nil {
		return Post{}, err
	}

	row := s.db.QueryRow(ctx, `
		UPDATE posts SET content=$2, updated_at=now()
		WHERE id=$1
		RETURNING id, user_id, content, COALESCE(face_emotion,''), COALESCE(text_emotion,''), created_at, updated_at
	`, id, content)

	var p Post
	if err := row.Scan(&p.ID, &p.UserID, &p.Content, &p.FaceEmotion, &p.TextEmotion, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Post{}, err
	}
	return p, nil
}

// Delete removes the post; comments and likes cascade. Only the author may
// delete.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if err := s.requireOwner(ctx, id, userID); err != nil {
		return err
	}
	_, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id=$1`, id)
	return err
}

func (s *Service) AddComment(ctx context.Context, postID, userID, content string) (Comment, error) {
	if err := s.exists(ctx, postID); err != nil {
		return Comment{}, err
	}

	c := Comment{
		ID:      uuid.NewString(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO comments (id, post_id, user_id, content)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, c.ID, c.PostID, c.UserID, c.Content)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return Comment{}, err
	}
	return c, nil
}

func (s *Service) requireOwner(ctx context.Context, id, userID string) error {
	row := s.db.QueryRow(ctx, `SELECT user_id FROM posts WHERE id=$1`, id)
	var author string
	err := row.Scan(&author)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if author != userID {
		return ErrForbidden
	}
	return nil
}

func (s *Service) exists(ctx context.Context, id string) error {
	row := s.db.QueryRow(ctx, `SELECT 1 FROM posts WHERE id=$1`, id)
	var one int
	err := row.Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *Service) listComments(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, user_id, content, created_at
		FROM comments WHERE post_id=$1
		ORDER BY created_at
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Service) listLikers(ctx context.Context, postID string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT user_id FROM post_likes WHERE post_id=$1
		ORDER BY created_at
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var likers []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		likers = append(likers, u)
	}
	return likers, rows.Err()
}
