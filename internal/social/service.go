package social

import (
	"context"
	"errors"

	"github.com/rakawanegan/Emotter/internal/db"
	"github.com/rakawanegan/Emotter/internal/post"
	"github.com/rakawanegan/Emotter/internal/stream"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound           = errors.New("toggle target not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// toggleAttempts bounds the insert/delete retry loop before a contended
// toggle is surfaced as ErrStorageUnavailable.
const toggleAttempts = 3

type Service struct {
	db  db.Querier
	hub *stream.Hub
}

func NewService(q db.Querier, hub *stream.Hub) *Service {
	return &Service{db: q, hub: hub}
}

// ToggleLike flips the (user, post) like relation and reports the resulting
// state. The post must exist. Self-likes are not blocked.
func (s *Service) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	if _, err := s.postAuthor(ctx, postID); err != nil {
		return false, err
	}

	liked, err := s.toggle(ctx, likeRelation, postID, userID)
	if err != nil {
		return false, err
	}

	if s.hub != nil {
		s.hub.Publish("home", stream.Event{
			Type:    "like.toggled",
			PostID:  postID,
			UserID:  userID,
			Present: liked,
		})
	}
	return liked, nil
}

// ToggleFollow flips whether userID follows the author of the given post.
// The actor's connection record is materialized on first use; the unique
// constraint makes repeated creation idempotent. Self-follows are not
// blocked.
func (s *Service) ToggleFollow(ctx context.Context, userID, postID string) (bool, string, error) {
	target, err := s.postAuthor(ctx, postID)
	if err != nil {
		return false, "", err
	}

	if _, err := s.db.Exec(ctx, `
		INSERT INTO connections (user_id) VALUES ($1)
		ON CONFLICT DO NOTHING
	`, userID); err != nil {
		return false, "", err
	}

	following, err := s.toggle(ctx, followRelation, userID, target)
	if err != nil {
		return false, "", err
	}

	if s.hub != nil {
		s.hub.Publish("home", stream.Event{
			Type:    "follow.toggled",
			PostID:  postID,
			UserID:  userID,
			Present: following,
		})
	}
	return following, target, nil
}

type relation struct {
	insert string
	delete string
}

var (
	likeRelation = relation{
		insert: `INSERT INTO post_likes (post_id, user_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
		delete: `DELETE FROM post_likes WHERE post_id=$1 AND user_id=$2`,
	}
	followRelation = relation{
		insert: `INSERT INTO follows (owner_id, target_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
		delete: `DELETE FROM follows WHERE owner_id=$1 AND target_id=$2`,
	}
)

// toggle flips membership of (a, b) in the relation. The composite primary
// key serializes concurrent toggles on the same pair: the insert and the
// delete each succeed for exactly one contender, so a toggle that loses both
// races retries against the state the winner left behind.
func (s *Service) toggle(ctx context.Context, rel relation, a, b string) (bool, error) {
	for i := 0; i < toggleAttempts; i++ {
		tag, err := s.db.Exec(ctx, rel.insert, a, b)
		if err != nil {
			return false, err
		}
		if tag.RowsAffected() == 1 {
			return true, nil
		}

		tag, err = s.db.Exec(ctx, rel.delete, a, b)
		if err != nil {
			return false, err
		}
		if tag.RowsAffected() == 1 {
			return false, nil
		}
	}
	return false, ErrStorageUnavailable
}

// Following returns the set of user IDs the viewer follows.
func (s *Service) Following(ctx context.Context, viewerID string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT target_id FROM follows WHERE owner_id=$1
		ORDER BY created_at
	`, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// HomeFeed lists every post, newest first. The viewer's own posts are
// deliberately not excluded.
func (s *Service) HomeFeed(ctx context.Context, viewerID string) ([]post.Post, error) {
	return s.listPosts(ctx, `
		SELECT id, user_id, content, COALESCE(face_emotion,''), COALESCE(text_emotion,''), created_at, updated_at
		FROM posts
		ORDER BY created_at DESC
	`)
}

// MyFeed lists the viewer's own posts, newest first.
func (s *Service) MyFeed(ctx context.Context, viewerID string) ([]post.Post, error) {
	return s.listPosts(ctx, `
		SELECT id, user_id, content, COALESCE(face_emotion,''), COALESCE(text_emotion,''), created_at, updated_at
		FROM posts
		WHERE user_id=$1
		ORDER BY created_at DESC
	`, viewerID)
}

// FollowingFeed lists posts authored by users the viewer follows, newest
// first.
func (s *Service) FollowingFeed(ctx context.Context, viewerID string) ([]post.Post, error) {
	return s.listPosts(ctx, `
		SELECT id, user_id, content, COALESCE(face_emotion,''), COALESCE(text_emotion,''), created_at, updated_at
		FROM posts
		WHERE user_id IN (SELECT target_id FROM follows WHERE owner_id=$1)
		ORDER BY created_at DESC
	`, viewerID)
}

func (s *Service) postAuthor(ctx context.Context, postID string) (string, error) {
	row := s.db.QueryRow(ctx, `SELECT user_id FROM posts WHERE id=$1`, postID)
	var author string
	err := row.Scan(&author)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return author, nil
}

func (s *Service) listPosts(ctx context.Context, sql string, args ...any) ([]post.Post, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []post.Post
	var ids []string
	for rows.Next() {
		var p post.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Content, &p.FaceEmotion, &p.TextEmotion, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	likers, err := s.loadLikers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Likers = likers[posts[i].ID]
		posts[i].LikeCount = len(posts[i].Likers)
	}
	return posts, nil
}

func (s *Service) loadLikers(ctx context.Context, postIDs []string) (map[string][]string, error) {
	if len(postIDs) == 0 {
		return map[string][]string{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT post_id, user_id FROM post_likes WHERE post_id = ANY($1)
		ORDER BY created_at
	`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likers := map[string][]string{}
	for rows.Next() {
		var postID, userID string
		if err := rows.Scan(&postID, &userID); err != nil {
			return nil, err
		}
		likers[postID] = append(likers[postID], userID)
	}
	return likers, rows.Err()
}
