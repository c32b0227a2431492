package post

import "time"

type Post struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Content     string    `json:"content"`
	FaceEmotion string    `json:"face_emotion,omitempty"`
	TextEmotion string    `json:"text_emotion,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Likers      []string  `json:"likers,omitempty"`
	LikeCount   int       `json:"like_count"`
	Comments    []Comment `json:"comments,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// IngestInput is a post submission: text plus the data-URI camera frame.
type IngestInput struct {
	UserID    string `json:"user_id" validate:"required"`
	Content   string `json:"content" validate:"required"`
	ImageData string `json:"image_data" validate:"required"`
}
