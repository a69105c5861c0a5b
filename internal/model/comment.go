package model

import "time"

type CommentatorInfo struct {
	UserID    string `json:"userId"`
	UserLogin string `json:"userLogin"`
}

// Comment belongs to a post. PostID is stored but not part of the JSON.
type Comment struct {
	ID              string          `json:"id"`
	Content         string          `json:"content"`
	CommentatorInfo CommentatorInfo `json:"commentatorInfo"`
	CreatedAt       time.Time       `json:"createdAt"`
	PostID          string          `json:"-"`
}

type CommentInput struct {
	Content string `json:"content"`
}

// CommentView is a comment with its reactions.
type CommentView struct {
	Comment
	LikesInfo LikesInfo `json:"likesInfo"`
}
