package model

import "time"

// LikeStatus is one user's reaction to a post or comment.
type LikeStatus string

const (
	LikeNone    LikeStatus = "None"
	LikeLike    LikeStatus = "Like"
	LikeDislike LikeStatus = "Dislike"
)

// Valid reports whether s is one of the three known statuses.
func (s LikeStatus) Valid() bool {
	switch s {
	case LikeNone, LikeLike, LikeDislike:
		return true
	}
	return false
}

// Reaction is stored once per (SourceID, AuthorID).
type Reaction struct {
	ID          string
	SourceID    string
	AuthorID    string
	AuthorLogin string
	Status      LikeStatus
	CreatedAt   time.Time
}

// LikeCounts is the aggregate over all reactions to one source.
type LikeCounts struct {
	Likes    int
	Dislikes int
}

type LikesInfo struct {
	LikesCount    int        `json:"likesCount"`
	DislikesCount int        `json:"dislikesCount"`
	MyStatus      LikeStatus `json:"myStatus"`
}

// LikeDetails is one entry of a post's newest likes.
type LikeDetails struct {
	AddedAt time.Time `json:"addedAt"`
	UserID  string    `json:"userId"`
	Login   string    `json:"login"`
}

type ExtendedLikesInfo struct {
	LikesInfo
	NewestLikes []LikeDetails `json:"newestLikes"`
}

type LikeInput struct {
	LikeStatus LikeStatus `json:"likeStatus"`
}
