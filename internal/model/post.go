package model

import "time"

// Post carries a copy of its blog's name, taken when the post is created.
type Post struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	ShortDescription string    `json:"shortDescription"`
	Content          string    `json:"content"`
	BlogID           string    `json:"blogId"`
	BlogName         string    `json:"blogName"`
	CreatedAt        time.Time `json:"createdAt"`
}

// PostInput is the body of POST and PUT /posts. BlogID is ignored when the
// blog comes from the URL (POST /blogs/{blogId}/posts).
type PostInput struct {
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	Content          string `json:"content"`
	BlogID           string `json:"blogId"`
}

type PostPatch struct {
	Title            *string
	ShortDescription *string
	Content          *string
	BlogID           *string
}

func (in PostInput) Patch() PostPatch {
	return PostPatch{
		Title:            &in.Title,
		ShortDescription: &in.ShortDescription,
		Content:          &in.Content,
		BlogID:           &in.BlogID,
	}
}

// Apply writes every present, non-blank field onto p. Changing BlogID does
// not touch BlogName; the service refreshes it.
func (pp PostPatch) Apply(p *Post) {
	setIfPresent(&p.Title, pp.Title)
	setIfPresent(&p.ShortDescription, pp.ShortDescription)
	setIfPresent(&p.Content, pp.Content)
	setIfPresent(&p.BlogID, pp.BlogID)
}

// PostFilter narrows a post listing to one blog when BlogID is set.
type PostFilter struct {
	BlogID string
}

// PostView is a post with its reactions.
type PostView struct {
	Post
	ExtendedLikesInfo ExtendedLikesInfo `json:"extendedLikesInfo"`
}
