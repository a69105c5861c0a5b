package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sakif/bloggers-platform/internal/apperror"
	"github.com/sakif/bloggers-platform/internal/auth"
	"github.com/sakif/bloggers-platform/internal/mail"
	"github.com/sakif/bloggers-platform/internal/model"
	"github.com/sakif/bloggers-platform/internal/pagination"
)

// =========================================================================
// FAKE STORE
// =========================================================================
//
// fakeStore is one in-memory implementation of every repository interface.
// Services only see the interfaces, so they cannot tell it from SQLite.
// Lists keep insertion order; sorting is the query engine's job and is
// tested against the real database.
//
// Setting failWith simulates the database going away: the methods that
// the failure tests reach return it instead of touching the maps.

type fakeStore struct {
	mu sync.Mutex

	blogs     map[string]*model.Blog
	posts     map[string]*model.Post
	comments  map[string]*model.Comment
	users     map[string]*model.User
	reactions map[string]*model.Reaction // keyed by source|author
	videos    map[int64]*model.Video

	order  []string // insertion order of every string id
	nextID int
	clock  time.Time

	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		blogs:     map[string]*model.Blog{},
		posts:     map[string]*model.Post{},
		comments:  map[string]*model.Comment{},
		users:     map[string]*model.User{},
		reactions: map[string]*model.Reaction{},
		videos:    map[int64]*model.Video{},
		clock:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) newID(prefix string) (string, time.Time) {
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	id := fmt.Sprintf("%s-%d", prefix, f.nextID)
	f.order = append(f.order, id)
	return id, f.clock
}

// page collects the items in insertion order and cuts the requested page.
func page[T any](f *fakeStore, get func(id string) (T, bool), req pagination.PageRequest) pagination.PageResult[T] {
	req = req.Normalize()
	var all []T
	for _, id := range f.order {
		if v, ok := get(id); ok {
			all = append(all, v)
		}
	}
	start := min(req.Skip(), len(all))
	end := min(start+req.PageSize, len(all))
	return pagination.NewResult(req, len(all), all[start:end])
}

// --- blogs ---

func (f *fakeStore) CreateBlog(_ context.Context, b *model.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	b.ID, b.CreatedAt = f.newID("blog")
	stored := *b
	f.blogs[b.ID] = &stored
	return nil
}

func (f *fakeStore) GetBlog(_ context.Context, id string) (*model.Blog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	b, ok := f.blogs[id]
	if !ok {
		return nil, apperror.NotFound("blog", id)
	}
	result := *b
	return &result, nil
}

func (f *fakeStore) ListBlogs(_ context.Context, filter model.BlogFilter, req pagination.PageRequest) (pagination.PageResult[model.Blog], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return pagination.PageResult[model.Blog]{}, f.failWith
	}
	return page(f, func(id string) (model.Blog, bool) {
		b, ok := f.blogs[id]
		if !ok || !containsFold(b.Name, filter.SearchNameTerm) {
			return model.Blog{}, false
		}
		return *b, true
	}, req), nil
}

func (f *fakeStore) UpdateBlog(_ context.Context, b *model.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blogs[b.ID]; !ok {
		return apperror.NotFound("blog", b.ID)
	}
	stored := *b
	f.blogs[b.ID] = &stored
	return nil
}

func (f *fakeStore) DeleteBlog(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blogs[id]; !ok {
		return apperror.NotFound("blog", id)
	}
	delete(f.blogs, id)
	for pid, p := range f.posts {
		if p.BlogID == id {
			delete(f.posts, pid)
		}
	}
	return nil
}

// --- posts ---

func (f *fakeStore) CreatePost(_ context.Context, p *model.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID, p.CreatedAt = f.newID("post")
	stored := *p
	f.posts[p.ID] = &stored
	return nil
}

func (f *fakeStore) GetPost(_ context.Context, id string) (*model.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	p, ok := f.posts[id]
	if !ok {
		return nil, apperror.NotFound("post", id)
	}
	result := *p
	return &result, nil
}

func (f *fakeStore) ListPosts(_ context.Context, filter model.PostFilter, req pagination.PageRequest) (pagination.PageResult[model.Post], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f, func(id string) (model.Post, bool) {
		p, ok := f.posts[id]
		if !ok || (filter.BlogID != "" && p.BlogID != filter.BlogID) {
			return model.Post{}, false
		}
		return *p, true
	}, req), nil
}

func (f *fakeStore) UpdatePost(_ context.Context, p *model.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[p.ID]; !ok {
		return apperror.NotFound("post", p.ID)
	}
	stored := *p
	f.posts[p.ID] = &stored
	return nil
}

func (f *fakeStore) DeletePost(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return apperror.NotFound("post", id)
	}
	delete(f.posts, id)
	return nil
}

// --- comments ---

func (f *fakeStore) CreateComment(_ context.Context, c *model.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID, c.CreatedAt = f.newID("comment")
	stored := *c
	f.comments[c.ID] = &stored
	return nil
}

func (f *fakeStore) GetComment(_ context.Context, id string) (*model.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return nil, apperror.NotFound("comment", id)
	}
	result := *c
	return &result, nil
}

func (f *fakeStore) ListComments(_ context.Context, postID string, req pagination.PageRequest) (pagination.PageResult[model.Comment], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f, func(id string) (model.Comment, bool) {
		c, ok := f.comments[id]
		if !ok || c.PostID != postID {
			return model.Comment{}, false
		}
		return *c, true
	}, req), nil
}

func (f *fakeStore) UpdateCommentContent(_ context.Context, id, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.comments[id]
	if !ok {
		return apperror.NotFound("comment", id)
	}
	c.Content = content
	return nil
}

func (f *fakeStore) DeleteComment(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[id]; !ok {
		return apperror.NotFound("comment", id)
	}
	delete(f.comments, id)
	return nil
}

// --- users ---

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Login == u.Login {
			return apperror.Conflict("login", "login already exists")
		}
		if existing.Email == u.Email {
			return apperror.Conflict("email", "email already exists")
		}
	}
	u.ID, u.CreatedAt = f.newID("user")
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (f *fakeStore) ListUsers(_ context.Context, filter model.UserFilter, req pagination.PageRequest) (pagination.PageResult[model.User], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f, func(id string) (model.User, bool) {
		u, ok := f.users[id]
		if !ok {
			return model.User{}, false
		}
		noTerms := filter.SearchLoginTerm == "" && filter.SearchEmailTerm == ""
		match := (filter.SearchLoginTerm != "" && containsFold(u.Login, filter.SearchLoginTerm)) ||
			(filter.SearchEmailTerm != "" && containsFold(u.Email, filter.SearchEmailTerm))
		return *u, noTerms || match
	}, req), nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) findUser(match func(*model.User) bool) *model.User {
	for _, u := range f.users {
		if match(u) {
			result := *u
			return &result
		}
	}
	return nil
}

func (f *fakeStore) FindUserByLoginOrEmail(_ context.Context, loginOrEmail string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.findUser(func(u *model.User) bool { return u.Login == loginOrEmail || u.Email == loginOrEmail }), nil
}

func (f *fakeStore) FindUserByConfirmationCode(_ context.Context, code string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findUser(func(u *model.User) bool { return u.Confirmation.Code == code }), nil
}

func (f *fakeStore) FindUserByRecoveryCode(_ context.Context, code string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findUser(func(u *model.User) bool { return u.Recovery != nil && u.Recovery.Code == code }), nil
}

func (f *fakeStore) LoginExists(_ context.Context, login string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return false, f.failWith
	}
	return f.findUser(func(u *model.User) bool { return u.Login == login }) != nil, nil
}

func (f *fakeStore) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findUser(func(u *model.User) bool { return u.Email == email }) != nil, nil
}

func (f *fakeStore) ConfirmUser(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.Confirmation.IsConfirmed {
		return false, nil
	}
	u.Confirmation.IsConfirmed = true
	return true, nil
}

func (f *fakeStore) SetConfirmationCode(_ context.Context, id, code string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.Confirmation.Code, u.Confirmation.ExpirationDate = code, expiresAt
	return nil
}

func (f *fakeStore) SetRecoveryCode(_ context.Context, id, code string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.Recovery = &model.RecoveryCode{Code: code, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeStore) ResetPassword(_ context.Context, code, hash, salt string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Recovery != nil && u.Recovery.Code == code {
			u.PasswordHash, u.PasswordSalt, u.Recovery = hash, salt, nil
			return true, nil
		}
	}
	return false, nil
}

// --- reactions ---

func reactionKey(source, author string) string { return source + "|" + author }

func (f *fakeStore) UpsertReaction(_ context.Context, r *model.Reaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	key := reactionKey(r.SourceID, r.AuthorID)
	if existing, ok := f.reactions[key]; ok {
		existing.Status, existing.AuthorLogin = r.Status, r.AuthorLogin
		return nil
	}
	f.clock = f.clock.Add(time.Second)
	stored := *r
	stored.ID, stored.CreatedAt = key, f.clock
	f.reactions[key] = &stored
	return nil
}

func (f *fakeStore) ClearReaction(_ context.Context, sourceID, authorID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.reactions[reactionKey(sourceID, authorID)]; ok {
		r.Status = model.LikeNone
	}
	return nil
}

func (f *fakeStore) GetReaction(_ context.Context, sourceID, authorID string) (*model.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reactions[reactionKey(sourceID, authorID)]
	if !ok {
		return nil, nil
	}
	result := *r
	return &result, nil
}

func (f *fakeStore) CountReactions(_ context.Context, sourceID string) (model.LikeCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return model.LikeCounts{}, f.failWith
	}
	var c model.LikeCounts
	for _, r := range f.reactions {
		if r.SourceID != sourceID {
			continue
		}
		switch r.Status {
		case model.LikeLike:
			c.Likes++
		case model.LikeDislike:
			c.Dislikes++
		}
	}
	return c, nil
}

func (f *fakeStore) NewestLikes(_ context.Context, sourceID string, limit int) ([]model.Reaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var likes []model.Reaction
	for _, r := range f.reactions {
		if r.SourceID == sourceID && r.Status == model.LikeLike {
			likes = append(likes, *r)
		}
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].CreatedAt.After(likes[j].CreatedAt) })
	if len(likes) > limit {
		likes = likes[:limit]
	}
	return likes, nil
}

// --- videos ---

func (f *fakeStore) CreateVideo(_ context.Context, v *model.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v.ID = int64(len(f.videos) + 1)
	stored := *v
	f.videos[v.ID] = &stored
	return nil
}

func (f *fakeStore) GetVideo(_ context.Context, id int64) (*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.videos[id]
	if !ok {
		return nil, apperror.NotFound("video", fmt.Sprint(id))
	}
	result := *v
	return &result, nil
}

func (f *fakeStore) ListVideos(_ context.Context) ([]model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Video, 0, len(f.videos))
	for id := int64(1); id <= int64(len(f.videos)); id++ {
		if v, ok := f.videos[id]; ok {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateVideo(_ context.Context, v *model.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.videos[v.ID]; !ok {
		return apperror.NotFound("video", fmt.Sprint(v.ID))
	}
	stored := *v
	f.videos[v.ID] = &stored
	return nil
}

func (f *fakeStore) DeleteVideo(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.videos[id]; !ok {
		return apperror.NotFound("video", fmt.Sprint(id))
	}
	delete(f.videos, id)
	return nil
}

func (f *fakeStore) DeleteAll(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	fresh := newFakeStore()
	f.blogs, f.posts, f.comments = fresh.blogs, fresh.posts, fresh.comments
	f.users, f.reactions, f.videos = fresh.users, fresh.reactions, fresh.videos
	f.order = nil
	return nil
}

func containsFold(s, term string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(term))
}

// =========================================================================
// FAKE MAILER
// =========================================================================

type sentMail struct {
	to   string
	kind mail.Kind
	code string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(_ context.Context, to string, kind mail.Kind, p mail.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, kind: kind, code: p.Code})
	return nil
}

func (m *fakeMailer) last(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatal("no mail was sent")
	}
	return m.sent[len(m.sent)-1]
}

// =========================================================================
// WIRING
// =========================================================================

// testEnv wires every service to one fake store, the way server.New wires
// them to SQLite.
type testEnv struct {
	store  *fakeStore
	mailer *fakeMailer
	clock  *time.Time
	tokens *auth.TokenService

	likes    *LikeService
	blogs    *BlogService
	posts    *PostService
	comments *CommentService
	users    *UserService
	auth     *AuthService
	videos   *VideoService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store := newFakeStore()
	mailer := &fakeMailer{}

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	env := &testEnv{store: store, mailer: mailer, clock: &now, tokens: tokens}
	codes := auth.NewCodeIssuerAt(func() time.Time { return *env.clock })

	env.likes = NewLikeService(store, logger)
	env.blogs = NewBlogService(store, logger)
	env.posts = NewPostService(store, store, store, env.likes, logger)
	env.comments = NewCommentService(store, store, store, env.likes, logger)
	env.users = NewUserService(store, passwords, logger)
	env.auth = NewAuthService(store, passwords, tokens, codes, mailer, logger)
	env.videos = NewVideoService(store, logger)
	env.videos.now = func() time.Time { return *env.clock }
	return env
}

func (e *testEnv) advance(d time.Duration) { *e.clock = e.clock.Add(d) }

func (e *testEnv) mustBlog(t *testing.T) *model.Blog {
	t.Helper()
	b, err := e.blogs.Create(context.Background(), model.BlogInput{
		Name: "gophers", Description: "all about go", WebsiteURL: "https://go.dev",
	})
	if err != nil {
		t.Fatalf("creating blog: %v", err)
	}
	return b
}

func (e *testEnv) mustPost(t *testing.T, blog *model.Blog) *model.PostView {
	t.Helper()
	p, err := e.posts.CreateForBlog(context.Background(), blog.ID, model.PostInput{
		Title: "hello", ShortDescription: "first post", Content: "lorem ipsum",
	})
	if err != nil {
		t.Fatalf("creating post: %v", err)
	}
	return p
}

func (e *testEnv) mustUser(t *testing.T, login string) *model.UserView {
	t.Helper()
	u, err := e.users.Create(context.Background(), model.UserInput{
		Login: login, Password: "secret123", Email: login + "@mail.com",
	})
	if err != nil {
		t.Fatalf("creating user %s: %v", login, err)
	}
	return u
}
