package fakeapi

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/errors"
)

type userRecord struct {
	user         domain.User
	passwordHash string
}

type bookmarkRecord struct {
	bookmark domain.Bookmark // Category and Tags are filled on read
	tagIDs   []int64
}

// DB is the in-memory state of the development server.
// Every query is scoped to one user.
type DB struct {
	mu         sync.RWMutex
	nextID     int64
	users      map[int64]*userRecord
	bookmarks  map[int64]*bookmarkRecord
	categories map[int64]*domain.Category
	tags       map[int64]*domain.Tag
	clock      func() time.Time
	last       time.Time
}

// NewDB creates an empty database.
func NewDB() *DB {
	return &DB{
		users:      make(map[int64]*userRecord),
		bookmarks:  make(map[int64]*bookmarkRecord),
		categories: make(map[int64]*domain.Category),
		tags:       make(map[int64]*domain.Tag),
		clock:      time.Now,
	}
}

// now returns strictly increasing timestamps so creation order is total.
// Callers hold db.mu.
func (db *DB) now() time.Time {
	t := db.clock().UTC().Truncate(time.Millisecond)
	if !t.After(db.last) {
		t = db.last.Add(time.Millisecond)
	}
	db.last = t
	return t
}

func (db *DB) newID() int64 {
	db.nextID++
	return db.nextID
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Users

// CreateUser stores a new user. Emails are unique case-insensitively.
func (db *DB) CreateUser(email, passwordHash string) (domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.findUserByEmail(email) != nil {
		return domain.User{}, &errors.Error{Code: errors.CodeConflict, Message: "Email already exists"}
	}
	now := db.now()
	u := domain.User{Email: strings.TrimSpace(email)}
	u.ID = db.newID()
	u.CreatedAt, u.UpdatedAt = now, now
	db.users[u.ID] = &userRecord{user: u, passwordHash: passwordHash}
	return u, nil
}

// UserByEmail returns the user and password hash for email.
func (db *DB) UserByEmail(email string) (domain.User, string, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rec := db.findUserByEmail(email)
	if rec == nil {
		return domain.User{}, "", false
	}
	return rec.user, rec.passwordHash, true
}

func (db *DB) findUserByEmail(email string) *userRecord {
	want := normalizeEmail(email)
	for _, rec := range db.users {
		if normalizeEmail(rec.user.Email) == want {
			return rec
		}
	}
	return nil
}

// User returns a user by id.
func (db *DB) User(id int64) (domain.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rec, ok := db.users[id]
	if !ok {
		return domain.User{}, &errors.Error{Code: errors.CodeNotFound, Message: "User not found"}
	}
	return rec.user, nil
}

// UpdateUser applies the non-empty fields of in.
func (db *DB) UpdateUser(id int64, in domain.UpdateUserInput) (domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rec, ok := db.users[id]
	if !ok {
		return domain.User{}, &errors.Error{Code: errors.CodeNotFound, Message: "User not found"}
	}
	if in.Email != "" {
		if other := db.findUserByEmail(in.Email); other != nil && other.user.ID != id {
			return domain.User{}, &errors.Error{Code: errors.CodeConflict, Message: "Email already exists"}
		}
		rec.user.Email = strings.TrimSpace(in.Email)
	}
	if in.FirstName != "" {
		rec.user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		rec.user.LastName = in.LastName
	}
	rec.user.UpdatedAt = db.now()
	return rec.user, nil
}

// Categories

func (db *DB) ownCategory(userID, id int64) (*domain.Category, error) {
	c, ok := db.categories[id]
	if !ok || c.UserID != userID {
		return nil, &errors.Error{Code: errors.CodeNotFound, Message: "Category not found"}
	}
	return c, nil
}

func (db *DB) categoryView(c *domain.Category) domain.Category {
	out := *c
	out.BookmarkCount = 0
	for _, rec := range db.bookmarks {
		if rec.bookmark.InCategory(c.ID) {
			out.BookmarkCount++
		}
	}
	return out
}

// Categories lists a user's categories by name.
func (db *DB) Categories(userID int64) []domain.Category {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := []domain.Category{}
	for _, c := range db.categories {
		if c.UserID == userID {
			out = append(out, db.categoryView(c))
		}
	}
	slices.SortFunc(out, func(a, b domain.Category) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// CreateCategory stores a category.
func (db *DB) CreateCategory(userID int64, in domain.CategoryInput) domain.Category {
	db.mu.Lock()
	defer db.mu.Unlock()

	c := &domain.Category{
		ID:     db.newID(),
		Name:   strings.TrimSpace(in.Name),
		Color:  in.Color,
		Icon:   in.Icon,
		UserID: userID,
	}
	db.categories[c.ID] = c
	return *c
}

// UpdateCategory applies the set fields of in.
func (db *DB) UpdateCategory(userID, id int64, in domain.UpdateCategoryInput) (domain.Category, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	c, err := db.ownCategory(userID, id)
	if err != nil {
		return domain.Category{}, err
	}
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Color != nil {
		c.Color = *in.Color
	}
	if in.Icon != nil {
		c.Icon = *in.Icon
	}
	return db.categoryView(c), nil
}

// DeleteCategory removes a category; its bookmarks become uncategorized.
func (db *DB) DeleteCategory(userID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.ownCategory(userID, id); err != nil {
		return err
	}
	delete(db.categories, id)
	for _, rec := range db.bookmarks {
		if rec.bookmark.InCategory(id) {
			rec.bookmark.CategoryID = nil
		}
	}
	return nil
}

// Tags

func (db *DB) tagView(t *domain.Tag) domain.Tag {
	out := *t
	out.BookmarkCount = 0
	for _, rec := range db.bookmarks {
		if slices.Contains(rec.tagIDs, t.ID) {
			out.BookmarkCount++
		}
	}
	return out
}

// Tags lists a user's tags by name.
func (db *DB) Tags(userID int64) []domain.Tag {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := []domain.Tag{}
	for _, t := range db.tags {
		if t.UserID == userID {
			out = append(out, db.tagView(t))
		}
	}
	slices.SortFunc(out, func(a, b domain.Tag) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// CreateTag returns the user's tag named name, creating it if needed.
// created reports whether a new tag was stored.
func (db *DB) CreateTag(userID int64, name string) (tag domain.Tag, created bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	t, created := db.findOrCreateTag(userID, name)
	return db.tagView(t), created
}

func (db *DB) findOrCreateTag(userID int64, name string) (*domain.Tag, bool) {
	name = domain.NormalizeTagName(name)
	for _, t := range db.tags {
		if t.UserID == userID && t.Name == name {
			return t, false
		}
	}
	t := &domain.Tag{ID: db.newID(), Name: name, UserID: userID}
	db.tags[t.ID] = t
	return t, true
}

// DeleteTag removes a tag from the user and from every bookmark.
func (db *DB) DeleteTag(userID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	t, ok := db.tags[id]
	if !ok || t.UserID != userID {
		return &errors.Error{Code: errors.CodeNotFound, Message: "Tag not found"}
	}
	delete(db.tags, id)
	for _, rec := range db.bookmarks {
		rec.tagIDs = slices.DeleteFunc(rec.tagIDs, func(tid int64) bool { return tid == id })
	}
	return nil
}

// Bookmarks

// hydrate returns the bookmark with its category and tags embedded.
func (db *DB) hydrate(rec *bookmarkRecord) domain.Bookmark {
	b := rec.bookmark
	b.Category = nil
	if b.CategoryID != nil {
		if c, ok := db.categories[*b.CategoryID]; ok {
			cv := *c
			b.Category = &cv
		}
	}
	b.Tags = make([]domain.Tag, 0, len(rec.tagIDs))
	for _, tid := range rec.tagIDs {
		if t, ok := db.tags[tid]; ok {
			b.Tags = append(b.Tags, *t)
		}
	}
	return b
}

func (db *DB) ownBookmark(userID, id int64) (*bookmarkRecord, error) {
	rec, ok := db.bookmarks[id]
	if !ok || rec.bookmark.UserID != userID {
		return nil, &errors.Error{Code: errors.CodeNotFound, Message: "Bookmark not found"}
	}
	return rec, nil
}

func (db *DB) checkCategory(userID int64, id *int64) error {
	if id == nil {
		return nil
	}
	_, err := db.ownCategory(userID, *id)
	return err
}

func (db *DB) resolveTags(userID int64, names []string) []int64 {
	ids := make([]int64, 0, len(names))
	for _, n := range domain.NormalizeTagNames(names) {
		t, _ := db.findOrCreateTag(userID, n)
		ids = append(ids, t.ID)
	}
	return ids
}

// Bookmarks returns every bookmark of a user, hydrated.
func (db *DB) Bookmarks(userID int64) []domain.Bookmark {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := []domain.Bookmark{}
	for _, rec := range db.bookmarks {
		if rec.bookmark.UserID == userID {
			out = append(out, db.hydrate(rec))
		}
	}
	// map order is random; id order keeps equal sort keys stable
	slices.SortFunc(out, func(a, b domain.Bookmark) int { return int(a.ID - b.ID) })
	return out
}

// Bookmark returns one bookmark.
func (db *DB) Bookmark(userID, id int64) (domain.Bookmark, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	rec, err := db.ownBookmark(userID, id)
	if err != nil {
		return domain.Bookmark{}, err
	}
	return db.hydrate(rec), nil
}

// CreateBookmark stores a bookmark at the end of the user's manual order.
// Unknown tag names become new tags.
func (db *DB) CreateBookmark(userID int64, in domain.CreateBookmarkInput) (domain.Bookmark, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.checkCategory(userID, in.CategoryID); err != nil {
		return domain.Bookmark{}, err
	}

	position := 0
	for _, rec := range db.bookmarks {
		if rec.bookmark.UserID == userID && rec.bookmark.Position >= position {
			position = rec.bookmark.Position + 1
		}
	}

	now := db.now()
	rec := &bookmarkRecord{
		bookmark: domain.Bookmark{
			Title:       strings.TrimSpace(in.Title),
			Description: strings.TrimSpace(in.Description),
			Link:        strings.TrimSpace(in.Link),
			Position:    position,
			UserID:      userID,
		},
		tagIDs: db.resolveTags(userID, in.TagNames),
	}
	if in.CategoryID != nil {
		v := *in.CategoryID
		rec.bookmark.CategoryID = &v
	}
	rec.bookmark.ID = db.newID()
	rec.bookmark.CreatedAt, rec.bookmark.UpdatedAt = now, now
	db.bookmarks[rec.bookmark.ID] = rec
	return db.hydrate(rec), nil
}

// BookmarkPatch is a decoded partial update.
type BookmarkPatch struct {
	Title       *string
	Description *string
	Link        *string
	CategoryID  domain.Optional[int64]
	TagNames    *[]string
}

// UpdateBookmark applies a partial update. A cleared CategoryID removes the
// category; an unchanged one keeps it.
func (db *DB) UpdateBookmark(userID, id int64, p BookmarkPatch) (domain.Bookmark, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rec, err := db.ownBookmark(userID, id)
	if err != nil {
		return domain.Bookmark{}, err
	}
	if v, ok := p.CategoryID.Get(); ok {
		if err := db.checkCategory(userID, &v); err != nil {
			return domain.Bookmark{}, err
		}
	}

	b := &rec.bookmark
	p.CategoryID.ApplyPtr(&b.CategoryID)
	if p.Title != nil {
		b.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		b.Description = strings.TrimSpace(*p.Description)
	}
	if p.Link != nil {
		b.Link = strings.TrimSpace(*p.Link)
	}
	if p.TagNames != nil {
		rec.tagIDs = db.resolveTags(userID, *p.TagNames)
	}
	b.UpdatedAt = db.now()
	return db.hydrate(rec), nil
}

// ToggleFavorite flips the favorite flag.
func (db *DB) ToggleFavorite(userID, id int64) (domain.Bookmark, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	rec, err := db.ownBookmark(userID, id)
	if err != nil {
		return domain.Bookmark{}, err
	}
	rec.bookmark.IsFavorite = !rec.bookmark.IsFavorite
	rec.bookmark.UpdatedAt = db.now()
	return db.hydrate(rec), nil
}

// DeleteBookmark removes a bookmark.
func (db *DB) DeleteBookmark(userID, id int64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.ownBookmark(userID, id); err != nil {
		return err
	}
	delete(db.bookmarks, id)
	return nil
}
