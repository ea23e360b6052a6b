package store

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/errors"
	"github.com/linkshelf/linkshelf/internal/events"
)

// TagState is a consistent copy of the tag store.
type TagState struct {
	Tags    []domain.Tag
	Loading bool
	Error   string
}

// TagStore holds the user's full tag list.
type TagStore struct {
	base
	api      TagAPI
	validate Validator

	mu      sync.Mutex
	tags    []domain.Tag
	pending int
	err     string
}

// NewTagStore creates an empty tag store.
func NewTagStore(api TagAPI, validate Validator, emitter EventEmitter, logger *slog.Logger) *TagStore {
	return &TagStore{
		base:     newBase("tags", emitter, logger),
		api:      api,
		validate: validate,
		tags:     []domain.Tag{},
	}
}

// Snapshot returns a copy of the current state.
func (s *TagStore) Snapshot() TagState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return TagState{
		Tags:    slices.Clone(s.tags),
		Loading: s.pending > 0,
		Error:   s.err,
	}
}

// Tags returns a copy of the tag list.
func (s *TagStore) Tags() []domain.Tag {
	return s.Snapshot().Tags
}

// Fetch replaces the list with the server's. Failures are recorded only.
func (s *TagStore) Fetch(ctx context.Context) {
	s.begin()
	list, err := s.api.ListTags(ctx)
	if err != nil {
		s.fail(err, MsgListTags)
		s.logger.Warn("list tags failed", "error", err)
		return
	}
	if list == nil {
		list = []domain.Tag{}
	}

	s.mu.Lock()
	s.pending--
	s.tags = list
	s.mu.Unlock()
	s.emit(events.TagsChanged, nil)
}

// Create submits a normalized tag name. The server resolves an existing name
// to the existing tag, so the returned tag is appended only when its id is new.
func (s *TagStore) Create(ctx context.Context, in domain.TagInput) (*domain.Tag, error) {
	in.Name = domain.NormalizeTagName(in.Name)
	if s.validate != nil {
		if err := s.validate.Validate(in); err != nil {
			s.record(err, MsgCreateTag)
			return nil, err
		}
	}

	s.begin()
	t, err := s.api.CreateTag(ctx, in)
	if err != nil {
		s.fail(err, MsgCreateTag)
		s.logger.Warn("create tag failed", "tag", in.Name, "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.pending--
	added := !containsID(s.tags, t.ID, tagID)
	if added {
		s.tags = append(slices.Clone(s.tags), *t)
	}
	s.mu.Unlock()

	if added {
		s.emit(events.TagsChanged, t.ID)
	}
	return t, nil
}

// Delete removes a tag remotely, then locally.
func (s *TagStore) Delete(ctx context.Context, id int64) error {
	s.begin()
	if err := s.api.DeleteTag(ctx, id); err != nil {
		s.fail(err, MsgDeleteTag)
		s.logger.Warn("delete tag failed", "tag_id", id, "error", err)
		return err
	}

	s.mu.Lock()
	s.pending--
	s.tags = removeByID(s.tags, id, tagID)
	s.mu.Unlock()
	s.emit(events.TagsChanged, id)
	return nil
}

// Suggest returns known tags whose name contains input, case-insensitively,
// leaving out names already selected. An empty input suggests nothing.
func (s *TagStore) Suggest(input string, selected []string) []domain.Tag {
	q := domain.NormalizeTagName(input)
	if q == "" {
		return nil
	}
	skip := make(map[string]bool, len(selected))
	for _, name := range selected {
		skip[domain.NormalizeTagName(name)] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Tag
	for _, t := range s.tags {
		name := domain.NormalizeTagName(t.Name)
		if strings.Contains(name, q) && !skip[name] {
			out = append(out, t)
		}
	}
	return out
}

// ClearError drops the recorded error.
func (s *TagStore) ClearError() {
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()
	s.emit(events.ErrorChanged, nil)
}

func (s *TagStore) begin() {
	s.mu.Lock()
	s.pending++
	s.err = ""
	s.mu.Unlock()
	s.emit(events.LoadingChanged, true)
}

func (s *TagStore) fail(err error, fallback string) {
	s.mu.Lock()
	s.pending--
	s.mu.Unlock()
	s.record(err, fallback)
}

func (s *TagStore) record(err error, fallback string) {
	s.mu.Lock()
	s.err = errors.UserMessage(err, fallback)
	s.mu.Unlock()
	s.emit(events.ErrorChanged, nil)
}
