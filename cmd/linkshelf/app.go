package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docopt/docopt-go"
	"github.com/samber/do/v2"

	"github.com/linkshelf/linkshelf/internal/config"
	"github.com/linkshelf/linkshelf/internal/di/providers"
	"github.com/linkshelf/linkshelf/internal/domain"
	"github.com/linkshelf/linkshelf/internal/events"
	"github.com/linkshelf/linkshelf/internal/logger"
	"github.com/linkshelf/linkshelf/internal/render"
	"github.com/linkshelf/linkshelf/internal/store"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("reported")

type app struct {
	injector do.Injector
	cfg      *config.Config
	log      *logger.Logger
	notes    *providers.NotificationStoreHandle
	out      io.Writer
	errOut   io.Writer
}

func newApp(injector do.Injector) *app {
	return &app{
		injector: injector,
		cfg:      do.MustInvoke[*config.Config](injector),
		log:      do.MustInvoke[*logger.Logger](injector),
		notes:    do.MustInvoke[*providers.NotificationStoreHandle](injector),
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
}

type command func(ctx context.Context, opts docopt.Opts) error

func (a *app) commands() map[string]command {
	return map[string]command{
		"login":           a.login,
		"signup":          a.signup,
		"logout":          a.logout,
		"whoami":          a.whoami,
		"profile":         a.profile,
		"list":            a.list,
		"show":            a.show,
		"add":             a.add,
		"edit":            a.edit,
		"rm":              a.remove,
		"fav":             a.favorite,
		"categories":      a.categories,
		"category-add":    a.categoryAdd,
		"category-rename": a.categoryRename,
		"category-rm":     a.categoryRemove,
		"tags":            a.tags,
		"tag-add":         a.tagAdd,
		"tag-rm":          a.tagRemove,
	}
}

// run dispatches to the selected command, tracing store events at debug level.
func (a *app) run(ctx context.Context, opts docopt.Opts) error {
	broker := do.MustInvoke[*providers.BrokerHandle](a.injector)
	sub, err := broker.Subscribe(0)
	if err != nil {
		return err
	}
	defer broker.Unsubscribe(sub.ID)
	go a.trace(sub)

	for name, cmd := range a.commands() {
		if ok, _ := opts.Bool(name); ok {
			a.log.Debug("Running command", "command", name)
			err := cmd(ctx, opts)
			if err != nil && !errors.Is(err, errReported) {
				fmt.Fprintln(a.errOut, render.Error(err.Error()))
			}
			return err
		}
	}
	return fmt.Errorf("no command selected")
}

func (a *app) trace(sub *events.Subscription) {
	for {
		select {
		case e, ok := <-sub.Events:
			if !ok {
				return
			}
			a.log.Debug("Store event", "type", e.Type, "store", e.Store, "data", e.Data)
		case <-sub.Done:
			return
		}
	}
}

// fail prints a store's recorded error as a notification.
func (a *app) fail(msg string) error {
	if msg == "" {
		msg = "unknown error"
	}
	a.notes.Error(msg)
	return errReported
}

func (a *app) printNotifications(list []domain.Notification) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintln(a.errOut, render.Notifications(list))
}

// Session

func (a *app) authStore() *store.AuthStore {
	return do.MustInvoke[*store.AuthStore](a.injector)
}

func (a *app) login(ctx context.Context, opts docopt.Opts) error {
	email, _ := opts.String("<email>")
	password, _ := opts.String("<password>")

	auth := a.authStore()
	if err := auth.Login(ctx, domain.Credentials{Email: email, Password: password}); err != nil {
		return a.fail(auth.Snapshot().Error)
	}
	a.notes.Success("Đăng nhập thành công")
	fmt.Fprintln(a.out, render.User(auth.User()))
	return nil
}

func (a *app) signup(ctx context.Context, opts docopt.Opts) error {
	in := domain.SignupInput{}
	in.Email, _ = opts.String("<email>")
	in.Password, _ = opts.String("<password>")
	in.ConfirmPassword, _ = opts.String("<confirm>")

	auth := a.authStore()
	if err := auth.Signup(ctx, in); err != nil {
		return a.fail(auth.Snapshot().Error)
	}
	a.notes.Success("Đăng ký thành công")
	fmt.Fprintln(a.out, render.User(auth.User()))
	return nil
}

func (a *app) logout(_ context.Context, _ docopt.Opts) error {
	a.authStore().Logout()
	a.notes.Info("Đã đăng xuất")
	return nil
}

// requireSession fails early when no usable token is held.
func (a *app) requireSession() (*store.AuthStore, error) {
	auth := a.authStore()
	if !auth.IsAuthenticated() {
		return nil, a.fail("Not signed in. Run `linkshelf login` first.")
	}
	return auth, nil
}

func (a *app) whoami(ctx context.Context, _ docopt.Opts) error {
	auth, err := a.requireSession()
	if err != nil {
		return err
	}
	auth.FetchUser(ctx)
	fmt.Fprintln(a.out, render.User(auth.User()))
	return nil
}

func (a *app) profile(ctx context.Context, opts docopt.Opts) error {
	auth, err := a.requireSession()
	if err != nil {
		return err
	}
	auth.FetchUser(ctx)

	in := domain.UpdateUserInput{}
	in.FirstName, _ = opts.String("--first")
	in.LastName, _ = opts.String("--last")
	in.Email, _ = opts.String("--email")
	if in == (domain.UpdateUserInput{}) {
		fmt.Fprintln(a.out, render.User(auth.User()))
		return nil
	}

	u, err := auth.UpdateUser(ctx, in)
	if err != nil {
		return a.fail(auth.Snapshot().Error)
	}
	a.notes.Success("Cập nhật thành công")
	fmt.Fprintln(a.out, render.User(u))
	return nil
}

// Bookmarks

func (a *app) bookmarkStore() *store.BookmarkStore {
	return do.MustInvoke[*store.BookmarkStore](a.injector)
}

func (a *app) list(ctx context.Context, opts docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	patch, page, err := filterPatch(opts)
	if err != nil {
		return err
	}

	if a.cfg.Bookmarks.Mode == config.ModeLocal {
		local := do.MustInvoke[*store.LocalBookmarkStore](a.injector)
		local.Load(ctx)
		local.SetFilters(patch)
		st := local.Snapshot()
		if st.Error != "" {
			return a.fail(st.Error)
		}
		p := domain.Pagination{Page: 1, Limit: len(st.View), Total: len(st.View), TotalPages: 1}
		fmt.Fprintln(a.out, render.BookmarkList(st.View, p, time.Now()))
		return nil
	}

	bookmarks := a.bookmarkStore()
	f := domain.DefaultFilters(a.cfg.Bookmarks.PageSize).With(patch).WithPage(page)
	bookmarks.List(ctx, &f)
	st := bookmarks.Snapshot()
	if st.Error != "" {
		return a.fail(st.Error)
	}
	fmt.Fprintln(a.out, render.BookmarkList(st.Bookmarks, st.Pagination, time.Now()))
	return nil
}

// filterPatch reads the list options.
func filterPatch(opts docopt.Opts) (domain.FilterPatch, int, error) {
	var p domain.FilterPatch
	if s, _ := opts.String("--search"); s != "" {
		p.Search = domain.Set(s)
	}
	if raw, _ := opts.String("--category"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return p, 0, err
		}
		p.CategoryID = domain.Set(id)
	}
	if raw, _ := opts.String("--tag"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return p, 0, err
		}
		p.TagID = domain.Set(id)
	}
	if fav, _ := opts.Bool("--favorites"); fav {
		p.IsFavorite = domain.Set(true)
	}
	if raw, _ := opts.String("--sort"); raw != "" {
		mode, err := domain.ParseSortMode(raw)
		if err != nil {
			return p, 0, err
		}
		p.SortBy = domain.Set(mode)
	}
	page := 1
	if raw, _ := opts.String("--page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, 0, fmt.Errorf("invalid page %q", raw)
		}
		page = n
	}
	return p, page, nil
}

func (a *app) show(ctx context.Context, opts docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	id, err := idArg(opts, "<id>")
	if err != nil {
		return err
	}

	bookmarks := a.bookmarkStore()
	bookmarks.Get(ctx, id)
	st := bookmarks.Snapshot()
	if st.Selected == nil {
		return a.fail(st.Error)
	}
	fmt.Fprintln(a.out, render.Bookmark(*st.Selected, time.Now()))
	if st.Selected.Description != "" {
		fmt.Fprintln(a.out, "\n"+st.Selected.Description)
	}
	fmt.Fprintln(a.out, st.Selected.Link)
	return nil
}

func (a *app) add(ctx context.Context, opts docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	in := domain.CreateBookmarkInput{}
	in.Title, _ = opts.String("<title>")
	in.Link, _ = opts.String("<link>")
	in.Description, _ = opts.String("--description")
	if raw, _ := opts.String("--category"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return err
		}
		in.CategoryID = &id
	}
	if raw, _ := opts.String("--tags"); raw != "" {
		in.TagNames = splitTags(raw)
	}

	bookmarks := a.bookmarkStore()
	b, err := bookmarks.Create(ctx, in)
	if err != nil {
		return a.fail(bookmarks.Snapshot().Error)
	}
	a.notes.Success("Đã tạo bookmark")
	fmt.Fprintln(a.out, render.Bookmark(*b, time.Now()))
	return nil
}

func (a *app) edit(ctx context.Context, opts docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	id, err := idArg(opts, "<id>")
	if err != nil {
		return err
	}

	in := domain.UpdateBookmarkInput{}
	if v, err := opts.String("--title"); err == nil && v != "" {
		in.Title = &v
	}
	if v, err := opts.String("--link"); err == nil && v != "" {
		in.Link = &v
	}
	if v, err := opts.String("--description"); err == nil && v != "" {
		in.Description = &v
	}
	if noCategory, _ := opts.Bool("--no-category"); noCategory {
		in.CategoryID = domain.Clear[int64]()
	} else if raw, _ := opts.String("--category"); raw != "" {
		cid, err := parseID(raw)
		if err != nil {
			return err
		}
		in.CategoryID = domain.Set(cid)
	}
	if raw, err := opts.String("--tags"); err == nil && raw != "" {
		names := splitTags(raw)
		in.TagNames = &names
	}
	if in.IsEmpty() {
		return errors.New("nothing to change")
	}

	bookmarks := a.bookmarkStore()
	b, err := bookmarks.Update(ctx, id, in)
	if err != nil {
		return a.fail(bookmarks.Snapshot().Error)
	}
	a.notes.Success("Đã cập nhật bookmark")
	fmt.Fprintln(a.out, render.Bookmark(*b, time.Now()))
	return nil
}

func (a *app) remove(ctx context.Context, opts docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	id, err := idArg(opts, "<id>")
	if err != nil {
		return err
	}
	bookmarks := a.bookmarkStore()
	if err := bookmarks.Delete(ctx, id); err != nil {
		return a.fail(bookmarks.Snapshot().Error)
	}
	a.notes.Success("Đã xóa bookmark")
	return nil
}

func (a *app) favorite(ctx context.Context, opts docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	id, err := idArg(opts, "<id>")
	if err != nil {
		return err
	}
	bookmarks := a.bookmarkStore()
	b, err := bookmarks.ToggleFavorite(ctx, id)
	if err != nil {
		return a.fail(bookmarks.Snapshot().Error)
	}
	if b.IsFavorite {
		a.notes.Success("Đã thêm vào yêu thích")
	} else {
		a.notes.Info("Đã bỏ khỏi yêu thích")
	}
	return nil
}

// Categories

func (a *app) categoryStore() *store.CategoryStore {
	return do.MustInvoke[*store.CategoryStore](a.injector)
}

func (a *app) categories(ctx context.Context, _ docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	cats := a.categoryStore()
	cats.Fetch(ctx)
	st := cats.Snapshot()
	if st.Error != "" {
		return a.fail(st.Error)
	}
	fmt.Fprintln(a.out, render.Categories(st.Categories))
	return nil
}

func (a *app) categoryAdd(ctx context.Context, opts docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	in := domain.CategoryInput{}
	in.Name, _ = opts.String("<name>")
	in.Color, _ = opts.String("--color")
	in.Icon, _ = opts.String("--icon")

	cats := a.categoryStore()
	c, err := cats.Create(ctx, in)
	if err != nil {
		return a.fail(cats.Snapshot().Error)
	}
	a.notes.Success("Đã tạo category")
	fmt.Fprintln(a.out, render.Categories([]domain.Category{*c}))
	return nil
}

func (a *app) categoryRename(ctx context.Context, opts docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	id, err := idArg(opts, "<id>")
	if err != nil {
		return err
	}
	name, _ := opts.String("<name>")

	cats := a.categoryStore()
	c, err := cats.Update(ctx, id, domain.UpdateCategoryInput{Name: &name})
	if err != nil {
		return a.fail(cats.Snapshot().Error)
	}
	a.notes.Success("Đã cập nhật category")
	fmt.Fprintln(a.out, render.Categories([]domain.Category{*c}))
	return nil
}

func (a *app) categoryRemove(ctx context.Context, opts docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	id, err := idArg(opts, "<id>")
	if err != nil {
		return err
	}
	cats := a.categoryStore()
	if err := cats.Delete(ctx, id); err != nil {
		return a.fail(cats.Snapshot().Error)
	}
	a.notes.Success("Đã xóa category")
	return nil
}

// Tags

func (a *app) tagStore() *store.TagStore {
	return do.MustInvoke[*store.TagStore](a.injector)
}

func (a *app) tags(ctx context.Context, opts docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	tags := a.tagStore()
	tags.Fetch(ctx)
	st := tags.Snapshot()
	if st.Error != "" {
		return a.fail(st.Error)
	}
	if input, _ := opts.String("--suggest"); input != "" {
		fmt.Fprintln(a.out, render.Tags(tags.Suggest(input, nil)))
		return nil
	}
	fmt.Fprintln(a.out, render.Tags(st.Tags))
	return nil
}

func (a *app) tagAdd(ctx context.Context, opts docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	name, _ := opts.String("<name>")
	tags := a.tagStore()
	t, err := tags.Create(ctx, domain.TagInput{Name: name})
	if err != nil {
		return a.fail(tags.Snapshot().Error)
	}
	fmt.Fprintln(a.out, render.Tags([]domain.Tag{*t}))
	return nil
}

func (a *app) tagRemove(ctx context.Context, opts docopt.Opts) error {
	if _, err := a.requireSession(); err != nil {
		return err
	}
	id, err := idArg(opts, "<id>")
	if err != nil {
		return err
	}
	tags := a.tagStore()
	if err := tags.Delete(ctx, id); err != nil {
		return a.fail(tags.Snapshot().Error)
	}
	a.notes.Success("Đã xóa tag")
	return nil
}

func idArg(opts docopt.Opts, key string) (int64, error) {
	raw, _ := opts.String(key)
	return parseID(raw)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func splitTags(raw string) []string {
	return strings.Split(raw, ",")
}
