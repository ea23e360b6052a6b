// Package render formats store state for the terminal.
package render

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/net/publicsuffix"

	"github.com/linkshelf/linkshelf/internal/domain"
)

// Site returns the registrable domain of link ("docs.go.dev" gives
// "go.dev"), the bare host when it has none, or "" for unparsable links.
func Site(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return site
}

// Bookmark formats one bookmark as a two-line entry.
func Bookmark(b domain.Bookmark, now time.Time) string {
	mark := "  "
	if b.IsFavorite {
		mark = favoriteStyle.Render("★ ")
	}
	head := mark + titleStyle.Render(b.Title)
	if site := Site(b.Link); site != "" {
		head += " " + dimStyle.Render("("+site+")")
	}

	meta := []string{fmt.Sprintf("#%d", b.ID)}
	if !b.CreatedAt.IsZero() {
		meta = append(meta, humanize.RelTime(b.CreatedAt, now, "ago", "from now"))
	}
	if b.Category != nil {
		meta = append(meta, b.Category.Name)
	}
	line := "    " + dimStyle.Render(strings.Join(meta, " · "))
	if len(b.Tags) > 0 {
		names := make([]string, len(b.Tags))
		for i, t := range b.Tags {
			names[i] = "#" + t.Name
		}
		line += " " + tagStyle.Render(strings.Join(names, " "))
	}
	return head + "\n" + line
}

// BookmarkList formats a page of bookmarks with a pagination footer.
// An empty page renders a hint instead.
func BookmarkList(list []domain.Bookmark, p domain.Pagination, now time.Time) string {
	if len(list) == 0 {
		return dimStyle.Render("No bookmarks.")
	}
	rows := make([]string, len(list))
	for i, b := range list {
		rows[i] = Bookmark(b, now)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(rows, "\n"),
		footerStyle.Render(Footer(p)),
	)
}

// Footer describes the pagination window, e.g. "page 2/3 · 1,204 bookmarks".
func Footer(p domain.Pagination) string {
	noun := "bookmarks"
	if p.Total == 1 {
		noun = "bookmark"
	}
	pages := max(p.TotalPages, 1)
	return fmt.Sprintf("page %d/%d · %s %s", p.Page, pages, humanize.Comma(int64(p.Total)), noun)
}

// Categories formats the category list with bookmark counts.
func Categories(list []domain.Category) string {
	if len(list) == 0 {
		return dimStyle.Render("No categories.")
	}
	rows := make([]string, len(list))
	for i, c := range list {
		name := c.Name
		if c.Icon != "" {
			name = c.Icon + " " + name
		}
		style := titleStyle
		if c.Color != "" {
			style = style.Foreground(lipgloss.Color(c.Color))
		}
		rows[i] = fmt.Sprintf("%s %s %s", dimStyle.Render(fmt.Sprintf("#%d", c.ID)), style.Render(name),
			dimStyle.Render(fmt.Sprintf("(%s)", humanize.Comma(int64(c.BookmarkCount)))))
	}
	return strings.Join(rows, "\n")
}

// Tags formats the tag list on one line.
func Tags(list []domain.Tag) string {
	if len(list) == 0 {
		return dimStyle.Render("No tags.")
	}
	parts := make([]string, len(list))
	for i, t := range list {
		parts[i] = tagStyle.Render("#"+t.Name) + dimStyle.Render(fmt.Sprintf("×%d", t.BookmarkCount))
	}
	return strings.Join(parts, "  ")
}

// User formats the signed-in profile.
func User(u *domain.User) string {
	if u == nil {
		return dimStyle.Render("Not signed in.")
	}
	return titleStyle.Render(u.DisplayName()) + " " + dimStyle.Render("<"+u.Email+">")
}

// Notifications formats the live notifications, oldest first.
func Notifications(list []domain.Notification) string {
	rows := make([]string, 0, len(list))
	for _, n := range list {
		style, ok := kindStyles[string(n.Kind)]
		if !ok {
			style = dimStyle
		}
		rows = append(rows, style.Render(n.Message))
	}
	return strings.Join(rows, "\n")
}

// Error formats a store error; an empty message renders nothing.
func Error(msg string) string {
	if msg == "" {
		return ""
	}
	return errorStyle.Render(msg)
}
