// Package window keeps the game window focused before key presses are sent.
package window

import (
	"context"
	"errors"
	"strings"
)

// ErrNoWindow is returned when no window matches the configured keywords.
var ErrNoWindow = errors.New("no matching window")

// Window is an OS window handle as reported by the backend.
type Window struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// Backend enumerates and activates OS windows.
type Backend interface {
	List(ctx context.Context) ([]Window, error)
	Activate(ctx context.Context, w Window) error
}

// Resolve picks the target window. Primary keywords are tried in order
// first, then fallback keywords. Matching is a case-insensitive substring
// test on the title.
func Resolve(windows []Window, primary, fallback []string) (Window, bool) {
	for _, keywords := range [][]string{primary, fallback} {
		for _, kw := range keywords {
			if w, ok := firstTitled(windows, kw); ok {
				return w, true
			}
		}
	}
	return Window{}, false
}

func firstTitled(windows []Window, keyword string) (Window, bool) {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return Window{}, false
	}
	for _, w := range windows {
		if strings.Contains(strings.ToLower(w.Title), kw) {
			return w, true
		}
	}
	return Window{}, false
}
