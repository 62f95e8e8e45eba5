// Package session implements the role-scoped session and navigation state
// machine: LoggedOut <-> LoggedIn(role, page).
package session

import (
	"errors"

	"github.com/surge-sentinel/platform/internal/auth"
	"github.com/surge-sentinel/platform/internal/navigation"
)

// ErrUnknownRole is returned when role selection names a value outside the
// four enumerated roles. Callers treat it as a no-op.
var ErrUnknownRole = errors.New("unknown role")

// ErrLoggedOut is returned when an operation requires an active session.
var ErrLoggedOut = errors.New("not logged in")

// Language is the UI language tag carried on the session.
type Language string

const (
	LangEnglish Language = "English"
	LangHindi   Language = "Hindi"
	LangTelugu  Language = "Telugu"
	LangTamil   Language = "Tamil"
)

// ParseLanguage validates a language tag; anything invalid falls back to
// English rather than erroring.
func ParseLanguage(s string) Language {
	switch Language(s) {
	case LangEnglish, LangHindi, LangTelugu, LangTamil:
		return Language(s)
	}
	return LangEnglish
}

// State is one client's session state. The zero value is LoggedOut.
type State struct {
	Account    auth.Account `json:"account"`
	ActivePage string       `json:"activePage"`
	Language   Language     `json:"language"`
	loggedIn   bool
}

// LoggedIn reports whether the state holds an active session.
func (s State) LoggedIn() bool {
	return s.loggedIn
}

// SelectRole transitions LoggedOut -> LoggedIn at the role's default page.
// Selecting a role over an existing session replaces it. An unknown role
// leaves the state untouched.
func (s State) SelectRole(roleName string) (State, error) {
	role, ok := auth.ParseRole(roleName)
	if !ok {
		return s, ErrUnknownRole
	}

	lang := s.Language
	if lang == "" {
		lang = LangEnglish
	}

	return State{
		Account:    auth.DemoAccounts[role],
		ActivePage: navigation.DefaultPage(role),
		Language:   lang,
		loggedIn:   true,
	}, nil
}

// Navigate sets the active page unconditionally. Pages outside the role's
// list are permitted here; the dashboard renders its not-found view for
// them instead of erroring.
func (s State) Navigate(page string) (State, error) {
	if !s.loggedIn {
		return s, ErrLoggedOut
	}
	s.ActivePage = page
	return s, nil
}

// SetLanguage updates the UI language, coercing invalid tags to English.
func (s State) SetLanguage(lang string) (State, error) {
	if !s.loggedIn {
		return s, ErrLoggedOut
	}
	s.Language = ParseLanguage(lang)
	return s, nil
}

// Logout returns the exact LoggedOut state: no residual page, language
// reset, no account.
func (s State) Logout() State {
	return State{}
}
