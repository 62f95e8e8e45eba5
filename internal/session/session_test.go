package session

import (
	"testing"
	"time"

	"github.com/surge-sentinel/platform/internal/auth"
	"github.com/surge-sentinel/platform/internal/navigation"
)

func TestSelectRole(t *testing.T) {
	tests := []struct {
		role        string
		wantEmail   string
		wantPage    string
		wantErr     bool
	}{
		{"Admin", "admin@medflux.ai", navigation.PageRegionalDashboard, false},
		{"Hospital", "hospital@medflux.ai", navigation.PageDashboard, false},
		{"Researcher", "research@medflux.ai", navigation.PageDashboard, false},
		{"User", "public@medflux.ai", navigation.PageLiveAdvisories, false},
		{"SuperUser", "", "", true},
		{"", "", "", true},
		{"admin", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			state, err := State{}.SelectRole(tt.role)
			if tt.wantErr {
				if err != ErrUnknownRole {
					t.Fatalf("expected ErrUnknownRole, got %v", err)
				}
				if state.LoggedIn() {
					t.Error("unknown role must leave the state logged out")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !state.LoggedIn() {
				t.Fatal("expected logged-in state")
			}
			if state.Account.Email != tt.wantEmail {
				t.Errorf("expected email %q, got %q", tt.wantEmail, state.Account.Email)
			}
			if state.ActivePage != tt.wantPage {
				t.Errorf("expected page %q, got %q", tt.wantPage, state.ActivePage)
			}
			if state.Language != LangEnglish {
				t.Errorf("expected default language English, got %q", state.Language)
			}
		})
	}
}

func TestSelectRoleReplacesSession(t *testing.T) {
	state, err := State{}.SelectRole("Hospital")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, err = state.Navigate(navigation.PageReports)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state, err = state.SelectRole("Admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Account.Role != auth.RoleAdmin {
		t.Errorf("expected Admin role, got %q", state.Account.Role)
	}
	if state.ActivePage != navigation.PageRegionalDashboard {
		t.Errorf("expected admin default page, got %q", state.ActivePage)
	}
}

func TestLogoutResetsEverything(t *testing.T) {
	state, err := State{}.SelectRole("Researcher")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, err = state.Navigate(navigation.PageDatasets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state, err = state.SetLanguage("Tamil")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := state.Logout()
	if out != (State{}) {
		t.Errorf("logout must return the zero state, got %+v", out)
	}
	if out.LoggedIn() {
		t.Error("logged out state must not report logged in")
	}
}

func TestNavigateRequiresLogin(t *testing.T) {
	_, err := State{}.Navigate(navigation.PageAlerts)
	if err != ErrLoggedOut {
		t.Fatalf("expected ErrLoggedOut, got %v", err)
	}
}

func TestNavigateOutOfRangeKeepsPage(t *testing.T) {
	state, err := State{}.SelectRole("User")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Pages outside the role's navigation are stored as-is; the
	// dashboard renders them as not found.
	state, err = state.Navigate(navigation.PageManageHospitals)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.ActivePage != navigation.PageManageHospitals {
		t.Errorf("expected page to be stored, got %q", state.ActivePage)
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"English", LangEnglish},
		{"Hindi", LangHindi},
		{"Telugu", LangTelugu},
		{"Tamil", LangTamil},
		{"Spanish", LangEnglish},
		{"", LangEnglish},
		{"hindi", LangEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLanguage(tt.in); got != tt.want {
				t.Errorf("ParseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStoreRehydratesUnknownSession(t *testing.T) {
	store := NewStore(time.Hour)

	identity := &auth.Identity{
		Account:   auth.DemoAccounts[auth.RoleHospital],
		SessionID: "gone-after-restart",
	}

	state := store.Get(identity.SessionID, identity)
	if !state.LoggedIn() {
		t.Fatal("rehydrated session must be logged in")
	}
	if state.ActivePage != navigation.PageDashboard {
		t.Errorf("rehydration must land on the role's default page, got %q", state.ActivePage)
	}
	if state.Account.Email != "hospital@medflux.ai" {
		t.Errorf("expected hospital account, got %q", state.Account.Email)
	}
}

func TestStoreExpiresSessions(t *testing.T) {
	store := NewStore(10 * time.Millisecond)

	state, err := State{}.SelectRole("Hospital")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	moved, err := state.Navigate(navigation.PageAlerts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id := store.Create(moved)
	identity := &auth.Identity{Account: moved.Account, SessionID: id}

	if got := store.Get(id, identity); got.ActivePage != navigation.PageAlerts {
		t.Fatalf("expected stored page before expiry, got %q", got.ActivePage)
	}

	time.Sleep(25 * time.Millisecond)

	// Expired entries behave like unknown IDs: rehydrate at the default page.
	if got := store.Get(id, identity); got.ActivePage != navigation.PageDashboard {
		t.Errorf("expired session must rehydrate at the default page, got %q", got.ActivePage)
	}
}

func TestStorePrunesExpiredOnCreate(t *testing.T) {
	store := NewStore(10 * time.Millisecond)

	state, err := State{}.SelectRole("User")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stale := store.Create(state)
	time.Sleep(25 * time.Millisecond)
	store.Create(state)

	store.mu.RLock()
	_, ok := store.sessions[stale]
	n := len(store.sessions)
	store.mu.RUnlock()

	if ok {
		t.Error("expired session must be pruned on the next create")
	}
	if n != 1 {
		t.Errorf("expected 1 live session after prune, got %d", n)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(time.Hour)

	state, err := State{}.SelectRole("Admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id := store.Create(state)
	identity := &auth.Identity{Account: state.Account, SessionID: id}

	got := store.Get(id, identity)
	if got.ActivePage != state.ActivePage {
		t.Errorf("expected stored page %q, got %q", state.ActivePage, got.ActivePage)
	}

	updated, err := got.Navigate(navigation.PageAlerts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	store.Update(id, updated)

	if again := store.Get(id, identity); again.ActivePage != navigation.PageAlerts {
		t.Errorf("expected updated page, got %q", again.ActivePage)
	}

	store.Delete(id)
	if fresh := store.Get(id, identity); fresh.ActivePage != navigation.PageRegionalDashboard {
		t.Errorf("deleted session must rehydrate at default page, got %q", fresh.ActivePage)
	}
}
