package provider

import (
	"strings"

	"github.com/google/uuid"
)

// SessionState is the per-visitor UI state the app keeps between requests. It is
// owned by the HTTP session layer and passed explicitly to whatever needs it.
type SessionState struct {
	Language   string `json:"language"`
	SplashSeen bool   `json:"splashSeen"`
	TabID      string `json:"tabId"`
}

// NewSessionState starts a session in the resolved language with a fresh tab id.
func NewSessionState(requestedLanguage string) SessionState {
	return SessionState{
		Language: ResolveLanguage(requestedLanguage),
		TabID:    uuid.NewString(),
	}
}

// SessionUpdate carries the fields a client may change. Nil fields are left alone.
type SessionUpdate struct {
	Language   *string `json:"language"`
	SplashSeen *bool   `json:"splashSeen"`
}

// Apply returns the state with the update merged in. The language is normalized and
// the splash flag only ever moves from unseen to seen.
func (state SessionState) Apply(update SessionUpdate) SessionState {
	if update.Language != nil && strings.TrimSpace(*update.Language) != "" {
		state.Language = ResolveLanguage(*update.Language)
	}
	if update.SplashSeen != nil && *update.SplashSeen {
		state.SplashSeen = true
	}
	if state.TabID == "" {
		state.TabID = uuid.NewString()
	}
	return state
}
