package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/provider"
)

const (
	SessionCookieName = "area_session"

	contextKeySessionState  = "httpapi_session_state"
	sessionKeyLanguage      = "language"
	sessionKeySplashSeen    = "splash_seen"
	sessionKeyTabID         = "tab_id"
	sessionLanguageQuery    = "lang"
	sessionMaxAgeSeconds    = 60 * 60 * 24 * 365
	logEventLoadSession     = "load_session"
	logEventSaveSession     = "save_session"
	errorInvalidSessionBody = "invalid_session_update"
	errorSessionSaveFailed  = "session_save_failed"
)

// SessionManager resolves the explicit per-visitor SessionState from a signed
// cookie and stores it on the gin context for downstream handlers.
type SessionManager struct {
	logger *zap.Logger
	store  *sessions.CookieStore
}

func NewSessionManager(logger *zap.Logger, secret []byte, secureCookies bool) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAgeSeconds,
		HttpOnly: true,
		Secure:   secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{logger: logger, store: store}
}

// Middleware loads the session, falling back to ?lang= and then Accept-Language for
// a visitor without one.
func (manager *SessionManager) Middleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		context.Set(contextKeySessionState, manager.load(context))
		context.Next()
	}
}

func (manager *SessionManager) load(context *gin.Context) provider.SessionState {
	requestedLanguage := strings.TrimSpace(context.Query(sessionLanguageQuery))
	if requestedLanguage == "" {
		requestedLanguage = context.GetHeader("Accept-Language")
	}

	sessionInstance, sessionErr := manager.store.Get(context.Request, SessionCookieName)
	if sessionErr != nil {
		manager.logger.Warn(logEventLoadSession, zap.Error(sessionErr))
		return provider.NewSessionState(requestedLanguage)
	}

	storedLanguage := extractString(sessionInstance.Values[sessionKeyLanguage])
	tabID := extractString(sessionInstance.Values[sessionKeyTabID])
	if storedLanguage == "" || tabID == "" {
		return provider.NewSessionState(requestedLanguage)
	}

	state := provider.SessionState{
		Language: provider.ResolveLanguage(storedLanguage),
		TabID:    tabID,
	}
	if splashSeen, ok := sessionInstance.Values[sessionKeySplashSeen].(bool); ok {
		state.SplashSeen = splashSeen
	}
	if queryLanguage := strings.TrimSpace(context.Query(sessionLanguageQuery)); queryLanguage != "" {
		state.Language = provider.ResolveLanguage(queryLanguage)
	}
	return state
}

// Save persists the state into the session cookie.
func (manager *SessionManager) Save(context *gin.Context, state provider.SessionState) error {
	sessionInstance, sessionErr := manager.store.Get(context.Request, SessionCookieName)
	if sessionErr != nil && sessionInstance == nil {
		return sessionErr
	}
	sessionInstance.Values[sessionKeyLanguage] = state.Language
	sessionInstance.Values[sessionKeySplashSeen] = state.SplashSeen
	sessionInstance.Values[sessionKeyTabID] = state.TabID
	if saveErr := sessionInstance.Save(context.Request, context.Writer); saveErr != nil {
		return saveErr
	}
	context.Set(contextKeySessionState, state)
	return nil
}

// SessionStateFromContext returns the state resolved by the middleware.
func SessionStateFromContext(context *gin.Context) (provider.SessionState, bool) {
	value, exists := context.Get(contextKeySessionState)
	if !exists {
		return provider.SessionState{}, false
	}
	state, ok := value.(provider.SessionState)
	return state, ok
}

// GetSession returns the visitor's session state.
func (manager *SessionManager) GetSession(context *gin.Context) {
	state, ok := SessionStateFromContext(context)
	if !ok {
		state = manager.load(context)
	}
	context.JSON(http.StatusOK, state)
}

// UpdateSession applies a partial update and persists it.
func (manager *SessionManager) UpdateSession(context *gin.Context) {
	var update provider.SessionUpdate
	if bindErr := context.ShouldBindJSON(&update); bindErr != nil {
		context.AbortWithStatusJSON(http.StatusBadRequest, gin.H{jsonKeyError: errorInvalidSessionBody})
		return
	}

	state, ok := SessionStateFromContext(context)
	if !ok {
		state = manager.load(context)
	}
	updated := state.Apply(update)
	if saveErr := manager.Save(context, updated); saveErr != nil {
		manager.logger.Error(logEventSaveSession, zap.Error(saveErr))
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorSessionSaveFailed})
		return
	}
	context.JSON(http.StatusOK, updated)
}

func extractString(value interface{}) string {
	if value == nil {
		return ""
	}
	if stringValue, ok := value.(string); ok {
		return strings.TrimSpace(stringValue)
	}
	return ""
}
