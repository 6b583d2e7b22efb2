// Package i18n localizes user-facing messages. Bundles are embedded TOML files;
// zh-TW is the fallback language.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// Message ids
const (
	MsgInvalidCredentials = "auth.invalid_credentials"
	MsgLoginFailed        = "auth.login_failed"
	MsgUnauthorized       = "auth.unauthorized"
	MsgTokenInvalid       = "auth.token_invalid"
	MsgForbidden          = "auth.forbidden"
	MsgValidation         = "error.validation"
	MsgNotFound           = "error.not_found"
	MsgAlreadyExists      = "error.already_exists"
	MsgInvalidState       = "error.invalid_state"
	MsgInsufficientStock  = "error.insufficient_stock"
	MsgTooManyRequests    = "error.too_many_requests"
	MsgInternal           = "error.internal"
	MsgUnknownUser        = "user.unknown"
)

// ContextKey is the gin context key holding the negotiated language tag
const ContextKey = "lang"

//go:embed locales/*.toml
var localeFS embed.FS

// Translator resolves message ids into the caller's language
type Translator struct {
	bundle   *i18n.Bundle
	fallback language.Tag
	tags     []language.Tag
	matcher  language.Matcher
}

// New loads the embedded bundles. defaultLang is used when nothing matches.
func New(defaultLang string) (*Translator, error) {
	fallback, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("invalid default language %q: %w", defaultLang, err)
	}
	bundle := i18n.NewBundle(fallback)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path.Base(f), err)
		}
	}

	// The fallback goes first so the matcher prefers it on ties
	tags := []language.Tag{fallback}
	for _, t := range bundle.LanguageTags() {
		if t != fallback {
			tags = append(tags, t)
		}
	}
	return &Translator{
		bundle:   bundle,
		fallback: fallback,
		tags:     tags,
		matcher:  language.NewMatcher(tags),
	}, nil
}

// MustNew is New for package-level wiring in tests and main
func MustNew(defaultLang string) *Translator {
	t, err := New(defaultLang)
	if err != nil {
		panic(err)
	}
	return t
}

// Match negotiates a supported language from an Accept-Language header
func (t *Translator) Match(acceptLanguage string) language.Tag {
	if acceptLanguage == "" {
		return t.fallback
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return t.fallback
	}
	_, index, confidence := t.matcher.Match(prefs...)
	if confidence == language.No {
		return t.fallback
	}
	return t.tags[index]
}

// Localize renders msgID in lang. Unknown ids come back unchanged.
func (t *Translator) Localize(lang language.Tag, msgID string, data map[string]any) string {
	localizer := i18n.NewLocalizer(t.bundle, lang.String(), t.fallback.String())
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
	if err != nil {
		return msgID
	}
	return msg
}

// Middleware negotiates the request language and stores it in the gin context
func (t *Translator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKey, t.Match(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// LanguageOf returns the negotiated language of a request, or the fallback
func (t *Translator) LanguageOf(c *gin.Context) language.Tag {
	if v, ok := c.Get(ContextKey); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return t.Match(c.GetHeader("Accept-Language"))
}

// T localizes msgID for the request
func (t *Translator) T(c *gin.Context, msgID string) string {
	return t.Localize(t.LanguageOf(c), msgID, nil)
}
