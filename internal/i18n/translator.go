package i18n

import (
	"embed"
	"errors"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

// Translator is a thin wrapper around go-i18n's Bundle/Localizer.
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
}

// NewTranslator builds a Translator over the embedded message tables using the
// given default locale (e.g. "he"). An unknown locale falls back to Hebrew.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.Hebrew
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.he.toml", "active.en.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			slog.Error("i18n: failed to load message file", "file", file, "err", err)
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
	}
}

// DefaultLocale is the locale used when a request names none we know.
func (t *Translator) DefaultLocale() string {
	return t.defaultLanguage.String()
}

// T renders the message identified by key for locale, which may be a raw
// Accept-Language header. Missing messages render as the key itself.
func (t *Translator) T(locale, key string, data map[string]any) string {
	if key == "" {
		return ""
	}
	msg, ok := t.Lookup(locale, key, data)
	if !ok {
		slog.Warn("i18n: message not found", "key", key, "locale", locale)
		return key
	}
	return msg
}

// Lookup is like T but reports whether the message exists instead of falling
// back to the key.
func (t *Translator) Lookup(locale, key string, data map[string]any) (string, bool) {
	languages := []string{}
	if locale != "" {
		languages = append(languages, locale)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		// A message missing only in the requested locale comes back from the
		// default locale together with MessageNotFoundErr.
		var notFound *i18n.MessageNotFoundErr
		if !errors.As(err, &notFound) || msg == "" {
			return "", false
		}
	}
	return msg, true
}
