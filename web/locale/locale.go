// Package locale loads the embedded TOML translations and resolves
// user-facing strings for the request's language.
package locale

import (
	"io/fs"
	"strings"

	"github.com/mhsanaei/mediahub/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

const localizerKey = "localizer"

var (
	i18nBundle       *i18n.Bundle
	defaultLocalizer *i18n.Localizer
)

// InitLocalizer parses every file under translation/ in fsys. English is the
// fallback language.
func InitLocalizer(fsys fs.FS) error {
	bundle := i18n.NewBundle(language.MustParse("en-US"))
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	if err := parseTranslationFiles(fsys, bundle); err != nil {
		return err
	}

	i18nBundle = bundle
	defaultLocalizer = i18n.NewLocalizer(bundle, "en-US")
	return nil
}

func parseTranslationFiles(fsys fs.FS, bundle *i18n.Bundle) error {
	return fs.WalkDir(fsys, "translation", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		_, err = bundle.ParseMessageFileBytes(data, path)
		return err
	})
}

// createTemplateData turns "name==value" params into template data.
func createTemplateData(params []string, separator ...string) map[string]any {
	sep := "=="
	if len(separator) > 0 {
		sep = separator[0]
	}

	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, sep, 2)
		if len(parts) == 2 {
			templateData[parts[0]] = parts[1]
		}
	}
	return templateData
}

// Localize resolves key with the given localizer, falling back to the key
// itself when translations are unavailable.
func Localize(localizer *i18n.Localizer, key string, params ...string) string {
	if localizer == nil {
		localizer = defaultLocalizer
	}
	if localizer == nil {
		return key
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Errorf("Failed to localize message %q: %v", key, err)
		return key
	}
	return msg
}

// I18n resolves key in the default language. Used by templates.
func I18n(key string, params ...string) string {
	return Localize(defaultLocalizer, key, params...)
}

// LocalizerMiddleware picks the language from the "lang" cookie or the
// Accept-Language header and stores a localizer in the gin context.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string
		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		} else {
			lang = c.GetHeader("Accept-Language")
		}

		if i18nBundle != nil {
			c.Set(localizerKey, i18n.NewLocalizer(i18nBundle, lang))
		}
		c.Next()
	}
}

// FromContext returns the request's localizer, or nil if none was set.
func FromContext(c *gin.Context) *i18n.Localizer {
	if obj, ok := c.Get(localizerKey); ok {
		if l, ok := obj.(*i18n.Localizer); ok {
			return l
		}
	}
	return nil
}
