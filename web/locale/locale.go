// Package locale provides message localization for the web pages.
package locale

import (
	"io/fs"
	"strings"

	"bookshelf/logger"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

var i18nBundle *i18n.Bundle

type I18nType string

const (
	Web I18nType = "web"
)

// InitLocalizer parses the embedded translation files into the bundle.
// English is the default language; Korean is carried as well.
func InitLocalizer(i18nFS fs.FS) error {
	i18nBundle = i18n.NewBundle(language.MustParse("en-US"))
	i18nBundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return parseTranslationFiles(i18nFS, i18nBundle)
}

func createTemplateData(params []string, seperator ...string) map[string]any {
	sep := "=="
	if len(seperator) > 0 {
		sep = seperator[0]
	}

	templateData := make(map[string]any)
	for _, param := range params {
		parts := strings.SplitN(param, sep, 2)
		templateData[parts[0]] = parts[1]
	}

	return templateData
}

// localize resolves a message key against a localizer, with optional
// "name==value" template params.
func localize(localizer *i18n.Localizer, key string, params ...string) string {
	if localizer == nil {
		// Fallback to key if localizer not ready
		return key
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: createTemplateData(params),
	})
	if err != nil {
		logger.Errorf("Failed to localize message: %v", err)
		return ""
	}

	return msg
}

// LocalizerMiddleware picks the language from the lang cookie or the
// Accept-Language header and exposes the I18n func to handlers. The
// localizer lives only in the request context so concurrent requests with
// different languages cannot bleed into each other.
func LocalizerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var lang string

		if cookie, err := c.Request.Cookie("lang"); err == nil {
			lang = cookie.Value
		} else {
			lang = c.GetHeader("Accept-Language")
		}

		localizer := i18n.NewLocalizer(i18nBundle, lang)

		c.Set("localizer", localizer)
		c.Set("I18n", func(i18nType I18nType, key string, params ...string) string {
			if i18nType != Web {
				logger.Errorf("Invalid type for I18n: %s", i18nType)
				return ""
			}
			return localize(localizer, key, params...)
		})
		c.Next()
	}
}

func parseTranslationFiles(i18nFS fs.FS, i18nBundle *i18n.Bundle) error {
	return fs.WalkDir(i18nFS, "translation",
		func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			data, err := fs.ReadFile(i18nFS, path)
			if err != nil {
				return err
			}
			_, err = i18nBundle.ParseMessageFileBytes(data, path)
			return err
		})
}
