// Package i18n renders message keys for a caller's locale.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Translator translate(key, locale) -> string
type Translator interface {
	Translate(key, locale string) string
}

type Bundle struct {
	bundle        *i18n.Bundle
	defaultLocale string
}

// NewBundle 加载内置的 locales/*.yaml；defaultLocale 无法识别时使用 en
func NewBundle(defaultLocale string) (*Bundle, error) {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.English
	}
	b := i18n.NewBundle(tag)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.yaml")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		data, err := localeFS.ReadFile(f)
		if err != nil {
			return nil, err
		}
		if _, err := b.ParseMessageFileBytes(data, path.Base(f)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
	}
	return &Bundle{bundle: b, defaultLocale: tag.String()}, nil
}

// Translate locale 可以是 Accept-Language 头原文；找不到消息时返回 key 本身
func (b *Bundle) Translate(key, locale string) string {
	loc := i18n.NewLocalizer(b.bundle, locale, b.defaultLocale)
	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil && msg == "" {
		return key
	}
	return msg
}

func (b *Bundle) Languages() []string {
	tags := b.bundle.LanguageTags()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = append(out, t.String())
	}
	return out
}
