// Package locale converts host locales to BCP-47 language tags and looks up
// the few interface strings that end up inside generated JATS.
package locale

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	KeySubject            = "article.subject"
	KeyCopyrightStatement = "submission.copyrightStatement"
)

// ToBCP47 converts a host locale such as "pt_BR" or "sr_RS@latin" to a
// BCP-47 tag ("pt-BR", "sr-Latn-RS"). Unparseable input is returned with
// underscores replaced.
func ToBCP47(locale string) string {
	tag, err := parse(locale)
	if err != nil {
		return strings.ReplaceAll(locale, "_", "-")
	}
	return tag.String()
}

// XMLLang returns the primary language subtag of a host locale, the form
// used for xml:lang attributes ("en_US" becomes "en").
func XMLLang(locale string) string {
	tag, err := parse(locale)
	if err == nil {
		if base, conf := tag.Base(); conf != language.No {
			return base.String()
		}
	}
	locale = strings.ToLower(locale)
	if len(locale) > 2 {
		return locale[:2]
	}
	return locale
}

func parse(locale string) (language.Tag, error) {
	s := strings.TrimSpace(locale)
	script := ""
	if i := strings.IndexByte(s, '@'); i >= 0 {
		switch strings.ToLower(s[i+1:]) {
		case "latin":
			script = "Latn"
		case "cyrillic":
			script = "Cyrl"
		}
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "_", "-")
	if script != "" {
		parts := strings.SplitN(s, "-", 2)
		s = parts[0] + "-" + script
		if len(parts) == 2 {
			s += "-" + parts[1]
		}
	}
	return language.Parse(s)
}

var (
	messages  = newCatalog()
	languages = messages.Languages()
	matcher   = language.NewMatcher(languages)
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	set := func(tag language.Tag, key, msg string) {
		if err := b.SetString(tag, key, msg); err != nil {
			panic(err)
		}
	}

	set(language.English, KeySubject, "Subject")
	set(language.French, KeySubject, "Sujet")
	set(language.Spanish, KeySubject, "Materia")
	set(language.German, KeySubject, "Fachgebiet")
	set(language.Portuguese, KeySubject, "Assunto")
	set(language.Italian, KeySubject, "Soggetto")

	set(language.English, KeyCopyrightStatement, "Copyright (c) %[1]s %[2]s")
	set(language.French, KeyCopyrightStatement, "Copyright (c) %[1]s %[2]s")
	set(language.Spanish, KeyCopyrightStatement, "Derechos de autor %[1]s %[2]s")
	set(language.German, KeyCopyrightStatement, "Copyright (c) %[1]s %[2]s")
	set(language.Portuguese, KeyCopyrightStatement, "Copyright (c) %[1]s %[2]s")
	set(language.Italian, KeyCopyrightStatement, "Copyright (c) %[1]s %[2]s")
	return b
}

// Translate formats the message for key in the closest supported language
// to the host locale. Unknown keys are formatted as-is.
func Translate(locale, key string, args ...any) string {
	p := message.NewPrinter(match(locale), message.Catalog(messages))
	return strings.Join(strings.Fields(p.Sprintf(key, args...)), " ")
}

func match(locale string) language.Tag {
	tag, err := parse(locale)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.English
	}
	return languages[idx]
}
