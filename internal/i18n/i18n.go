// Package i18n holds the process-wide message catalog and printer.
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync/atomic"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var fallback = language.English

// locale pairs the formatting printer with the plain messages of the
// selected language, English entries filling the gaps.
type locale struct {
	printer  *message.Printer
	messages map[string]string
}

var current atomic.Pointer[locale]

func init() {
	current.Store(&locale{printer: message.NewPrinter(fallback)})
}

// Init loads every <tag>.json file in dir and selects the best match for
// requested. An unparsable tag still installs the catalog with English.
func Init(files fs.FS, dir, requested string) (language.Tag, error) {
	builder, supported, messages, err := loadCatalog(files, dir)
	if err != nil {
		return fallback, err
	}

	tag := fallback
	var parseErr error
	if requested != "" {
		want, err := language.Parse(requested)
		if err != nil {
			parseErr = fmt.Errorf("parsing language %q: %w", requested, err)
		} else {
			_, index, confidence := language.NewMatcher(supported).Match(want)
			if confidence != language.No {
				tag = supported[index]
			}
		}
	}

	plain := make(map[string]string, len(messages[fallback]))
	for key, msg := range messages[fallback] {
		plain[key] = msg
	}
	for key, msg := range messages[tag] {
		plain[key] = msg
	}

	current.Store(&locale{
		printer:  message.NewPrinter(tag, message.Catalog(builder)),
		messages: plain,
	})
	return tag, parseErr
}

func loadCatalog(files fs.FS, dir string) (*catalog.Builder, []language.Tag, map[language.Tag]map[string]string, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading translations: %w", err)
	}

	builder := catalog.NewBuilder(catalog.Fallback(fallback))
	supported := []language.Tag{fallback}
	loaded := make(map[language.Tag]map[string]string)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != ".json" {
			continue
		}

		tag, err := language.Parse(strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("translation file %s: %w", name, err)
		}

		raw, err := fs.ReadFile(files, path.Join(dir, name))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("reading %s: %w", name, err)
		}

		var messages map[string]string
		if err := json.Unmarshal(raw, &messages); err != nil {
			return nil, nil, nil, fmt.Errorf("decoding %s: %w", name, err)
		}

		for key, msg := range messages {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, nil, nil, fmt.Errorf("%s: %q: %w", name, key, err)
			}
		}

		loaded[tag] = messages
		if tag != fallback {
			supported = append(supported, tag)
		}
	}

	return builder, supported, loaded, nil
}

// L returns the translation of key, or key itself when none exists. The
// text is returned as written: verbs such as %s are not expanded.
func L(key string) string {
	if msg, ok := current.Load().messages[key]; ok {
		return msg
	}
	return key
}

// Sprintf translates format and applies locale-aware number formatting.
func Sprintf(format string, args ...interface{}) string {
	return current.Load().printer.Sprintf(format, args...)
}
