package mailer

import (
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
)

// variantSet lists the locale variants found for one base template.
// Index 0 is always the base file, tagged with the default locale.
type variantSet struct {
	matcher language.Matcher
	tags    []language.Tag
	files   []string
}

// splitExt splits "artifact_mail.md" into "artifact_mail" and ".md".
func splitExt(name string) (string, string) {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext), ext
}

// VariantName returns the file name of the locale variant of name,
// e.g. VariantName("welcome.md", "de") == "welcome.de.md".
func VariantName(name, locale string) string {
	base, ext := splitExt(name)
	return base + "." + locale + ext
}

// discoverVariants scans dir for locale variants of name.
func discoverVariants(fsys fs.FS, dir, name string, fallback language.Tag) (*variantSet, error) {
	base, ext := splitExt(name)

	set := &variantSet{
		tags:  []language.Tag{fallback},
		files: []string{path.Join(dir, name)},
	}

	matches, err := fs.Glob(fsys, path.Join(dir, base+".*"+ext))
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		raw := strings.TrimSuffix(strings.TrimPrefix(path.Base(m), base+"."), ext)
		tag, err := language.Parse(raw)
		if err != nil {
			continue // not a locale suffix, e.g. "welcome.2019.md"
		}
		set.tags = append(set.tags, tag)
		set.files = append(set.files, m)
	}

	set.matcher = language.NewMatcher(set.tags)
	return set, nil
}

// pick returns the file and tag best matching locale.
// locale may be a single tag or an Accept-Language header value.
func (v *variantSet) pick(locale string) (string, language.Tag) {
	if len(v.tags) == 1 || strings.TrimSpace(locale) == "" {
		return v.files[0], v.tags[0]
	}

	desired, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(desired) == 0 {
		return v.files[0], v.tags[0]
	}

	_, idx, conf := v.matcher.Match(desired...)
	if conf == language.No {
		return v.files[0], v.tags[0]
	}
	return v.files[idx], v.tags[idx]
}
