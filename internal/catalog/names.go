package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"moviepicker/internal/models"
)

// MaxCategoryNameLength is the longest accepted category name, in bytes.
const MaxCategoryNameLength = 255

const categoryPrefix = "Category:"

// Characters MediaWiki does not allow in page titles.
const forbiddenTitleChars = "#<>[]|{}:"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	// "Up (2009 film)", "Cars (film)", "Brave (2012 American animated film)"
	disambiguator = regexp.MustCompile(`^(.+?)\s+\((?:(\d{4})\s+)?(?:[\w\s-]+\s)?film\)$`)
)

// ValidateCategoryName normalizes a user-supplied category name into the form
// used as the catalog key. It never performs network I/O.
func ValidateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) >= len(categoryPrefix) && strings.EqualFold(name[:len(categoryPrefix)], categoryPrefix) {
		name = strings.TrimSpace(name[len(categoryPrefix):])
	}
	name = whitespaceRun.ReplaceAllString(name, "_")

	if name == "" {
		return "", models.NewInvalidNameError("Category name is required")
	}
	if len(name) > MaxCategoryNameLength {
		return "", models.NewInvalidNameError("Category name is too long")
	}
	for _, r := range name {
		if unicode.IsControl(r) || r == unicode.ReplacementChar {
			return "", models.NewInvalidNameError("Category name contains invalid characters")
		}
		if strings.ContainsRune(forbiddenTitleChars, r) {
			return "", models.NewInvalidNameError("Category name may not contain any of " + forbiddenTitleChars)
		}
	}
	return name, nil
}

// SplitDisambiguation strips an encyclopedia film disambiguator from title,
// returning the bare title and the release year when one is given.
func SplitDisambiguation(title string) (string, string) {
	title = strings.TrimSpace(title)
	m := disambiguator.FindStringSubmatch(title)
	if m == nil {
		return title, ""
	}
	return m[1], m[2]
}
