package content

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// frontMatter is the YAML header of a markdown post.
type frontMatter struct {
	Title   string   `yaml:"title"`
	Slug    string   `yaml:"slug"`
	Summary string   `yaml:"summary"`
	Date    string   `yaml:"date"`
	Tags    []string `yaml:"tags"`
}

const frontMatterDelimiter = "---"

// splitFrontMatter separates the YAML front-matter block from the body.
// A document without front-matter returns a zero frontMatter and the whole
// input as body.
func splitFrontMatter(data string) (frontMatter, string, error) {
	var fm frontMatter

	trimmed := strings.TrimPrefix(data, "\uFEFF")
	trimmed = strings.TrimLeft(trimmed, "\r\n")
	if !strings.HasPrefix(trimmed, frontMatterDelimiter+"\n") {
		return fm, data, nil
	}

	rest := trimmed[len(frontMatterDelimiter)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelimiter)
	if end < 0 {
		return fm, data, fmt.Errorf("unterminated front-matter block")
	}

	header := rest[:end]
	body := rest[end+len(frontMatterDelimiter)+1:]
	body = strings.TrimPrefix(body, "\n")

	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return frontMatter{}, data, fmt.Errorf("parsing front-matter: %w", err)
	}
	return fm, body, nil
}

// dateLayouts are accepted front-matter date formats, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// slugify turns a title into a URL-safe slug.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
