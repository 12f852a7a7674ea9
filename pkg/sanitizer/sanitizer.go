package sanitizer

import (
	"net/url"
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reISBNSeparators = regexp.MustCompile(`[\s\-]+`)
	reAllSpaces      = regexp.MustCompile(`\s+`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func upper(s string) string {
	return strings.ToUpper(s)
}

func SanitizeTitle(input string) string {
	return TrimAndNormalize(input)
}

// SanitizeISBN strips the separators printed ISBNs carry, so "978-0-441-01359-3"
// and "9780441013593" are stored alike.
func SanitizeISBN(input string) string {
	p := Pipeline{
		trim,
		func(s string) string { return reISBNSeparators.ReplaceAllString(s, "") },
		func(s string) string { return strings.TrimPrefix(upper(s), "ISBN:") },
		func(s string) string { return strings.TrimPrefix(s, "ISBN") },
	}
	return p.Apply(input)
}

func SanitizeDeweyIndex(input string) string {
	p := Pipeline{
		trim,
		func(s string) string { return reAllSpaces.ReplaceAllString(s, "") },
	}
	return p.Apply(input)
}

func SanitizeURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	lowered := strings.ToLower(s)
	if strings.HasPrefix(lowered, "http://") {
		s = "https://" + s[len("http://"):]
	} else if !strings.HasPrefix(lowered, "https://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}

	u.Scheme = "https"
	u.Host = strings.ToLower(u.Host)
	if after, ok := strings.CutPrefix(u.Host, "www."); ok {
		u.Host = after
	}
	u.Path = strings.TrimSuffix(strings.TrimSpace(u.Path), "/")

	q := u.Query()
	qClean := url.Values{}
	for k, v := range q {
		key := strings.TrimSpace(k)
		if strings.HasPrefix(strings.ToLower(key), "utm_") {
			continue
		}
		for _, val := range v {
			if value := strings.TrimSpace(val); value != "" {
				qClean.Add(key, value)
			}
		}
	}
	u.RawQuery = qClean.Encode()

	return u.String()
}
