package svg

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractFragment returns the largest top-level <svg>...</svg> fragment of
// text, so that an HTML page wrapping an inline graphic can be analysed.
// Small fragments such as site logos lose to the main graphic. When no
// complete fragment exists, text is returned unchanged.
func ExtractFragment(text string) string {
	start, end := FragmentBounds(text)
	return text[start:end]
}

// FragmentBounds returns the byte range of the fragment ExtractFragment
// selects, which is the whole text when there is none.
func FragmentBounds(text string) (int, int) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "<svg") || !strings.Contains(lower, "</svg>") {
		return 0, len(text)
	}

	z := html.NewTokenizer(strings.NewReader(text))
	var (
		offset int
		start  int
		depth  int
		best   [2]int
	)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		size := len(z.Raw())

		switch tt {
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "svg" {
				if depth == 0 {
					start = offset
				}
				depth++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "svg" && depth > 0 {
				depth--
				if depth == 0 {
					if end := offset + size; end-start > best[1]-best[0] {
						best = [2]int{start, end}
					}
				}
			}
		}
		offset += size
	}

	if best[1] == 0 {
		return 0, len(text)
	}
	return best[0], best[1]
}
