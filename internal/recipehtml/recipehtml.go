package recipehtml

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractLines returns the ingredient lines of a recipe page: the text of
// every <li> that is, or sits inside, an element whose class or itemprop
// mentions "ingredient". Pages without such markup fall back to every <li>.
func ExtractLines(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var tagged, all []string
	var walk func(n *html.Node, inIngredients bool)
	walk = func(n *html.Node, inIngredients bool) {
		if n.Type == html.ElementNode {
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
			inIngredients = inIngredients || mentionsIngredient(n)
			if n.DataAtom == atom.Li {
				if text := nodeText(n); text != "" {
					all = append(all, text)
					if inIngredients {
						tagged = append(tagged, text)
					}
				}
				// Nested lists are read as part of this item
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inIngredients)
		}
	}
	walk(doc, false)

	if len(tagged) > 0 {
		return tagged, nil
	}
	return all, nil
}

func mentionsIngredient(n *html.Node) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" && attr.Key != "itemprop" {
			continue
		}
		if strings.Contains(strings.ToLower(attr.Val), "ingredient") {
			return true
		}
	}
	return false
}

// nodeText collects the text under n with whitespace collapsed.
func nodeText(n *html.Node) string {
	var buf strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}
