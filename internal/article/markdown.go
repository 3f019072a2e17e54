package article

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// skipped elements never contribute text.
var skipped = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"aside":    true,
	"form":     true,
	"button":   true,
	"svg":      true,
	"iframe":   true,
}

// inlineTags outside a paragraph still form a block of their own.
var inlineTags = map[string]bool{
	"span":   true,
	"a":      true,
	"strong": true,
	"b":      true,
	"em":     true,
	"i":      true,
}

// Markdown renders the block content under n with ATX headings.
func Markdown(n *html.Node) string {
	var blocks []string
	renderBlocks(n, &blocks)
	return strings.TrimSpace(strings.Join(blocks, "\n\n"))
}

func renderBlocks(n *html.Node, blocks *[]string) {
	if n.Type == html.ElementNode {
		if skipped[n.Data] {
			return
		}
		if level := headingLevel(n.Data); level > 0 {
			if t := inline(n); t != "" {
				*blocks = append(*blocks, strings.Repeat("#", level)+" "+t)
			}
			return
		}
		switch n.Data {
		case "p":
			if t := inline(n); t != "" {
				*blocks = append(*blocks, t)
			}
			return
		case "ul", "ol":
			if l := list(n); l != "" {
				*blocks = append(*blocks, l)
			}
			return
		case "blockquote":
			if q := Markdown(n); q != "" {
				*blocks = append(*blocks, "> "+strings.ReplaceAll(q, "\n", "\n> "))
			}
			return
		case "pre":
			*blocks = append(*blocks, "```\n"+strings.Trim(rawText(n), "\n")+"\n```")
			return
		}
	}
	if n.Type == html.ElementNode && inlineTags[n.Data] {
		if t := inline(n); t != "" {
			*blocks = append(*blocks, t)
		}
		return
	}
	if n.Type == html.TextNode {
		if t := collapse(n.Data); t != "" {
			*blocks = append(*blocks, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderBlocks(c, blocks)
	}
}

func list(n *html.Node) string {
	var items []string
	i := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != "li" {
			continue
		}
		i++
		marker := "- "
		if n.Data == "ol" {
			marker = strconv.Itoa(i) + ". "
		}
		if t := inline(c); t != "" {
			items = append(items, marker+t)
		}
	}
	return strings.Join(items, "\n")
}

func inline(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if skipped[n.Data] {
				return
			}
			switch n.Data {
			case "br":
				b.WriteString("\n")
				return
			case "strong", "b":
				if t := inline(n); t != "" {
					b.WriteString(" **" + t + "** ")
				}
				return
			case "em", "i":
				if t := inline(n); t != "" {
					b.WriteString(" *" + t + "* ")
				}
				return
			case "a":
				t := inline(n)
				href := attr(n, "href")
				if t != "" && strings.HasPrefix(href, "http") {
					b.WriteString(" [" + t + "](" + href + ") ")
				} else {
					b.WriteString(" " + t + " ")
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	lines := strings.Split(b.String(), "\n")
	for i, l := range lines {
		lines[i] = collapse(l)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
