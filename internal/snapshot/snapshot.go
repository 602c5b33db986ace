// Package snapshot turns saved HTML pages into element snapshots.
package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"browserflow/internal/entity"
	"browserflow/pkg/apperr"
)

const (
	refPrefix     = "e"
	maxTextLength = 200
)

var interactiveTags = map[atom.Atom]bool{
	atom.A:        true,
	atom.Button:   true,
	atom.Input:    true,
	atom.Select:   true,
	atom.Textarea: true,
	atom.Option:   true,
	atom.Summary:  true,
	atom.Label:    true,
	atom.Img:      true,
}

var skippedTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Head:     true,
}

// markerAttributes make an element addressable even without text.
var markerAttributes = []string{"role", "aria-label", "data-testid", "data-test", "id"}

type HTMLLoader struct{}

func NewHTMLLoader() *HTMLLoader {
	return &HTMLLoader{}
}

// Capture reads the HTML file at path and parses it.
func (l *HTMLLoader) Capture(ctx context.Context, path string) (*entity.Snapshot, error) {
	const op = "HTMLLoader.Capture"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperr.NotFoundError(op, fmt.Errorf("snapshot %s: %w", path, err))
		}

		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaStage: apperr.StageSnapshot,
			apperr.MetaPath:  path,
		})
	}
	defer f.Close()

	snap, err := Parse(f)
	if err != nil {
		return nil, err
	}

	if snap.URL == "" {
		snap.URL = "file://" + path
	}

	return snap, nil
}

// Parse enumerates the addressable elements of an HTML document in document
// order and assigns them refs e1..eN.
func Parse(r io.Reader) (*entity.Snapshot, error) {
	const op = "snapshot.Parse"

	doc, err := html.Parse(r)
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeDecodeFailed, err, map[string]any{
			apperr.MetaStage: apperr.StageSnapshot,
		})
	}

	snap := &entity.Snapshot{Elements: []entity.ElementInfo{}}

	if title := findFirst(doc, atom.Title); title != nil {
		snap.Title = collectText(title)
	}

	if base := findFirst(doc, atom.Base); base != nil {
		snap.URL = attr(base, "href")
	}

	body := findFirst(doc, atom.Body)
	if body == nil {
		return snap, nil
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || skippedTags[c.DataAtom] {
				continue
			}

			if keep(c) {
				snap.Elements = append(snap.Elements, elementInfo(c, len(snap.Elements)+1))
			}

			walk(c)
		}
	}
	walk(body)

	return snap, nil
}

func keep(n *html.Node) bool {
	if interactiveTags[n.DataAtom] {
		return true
	}

	for _, name := range markerAttributes {
		if attr(n, name) != "" {
			return true
		}
	}

	return hasOwnText(n)
}

func elementInfo(n *html.Node, index int) entity.ElementInfo {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[strings.ToLower(a.Key)] = a.Val
	}

	el := entity.ElementInfo{
		Ref:        fmt.Sprintf("%s%d", refPrefix, index),
		Tag:        strings.ToLower(n.Data),
		Role:       attrs["role"],
		Text:       truncate(collectText(n)),
		AriaLabel:  attrs["aria-label"],
		TestID:     attrs["data-testid"],
		ClassName:  attrs["class"],
		ID:         attrs["id"],
		Attributes: attrs,
	}

	if el.TestID == "" {
		el.TestID = attrs["data-test"]
	}

	if el.Text == "" && n.DataAtom == atom.Img {
		el.Text = attrs["alt"]
	}

	return el
}

func hasOwnText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
	}

	return false
}

// collectText returns the whitespace-collapsed text of n and its descendants.
func collectText(n *html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedTags[n.DataAtom] {
			return
		}

		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	return strings.Join(strings.Fields(sb.String()), " ")
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxTextLength {
		return s
	}

	return string(runes[:maxTextLength])
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}

	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}

	return ""
}
