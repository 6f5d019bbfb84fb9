package yahoo

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"forex-data-service/internal/entity"
)

const dateLayout = "Jan 2, 2006"

// parseHistory extracts daily close quotes from a history page. A history
// row has seven cells: date, open, high, low, close, adj close, volume.
// Rows whose date or close cell cannot be parsed are dropped.
func parseHistory(r io.Reader, pair entity.Pair) ([]Quote, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var quotes []Quote
	for _, row := range findNodes(doc, atom.Tr) {
		cells := cellTexts(row)
		if len(cells) < 5 {
			continue
		}

		date, err := time.Parse(dateLayout, cells[0])
		if err != nil {
			continue
		}

		closeText := strings.ReplaceAll(cells[4], ",", "")
		if closeText == "" || closeText == "-" {
			continue
		}
		rate, err := strconv.ParseFloat(closeText, 64)
		if err != nil {
			continue
		}

		quotes = append(quotes, Quote{
			BaseCurrency:  pair.Base,
			QuoteCurrency: pair.Quote,
			Date:          date,
			Rate:          rate,
		})
	}

	return quotes, nil
}

func findNodes(root *html.Node, tag atom.Atom) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == tag {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return nodes
}

func cellTexts(row *html.Node) []string {
	var cells []string
	for _, td := range findNodes(row, atom.Td) {
		cells = append(cells, strings.TrimSpace(nodeText(td)))
	}
	return cells
}

func nodeText(n *html.Node) string {
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
