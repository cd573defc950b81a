package research

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

const (
	ddgQuerySuffix   = " job requirements skills"
	maxRelatedTopics = 5
)

// duckduckgo queries the instant answer API.
func (r *Researcher) duckduckgo(ctx context.Context, query string) (*lookup, error) {
	q := url.Values{}
	q.Set("q", query+ddgQuerySuffix)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	doc, err := r.getJSON(ctx, r.duckduckgoURL+"/", q)
	if err != nil {
		return nil, err
	}

	res := &lookup{}

	if abstract := strings.TrimSpace(doc.Get("AbstractText").String()); abstract != "" {
		res.summary = abstract
		res.sentences = append(res.sentences, sentences(abstract)...)
		if src := doc.Get("AbstractURL").String(); src != "" {
			res.sources = append(res.sources, src)
		}
	}

	topics := 0
	for _, topic := range doc.Get("RelatedTopics").Array() {
		if topics >= maxRelatedTopics {
			break
		}
		text := strings.TrimSpace(topic.Get("Text").String())
		if text == "" {
			text = htmlText(topic.Get("Result").String())
		}
		if text == "" {
			continue
		}
		topics++
		res.sentences = append(res.sentences, text)
		if len(res.sources) == 0 {
			if src := topic.Get("FirstURL").String(); src != "" {
				res.sources = append(res.sources, src)
			}
		}
	}

	if res.summary == "" && len(res.sentences) == 0 {
		return nil, errors.New("duckduckgo returned no abstract")
	}
	return res, nil
}
