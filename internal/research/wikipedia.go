package research

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// wikipedia queries the REST page summary endpoint.
func (r *Researcher) wikipedia(ctx context.Context, query string) (*lookup, error) {
	title := url.PathEscape(strings.ReplaceAll(query, " ", "_"))

	doc, err := r.getJSON(ctx, r.wikipediaURL+"/page/summary/"+title, nil)
	if err != nil {
		return nil, err
	}

	if doc.Get("type").String() == "disambiguation" {
		return nil, errors.New("ambiguous wikipedia title")
	}

	extract := strings.TrimSpace(doc.Get("extract").String())
	if extract == "" {
		extract = htmlText(doc.Get("extract_html").String())
	}
	if extract == "" {
		return nil, errors.New("wikipedia summary has no extract")
	}

	res := &lookup{summary: extract, sentences: sentences(extract)}
	if page := doc.Get("content_urls.desktop.page").String(); page != "" {
		res.sources = append(res.sources, page)
	}
	return res, nil
}
