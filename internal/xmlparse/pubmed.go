package xmlparse

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
)

// PubMed efetch XML, reduced to what the pipeline consumes: PMID, article
// title, and the abstract paragraphs.

type pubmedArticleSet struct {
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation pubmedCitation `xml:"MedlineCitation"`
}

type pubmedCitation struct {
	PMID    string        `xml:"PMID"`
	Article pubmedDetails `xml:"Article"`
}

type pubmedDetails struct {
	Title    string           `xml:"ArticleTitle"`
	Abstract []pubmedAbstract `xml:"Abstract>AbstractText"`
}

type pubmedAbstract struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

// ParsePubmed reads an NCBI efetch response and returns one Document per
// article. The document id is "pmid:<PMID>"; abstract sections become the
// ordered segments, with structured-abstract labels folded into the text.
func ParsePubmed(r io.Reader) ([]model.Document, error) {
	var set pubmedArticleSet
	if err := newDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("parse PubMed XML: %w", err)
	}

	docs := make([]model.Document, 0, len(set.Articles))
	for i, a := range set.Articles {
		pmid := strings.TrimSpace(a.Citation.PMID)
		if pmid == "" {
			return nil, fmt.Errorf("parse PubMed XML: article #%d has no PMID", i)
		}
		doc := model.Document{
			ID:    "pmid:" + pmid,
			Title: strings.TrimSpace(a.Citation.Article.Title),
		}
		for _, abs := range a.Citation.Article.Abstract {
			text := strings.TrimSpace(abs.Text)
			if text == "" {
				continue
			}
			if label := strings.TrimSpace(abs.Label); label != "" {
				text = label + ": " + text
			}
			doc.Segments = append(doc.Segments, text)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// ParsePubmedFile reads an efetch XML file from disk.
func ParsePubmedFile(path string) ([]model.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := ParsePubmed(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// ParseFile dispatches on the file's root element: PubmedArticleSet gets the
// PubMed parser, anything else the corpus parser.
func ParseFile(path string) ([]model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if strings.Contains(string(data[:min(len(data), 4096)]), "<PubmedArticleSet") {
		return ParsePubmed(strings.NewReader(string(data)))
	}
	return ParseCorpus(strings.NewReader(string(data)))
}
