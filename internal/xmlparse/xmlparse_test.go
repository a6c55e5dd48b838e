package xmlparse

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const corpusXML = `<?xml version="1.0" encoding="UTF-8"?>
<corpus>
  <doc id="pmc-88">
    <title>Aspirin and cyclooxygenase</title>
    <paragraph>Aspirin irreversibly inhibits cyclooxygenase.</paragraph>
    <paragraph>  </paragraph>
    <paragraph>It is widely used to treat pain and fever.</paragraph>
  </doc>
  <doc>
    <title>Untitled</title>
    <paragraph>Second document text.</paragraph>
  </doc>
</corpus>`

func TestParseCorpus(t *testing.T) {
	docs, err := ParseCorpus(strings.NewReader(corpusXML))
	if err != nil {
		t.Fatalf("ParseCorpus: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	first := docs[0]
	if first.ID != "pmc-88" {
		t.Errorf("first doc id = %q", first.ID)
	}
	if first.Title != "Aspirin and cyclooxygenase" {
		t.Errorf("first doc title = %q", first.Title)
	}
	want := []string{
		"Aspirin irreversibly inhibits cyclooxygenase.",
		"It is widely used to treat pain and fever.",
	}
	if !reflect.DeepEqual(first.Segments, want) {
		t.Errorf("segments = %q, want %q (blank paragraphs must be skipped)", first.Segments, want)
	}

	// Documents without an id attribute get a positional one
	if docs[1].ID != "doc2" {
		t.Errorf("second doc id = %q, want \"doc2\"", docs[1].ID)
	}
}

func TestParseCorpusMalformed(t *testing.T) {
	_, err := ParseCorpus(strings.NewReader("<corpus><doc></corpus>"))
	if err == nil {
		t.Fatal("expected an error for mismatched tags")
	}
}

const pubmedXML = `<?xml version="1.0" encoding="UTF-8"?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID Version="1">31345061</PMID>
      <Article>
        <ArticleTitle>Warfarin drug interactions.</ArticleTitle>
        <Abstract>
          <AbstractText Label="BACKGROUND">Warfarin interacts with aspirin.</AbstractText>
          <AbstractText Label="CONCLUSION">Monitoring is required.</AbstractText>
        </Abstract>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func TestParsePubmed(t *testing.T) {
	docs, err := ParsePubmed(strings.NewReader(pubmedXML))
	if err != nil {
		t.Fatalf("ParsePubmed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}

	doc := docs[0]
	if doc.ID != "pmid:31345061" {
		t.Errorf("doc id = %q", doc.ID)
	}
	if doc.Title != "Warfarin drug interactions." {
		t.Errorf("title = %q", doc.Title)
	}
	want := []string{
		"BACKGROUND: Warfarin interacts with aspirin.",
		"CONCLUSION: Monitoring is required.",
	}
	if !reflect.DeepEqual(doc.Segments, want) {
		t.Errorf("segments = %q, want %q", doc.Segments, want)
	}
}

func TestParsePubmedMissingPMID(t *testing.T) {
	input := `<PubmedArticleSet><PubmedArticle><MedlineCitation>
<Article><ArticleTitle>No id.</ArticleTitle></Article>
</MedlineCitation></PubmedArticle></PubmedArticleSet>`

	_, err := ParsePubmed(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "no PMID") {
		t.Errorf("expected a missing-PMID error, got %v", err)
	}
}

func TestParseFileDispatch(t *testing.T) {
	dir := t.TempDir()

	pubmedPath := filepath.Join(dir, "article.xml")
	if err := os.WriteFile(pubmedPath, []byte(pubmedXML), 0o644); err != nil {
		t.Fatal(err)
	}
	corpusPath := filepath.Join(dir, "corpus.xml")
	if err := os.WriteFile(corpusPath, []byte(corpusXML), 0o644); err != nil {
		t.Fatal(err)
	}

	docs, err := ParseFile(pubmedPath)
	if err != nil {
		t.Fatalf("ParseFile(pubmed): %v", err)
	}
	if len(docs) != 1 || !strings.HasPrefix(docs[0].ID, "pmid:") {
		t.Errorf("pubmed dispatch produced %+v", docs)
	}

	docs, err = ParseFile(corpusPath)
	if err != nil {
		t.Fatalf("ParseFile(corpus): %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "pmc-88" {
		t.Errorf("corpus dispatch produced %+v", docs)
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "absent.xml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestExtractAllText(t *testing.T) {
	input := `<root><a>first</a><b> second </b><c><d>third</d> tail</c></root>`
	text, err := ExtractAllText(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ExtractAllText: %v", err)
	}
	if text != "first second third tail" {
		t.Errorf("text = %q", text)
	}
}
