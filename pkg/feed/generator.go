package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/umputun/sentinel/pkg/domain"
)

// Generator renders findings as an RSS 2.0 feed
type Generator struct {
	baseURL string
	now     func() time.Time
}

// rss represents the root RSS 2.0 element
type rss struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	XMLName       xml.Name   `xml:"channel"`
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	AtomLink      *atomLink  `xml:"http://www.w3.org/2005/Atom link"`
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link,omitempty"`
	GUID        rssGUID  `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category"`
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

// GenerateRSS creates an RSS 2.0 feed of findings at or above minRisk. Empty minRisk means all levels.
// Findings are rendered in the given order, filtering is the caller's job.
func (g *Generator) GenerateRSS(findings []domain.Finding, minRisk domain.RiskLevel) (string, error) {
	title, selfLink := "Sentinel - All Findings", g.baseURL+"/rss"
	desc := "OSINT findings of all risk levels"
	if minRisk != "" {
		title = fmt.Sprintf("Sentinel - Risk %s+", minRisk)
		selfLink = fmt.Sprintf("%s/rss/%s", g.baseURL, minRisk)
		desc = fmt.Sprintf("OSINT findings with risk level %s or above", minRisk)
	}

	items := make([]*rssItem, 0, len(findings))
	for _, f := range findings {
		items = append(items, g.toRSSItem(f))
	}

	doc := &rss{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &rssChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   desc,
			AtomLink:      &atomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: g.now().UTC().Format(time.RFC1123Z),
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

func (g *Generator) toRSSItem(f domain.Finding) *rssItem {
	desc := fmt.Sprintf("Risk: %s, sentiment %.2f, status %s", f.RiskLevel, f.Sentiment, f.Status)
	if f.Content != "" {
		desc += "\n\n" + f.Content
	}
	if f.Comments != "" {
		desc += "\n\nComments: " + f.Comments
	}

	return &rssItem{
		Title:       fmt.Sprintf("[%s] %s", strings.ToUpper(string(f.RiskLevel)), f.Title),
		Link:        f.URL,
		GUID:        rssGUID{Value: f.ID},
		Description: desc,
		PubDate:     f.PublishedDate.UTC().Format(time.RFC1123Z),
		Categories:  []string{string(f.RiskLevel), f.SourceID},
	}
}
