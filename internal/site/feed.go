package site

import (
	"bytes"
	"encoding/xml"
	"time"
)

type rssXML struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	ContentNS string     `xml:"xmlns:content,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Generator     string    `xml:"generator,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate,omitempty"`
	GUID        rssGUID  `xml:"guid"`
	Categories  []string `xml:"category,omitempty"`
	Content     rssCDATA `xml:"content:encoded"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssCDATA struct {
	Text string `xml:",cdata"`
}

// FeedItem is one published post in the feed.
type FeedItem struct {
	Title       string
	URL         string
	Date        time.Time
	Description string
	Categories  []string
	HTML        string
}

// FeedChannel describes the feed itself.
type FeedChannel struct {
	Title       string
	Link        string
	Description string
	Generator   string
	Updated     time.Time
}

// BuildFeed encodes an RSS 2.0 document with the full post HTML in content:encoded.
// Items keep the given order.
func BuildFeed(ch FeedChannel, items []FeedItem) ([]byte, error) {
	out := make([]rssItem, 0, len(items))
	for _, it := range items {
		item := rssItem{
			Title:       it.Title,
			Link:        it.URL,
			Description: it.Description,
			GUID:        rssGUID{IsPermaLink: false, Value: it.URL},
			Categories:  it.Categories,
			Content:     rssCDATA{Text: it.HTML},
		}
		if !it.Date.IsZero() {
			item.PubDate = it.Date.UTC().Format(time.RFC1123Z)
		}
		out = append(out, item)
	}

	feed := rssXML{
		Version:   "2.0",
		ContentNS: "http://purl.org/rss/1.0/modules/content/",
		Channel: rssChannel{
			Title:       ch.Title,
			Link:        ch.Link,
			Description: ch.Description,
			Generator:   ch.Generator,
			Items:       out,
		},
	}
	if !ch.Updated.IsZero() {
		feed.Channel.LastBuildDate = ch.Updated.UTC().Format(time.RFC1123Z)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
