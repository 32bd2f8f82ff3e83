package compile

import (
	"net/url"
	"strings"

	"github.com/alnah/go-mdcanon/internal/block"
)

// embedHosts maps hosts to the embed they render as.
var embedHosts = map[string]block.EmbedKind{
	"github.com":      block.EmbedGitHub,
	"gist.github.com": block.EmbedGitHub,
	"twitter.com":     block.EmbedTweet,
	"x.com":           block.EmbedTweet,
	"youtube.com":     block.EmbedYouTube,
	"youtu.be":        block.EmbedYouTube,
}

// zennEmbedKinds maps `@[kind](url)` names to embed kinds.
var zennEmbedKinds = map[string]block.EmbedKind{
	"github":  block.EmbedGitHub,
	"tweet":   block.EmbedTweet,
	"twitter": block.EmbedTweet,
	"youtube": block.EmbedYouTube,
	"card":    block.EmbedCard,
}

// embedKind classifies url by host, returning fallback for other hosts.
func embedKind(rawURL string, fallback block.EmbedKind) block.EmbedKind {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	if kind, ok := embedHosts[host]; ok {
		return kind
	}
	return fallback
}

// linkNode returns an embed for links to embeddable hosts and a plain link
// otherwise.
func linkNode(href, text string) block.Node {
	if kind := embedKind(href, ""); kind != "" {
		return block.Embed{URL: href, Provider: kind}
	}
	return block.Link{Href: href, Text: text}
}

func zennEmbed(kind, href string) block.Node {
	k, ok := zennEmbedKinds[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return block.Errorf("unknown embed kind: %s", kind)
	}
	if href == "" {
		return block.Errorf("embed requires a url")
	}
	return block.Embed{URL: href, Provider: k}
}
