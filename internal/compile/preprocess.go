package compile

import (
	"regexp"
	"strings"

	"github.com/alnah/go-mdcanon/internal/attrs"
	"github.com/alnah/go-mdcanon/internal/fence"
)

// Precompiled regex patterns for performance.
var (
	// :::message alert
	zennMessageAlert = regexp.MustCompile(`(?m)^([ \t]*:{3,})message[ \t]+alert[ \t]*$`)

	// :::details Title
	zennDetails = regexp.MustCompile(`(?m)^([ \t]*:{3,})details[ \t]+([^{\s][^\n]*?)[ \t]*$`)

	// ![alt](src =250x100)
	imageSize = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)[ \t]+=([0-9]*)x([0-9]*)\)`)
)

// Preprocess applies the render-side rewrites, outside code fences:
// the Zenn directive forms and sized images.
func Preprocess(markdown string) string {
	return fence.TransformOutsideFences(markdown, func(seg string) string {
		return ImageSize(Zenn(seg))
	})
}

// Zenn rewrites `:::message alert` into `:::message{variant="alert"}` and
// `:::details Title` into `:::details{title="Title"}`.
func Zenn(text string) string {
	if !strings.Contains(text, ":::") {
		return text
	}
	text = zennMessageAlert.ReplaceAllString(text, `${1}message{variant="alert"}`)
	return zennDetails.ReplaceAllStringFunc(text, func(line string) string {
		sub := zennDetails.FindStringSubmatch(line)
		return sub[1] + "details{title=" + attrs.QuoteString(sub[2]) + "}"
	})
}

// ImageSize rewrites `![alt](src =WxH)` into `![alt](src){width=W height=H}`.
// Either dimension may be omitted.
func ImageSize(text string) string {
	if !strings.Contains(text, "![") {
		return text
	}
	return imageSize.ReplaceAllStringFunc(text, func(img string) string {
		sub := imageSize.FindStringSubmatch(img)
		var size []string
		if sub[3] != "" {
			size = append(size, "width="+sub[3])
		}
		if sub[4] != "" {
			size = append(size, "height="+sub[4])
		}
		out := "![" + sub[1] + "](" + sub[2] + ")"
		if len(size) > 0 {
			out += "{" + strings.Join(size, " ") + "}"
		}
		return out
	})
}
