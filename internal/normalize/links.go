package normalize

import (
	"regexp"
	"strings"

	"github.com/alnah/go-mdcanon/internal/fence"
	"github.com/alnah/go-mdcanon/internal/fileutil"
)

// markdownLink matches [text](target "title") and its image form.
var markdownLink = regexp.MustCompile(`(!?)\[([^\]]*)\]\(([^)\s]*)((?:\s+"[^"]*")?)\)`)

// RewriteLinks rewrites internal markdown link targets outside code fences.
// The version prefix segment is stripped, then root-relative targets are
// placed under namespace. Images and external, fragment or mailto targets are
// left alone.
func RewriteLinks(content, versionPrefix, namespace string) string {
	namespace = strings.Trim(namespace, "/")
	if !strings.Contains(content, "](") {
		return content
	}
	return fence.TransformOutsideFences(content, func(seg string) string {
		return markdownLink.ReplaceAllStringFunc(seg, func(link string) string {
			sub := markdownLink.FindStringSubmatch(link)
			if sub[1] == "!" || !fileutil.IsInternalLink(sub[3]) {
				return link
			}
			target := withNamespace(StripVersionPrefix(sub[3], versionPrefix), namespace)
			if target == sub[3] {
				return link
			}
			return "[" + sub[2] + "](" + target + sub[4] + ")"
		})
	})
}

// versionSegment matches a leading "v<digits>" path segment.
var versionSegment = regexp.MustCompile(`^/?v[0-9]+(?:/|$)`)

// StripVersionPrefix removes leading version segments such as "/v2/" or
// "v2/" from target. "/v2" alone becomes "/". An empty versionPrefix
// matches any "v<digits>" segment.
func StripVersionPrefix(target, versionPrefix string) string {
	versionPrefix = strings.Trim(versionPrefix, "/")
	if versionPrefix == "" {
		for {
			loc := versionSegment.FindStringIndex(target)
			if loc == nil {
				return target
			}
			rest := target[loc[1]:]
			switch {
			case strings.HasPrefix(target, "/"):
				target = "/" + rest
			case rest == "":
				return target
			default:
				target = rest
			}
		}
	}
	for {
		switch {
		case strings.HasPrefix(target, "/"+versionPrefix+"/"):
			target = target[len(versionPrefix)+1:]
		case strings.HasPrefix(target, versionPrefix+"/"):
			target = target[len(versionPrefix)+1:]
		case target == "/"+versionPrefix:
			return "/"
		default:
			return target
		}
	}
}

// withNamespace prefixes a root-relative target with namespace unless it is
// already there.
func withNamespace(target, namespace string) string {
	if namespace == "" || !strings.HasPrefix(target, "/") {
		return target
	}
	prefix := "/" + namespace
	if target == prefix || strings.HasPrefix(target, prefix+"/") ||
		strings.HasPrefix(target, prefix+"#") || strings.HasPrefix(target, prefix+"?") {
		return target
	}
	if target == "/" {
		return prefix
	}
	return prefix + target
}
