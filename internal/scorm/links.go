package scorm

import "strings"

// LinkPair holds the two launch URL forms of a resource. Both are nil for an empty href.
type LinkPair struct {
	PackageRelative *string
	ServerRelative  *string
}

// LinkGenerator composes launch URLs for resources of one manifest.
type LinkGenerator struct {
	Config           Config
	ManifestLocation string
	Version          string
	EscapeDelimiters bool
}

// Generate builds the package-relative and server-relative launch URLs for href.
//
// The package-relative path is href, prefixed with BasePath+"/" when BasePath is set.
// The server-relative path prefixes that with the manifest's own directory. Both get the
// same learner query string appended after URI encoding.
func (g LinkGenerator) Generate(href string, res Resource) LinkPair {
	if href == "" {
		return LinkPair{}
	}

	packagePath := href
	if g.Config.BasePath != "" {
		packagePath = g.Config.BasePath + "/" + href
	}
	serverPath := ManifestDir(g.ManifestLocation) + packagePath

	query := g.QueryString(res)
	pkg := g.encodePath(packagePath) + "?" + query
	srv := g.encodePath(serverPath) + "?" + query
	return LinkPair{PackageRelative: &pkg, ServerRelative: &srv}
}

// QueryString renders the learner parameters in their fixed order.
func (g LinkGenerator) QueryString(res Resource) string {
	version := g.Version
	if version == "" {
		version = VersionUnknown
	}
	params := [][2]string{
		{"studentId", g.Config.StudentID},
		{"studentName", g.Config.StudentName},
		{"courseId", g.Config.CourseID},
		{"scormVersion", version},
		{"masteryScore", res.MasteryScore},
	}

	var sb strings.Builder
	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(queryEscape(p[0]))
		sb.WriteByte('=')
		sb.WriteString(queryEscape(p[1]))
	}
	return sb.String()
}

func (g LinkGenerator) encodePath(p string) string {
	encoded := EncodeURI(p)
	if g.EscapeDelimiters {
		encoded = EscapeDelimiters(encoded)
	}
	return encoded
}

// ManifestDir returns location up to and including its last "/", or "" when it has none.
func ManifestDir(location string) string {
	return location[:strings.LastIndex(location, "/")+1]
}

// formSafe holds the bytes the WHATWG urlencoded serializer leaves as-is.
const formSafe = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" + "*-._"

// queryEscape percent-encodes a query component like the WHATWG form serializer,
// except that spaces become %20 instead of '+'.
func queryEscape(s string) string {
	return percentEncode(s, formSafe)
}

// uriSafe holds the bytes EncodeURI leaves as-is: RFC 3986 unreserved and reserved
// characters plus '#'.
const uriSafe = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" +
	"-_.!~*'()" + ";,/?:@&=+$#"

// EncodeURI percent-encodes every UTF-8 byte of s outside uriSafe, so existing URL
// structure characters survive while spaces, '%' and non-ASCII text are escaped.
func EncodeURI(s string) string {
	return percentEncode(s, uriSafe)
}

func percentEncode(s, safe string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(safe, c) >= 0 {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}

// EscapeDelimiters re-escapes '&' and '?' left intact by EncodeURI so a composed path
// can be embedded as a single query value of an enclosing URL.
func EscapeDelimiters(s string) string {
	return strings.NewReplacer("&", "%26", "?", "%3F").Replace(s)
}
