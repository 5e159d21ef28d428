package uri

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Parse errors. [ErrInvalidCharacter] is wrapped with the name of the
// offending segment.
var (
	ErrEmpty            = errors.New("uri is empty")
	ErrInvalidScheme    = errors.New("scheme is not valid")
	ErrInvalidCharacter = errors.New("invalid character")
)

// URI is a parsed URI reference. It is immutable after [Parse]:
// parsing failure never yields a partially populated URI.
type URI struct {
	Scheme   string // lowercased, "" on relative references
	UserInfo string
	Host     string // lowercased, IP literals keep their brackets
	Port     uint16 // explicit value, or default derived from scheme
	Path     string // "/" when absent
	Query    string
	Fragment string
}

// IsRelativeRef reports whether u is a relative reference.
// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-4.2
func (u URI) IsRelativeRef() bool { return u.Scheme == "" }

// DefaultPort returns the conventional port for scheme.
func DefaultPort(scheme string) uint16 {
	if scheme == "https" {
		return 443
	}
	return 80
}

// Parse decomposes raw into its URI components in a single
// left-to-right scan. The only backtracking is the authority's
// right-to-left port search.
func Parse(raw string) (URI, error) {
	if raw == "" {
		return URI{}, ErrEmpty
	}

	var u URI

	// A ':' before the first '/' means the prefix is a scheme.
	// Otherwise the whole input is a relative reference.
	// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-4.2
	rest := raw
	if idx := strings.IndexAny(raw, ":/"); idx >= 0 && raw[idx] == ':' {
		scheme := raw[:idx]
		if err := assertValidScheme(scheme); err != nil {
			return URI{}, err
		}
		// Scheme is case-insensitive. Store it lowercased.
		u.Scheme = strings.ToLower(scheme)
		rest = raw[idx+1:]
	}

	hasAuthority := strings.HasPrefix(rest, "//")
	if hasAuthority {
		var authority string
		authority, rest = rest[2:], ""
		if idx := strings.IndexAny(authority, "/?#"); idx >= 0 {
			authority, rest = authority[:idx], authority[idx:]
		}

		if err := parseAuthority(&u, authority); err != nil {
			return URI{}, err
		}
	}
	if u.Port == 0 {
		u.Port = DefaultPort(u.Scheme)
	}

	path, query, frag := splitPathQueryFrag(rest)

	if path == "" {
		path = "/"
	}
	if !isAllPathChars(path) {
		return URI{}, errors.Wrap(ErrInvalidCharacter, "in path")
	}
	u.Path = path

	if query != "" {
		query = query[1:] // Strip '?'.
		if !isAllQueryFragChars(query) {
			return URI{}, errors.Wrap(ErrInvalidCharacter, "in query")
		}
		u.Query = query
	}

	if frag != "" {
		frag = frag[1:] // Strip '#'.
		if !isAllQueryFragChars(frag) {
			return URI{}, errors.Wrap(ErrInvalidCharacter, "in fragment")
		}
		u.Fragment = frag
	}

	return u, nil
}

func parseAuthority(u *URI, authority string) error {
	if !isAllAuthorityChars(authority) {
		return errors.Wrap(ErrInvalidCharacter, "in authority")
	}

	host := authority
	if idx := strings.IndexByte(host, '@'); idx >= 0 {
		u.UserInfo, host = host[:idx], host[idx+1:]
	}

	host, portPart := splitHostPort(host)

	if portPart != "" {
		port, err := strconv.ParseUint(portPart, 10, 16)
		switch {
		case err != nil && isAllDigits(portPart):
			return errors.Wrap(ErrInvalidCharacter, "port out of range")
		case err != nil:
			return errors.Wrap(ErrInvalidCharacter, "in port")
		case port == 0:
			// An explicit zero port is not dialable; rejecting it beats
			// silently substituting the scheme default.
			return errors.Wrap(ErrInvalidCharacter, "port out of range")
		}
		u.Port = uint16(port)
	}

	// Host is case-insensitive. Store it lowercased.
	u.Host = strings.ToLower(host)

	return nil
}

// splitHostPort splits at the last ':' that is not inside an
// IP literal's brackets. The port part excludes the colon.
func splitHostPort(authority string) (host, portPart string) {
	host = authority
	if strings.HasPrefix(host, "[") {
		idx := strings.LastIndexByte(host, ']')
		if idx < 0 {
			return host, ""
		}
		if cut := strings.LastIndexByte(host[idx:], ':'); cut >= 0 {
			return host[:idx+cut], host[idx+cut+1:]
		}
		return host, ""
	}

	if idx := strings.LastIndexByte(host, ':'); idx >= 0 {
		return host[:idx], host[idx+1:]
	}
	return host, ""
}

func splitPathQueryFrag(raw string) (path, query, frag string) {
	if idx := strings.IndexByte(raw, '#'); idx >= 0 {
		frag = raw[idx:]
		raw = raw[:idx]
	}

	if idx := strings.IndexByte(raw, '?'); idx >= 0 {
		query = raw[idx:]
		raw = raw[:idx]
	}

	path = raw
	return
}

// RequestTarget returns the origin-form request target, "path[?query]".
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-3.2.1
func (u URI) RequestTarget() string {
	if u.Query == "" {
		return u.Path
	}
	return u.Path + "?" + u.Query
}

// HostPort returns "host[:port]", omitting the port when it equals the
// scheme's default.
func (u URI) HostPort() string {
	if u.Port == DefaultPort(u.Scheme) {
		return u.Host
	}
	return u.Host + ":" + strconv.FormatUint(uint64(u.Port), 10)
}

// Reference: https://datatracker.ietf.org/doc/html/rfc3986#section-5.3
func (u URI) String() string {
	b := new(strings.Builder)
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteByte(':')
	}

	if u.Host != "" || u.UserInfo != "" {
		b.WriteString("//")
		if u.UserInfo != "" {
			b.WriteString(u.UserInfo)
			b.WriteByte('@')
		}
		b.WriteString(u.HostPort())
	}

	b.WriteString(u.Path)

	if u.Query != "" {
		b.WriteByte('?')
		b.WriteString(u.Query)
	}

	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}

	return b.String()
}
