package httpx

import (
	"net/http"
	"path"
	"strings"
)

// Access is the protection level of a route.
type Access int

const (
	Protected Access = iota
	Public
)

func (a Access) String() string {
	if a == Public {
		return "public"
	}
	return "protected"
}

// Rule classifies requests by method and path.
//
// An empty Method matches every method, and a GET rule also covers HEAD.
// A Path ending in "/" covers that whole subtree, anything else must match
// exactly.
type Rule struct {
	Method string
	Path   string
	Access Access
}

// AccessPolicy is an ordered route table consulted before any handler runs.
// The first matching rule wins; unmatched requests get the fallback.
type AccessPolicy struct {
	rules    []Rule
	fallback Access
}

// NewAccessPolicy builds a policy. Rules are evaluated in order.
func NewAccessPolicy(fallback Access, rules ...Rule) *AccessPolicy {
	cp := make([]Rule, len(rules))
	copy(cp, rules)
	return &AccessPolicy{rules: cp, fallback: fallback}
}

// Classify returns the access level for method and rawPath. The path is
// cleaned first so "/api/auth/../journal" is judged as "/api/journal".
func (p *AccessPolicy) Classify(method, rawPath string) Access {
	clean := cleanPath(rawPath)
	for _, rule := range p.rules {
		if rule.matches(method, clean) {
			return rule.Access
		}
	}
	return p.fallback
}

// Rules returns a copy of the table, used to render it at startup.
func (p *AccessPolicy) Rules() []Rule {
	cp := make([]Rule, len(p.rules))
	copy(cp, p.rules)
	return cp
}

func (r Rule) matches(method, clean string) bool {
	if r.Method != "" && r.Method != method {
		if !(r.Method == http.MethodGet && method == http.MethodHead) {
			return false
		}
	}

	if strings.HasSuffix(r.Path, "/") {
		root := strings.TrimSuffix(r.Path, "/")
		return clean == root || strings.HasPrefix(clean, r.Path)
	}
	return clean == r.Path
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return path.Clean(p)
}
