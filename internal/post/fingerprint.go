package post

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
)

// Fingerprint computes the content fingerprint of a post over its canonical
// frontmatter and raw body. A stored fingerprint field is excluded.
func Fingerprint(n *Node) (string, error) {
	fields := make(map[string]any, len(n.Frontmatter))
	for k, v := range n.Frontmatter {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}

	fm := ""
	if len(fields) > 0 {
		serialized, err := frontmatter.SerializeYAML(fields, frontmatter.Style{Newline: "\n"})
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(serialized), "\n")
	}

	return mdfp.CalculateFingerprintFromParts(fm, n.RawBody), nil
}

// Fingerprints returns the fingerprint of every node keyed by slug.
func Fingerprints(nodes []*Node) (map[string]string, error) {
	out := make(map[string]string, len(nodes))
	for _, n := range nodes {
		fp, err := Fingerprint(n)
		if err != nil {
			return nil, err
		}
		out[n.Slug] = fp
	}
	return out, nil
}
