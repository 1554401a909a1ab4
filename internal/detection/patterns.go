package detection

import "github.com/dlclark/regexp2"

// Labels reported in findings.
const (
	LabelAPIKey       = "API Key"
	LabelAccessToken  = "Access Token"
	LabelPassword     = "Password"
	LabelJWT          = "JWT"
	LabelPrivateKey   = "Private Key"
	LabelAWSAccessKey = "AWS Access Key"
	LabelEmail        = "Email Address"
	LabelIPAddress    = "IP Address"
)

// Pattern is one entry of the registry. When Expr has a capturing group,
// the first group is reported instead of the whole match.
type Pattern struct {
	Label string
	Expr  string

	re    *regexp2.Regexp
	group int
}

// registry is evaluated in order; labels in a Finding follow this order.
// The IP rule does not validate octet ranges.
var registry = compile([]Pattern{
	{Label: LabelAPIKey, Expr: `(?:api[_-]?key|apikey)[\s=:"']+([a-zA-Z0-9_\-]{10,})`},
	{Label: LabelAccessToken, Expr: `(?:token|bearer)[\s=:"']+([a-zA-Z0-9.\-_]{10,})`},
	{Label: LabelPassword, Expr: `(?:password|pwd)[\s=:"']+([^\s"']{5,})`},
	{Label: LabelJWT, Expr: `eyJ[a-zA-Z0-9\-_]+\.[a-zA-Z0-9\-_]+\.[a-zA-Z0-9\-_]+`},
	{Label: LabelPrivateKey, Expr: `-----BEGIN (?:RSA|EC|DSA|OPENSSH) PRIVATE KEY-----`},
	{Label: LabelAWSAccessKey, Expr: `AKIA[0-9A-Z]{16}`},
	{Label: LabelEmail, Expr: `[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`},
	{Label: LabelIPAddress, Expr: `\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`},
})

func compile(patterns []Pattern) []Pattern {
	for i := range patterns {
		re := regexp2.MustCompile(patterns[i].Expr, regexp2.IgnoreCase)
		patterns[i].re = re
		// GetGroupNumbers always includes group 0.
		if len(re.GetGroupNumbers()) > 1 {
			patterns[i].group = 1
		}
	}
	return patterns
}

// Labels returns the registry labels in evaluation order.
func Labels() []string {
	labels := make([]string, len(registry))
	for i, p := range registry {
		labels[i] = p.Label
	}
	return labels
}

// FindAll returns every non-overlapping match of p in content, left to
// right, without deduplication. Empty values are skipped.
func (p Pattern) FindAll(content string) []string {
	var out []string
	m, err := p.re.FindStringMatch(content)
	for ; m != nil && err == nil; m, err = p.re.FindNextMatch(m) {
		v := m.String()
		if p.group > 0 {
			v = m.GroupByNumber(p.group).String()
		}
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
