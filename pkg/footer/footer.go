package footer

import (
	"bytes"
	"html/template"
	"sort"
	"strings"
)

// Link describes a navigation entry displayed inside the footer.
type Link struct {
	Label string
	URL   string
}

// Config captures the tenant details and style hooks required to render the footer.
type Config struct {
	ElementID        string
	BaseClass        string
	InnerClass       string
	BrandClass       string
	LinksClass       string
	SocialClass      string
	BrandName        string
	BrandURL         string
	SupportEmail     string
	PrivacyLinkHref  string
	PrivacyLinkLabel string
	TermsLinkHref    string
	TermsLinkLabel   string
	DeleteLinkHref   string
	DeleteLinkLabel  string
	SocialLinks      []Link
}

var (
	footerTemplate = template.Must(template.New("footer").Option("missingkey=error").Parse(`<footer id="{{.ElementID}}" class="{{.BaseClass}}">
  <div class="{{.InnerClass}}">
    <div class="{{.BrandClass}}">
      {{if .BrandURL}}<a href="{{.BrandURL}}" target="_blank" rel="noopener noreferrer">{{.BrandName}}</a>{{else}}<span>{{.BrandName}}</span>{{end}}
      {{if .SupportEmail}}<a href="mailto:{{.SupportEmail}}">{{.SupportEmail}}</a>{{end}}
    </div>
    <nav class="{{.LinksClass}}">
      {{if .PrivacyLinkHref}}<a href="{{.PrivacyLinkHref}}">{{.PrivacyLinkLabel}}</a>{{end}}
      {{if .TermsLinkHref}}<a href="{{.TermsLinkHref}}">{{.TermsLinkLabel}}</a>{{end}}
      {{if .DeleteLinkHref}}<a href="{{.DeleteLinkHref}}">{{.DeleteLinkLabel}}</a>{{end}}
    </nav>
    {{if .SocialLinks}}<ul class="{{.SocialClass}}">
      {{range .SocialLinks}}
      <li><a href="{{.URL}}" target="_blank" rel="noopener noreferrer">{{.Label}}</a></li>
      {{end}}
    </ul>{{end}}
  </div>
</footer>`))
)

// Render returns the footer HTML for the provided configuration.
func Render(config Config) (template.HTML, error) {
	var buffer bytes.Buffer
	if err := footerTemplate.Execute(&buffer, config); err != nil {
		return "", err
	}
	return template.HTML(buffer.String()), nil
}

// SocialLinks turns a platform-to-URL map into footer links sorted by platform,
// dropping platforms without a URL.
func SocialLinks(links map[string]string) []Link {
	platforms := make([]string, 0, len(links))
	for platform, link := range links {
		if strings.TrimSpace(link) != "" {
			platforms = append(platforms, platform)
		}
	}
	sort.Strings(platforms)

	footerLinks := make([]Link, 0, len(platforms))
	for _, platform := range platforms {
		footerLinks = append(footerLinks, Link{Label: platformLabel(platform), URL: links[platform]})
	}
	return footerLinks
}

func platformLabel(platform string) string {
	trimmed := strings.TrimSpace(platform)
	if trimmed == "" {
		return trimmed
	}
	return strings.ToUpper(trimmed[:1]) + trimmed[1:]
}
