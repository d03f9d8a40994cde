package httpapi

import (
	"html/template"

	"github.com/MarkoPoloResearchLab/areaconfig/internal/model"
	"github.com/MarkoPoloResearchLab/areaconfig/pkg/footer"
)

const (
	footerElementID    = "area-footer"
	footerBaseClass    = "area-footer border-top mt-auto py-3"
	footerInnerClass   = "container d-flex flex-wrap justify-content-between gap-2"
	footerBrandClass   = "area-footer__brand"
	footerLinksClass   = "area-footer__links d-flex gap-3"
	footerSocialClass  = "area-footer__social list-inline mb-0"
	footerDeleteLabel  = "Delete account"
	footerPrivacyLabel = "Privacy"
	footerTermsLabel   = "Terms"
)

// footerLabels holds the legal link labels per supported language.
var footerLabels = map[string][3]string{
	"en": {footerPrivacyLabel, footerTermsLabel, footerDeleteLabel},
	"te": {"గోప్యత", "నిబంధనలు", "ఖాతా తొలగించండి"},
}

func footerConfigForTenant(config model.AreaConfig, companyName string, languageCode string) footer.Config {
	labels, found := footerLabels[languageCode]
	if !found {
		labels = footerLabels["en"]
	}
	return footer.Config{
		ElementID:        footerElementID,
		BaseClass:        footerBaseClass,
		InnerClass:       footerInnerClass,
		BrandClass:       footerBrandClass,
		LinksClass:       footerLinksClass,
		SocialClass:      footerSocialClass,
		BrandName:        companyName,
		BrandURL:         config.Company.Website,
		SupportEmail:     config.Company.Email,
		PrivacyLinkHref:  config.URLs.PrivacyPolicyPath,
		PrivacyLinkLabel: labels[0],
		TermsLinkHref:    config.URLs.TermsPath,
		TermsLinkLabel:   labels[1],
		DeleteLinkHref:   config.URLs.DeleteAccountPath,
		DeleteLinkLabel:  labels[2],
		SocialLinks:      footer.SocialLinks(config.SocialLinks),
	}
}

func renderTenantFooter(config model.AreaConfig, companyName string, languageCode string) (template.HTML, error) {
	return footer.Render(footerConfigForTenant(config, companyName, languageCode))
}
