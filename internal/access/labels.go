package access

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys for the labels that replace amounts.
const (
	keyBucketUnder1M   = "revenue.bucket.under_1m"
	keyBucket1Mto5M    = "revenue.bucket.1m_5m"
	keyBucket5Mto10M   = "revenue.bucket.5m_10m"
	keyBucket10Mto50M  = "revenue.bucket.10m_50m"
	keyBucket50Mto100M = "revenue.bucket.50m_100m"
	keyBucketOver100M  = "revenue.bucket.over_100m"
	keyProjectStatus   = "revenue.client.in_progress"
)

// DefaultLocale is used when no locale is configured or requested.
var DefaultLocale = language.Korean

// SupportedLocales lists the locales labels are translated into. The first entry is the default.
var SupportedLocales = []language.Tag{language.Korean, language.English}

var localeMatcher = language.NewMatcher(SupportedLocales)

var labelEntries = []struct {
	key string
	ko  string
	en  string
}{
	{keyBucketUnder1M, "100만원 미만", "under 1M"},
	{keyBucket1Mto5M, "100만원~500만원", "1M-5M"},
	{keyBucket5Mto10M, "500만원~1,000만원", "5M-10M"},
	{keyBucket10Mto50M, "1,000만원~5,000만원", "10M-50M"},
	{keyBucket50Mto100M, "5,000만원~1억원", "50M-100M"},
	{keyBucketOver100M, "1억원 이상", "100M and over"},
	{keyProjectStatus, "프로젝트 진행 중", "project in progress"},
}

var labelCatalog = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLocale))
	for _, e := range labelEntries {
		if err := b.SetString(language.Korean, e.key, e.ko); err != nil {
			panic(err)
		}
		if err := b.SetString(language.English, e.key, e.en); err != nil {
			panic(err)
		}
	}
	return b
}

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(labelCatalog))
}

// MatchLocale picks the supported locale that best fits an Accept-Language header or locale name.
// Unparseable or empty input yields DefaultLocale.
func MatchLocale(accept string) language.Tag {
	if accept == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale
	}
	return SupportedLocales[idx]
}
