// Package vintage provides the vintage-quality chart: a read-only lookup
// from (region, year) to a score on the 0-20 scale, with region-name
// normalization in front of it.
package vintage

import (
	"context"
	"strings"
)

// regionAliases canonicalizes free-text region names before the chart
// lookup. Keys are lowercased, accent-stripped variants.
var regionAliases = map[string]string{
	"bordeaux":       "Bordeaux",
	"medoc":          "Bordeaux",
	"médoc":          "Bordeaux",
	"saint-estephe":  "Bordeaux",
	"burgundy":       "Bourgogne",
	"bourgogne":      "Bourgogne",
	"rhone":          "Rhône",
	"rhône":          "Rhône",
	"cotes du rhone": "Rhône",
	"côtes du rhône": "Rhône",
	"loire":          "Loire",
	"champagne":      "Champagne",
	"alsace":         "Alsace",
	"provence":       "Provence",
	"languedoc":      "Languedoc",
	"douro":          "Douro",
	"porto":          "Douro",
	"piedmont":       "Piemonte",
	"piemonte":       "Piemonte",
	"tuscany":        "Toscana",
	"toscana":        "Toscana",
	"rioja":          "Rioja",
}

// chart holds per-region vintage scores on the 0-20 scale. Coverage is
// intentionally partial; absent pairs simply return no score.
var chart = map[string]map[int]float64{
	"Bordeaux": {
		2000: 18, 2005: 19, 2009: 19.5, 2010: 19.5, 2015: 18,
		2016: 19, 2018: 18.5, 2019: 18, 2020: 18.5, 2022: 19,
		2013: 13, 2017: 15.5, 2021: 15,
	},
	"Bourgogne": {
		2005: 18.5, 2009: 18, 2010: 18.5, 2015: 19, 2016: 17.5,
		2018: 17.5, 2019: 18.5, 2020: 18, 2022: 18,
		2011: 15, 2021: 14.5,
	},
	"Rhône": {
		2005: 18, 2007: 18.5, 2009: 18, 2010: 19, 2015: 18.5,
		2016: 19, 2017: 17.5, 2019: 18, 2022: 17.5,
		2014: 14.5, 2021: 15,
	},
	"Loire": {
		2005: 17.5, 2010: 17, 2014: 17, 2015: 17.5, 2018: 17.5,
		2020: 17, 2022: 17.5,
		2012: 14, 2021: 14,
	},
	"Champagne": {
		2002: 18.5, 2008: 19, 2012: 18, 2013: 17, 2018: 17.5,
		2019: 17.5,
	},
	"Douro": {
		2000: 18.5, 2003: 18, 2007: 18.5, 2011: 19.5, 2016: 19,
		2017: 18.5,
	},
	"Piemonte": {
		2010: 19, 2013: 18, 2016: 19.5, 2019: 18.5,
	},
	"Toscana": {
		2010: 18.5, 2015: 19, 2016: 19, 2019: 18,
	},
	"Rioja": {
		2001: 18.5, 2004: 18.5, 2005: 18, 2010: 18.5,
	},
}

// Chart implements outbound.VintageChart over the embedded table.
type Chart struct{}

// NewChart creates the static chart.
func NewChart() *Chart {
	return &Chart{}
}

// Normalize maps a free-text region to its canonical chart name. Unknown
// regions normalize to their trimmed input, which will miss the chart.
func Normalize(region string) string {
	key := strings.ToLower(strings.TrimSpace(region))
	if canonical, ok := regionAliases[key]; ok {
		return canonical
	}
	// Substring match rescues inputs like "Bordeaux - Margaux".
	for alias, canonical := range regionAliases {
		if strings.Contains(key, alias) {
			return canonical
		}
	}
	return strings.TrimSpace(region)
}

// Score returns the 0-20 score for a (region, vintage) pair, with the
// boolean reporting chart coverage.
func (c *Chart) Score(ctx context.Context, region string, vintage int) (float64, bool) {
	years, ok := chart[Normalize(region)]
	if !ok {
		return 0, false
	}
	score, ok := years[vintage]
	return score, ok
}
