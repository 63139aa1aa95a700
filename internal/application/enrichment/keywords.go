package enrichment

// Keyword tables for the tasting-note analyzer. The analyzer is a
// deterministic signal extractor, not an NLP model: a trigger hit bumps
// its axis, and modifier words in a small context window scale the bump.
// Tables carry English and French triggers because cellar notes come in
// both languages. False positives from ambiguous words are accepted.

// Taste axes, used as adjustment keys.
const (
	axisBody       = "body"
	axisAcidity    = "acidity"
	axisTannin     = "tannin"
	axisSweetness  = "sweetness"
	axisFruitiness = "fruitiness"
	axisOak        = "oak"
	axisComplexity = "complexity"
	axisIntensity  = "intensity"
)

// tasteTriggers maps each axis to the phrases that raise it.
var tasteTriggers = map[string][]string{
	axisBody: {
		"full-bodied", "full bodied", "rich", "dense", "opulent",
		"corsé", "corse", "charpenté", "charpente", "puissant",
	},
	axisAcidity: {
		"crisp", "zesty", "bright", "tense", "racy", "fresh",
		"vif", "vive", "nerveux", "acidulé", "acidule", "tendu",
	},
	axisTannin: {
		"tannic", "grippy", "astringent", "firm tannins", "chewy",
		"tannique", "astringent", "serré", "serre",
	},
	axisSweetness: {
		"sweet", "honeyed", "off-dry", "luscious",
		"doux", "moelleux", "liquoreux", "sucré", "sucre",
	},
	axisFruitiness: {
		"fruity", "jammy", "juicy", "berry", "ripe fruit",
		"fruité", "fruite", "gourmand", "croquant",
	},
	axisOak: {
		"oaky", "vanilla", "toasted", "smoky", "cedar", "woody",
		"boisé", "boise", "vanille", "toasté", "toaste", "fumé", "fume",
	},
	axisComplexity: {
		"complex", "layered", "nuanced", "deep",
		"complexe", "profond", "racé", "race",
	},
	axisIntensity: {
		"intense", "concentrated", "expressive", "powerful", "explosive",
		"concentré", "concentre", "expressif",
	},
}

// amplifiers scale a hit up when found near the trigger.
var amplifiers = []string{
	"very", "extremely", "massively", "intensely", "remarkably",
	"très", "tres", "beaucoup", "extrêmement", "extremement",
}

// attenuators scale a hit down when found near the trigger.
var attenuators = []string{
	"slightly", "subtle", "subtly", "hint", "touch", "delicate", "gentle",
	"léger", "leger", "légèrement", "legerement", "discret", "discrète",
}

// Increment sizes: a bare trigger hit, an amplified hit, an attenuated hit.
const (
	incrementMedium = 1.0
	incrementLarge  = 1.5
	incrementSmall  = 0.5
)

// modifierWindow is how many bytes around a trigger are scanned for
// amplifiers and attenuators.
const modifierWindow = 24
