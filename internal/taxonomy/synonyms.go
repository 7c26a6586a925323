// Package taxonomy normalizes free-text category names and expands them into
// token vocabularies for substring matching. The category column is
// user-edited text, so matching has to tolerate spelling drift ("Women's
// Fashion" vs "women fashion" vs "ladies fashion").
package taxonomy

// wordSynonyms maps a single normalized word to its equivalents. The table is
// static data, not code: adding a synonym is a data change.
var wordSynonyms = map[string][]string{
	"electronics": {"electronics", "electronic", "gadgets", "gadget", "tech", "technology", "consumer electronics"},
	"fashion":     {"fashion", "style", "clothing", "apparel"},
	"women":       {"women", "womens", "ladies", "female", "girls"},
	"womens":      {"women", "womens", "ladies", "female", "girls"},
	"ladies":      {"ladies", "women", "womens", "female"},
	"men":         {"men", "mens", "male", "boys"},
	"mens":        {"men", "mens", "male", "boys"},
	"beauty":      {"beauty", "personal care", "cosmetics", "skincare", "makeup"},
	"home":        {"home", "home & kitchen", "home and kitchen", "household", "kitchen"},
	"computer":    {"computer", "computers", "pc", "desktop", "laptop", "notebook", "ultrabook", "technology", "electronics"},
	"computers":   {"computers", "computer", "pc", "desktop", "laptop", "notebook", "ultrabook", "technology", "electronics"},
	"accessories": {"accessories", "accessory", "peripherals", "peripheral", "pc accessories", "computer accessories", "gadgets"},
	"accessory":   {"accessory", "accessories", "peripherals", "peripheral", "pc accessories", "computer accessories", "gadgets"},
	"mobile":      {"mobile", "smartphone", "phone", "cell phone", "cellphone", "mobile phone", "android phone", "iphone", "smart phone", "smartphones", "phones"},
	"smartphone":  {"smartphone", "smartphones", "phone", "phones", "mobile", "mobile phone", "cell phone", "cellphone", "android phone", "iphone", "smart phone"},
	"smartphones": {"smartphone", "smartphones", "phone", "phones", "mobile", "mobile phone", "cell phone", "cellphone", "android phone", "iphone", "smart phone"},
	"phones":      {"phone", "phones", "smartphone", "smartphones", "mobile", "mobile phone", "cell phone", "cellphone"},
	"earphones":   {"earphones", "earbuds", "earbud", "ear pods", "earpods", "headphones", "headset", "true wireless", "tws"},
	"headphones":  {"headphones", "headset", "earphones", "earbuds", "ear pods", "earpods"},
	"tv":          {"tv", "tvs", "television", "smart tv", "oled tv", "led tv"},
	"tvs":         {"tv", "tvs", "television", "smart tv", "oled tv", "led tv"},
	"camera":      {"camera", "cameras", "dslr", "mirrorless", "photography"},
	"cameras":     {"camera", "cameras", "dslr", "mirrorless", "photography"},
	"laptop":      {"laptop", "laptops", "notebook", "ultrabook", "computer"},
	"laptops":     {"laptop", "laptops", "notebook", "ultrabook", "computer"},
}

// phraseRule adds phrase variants when all trigger words appear, in any
// order, in the normalized input.
type phraseRule struct {
	// anyOf groups: the rule fires when every group has at least one word
	// present in the input.
	anyOf   [][]string
	phrases []string
}

var phraseRules = []phraseRule{
	{
		anyOf: [][]string{
			{"fashion"},
			{"women", "womens", "ladies"},
		},
		phrases: []string{"women fashion", "womens fashion", "ladies fashion", "female fashion", "fashion women", "fashion for women"},
	},
	{
		anyOf: [][]string{
			{"fashion"},
			{"men", "mens"},
		},
		phrases: []string{"men fashion", "mens fashion", "male fashion", "fashion men", "fashion for men"},
	},
	{
		anyOf: [][]string{
			{"electronics", "tech", "technology"},
		},
		phrases: []string{"electronics and gadgets", "electronics & gadgets", "tech gadgets", "consumer electronics"},
	},
}

// genderSynonyms maps a normalized gender value to the stored values it
// should match. "common" is a legacy spelling of "unisex".
var genderSynonyms = map[string][]string{
	"men":    {"men"},
	"women":  {"women"},
	"boy":    {"boy", "boys"},
	"girl":   {"girl", "girls"},
	"boys":   {"boys", "boy"},
	"girls":  {"girls", "girl"},
	"kids":   {"kids"},
	"unisex": {"unisex", "common"},
}

// GenderVariants normalizes a requested gender filter and returns the stored
// values that satisfy it. Empty or "all" means no filtering.
func GenderVariants(raw string) []string {
	g := Normalize(raw)
	if g == "" || g == "all" {
		return nil
	}
	if g == "common" {
		g = "unisex"
	}
	if variants, ok := genderSynonyms[g]; ok {
		return variants
	}
	return []string{g}
}
