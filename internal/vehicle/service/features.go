package service

import "strings"

// featureVocabulary is scanned in order; the first five matches win.
var featureVocabulary = []string{
	"leather seats",
	"sunroof",
	"moonroof",
	"navigation",
	"backup camera",
	"bluetooth",
	"heated seats",
	"third row",
	"remote start",
	"alloy wheels",
	"tow package",
	"apple carplay",
	"android auto",
}

const maxKeyFeatures = 5

// ExtractKeyFeatures pulls recognized equipment terms out of free text by
// case-insensitive substring match.
func ExtractKeyFeatures(text string) []string {
	haystack := strings.ToLower(text)
	var features []string
	for _, term := range featureVocabulary {
		if strings.Contains(haystack, term) {
			features = append(features, term)
			if len(features) == maxKeyFeatures {
				break
			}
		}
	}
	return features
}
