package services

import (
	"place-map-service/internal/domain"
	"strings"

	"golang.org/x/text/cases"
)

type categoryRule struct {
	category domain.Category
	keywords []string
}

// Checked in order; the first rule with a matching keyword wins.
var categoryRules = []categoryRule{
	{domain.CategoryCulture, []string{"hrad", "zamek", "pamat", "divad", "muzea", "galerie", "cirkevni"}},
	{domain.CategoryNature, []string{"prirodni", "park", "rozhled"}},
	{domain.CategoryGastronomy, []string{"pivovar", "restaurace", "kavarna"}},
	{domain.CategoryLeisure, []string{"kino", "zabav", "zoo"}},
	{domain.CategoryWellness, []string{"lazne", "koupani", "wellness"}},
}

// Categorize maps a category label (kategorie or source_file) to a category
// by case-insensitive keyword matching.
func Categorize(label string) domain.Category {
	if strings.TrimSpace(label) == "" {
		return domain.CategoryDefault
	}

	// Casers keep state and must not be shared between goroutines.
	folded := cases.Fold().String(label)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return rule.category
			}
		}
	}

	return domain.CategoryDefault
}

func CategorizeRecord(rec domain.PlaceRecord) domain.Category {
	return Categorize(rec.CategoryLabel())
}
