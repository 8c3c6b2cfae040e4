package recipe

import (
	"fmt"
	"strings"
)

const (
	ingredientStartTag = "<ingredient_extraction>"
	ingredientEndTag   = "</ingredient_extraction>"
)

// ExtractIngredients 從模型回應取出食材名稱，以逗號串接並保留順序與大小寫；沒有食材時回傳空字串
func ExtractIngredients(raw string) (string, error) {
	fragment, err := ExtractFragment(raw, ingredientStartTag, ingredientEndTag)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIngredientParse, err)
	}

	root, err := ParseTree(fragment)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrIngredientParse, err)
	}

	var names []string
	for _, container := range root.Children("ingredients") {
		for _, leaf := range container.Children("ingredient") {
			if name := strings.TrimSpace(leaf.Text()); name != "" {
				names = append(names, name)
			}
		}
	}
	return strings.Join(names, ","), nil
}
