package recipe

import (
	"errors"
	"fmt"
	"strings"
)

const (
	recipeStartTag     = "<recipe>"
	recipeEndTag       = "</recipe>"
	defaultSectionName = "Ingredients"
)

// parseStrategy 嘗試將模型回應轉為 Draft
type parseStrategy struct {
	name  string
	parse func(raw string) (*Draft, error)
}

// recipeStrategies 依序嘗試，第一個成功者為準
var recipeStrategies = []parseStrategy{
	{name: "strict-document", parse: strictDocument},
	{name: "embedded-fragment", parse: embeddedFragment},
}

// ParseRecipe 解析改寫後的食譜文件，接受完整文件或夾雜說明文字的片段
func ParseRecipe(raw string) (*Draft, error) {
	errs := make([]error, 0, len(recipeStrategies))
	for _, s := range recipeStrategies {
		draft, err := s.parse(raw)
		if err == nil {
			return draft, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
	}
	return nil, fmt.Errorf("%w: %w", ErrRecipeParse, errors.Join(errs...))
}

// strictDocument 整份回應必須是以 recipe 為根的文件
func strictDocument(raw string) (*Draft, error) {
	root, err := ParseLenientTree(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return draftFromTree(root)
}

// embeddedFragment 先切出 <recipe>…</recipe> 再解析
func embeddedFragment(raw string) (*Draft, error) {
	fragment, err := ExtractFragment(raw, recipeStartTag, recipeEndTag)
	if err != nil {
		return nil, err
	}
	return strictDocument(fragment)
}

func draftFromTree(root *Node) (*Draft, error) {
	if root.Name != "recipe" {
		return nil, fmt.Errorf("unexpected root element <%s>", root.Name)
	}

	summaryNode := root.Find("summary")
	if summaryNode == nil {
		return nil, errors.New("missing <summary>")
	}
	summary := strings.TrimSpace(summaryNode.Text())
	if summary == "" {
		return nil, errors.New("empty <summary>")
	}

	container := root.Find("ingredients")
	if container == nil {
		return nil, errors.New("missing <ingredients>")
	}

	return &Draft{
		Summary:      summary,
		Ingredients:  parseSections(container),
		Instructions: parseSteps(root.Find("instructions")),
		CookingNotes: cleanLines(root.Find("cooking-notes").Lines()),
	}, nil
}

// parseSections 每個 section 依名稱保留；沒有 section 時整個容器視為一組
func parseSections(container *Node) Sections {
	sections := container.Children("section")
	if len(sections) == 0 {
		return Sections{{Name: defaultSectionName, Items: sectionItems(container)}}
	}

	var out Sections
	for i, sec := range sections {
		name, ok := sec.Attr("name")
		if !ok || strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Section %d", i+1)
		}
		out = out.add(name, sectionItems(sec))
	}
	return out
}

// sectionItems 讀取項目行；含 <ingredient> 子元素時逐一組成 "數量 名稱, 備註"
func sectionItems(sec *Node) []string {
	ingredients := sec.Children("ingredient")
	if len(ingredients) == 0 {
		return cleanLines(sec.Lines())
	}

	items := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if line := ingredientLine(ing); line != "" {
			items = append(items, line)
		}
	}
	return items
}

func ingredientLine(ing *Node) string {
	if ing.Child("name") == nil && ing.Child("quantity") == nil && ing.Child("notes") == nil {
		lines := cleanLines([]string{collapseSpace(ing.Text())})
		if len(lines) == 0 {
			return ""
		}
		return lines[0]
	}

	name := collapseSpace(ing.Child("name").Text())
	quantity := collapseSpace(ing.Child("quantity").Text())
	notes := collapseSpace(ing.Child("notes").Text())

	line := strings.TrimSpace(quantity + " " + name)
	if notes != "" {
		if line == "" {
			return notes
		}
		line += ", " + notes
	}
	return line
}

// parseSteps 取出每個 step；含 <instruction> 子元素時以空白串接
func parseSteps(container *Node) []string {
	steps := make([]string, 0)
	for _, step := range container.Children("step") {
		var text string
		if parts := step.Children("instruction"); len(parts) > 0 {
			texts := make([]string, 0, len(parts))
			for _, p := range parts {
				if t := collapseSpace(p.Text()); t != "" {
					texts = append(texts, t)
				}
			}
			text = strings.Join(texts, " ")
		} else {
			text = strings.TrimSpace(step.Text())
		}
		if text != "" {
			steps = append(steps, text)
		}
	}
	return steps
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
