package recipe

import (
	"recipe-finder/internal/core/catalog"
)

// Section 具名的食材分組
type Section struct {
	Name  string   `json:"name" yaml:"name"`
	Items []string `json:"items" yaml:"items"`
}

// Sections 依文件順序保存的食材分組
type Sections []Section

// Lookup 以名稱取得分組內容
func (s Sections) Lookup(name string) ([]string, bool) {
	for _, sec := range s {
		if sec.Name == name {
			return sec.Items, true
		}
	}
	return nil, false
}

// Map 轉為名稱對內容的映射
func (s Sections) Map() map[string][]string {
	out := make(map[string][]string, len(s))
	for _, sec := range s {
		out[sec.Name] = sec.Items
	}
	return out
}

// add 同名分組合併到第一次出現的位置
func (s Sections) add(name string, items []string) Sections {
	for i := range s {
		if s[i].Name == name {
			s[i].Items = append(s[i].Items, items...)
			return s
		}
	}
	return append(s, Section{Name: name, Items: items})
}

// Draft 模型改寫後、尚未合併目錄資料的食譜
type Draft struct {
	Summary      string   `json:"summary" yaml:"summary"`
	Ingredients  Sections `json:"ingredients" yaml:"ingredients"`
	Instructions []string `json:"instructions" yaml:"instructions"`
	CookingNotes []string `json:"cooking_notes" yaml:"cooking_notes"`
}

// IngredientUsage 比對結果中的食材使用情況，原文照搬
type IngredientUsage struct {
	Used   []string `json:"used" yaml:"used"`
	Missed []string `json:"missed" yaml:"missed"`
	Unused []string `json:"unused" yaml:"unused"`
}

// DietEntry 單一飲食標示；Value 為 "Yes"/"No" 或原始數值，缺少時為 nil
type DietEntry struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// DietCategory 飲食標示分類
type DietCategory struct {
	Name    string      `json:"name" yaml:"name"`
	Entries []DietEntry `json:"entries" yaml:"entries"`
}

// DietSummary 依固定順序排列的飲食摘要
type DietSummary []DietCategory

// Map 轉為巢狀映射
func (d DietSummary) Map() map[string]map[string]any {
	out := make(map[string]map[string]any, len(d))
	for _, cat := range d {
		entries := make(map[string]any, len(cat.Entries))
		for _, e := range cat.Entries {
			entries[e.Label] = e.Value
		}
		out[cat.Name] = entries
	}
	return out
}

// EnrichedRecipe 最終輸出的食譜
type EnrichedRecipe struct {
	Title        string             `json:"title" yaml:"title"`
	Image        string             `json:"image" yaml:"image"`
	Summary      string             `json:"summary" yaml:"summary"`
	Ingredients  Sections           `json:"ingredients" yaml:"ingredients"`
	Instructions []string           `json:"instructions" yaml:"instructions"`
	CookingNotes []string           `json:"cooking_notes" yaml:"cooking_notes"`
	Diet         DietSummary        `json:"diet" yaml:"diet"`
	Nutrients    []catalog.Nutrient `json:"nutrients" yaml:"nutrients"`
}
