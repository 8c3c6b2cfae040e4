package catalog

// MatchedIngredient 比對結果中的單一食材
type MatchedIngredient struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Original string  `json:"original"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Aisle    string  `json:"aisle,omitempty"`
	Image    string  `json:"image,omitempty"`
}

// RecipeMatch findByIngredients 的單筆結果
type RecipeMatch struct {
	ID                    int64               `json:"id"`
	Title                 string              `json:"title"`
	Image                 string              `json:"image"`
	ImageType             string              `json:"imageType"`
	UsedIngredientCount   int                 `json:"usedIngredientCount"`
	MissedIngredientCount int                 `json:"missedIngredientCount"`
	Likes                 int                 `json:"likes"`
	UsedIngredients       []MatchedIngredient `json:"usedIngredients"`
	MissedIngredients     []MatchedIngredient `json:"missedIngredients"`
	UnusedIngredients     []MatchedIngredient `json:"unusedIngredients"`
}

// Nutrient 營養素
type Nutrient struct {
	Name                string  `json:"name"`
	Amount              float64 `json:"amount"`
	Unit                string  `json:"unit"`
	PercentOfDailyNeeds float64 `json:"percentOfDailyNeeds"`
}

// Nutrition 營養資訊
type Nutrition struct {
	Nutrients []Nutrient `json:"nutrients"`
}

// RecipeDetail information 端點回傳的詳細資料，飲食欄位缺少時為零值
type RecipeDetail struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Image          string `json:"image"`
	Summary        string `json:"summary"`
	Instructions   string `json:"instructions"`
	ReadyInMinutes int    `json:"readyInMinutes"`
	Servings       int    `json:"servings"`
	SourceURL      string `json:"sourceUrl"`

	Vegetarian  bool `json:"vegetarian"`
	Vegan       bool `json:"vegan"`
	GlutenFree  bool `json:"glutenFree"`
	DairyFree   bool `json:"dairyFree"`
	LowFodmap   bool `json:"lowFodmap"`
	VeryHealthy bool `json:"veryHealthy"`
	Sustainable bool `json:"sustainable"`

	WeightWatcherSmartPoints *float64 `json:"weightWatcherSmartPoints"`
	HealthScore              *float64 `json:"healthScore"`

	Nutrition *Nutrition `json:"nutrition"`
}
