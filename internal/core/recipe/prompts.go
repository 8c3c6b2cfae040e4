package recipe

import (
	"strings"

	"recipe-finder/internal/core/ai/provider"
	"recipe-finder/internal/pkg/common"
)

const extractSystemPrompt = `You are a culinary data specialist. You read free-form text written by home cooks
and identify every ingredient it mentions. You answer only with the requested XML document.`

const extractUserPrompt = `<prompt>
  <input>
    <text>{{QUERY}}</text>
  </input>
  <task>Extract every ingredient mentioned in the text.</task>
  <rules>
    <rule>List ingredient names only, without quantities or preparation.</rule>
    <rule>Use common ingredient names, one per element.</rule>
    <rule>Escape &amp; as &amp;amp; inside element text.</rule>
  </rules>
  <output_format>
    <ingredient_extraction>
      <ingredients>
        <ingredient>First Ingredient Name</ingredient>
        <ingredient>Second Ingredient Name</ingredient>
      </ingredients>
    </ingredient_extraction>
  </output_format>
  <example>
    <input>I want to bake cookies with flour, sugar, and chocolate chips</input>
    <output>
      <ingredient_extraction>
        <ingredients>
          <ingredient>Flour</ingredient>
          <ingredient>Sugar</ingredient>
          <ingredient>Chocolate Chips</ingredient>
        </ingredients>
      </ingredient_extraction>
    </output>
  </example>
</prompt>`

const enrichSystemPrompt = `You are a warm, practical home-cooking instructor. You turn terse recipes into clear,
encouraging guidance: simple sequential steps, precise measurements, and useful tips.
You answer only with the requested XML document.`

const enrichUserPrompt = `<recipe-task>
  <description>Refine the recipe below into a complete, friendly, improved version.</description>
  <input>
    <summary>{{SUMMARY}}</summary>
    <ingredients>
{{INGREDIENTS}}
    </ingredients>
    <original-instructions>
{{INSTRUCTIONS}}
    </original-instructions>
  </input>
  <rules>
    <rule>Rewrite the summary to be concise and appetizing, mentioning key flavors and origin.</rule>
    <rule>Keep the given ingredients under the section "Original Ingredients" with precise measurements.</rule>
    <rule>Put anything essential that is missing under "Additional Required Ingredients". Skip everyday salt, pepper and oil unless they matter.</rule>
    <rule>Write one ingredient per line, each line starting with "- ".</rule>
    <rule>Write instructions as short imperative steps with times, temperatures and sensory cues.</rule>
    <rule>Add practical tips, variations and storage advice as bullet lines in cooking-notes.</rule>
    <rule>Escape &amp; as &amp;amp; inside element text.</rule>
  </rules>
  <output_format>
    <recipe>
      <summary>Concise, engaging description</summary>
      <ingredients>
        <section name="Original Ingredients">
- quantity ingredient, notes
        </section>
        <section name="Additional Required Ingredients">
- quantity ingredient, notes
        </section>
      </ingredients>
      <instructions>
        <step>First step</step>
        <step>Second step</step>
      </instructions>
      <cooking-notes>
- Tip or variation
- Storage advice
      </cooking-notes>
    </recipe>
  </output_format>
</recipe-task>`

// BuildExtractionMessages 建立食材擷取的 system 與 user 訊息
func BuildExtractionMessages(query string) []provider.Message {
	user := strings.NewReplacer("{{QUERY}}", escapeText(query)).Replace(extractUserPrompt)
	return []provider.Message{
		provider.System(extractSystemPrompt),
		provider.User(user),
	}
}

// BuildEnrichmentMessages 建立食譜改寫的 system 與 user 訊息
func BuildEnrichmentMessages(summary string, used []string, instructions string) []provider.Message {
	user := strings.NewReplacer(
		"{{SUMMARY}}", escapeText(summary),
		"{{INGREDIENTS}}", escapeText(common.BulletList(used)),
		"{{INSTRUCTIONS}}", escapeText(instructions),
	).Replace(enrichUserPrompt)
	return []provider.Message{
		provider.System(enrichSystemPrompt),
		provider.User(user),
	}
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string {
	return textEscaper.Replace(strings.TrimSpace(s))
}
