// Package prompt assembles the system prompts sent alongside page
// content: the product-blog writing prompt and the video prompt
// generator prompt. Templates use {{PLACEHOLDER}} markers filled from
// user settings.
package prompt

import (
	"regexp"
	"strings"
)

const systemPromptTemplate = `You are a product blog copywriter for an e-commerce brand. Generate ONE complete SEO & GEO friendly product blog post.

Output rules (very important):

- Output ONLY the final blog article content.
- Do NOT wrap the output in code fences (no ` + "```" + `).
{{FORMAT_RULES}}
- Do NOT explain your reasoning or mention the format you are using.
- Do NOT add any extra commentary before or after the article.
- The response must be directly usable as a blog post.

{{LANGUAGE_INSTRUCTION}}

Overall rules:

- Do NOT hallucinate product specs or performance. Only use or reasonably generalize from user-provided info.
- If key data is missing (price, specs, target audience, etc.), keep wording generic instead of making it up.
- Use clear, direct, objective language. Avoid puns, slang, and overly complex sentences.
- Naturally include core keywords (product name, category, main features) and long-tail keywords throughout the article.
- Focus on how the product solves concrete problems and creates future value. Quantify benefits when possible only if the data is provided or clearly implied.
- Use structured, scannable formatting: headings, short paragraphs, bullet lists.
{{REASONING_INSTRUCTION}}
{{WEB_SEARCH_INSTRUCTION}}

Required structure & headings (use EXACT headings below as H2; do not add extra top-level sections):

1) Blog Title (Title Tag & H1)
- 1 line only.
- Include product name, category, and at least one main benefit or novelty.
- Make it appealing (question, benefit, or novelty), but keep the meaning clear and unambiguous.

2) Meta Description
- 1 short paragraph (about 25-35 words).
- Summarize the article, include core keywords, and encourage clicks.

3) Introduction
- 100-150 words.
- Quickly state: the main pain point or vision, the product as the solution, and the future value it brings.
- Clearly state the article topic in the first 1-2 sentences.

4) Product Overview & Core Features
- 200-300 words.
- First, briefly explain what the product is and its positioning.
- Then present core features as a bullet list with H3 subheadings.
- There must be AT LEAST 3 feature points.
- For each feature: use an H3 title + 1 short paragraph explaining what it does, how it works, and the concrete user benefit.

5) Transformation & User Value
- 150-200 words.
- Compare the experience with traditional alternatives.
- Highlight improvements in efficiency, convenience, immersion, or safety.

6) Target Audience & Use Cases
- 100-150 words.
- Clearly describe who benefits most from this product.
- Provide concrete, scenario-based use cases in bullet or list form.

7) User Collaboration Experience
- 100-150 words.
- Describe how users interact with the product in a natural and seamless way.
- Emphasize intuitive operation, low learning curve, and personalized adaptation.

8) Future Vision & Ecosystem
- 50-100 words.
- Describe future development directions: integration with other devices, platforms, or digital ecosystems.

9) Call to Action (CTA)
- About 50 words.
- Give clear, strong instructions (e.g. pre-order, learn more, book a demo, contact sales).

10) Article Tags
- Output as a single line at the end, prefixed with "Tags: ".
- Use comma-separated tags covering product name or series, category, key features, industry, and relevant technology keywords.

{{FORMATTING_INSTRUCTION}}`

// languageInstructions keys are BCP-47-ish codes matching the settings UI.
var languageInstructions = map[string]string{
	"auto": "Language:\n- Write in the same language as the user input. If not specified, default to English.",
	"en":   "Language:\n- Write the entire article in English.",
	"zh-CN": "Language:\n- Write the entire article in Simplified Chinese (简体中文).\n" +
		"- Use natural, professional Chinese expressions suitable for e-commerce content.",
	"zh-TW": "Language:\n- Write the entire article in Traditional Chinese (繁體中文).\n" +
		"- Use natural, professional Chinese expressions suitable for e-commerce content.",
	"ja": "Language:\n- Write the entire article in Japanese (日本語).\n" +
		"- Use polite, professional Japanese suitable for e-commerce content.",
	"ko": "Language:\n- Write the entire article in Korean (한국어).\n" +
		"- Use polite, professional Korean suitable for e-commerce content.",
	"es": "Language:\n- Write the entire article in Spanish (Español).\n" +
		"- Use natural, professional Spanish suitable for e-commerce content.",
	"fr": "Language:\n- Write the entire article in French (Français).\n" +
		"- Use natural, professional French suitable for e-commerce content.",
	"de": "Language:\n- Write the entire article in German (Deutsch).\n" +
		"- Use natural, professional German suitable for e-commerce content.",
	"pt": "Language:\n- Write the entire article in Portuguese (Português).\n" +
		"- Use natural, professional Portuguese suitable for e-commerce content.",
	"ru": "Language:\n- Write the entire article in Russian (Русский).\n" +
		"- Use natural, professional Russian suitable for e-commerce content.",
	"ar": "Language:\n- Write the entire article in Arabic (العربية).\n" +
		"- Use natural, professional Arabic suitable for e-commerce content.",
}

var formatRules = map[string]string{
	"markdown": "- Do NOT output JSON, XML, HTML, or any other data format.\n- Output clean Markdown text.",
	"html": "- Output as valid, semantic HTML markup.\n" +
		"- Use tags like <article>, <section>, <h1>-<h6>, <p>, <ul>, <li>, etc.\n" +
		"- Do NOT output JSON, XML, or plain text.",
	"json": "- Output as valid JSON format.\n" +
		"- Structure the content with appropriate keys for each section.\n" +
		"- Do NOT output Markdown, HTML, or plain text.",
	"plain": "- Output as plain text without any formatting.\n" +
		"- Do NOT use Markdown, HTML, JSON, or any markup.\n" +
		"- Use line breaks and spacing for readability.",
}

var formattingInstructions = map[string]string{
	"markdown": "Formatting:\n" +
		"- Use Markdown with proper H1/H2/H3 structure:\n" +
		"  - Use the blog title as H1 (# Title).\n" +
		"  - Use the main sections as H2 (##).\n" +
		"  - Use feature names as H3 (###).\n" +
		"- Do NOT describe or comment on the structure. Output ONLY the finished blog article content.",
	"html": "Formatting:\n" +
		"- Use semantic HTML with proper heading structure: <h1> for the title, <h2> for sections, <h3> for features, <p> for paragraphs, <ul>/<li> for lists.\n" +
		"- Wrap the entire content in an <article> tag.\n" +
		"- Do NOT include <html>, <head>, or <body> tags.",
	"json": "Formatting:\n" +
		"- Output a JSON object with keys for each section:\n" +
		"  - \"title\", \"meta_description\", \"introduction\", \"product_overview\", \"features\" (array), \"transformation\", \"target_audience\", \"user_experience\", \"future_vision\", \"cta\", \"tags\" (array)\n" +
		"- Ensure valid JSON syntax.",
	"plain": "Formatting:\n" +
		"- Use ALL CAPS for section headings.\n" +
		"- Use blank lines to separate sections.\n" +
		"- Use dashes (-) for list items.\n" +
		"- Keep formatting minimal but readable.",
}

var reasoningInstructions = map[string]string{
	"low": "\nReasoning approach:\n" +
		"- Be concise and direct. Focus on essential information only.\n" +
		"- Minimize elaboration while maintaining quality.",
	"medium": "",
	"high": "\nReasoning approach:\n" +
		"- Provide thorough, detailed analysis for each section.\n" +
		"- Explore multiple angles and provide comprehensive coverage.\n" +
		"- Add extra depth to feature descriptions and use cases.",
}

const webSearchInstruction = "\nWeb search:\n" +
	"- You may search the web for additional relevant and up-to-date information about the product, market trends, or competitor comparisons."

var blankLines = regexp.MustCompile(`\n{3,}`)

// BuildSystemPrompt fills the blog template for the given output
// language, format, reasoning effort and web-search setting. Unknown
// language or format codes fall back to auto/markdown.
func BuildSystemPrompt(language, format, reasoningEffort string, enableWebSearch bool) string {
	lang, ok := languageInstructions[language]
	if !ok {
		lang = languageInstructions["auto"]
	}
	rules, ok := formatRules[format]
	if !ok {
		rules = formatRules["markdown"]
	}
	formatting, ok := formattingInstructions[format]
	if !ok {
		formatting = formattingInstructions["markdown"]
	}
	search := ""
	if enableWebSearch {
		search = webSearchInstruction
	}

	out := strings.NewReplacer(
		"{{LANGUAGE_INSTRUCTION}}", lang,
		"{{FORMAT_RULES}}", rules,
		"{{FORMATTING_INSTRUCTION}}", formatting,
		"{{REASONING_INSTRUCTION}}", reasoningInstructions[reasoningEffort],
		"{{WEB_SEARCH_INSTRUCTION}}", search,
	).Replace(systemPromptTemplate)

	return strings.TrimSpace(blankLines.ReplaceAllString(out, "\n\n"))
}

// LanguageOption is a selectable output language.
type LanguageOption struct {
	Code  string
	Label string
}

// Languages lists the output languages in presentation order.
var Languages = []LanguageOption{
	{"auto", "Auto (Same as input)"},
	{"en", "English"},
	{"zh-CN", "简体中文"},
	{"zh-TW", "繁體中文"},
	{"ja", "日本語"},
	{"ko", "한국어"},
	{"es", "Español"},
	{"fr", "Français"},
	{"de", "Deutsch"},
	{"pt", "Português"},
	{"ru", "Русский"},
	{"ar", "العربية"},
}

// Formats lists the output formats.
var Formats = []string{"markdown", "html", "json", "plain"}
