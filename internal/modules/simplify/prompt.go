package simplify

import (
	"fmt"
	"strings"
)

const (
	// MaxTextChars caps plain-text input before any prompt is built.
	MaxTextChars = 10000
	// MaxDocumentChars caps extracted document text; longer input is truncated,
	// not rejected.
	MaxDocumentChars = 15000
)

// Short-input thresholds. Heuristic, tuned against observed model behavior;
// exposed as variables so deployments can adjust them.
var (
	ShortInputMaxWords = 5
	ShortInputMinChars = 40
)

// isShortInput reports whether text is brief enough to trigger the expanded
// mini-brief prompt variant.
func isShortInput(text string) bool {
	trimmed := strings.TrimSpace(text)
	words := len(strings.Fields(trimmed))
	return words > 0 && (words <= ShortInputMaxWords || len(trimmed) < ShortInputMinChars)
}

func levelStyle(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "beginner":
		return `Write as if you were talking to a little kid. Use short sentences, very simple words, and a friendly tone. Avoid jargon.`
	case "advanced":
		return `Write at an adult undergraduate college-educated level. Be concise and precise; use accurate terminology with brief clarifications.`
	case "professional":
		return `Write for professional/PhD readers. Be technically rigorous, retain precise terms and nuance, and avoid over-simplification. Discuss terms in-depth, include potential biases and perhaps even controversies for context.`
	default:
		return `Write at ~high school grade level. Be clear and approachable, with light terminology explained.`
	}
}

const normalIntro = `Please rewrite the following text using EXACTLY these three sections:

1. Summary – A concise plain-English overview of what the text says, does, or changes. If there are only a few words inputted, then discuss the definitions and any related information on those words or combinations of words, just as if someone had searched it up on Google and summarized the related info. (aim for recent info./news).
2. Main Points – Bullet the major takeaways using "- " (who/what changed, actions, steps, implications). If you include an example, make it the LAST bullet and prefix it with "Example:".
3. Helpful Definitions – Define **every** important term, acronym, or cited law/section in the form "**Term**: definition". If something repeats, include it anyway for clarity. Define them just as if someone had searched it up on Google and summarized the related info. (aim for recent info./news).

Constraints:
- Output MUST contain exactly these three numbered headers (no bold, no colons).
- Do NOT add extra sections or rename sections.
- Do NOT restate/bold the section titles inside the section bodies.
- If a section is empty, write "N/A".`

const shortIntro = `The input is a very short phrase/keyword. Produce an informative mini-brief using EXACTLY these three sections. Use general background knowledge to expand.
Do **NOT** write "N/A" in any section, even if the input is only a few words.

1. Summary – A clear overview of what the term/topic is and why it matters. If relevant, mention notable recent developments at a high level.
2. Main Points – 4–8 hyphen bullets ("- ") covering key properties, uses, risks/benefits, context; if you include an example, make it the LAST bullet and prefix with "Example:".
3. Helpful Definitions – "**Term**: definition" lines for important related concepts, acronyms, or sub-terms a reader would likely encounter when researching this topic.

Constraints:
- Output MUST contain exactly these three numbered headers (no bold, no colons).
- Do NOT add extra sections or rename sections.
- Do NOT restate/bold the section titles inside the section bodies.
- Never write "N/A"; if information is minimal, expand with concise background.`

// domainTemplates maps each supported domain to its prompt frame. The first
// placeholder receives the intro block, the second the source text. Unknown
// domains fall back to "general".
var domainTemplates = map[string]string{
	"legal": `You are a legal assistant helping regular people understand complex legal documents.

%s

Domain guidance (LEGAL):
- In Main Points: enumerate clauses, amendments, obligations, rights, penalties, and effective dates.
- If an example helps, add it as the last bullet: "- Example: …".
- In Helpful Definitions: include EVERY statute/section citation (e.g., "section 174A(b)", "56(b)(2)"), legal terms of art, and agency/authority names.

Legal text:
%s`,
	"medical": `You are a healthcare explainer helping patients understand medical information.

%s

Domain guidance (MEDICAL):
- In Main Points: include diagnosis/condition, purpose of test/procedure, key steps, risks/benefits, aftercare, and timelines.
- In Helpful Definitions: define clinical terms, abbreviations, labs, drug names/classes, and procedures.

Medical text:
%s`,
	"government": `You are a civic guide helping people understand government programs, policies, and rights.

%s

Domain guidance (GOVERNMENT):
- In Main Points: cover eligibility, benefits/obligations, responsible agency, how to apply/comply, deadlines, and penalties (if any).
- In Helpful Definitions: define agencies, program names, legal references (titles/sections/forms).

Government text:
%s`,
	"financial": `You are a finance explainer helping people understand financial documents, statements, and policies.

%s

Domain guidance (FINANCIAL):
- In Main Points: focus on fees/costs/rates, limits/caps, timelines, obligations/rights, and practical impacts/risks.
- In Helpful Definitions: define financial terms, ratios, instruments, and regulatory references (e.g., SEC, 10-K, APR).

Financial text:
%s`,
	"education": `You are an education explainer helping students, parents, and educators understand academic policies and resources.

%s

Domain guidance (EDUCATION):
- In Main Points: outline requirements, steps, timelines, grading/credit impacts, and available support/resources.
- In Helpful Definitions: define educational terms, programs, acronyms, and administrative processes.

Education text:
%s`,
	"nutrition": `You are a nutrition explainer helping people understand foods, labels, and dietary guidance.

%s

Domain guidance (NUTRITION):
- In Main Points: highlight serving size, calories per serving, macronutrients (protein, carbs, fat), added sugars, sodium, fiber, notable vitamins/minerals (%%DV), and any allergens/additives. Call out high/low red flags.
- If relevant, end with "- Example: …" showing how someone would use this info in a day.
- In Helpful Definitions: define terms like "%% Daily Value", "added sugars", "saturated fat", "trans fat", "fiber", "ultra-processed", "net carbs", "complete protein", and any specialized terms mentioned. For any common/important term previously mentioned, whether in the generated "main points" earlier or in the inputted text, recommend the official VERIFIED FDA/government health guideline suggestion **NUMERICAL** suggested daily value/intake if applicable, such as BUT NOT LIMITED TO "Recommended daily intake of vitamin C: adult men need ~90 mg and adult women need about ~75 mg".

Nutrition text:
%s`,
	"general": `You are a plain-language explainer helping people understand complex text.

%s

Domain guidance (GENERAL):
- In Main Points: summarize the key actions/ideas and any steps or implications.
- In Helpful Definitions: define any uncommon terms, acronyms, or references.

Text:
%s`,
}

// BuildPrompt produces the user prompt for a text simplification request.
// Unknown or absent domain/level values fall back to general/intermediate.
func BuildPrompt(domain, text, level string) string {
	intro := levelStyle(level) + "\n\n"
	if isShortInput(text) {
		intro += shortIntro
	} else {
		intro += normalIntro
	}

	tpl, ok := domainTemplates[strings.ToLower(strings.TrimSpace(domain))]
	if !ok {
		tpl = domainTemplates["general"]
	}
	return fmt.Sprintf(tpl, intro, text)
}

// SystemPrompt is the fixed instruction enforcing the three-section output
// contract on every text completion.
const SystemPrompt = `You are an AI assistant that simplifies input into EXACTLY 3 numbered sections:

1. Summary
2. Main Points
3. Helpful Definitions

Hard formatting rules:
- Use the three numbered headers EXACTLY as written above (no bold, no colons, no extra punctuation).
- Start each section on its own line; content follows on subsequent lines.

Main Points:
- Under "Main Points", use ONLY hyphens "-" for each new item. If there is an example, include it as the LAST bullet prefixed with "Example:".

Helpful Definitions:
- Under "Helpful Definitions", list EVERY important term, acronym, or cited law/section in the input, Summary, or Main Points using EXACTLY: "- **Term**: definition".

Never add extra sections. If a section is empty, output "N/A".`

func imageLevelStyle(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "beginner":
		return "Write for a beginner. Use short sentences, simple words, and a friendly tone."
	case "advanced":
		return "Write at an adult college-educated level. Be concise and precise, explain terms briefly."
	case "professional":
		return "Write for professional/PhD readers. Be technically rigorous and precise."
	default:
		return "Write at a clear high-school level. Be approachable and explain key terms briefly."
	}
}

// BuildImagePrompt produces the user prompt for an image description request.
func BuildImagePrompt(level string) string {
	return imageLevelStyle(level) + `

Please rewrite what you can infer from the image using EXACTLY these three sections:

1. Summary – A concise plain-English overview of what the image shows.
2. Main Points – Bullet the major takeaways using "- " (facts, counts, notable elements, implications). If you include an example, make it the LAST bullet and prefix it with "Example:".
3. Helpful Definitions – Define **every** important term or concept in the form "**Term**: definition".

Constraints:
- Output MUST contain exactly these three numbered headers (no bolding the headers, no colons on the header line).
- Do NOT add extra sections or rename sections.
- If a section is empty, write "N/A".`
}

// ImageSystemPrompt is the fixed instruction for the vision completion.
const ImageSystemPrompt = `You are an assistant that describes images and outputs in EXACTLY 3 sections:
1. Summary
2. Main Points
3. Helpful Definitions

Follow the same strict formatting rules as instructed by the user.`
