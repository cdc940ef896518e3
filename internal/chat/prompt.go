package chat

import (
	"fmt"
	"strings"

	"vibecoding/internal/llm"
)

const personaPreamble = `You're VibeCoding, a helpful AI coding assistant!
Be friendly and encouraging, but focus on providing practical help.
Use emojis occasionally but don't overdo it.`

// systemPrompts таблица системных инструкций по категориям.
// Ровно одна инструкция на категорию; выбор детерминирован.
var systemPrompts = map[Category]string{
	CategoryDebug: personaPreamble + `

The user needs help DEBUGGING code.
- Identify the root cause of the problem first, in one or two sentences.
- Do NOT echo the user's original code back verbatim.
- Provide a corrected version inside a fenced code block with the language tag.
- After the code, list what was changed and why, briefly.
- If the error cannot be reproduced from what was given, say what extra detail you need.`,

	CategoryOptimize: personaPreamble + `

The user wants their code OPTIMIZED.
- Point out the main inefficiency before rewriting anything.
- Provide the improved version in a fenced code block with the language tag.
- Quantify the improvement where possible (complexity, allocations, queries).
- Do not change behavior; preserve the original interface.`,

	CategoryExplain: personaPreamble + `

The user wants code EXPLAINED.
- Walk through the code top to bottom in plain language.
- Explain the intent, not just the syntax.
- Use short inline snippets only where they help; do not re-paste the whole input.
- Close with a one-paragraph summary of what the code does.`,

	CategoryEnhance: personaPreamble + `

The user wants an EXISTING piece of code extended with new behavior.
- Keep the user's style and structure; change as little as possible.
- Provide the updated code in a fenced code block with the language tag.
- Clearly mark which parts are new.`,

	CategoryCreate: personaPreamble + `

The user wants NEW code written.
- Provide the actual code first, complete and runnable, in a fenced code block.
- Add a brief explanation after the code.
- Include comments in the code when helpful.
- Suggest improvements or alternatives when relevant.`,

	CategoryAnalyze: personaPreamble + `

The user shared code without a clear request.
- Give a short structured review: what the code does, notable issues, quick wins.
- Keep it concise; do not rewrite the code unless something is clearly broken.`,

	CategoryGeneral: personaPreamble + `

This is a general conversation, not a direct coding task.
- Be supportive and conversational.
- If the user seems to be working toward a coding problem, gently offer help with it.
- Keep answers short unless the user asks for depth.`,
}

// historyWindows длина окна истории по категориям: для отладки и
// оптимизации окно короче, чтобы не тащить шум, для болтовни — длиннее.
var historyWindows = map[Category]int{
	CategoryDebug:    4,
	CategoryOptimize: 4,
	CategoryExplain:  6,
	CategoryEnhance:  6,
	CategoryAnalyze:  6,
	CategoryCreate:   8,
	CategoryGeneral:  10,
}

// categoryParams параметры генерации: низкая температура для задач
// с точным ответом, выше — для творческих и разговорных.
var categoryParams = map[Category]llm.Params{
	CategoryDebug:    {MaxTokens: 1000, Temperature: 0.3},
	CategoryOptimize: {MaxTokens: 1000, Temperature: 0.3},
	CategoryExplain:  {MaxTokens: 1000, Temperature: 0.5},
	CategoryEnhance:  {MaxTokens: 1000, Temperature: 0.5},
	CategoryAnalyze:  {MaxTokens: 1000, Temperature: 0.4},
	CategoryCreate:   {MaxTokens: 1500, Temperature: 0.7},
	CategoryGeneral:  {MaxTokens: 1000, Temperature: 0.8},
}

// ParamsFor возвращает параметры генерации для категории.
func ParamsFor(category Category) llm.Params {
	if params, ok := categoryParams[category]; ok {
		return params
	}
	return categoryParams[CategoryGeneral]
}

// BuildPrompt собирает упорядоченный список сообщений для completion-сервиса.
//
// Структура всегда одна и та же: ровно одно основное системное сообщение,
// затем опциональный разбор кода, затем (только для general_chat)
// сводка профиля, затем обрезанная история и текущее сообщение пользователя.
// Для одинакового входа результат детерминирован.
func BuildPrompt(category Category, intents []string, profile Profile, blocks []CodeBlock, history []Turn, userMessage string) []llm.Message {
	messages := []llm.Message{{Role: "system", Content: systemPromptFor(category)}}

	if len(blocks) > 0 {
		messages = append(messages, llm.Message{Role: "system", Content: codeContext(category, intents, blocks)})
	}
	if category == CategoryGeneral && !profile.IsEmpty() {
		messages = append(messages, llm.Message{Role: "system", Content: profileSummary(profile)})
	}

	window := historyWindowFor(category)
	turns := lastTurns(history, window)
	if category == CategoryDebug || category == CategoryOptimize {
		turns = filterRelevantTurns(turns)
	}
	for _, turn := range turns {
		messages = append(messages, llm.Message{Role: turn.Role, Content: turn.Content})
	}

	return append(messages, llm.Message{Role: "user", Content: userMessage})
}

func systemPromptFor(category Category) string {
	if prompt, ok := systemPrompts[category]; ok {
		return prompt
	}
	return systemPrompts[CategoryGeneral]
}

func historyWindowFor(category Category) int {
	if window, ok := historyWindows[category]; ok {
		return window
	}
	return historyWindows[CategoryGeneral]
}

// codeContext структурированный разбор приложенного кода
// для второго системного сообщения.
func codeContext(category Category, intents []string, blocks []CodeBlock) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The user's message contains %d code block(s):\n", len(blocks))
	for i, block := range blocks {
		fmt.Fprintf(&sb, "\nBlock %d (%s):\n```%s\n%s\n```\n", i+1, block.Language, block.Language, block.Code)
	}
	fmt.Fprintf(&sb, "\nDetected request type: %s.", category)
	if len(intents) > 0 {
		fmt.Fprintf(&sb, " Detected intents: %s.", strings.Join(intents, ", "))
	}
	return sb.String()
}

// profileSummary сводка известных фактов о пользователе.
// Каждое заполненное поле попадает в сводку ровно один раз.
func profileSummary(profile Profile) string {
	var parts []string
	if profile.Name != "" {
		parts = append(parts, "User's name: "+profile.Name)
	}
	if profile.Mood != "" {
		parts = append(parts, "Current mood: "+profile.Mood)
	}
	if profile.CodingLevel != "" {
		parts = append(parts, "Coding level: "+profile.CodingLevel)
	}
	if len(profile.TechStack) > 0 {
		parts = append(parts, "Tech stack: "+strings.Join(profile.TechStack, ", "))
	}
	if profile.CurrentProject != "" {
		parts = append(parts, "Current project: "+profile.CurrentProject)
	}
	if profile.LastCodeDiscussion != nil {
		parts = append(parts, "Last code discussion: "+profile.LastCodeDiscussion.Format("2006-01-02 15:04"))
	}
	return "Known facts about the user: " + strings.Join(parts, " | ")
}

// filterRelevantTurns для отладки и оптимизации оставляет только реплики
// с кодом и реплики пользователя; ответ ассистента сохраняется, если идёт
// сразу за оставленной репликой пользователя. Порядок не меняется.
func filterRelevantTurns(turns []Turn) []Turn {
	keep := make([]bool, len(turns))
	for i, turn := range turns {
		if turn.Role == "user" || strings.Contains(turn.Content, "```") {
			keep[i] = true
		}
	}
	for i := 1; i < len(turns); i++ {
		if turns[i].Role == "assistant" && keep[i-1] && turns[i-1].Role == "user" {
			keep[i] = true
		}
	}

	var out []Turn
	for i, turn := range turns {
		if keep[i] {
			out = append(out, turn)
		}
	}
	return out
}
