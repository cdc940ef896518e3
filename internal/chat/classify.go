package chat

import (
	"regexp"
	"strings"
)

// intentRules группы ключевых слов по намерениям.
// Порядок групп фиксирован и совпадает с приоритетом категорий.
var intentRules = []struct {
	intent   string
	keywords []string
}{
	{"debug", []string{
		"fix", "bug", "error", "broken", "not working", "doesn't work",
		"doesnt work", "debug", "crash", "issue", "problem", "wrong",
		"exception", "traceback",
	}},
	{"optimize", []string{
		"optimize", "optimise", "faster", "speed up", "performance",
		"efficient", "refactor", "too slow",
	}},
	{"explain", []string{
		"explain", "what does", "how does", "understand", "walk me through",
		"what is this", "meaning of",
	}},
	{"enhance", []string{
		"enhance", "extend", "improve", "add a feature", "add support",
		"modify", "update this",
	}},
	{"create", []string{
		"write", "create", "make", "build", "generate", "implement",
		"develop", "program", "code me",
	}},
}

// creationVerbPattern ловит общие формулировки просьбы написать код,
// не попавшие в список ключевых слов ("could you put together a script").
var creationVerbPattern = regexp.MustCompile(
	`(?i)\b(put together|come up with|craft|draft)\b.*\b(function|script|program|class|method|code|app|api|bot|page|website|algorithm)\b`)

// DetectIntents возвращает все совпавшие намерения в порядке приоритета.
// Результат детерминирован для одинакового входа.
func DetectIntents(text string) []string {
	lower := strings.ToLower(text)
	var intents []string
	for _, group := range intentRules {
		for _, keyword := range group.keywords {
			if strings.Contains(lower, keyword) {
				intents = append(intents, group.intent)
				break
			}
		}
	}
	return intents
}

// Classify выбирает ровно одну категорию запроса.
//
// Приоритет намеренный: отладка доминирует при наличии кода
// ("почини это" подразумевает приложенный код), создание кода — категория
// по умолчанию, когда код просят, но не прикладывают, а приложенный код
// без ясного намерения уходит в анализ.
func Classify(text string, blocks []CodeBlock) Category {
	intents := DetectIntents(text)
	hasCode := len(blocks) > 0

	has := func(name string) bool {
		for _, intent := range intents {
			if intent == name {
				return true
			}
		}
		return false
	}

	switch {
	case hasCode && has("debug"):
		return CategoryDebug
	case hasCode && has("optimize"):
		return CategoryOptimize
	case hasCode && has("explain"):
		return CategoryExplain
	case hasCode && has("enhance"):
		return CategoryEnhance
	case has("create") || creationVerbPattern.MatchString(text):
		return CategoryCreate
	case hasCode:
		return CategoryAnalyze
	default:
		return CategoryGeneral
	}
}
