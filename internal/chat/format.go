package chat

import (
	"regexp"
	"strings"
)

var (
	fenceSpacingPattern = regexp.MustCompile("```[ \t]+([A-Za-z0-9+#._-]+)")
	emphasisPattern     = regexp.MustCompile(`(^|[^*])\*([^\s*][^*\n]*[^\s*]|[^\s*])\*($|[^*])`)
	listSpacingPattern  = regexp.MustCompile(`(\S) +((?:\d+\.|[A-Za-z]\)|Step \d+) )`)
	blankRunPattern     = regexp.MustCompile(`\n{3,}`)
)

// CleanReply нормализует форматирование ответа модели перед выдачей:
// убирает пробелы между fence-маркером и тегом языка, приводит одиночные
// звёздочки к жирному начертанию, выносит маркеры списков из середины
// строки на отдельную строку с пустой строкой перед ними и схлопывает
// длинные серии пустых строк. Преобразования чисто текстовые и
// идемпотентны: CleanReply(CleanReply(x)) == CleanReply(x).
func CleanReply(text string) string {
	if text == "" {
		return ""
	}

	out := fenceSpacingPattern.ReplaceAllString(text, "```${1}")

	// Два прохода: соседние *курсивные* фрагменты могут делить граничный
	// символ, и один проход пропускает второй фрагмент.
	out = emphasisPattern.ReplaceAllString(out, "${1}**${2}**${3}")
	out = emphasisPattern.ReplaceAllString(out, "${1}**${2}**${3}")

	out = listSpacingPattern.ReplaceAllString(out, "${1}\n\n${2}")
	out = blankRunPattern.ReplaceAllString(out, "\n\n")

	return strings.TrimSpace(out)
}
