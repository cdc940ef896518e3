package chat

import (
	"regexp"
	"strings"
)

var fencedBlockPattern = regexp.MustCompile("(?s)```([A-Za-z0-9+#._-]*)[ \t]*\r?\n(.*?)```")

// codeSignaturePattern строки, с которых обычно начинается код
// в распространённых языках. Используется только запасной эвристикой.
var codeSignaturePattern = regexp.MustCompile(`^\s*(def |class |function |func |fn |import |from \S+ import|#include|public class|const |let |var |package )`)

// Минимум строк, после которого запасная эвристика считает фрагмент кодом.
const autoDetectMinLines = 5

// ExtractCodeBlocks извлекает фрагменты кода из сообщения.
// Основной путь — блоки в тройных backtick'ах: язык берётся с открывающего
// fence, при его отсутствии ставится "text". Запасной путь включается
// только когда fence-блоков нет: ищется первая строка со структурной
// сигнатурой кода, дальше жадно собираются соседние строки.
// Функция никогда не падает и возвращает пустой срез на обычном тексте.
func ExtractCodeBlocks(text string) []CodeBlock {
	if text == "" {
		return nil
	}

	var blocks []CodeBlock
	for _, match := range fencedBlockPattern.FindAllStringSubmatch(text, -1) {
		language := strings.ToLower(strings.TrimSpace(match[1]))
		if language == "" {
			language = "text"
		}
		code := strings.Trim(match[2], "\n")
		if code == "" {
			continue
		}
		blocks = append(blocks, CodeBlock{Language: language, Code: code})
	}
	if len(blocks) > 0 {
		return blocks
	}

	return autoDetectBlock(text)
}

// autoDetectBlock запасная эвристика для кода без fence-маркеров.
// Сбор начинается с первой строки-сигнатуры и останавливается на пустой
// строке после как минимум autoDetectMinLines собранных строк.
// Если строк набралось меньше минимума, фрагмент считается шумом
// и не возвращается вовсе: лучше ничего, чем мусор.
func autoDetectBlock(text string) []CodeBlock {
	lines := strings.Split(text, "\n")

	start := -1
	for i, line := range lines {
		if codeSignaturePattern.MatchString(line) {
			start = i
			break
		}
	}
	if start == -1 {
		return nil
	}

	var collected []string
	for _, line := range lines[start:] {
		if strings.TrimSpace(line) == "" && len(collected) >= autoDetectMinLines {
			break
		}
		collected = append(collected, line)
	}
	if len(collected) < autoDetectMinLines {
		return nil
	}

	return []CodeBlock{{
		Language: "auto-detected",
		Code:     strings.Trim(strings.Join(collected, "\n"), "\n"),
	}}
}
