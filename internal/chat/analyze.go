package chat

import (
	"regexp"
	"strings"
)

// CodeAnalysis результат локального структурного разбора кода
// для эндпоинта /analyze-code. Никаких обращений к модели.
type CodeAnalysis struct {
	Language   string `json:"language"`
	Lines      int    `json:"lines"`
	Characters int    `json:"characters"`
	Functions  int    `json:"functions"`
	Classes    int    `json:"classes"`
	Imports    int    `json:"imports"`
	HasComment bool   `json:"has_comments"`
	Complexity string `json:"complexity"`
}

var (
	functionLinePattern = regexp.MustCompile(`^\s*(def |func |function |fn |public \w+ \w+\(|private \w+ \w+\()`)
	classLinePattern    = regexp.MustCompile(`^\s*(class |public class |struct |interface |type \w+ struct)`)
	importLinePattern   = regexp.MustCompile(`^\s*(import |from \S+ import|#include|require\(|use )`)
	commentLinePattern  = regexp.MustCompile(`(^\s*(//|#|/\*|--)|\s(//|#)\s)`)
)

// языковые сигнатуры в порядке убывания специфичности.
var languageHints = []struct {
	language string
	re       *regexp.Regexp
}{
	{"python", regexp.MustCompile(`(?m)^\s*def \w+\(.*\):`)},
	{"go", regexp.MustCompile(`(?m)^\s*(func \w+\(|package \w+)`)},
	{"rust", regexp.MustCompile(`(?m)^\s*fn \w+\(`)},
	{"java", regexp.MustCompile(`(?m)^\s*public (class|static)`)},
	{"c++", regexp.MustCompile(`(?m)^\s*#include`)},
	{"javascript", regexp.MustCompile(`(?m)(^\s*function \w+\(|=>|^\s*const \w+ =)`)},
	{"html", regexp.MustCompile(`(?i)<(html|div|body|head)\b`)},
	{"sql", regexp.MustCompile(`(?i)\b(select .+ from|insert into|create table)\b`)},
}

// AnalyzeCode локально разбирает структуру фрагмента кода.
// Если язык не передан, он угадывается по сигнатурам; пустой вход
// даёт нулевой разбор, функция не падает ни на каком тексте.
func AnalyzeCode(code, language string) CodeAnalysis {
	analysis := CodeAnalysis{
		Language:   strings.ToLower(strings.TrimSpace(language)),
		Characters: len(code),
	}
	if strings.TrimSpace(code) == "" {
		if analysis.Language == "" {
			analysis.Language = "text"
		}
		analysis.Complexity = "low"
		return analysis
	}

	if analysis.Language == "" {
		analysis.Language = guessLanguage(code)
	}

	lines := strings.Split(code, "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		analysis.Lines++
		if functionLinePattern.MatchString(line) {
			analysis.Functions++
		}
		if classLinePattern.MatchString(line) {
			analysis.Classes++
		}
		if importLinePattern.MatchString(line) {
			analysis.Imports++
		}
		if commentLinePattern.MatchString(line) {
			analysis.HasComment = true
		}
	}

	switch {
	case analysis.Lines < 20:
		analysis.Complexity = "low"
	case analysis.Lines < 100:
		analysis.Complexity = "medium"
	default:
		analysis.Complexity = "high"
	}
	return analysis
}

func guessLanguage(code string) string {
	for _, hint := range languageHints {
		if hint.re.MatchString(code) {
			return hint.language
		}
	}
	return "text"
}
