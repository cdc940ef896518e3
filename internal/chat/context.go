package chat

import (
	"regexp"
	"strings"
)

// Эвристики контекста работают по статическим упорядоченным спискам правил:
// внутри каждой категории побеждает первое совпадение, порядок итерации
// фиксирован и не зависит от порядка ключей map.

// moodRules ключевое слово → настроение. Порядок важен:
// более специфичные слова стоят раньше общих.
var moodRules = []struct {
	keyword string
	mood    string
}{
	{"stressed", "stressed"},
	{"overwhelmed", "stressed"},
	{"stress", "stressed"},
	{"frustrated", "frustrated"},
	{"annoyed", "frustrated"},
	{"angry", "frustrated"},
	{"exhausted", "tired"},
	{"tired", "tired"},
	{"sleepy", "tired"},
	{"excited", "excited"},
	{"pumped", "excited"},
	{"confused", "confused"},
	{"stuck", "confused"},
	{"sad", "sad"},
	{"upset", "sad"},
	{"happy", "happy"},
	{"awesome", "happy"},
	{"great mood", "happy"},
}

var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmy name is ([A-Za-z]+)`),
	regexp.MustCompile(`(?i)\bcall me ([A-Za-z]+)`),
	regexp.MustCompile(`(?i)\bi am ([A-Za-z]+)`),
	regexp.MustCompile(`(?i)\bi'?m ([A-Za-z]+)`),
}

// nameStopwords слова, которые часто идут после "I'm", но именем не являются
// ("I'm feeling stressed", "I'm just curious").
var nameStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "so": true, "not": true,
	"just": true, "really": true, "very": true, "feeling": true,
	"trying": true, "working": true, "building": true, "making": true,
	"going": true, "looking": true, "learning": true, "currently": true,
	"new": true, "still": true, "sure": true, "good": true, "fine": true,
	"okay": true, "ok": true, "done": true, "stuck": true, "confused": true,
	"tired": true, "happy": true, "sad": true, "excited": true,
	"stressed": true, "frustrated": true, "sorry": true, "afraid": true,
}

// techRules фиксированный словарь языков и фреймворков.
// Границы слов обязательны: иначе "go" находится внутри "good".
var techRules = []struct {
	name string
	re   *regexp.Regexp
}{
	{"python", regexp.MustCompile(`(?i)\bpython\b`)},
	{"javascript", regexp.MustCompile(`(?i)\b(javascript|js)\b`)},
	{"typescript", regexp.MustCompile(`(?i)\b(typescript|ts)\b`)},
	{"java", regexp.MustCompile(`(?i)\bjava\b`)},
	{"go", regexp.MustCompile(`(?i)\b(golang|go)\b`)},
	{"rust", regexp.MustCompile(`(?i)\brust\b`)},
	{"c++", regexp.MustCompile(`(?i)\bc\+\+`)},
	{"c#", regexp.MustCompile(`(?i)\bc#`)},
	{"ruby", regexp.MustCompile(`(?i)\bruby\b`)},
	{"php", regexp.MustCompile(`(?i)\bphp\b`)},
	{"swift", regexp.MustCompile(`(?i)\bswift\b`)},
	{"kotlin", regexp.MustCompile(`(?i)\bkotlin\b`)},
	{"react", regexp.MustCompile(`(?i)\breact\b`)},
	{"vue", regexp.MustCompile(`(?i)\bvue\b`)},
	{"angular", regexp.MustCompile(`(?i)\bangular\b`)},
	{"django", regexp.MustCompile(`(?i)\bdjango\b`)},
	{"flask", regexp.MustCompile(`(?i)\bflask\b`)},
	{"node", regexp.MustCompile(`(?i)\bnode(\.js)?\b`)},
	{"sql", regexp.MustCompile(`(?i)\bsql\b`)},
	{"html", regexp.MustCompile(`(?i)\bhtml\b`)},
	{"css", regexp.MustCompile(`(?i)\bcss\b`)},
	{"docker", regexp.MustCompile(`(?i)\bdocker\b`)},
	{"kubernetes", regexp.MustCompile(`(?i)\b(kubernetes|k8s)\b`)},
}

var levelRules = []struct {
	phrase string
	level  string
}{
	{"complete beginner", LevelBeginner},
	{"total beginner", LevelBeginner},
	{"new to programming", LevelBeginner},
	{"new to coding", LevelBeginner},
	{"just started learning", LevelBeginner},
	{"learning to code", LevelBeginner},
	{"beginner", LevelBeginner},
	{"years of experience", LevelAdvanced},
	{"professional developer", LevelAdvanced},
	{"senior developer", LevelAdvanced},
	{"senior engineer", LevelAdvanced},
	{"expert", LevelAdvanced},
	{"advanced", LevelAdvanced},
	{"some experience", LevelIntermediate},
	{"intermediate", LevelIntermediate},
}

var projectPattern = regexp.MustCompile(
	`(?i)\b(?:building|working on|creating|making)\s+(?:a|an|my)?\s*(?:new\s+)?` +
		`(?:project|app|application|website|site|bot|game|tool)?\s*(?:called\s+)?([A-Za-z][A-Za-z0-9_-]*)`)

// UpdateProfile обновляет профиль по тексту сообщения.
// Чистая функция: не меняет аргумент, не падает ни на каком входе,
// при отсутствии совпадений возвращает поля без изменений.
//
// Политика имени: новое имя записывается только если имя ещё не известно
// (set-if-absent). Настроение, уровень и проект перезаписываются.
func UpdateProfile(text string, profile Profile) Profile {
	p := profile.Clone()
	if text == "" {
		return p
	}
	lower := strings.ToLower(text)

	if mood := detectMood(lower); mood != "" {
		p.Mood = mood
	}
	if p.Name == "" {
		if name := detectName(text); name != "" {
			p.Name = name
		}
	}
	p.TechStack = mergeTech(p.TechStack, detectTechStack(text))
	if level := detectCodingLevel(lower); level != "" {
		p.CodingLevel = level
	}
	if project := detectProject(text); project != "" {
		p.CurrentProject = project
	}
	return p
}

// detectMood возвращает настроение по первому совпавшему ключевому слову.
func detectMood(lower string) string {
	for _, rule := range moodRules {
		if strings.Contains(lower, rule.keyword) {
			return rule.mood
		}
	}
	return ""
}

// detectName достаёт имя из оборотов вида "my name is X" / "call me X".
// Стоп-слова отсекают ложные срабатывания ("I'm feeling ...").
func detectName(text string) string {
	for _, pattern := range namePatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		candidate := match[1]
		if nameStopwords[strings.ToLower(candidate)] {
			continue
		}
		return titleCase(candidate)
	}
	return ""
}

// detectTechStack возвращает все упомянутые технологии в порядке словаря.
func detectTechStack(text string) []string {
	var found []string
	for _, rule := range techRules {
		if rule.re.MatchString(text) {
			found = append(found, rule.name)
		}
	}
	return found
}

func detectCodingLevel(lower string) string {
	for _, rule := range levelRules {
		if strings.Contains(lower, rule.phrase) {
			return rule.level
		}
	}
	return ""
}

func detectProject(text string) string {
	match := projectPattern.FindStringSubmatch(text)
	if match == nil {
		return ""
	}
	return titleCase(match[1])
}

// mergeTech дописывает новые технологии, сохраняя порядок первого упоминания.
func mergeTech(existing, found []string) []string {
	if len(found) == 0 {
		return existing
	}
	out := existing
	for _, tech := range found {
		known := false
		for _, have := range out {
			if have == tech {
				known = true
				break
			}
		}
		if !known {
			out = append(out, tech)
		}
	}
	return out
}

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}
