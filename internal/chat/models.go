package chat

import "time"

// Category дискретный тип запроса пользователя.
// Ровно одна категория на входящее сообщение.
type Category string

const (
	CategoryDebug    Category = "debug_code"
	CategoryOptimize Category = "optimize_code"
	CategoryExplain  Category = "explain_code"
	CategoryEnhance  Category = "enhance_code"
	CategoryCreate   Category = "create_code"
	CategoryAnalyze  Category = "analyze_code"
	CategoryGeneral  Category = "general_chat"
)

// Уровни подготовки пользователя для Profile.CodingLevel.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Profile накопленные эвристикой факты о пользователе в рамках сессии.
// Поля заполняются экстрактором контекста и никогда не сбрасываются
// неявно; пустое значение означает "неизвестно".
type Profile struct {
	Name               string     `json:"name,omitempty"`
	Mood               string     `json:"mood,omitempty"`
	CodingLevel        string     `json:"coding_level,omitempty"`
	TechStack          []string   `json:"tech_stack,omitempty"`
	CurrentProject     string     `json:"current_project,omitempty"`
	LastCodeDiscussion *time.Time `json:"last_code_discussion,omitempty"`
}

// IsEmpty сообщает, известен ли хоть один факт о пользователе.
func (p Profile) IsEmpty() bool {
	return p.Name == "" && p.Mood == "" && p.CodingLevel == "" &&
		len(p.TechStack) == 0 && p.CurrentProject == "" && p.LastCodeDiscussion == nil
}

// Clone возвращает независимую копию профиля.
func (p Profile) Clone() Profile {
	out := p
	if p.TechStack != nil {
		out.TechStack = make([]string, len(p.TechStack))
		copy(out.TechStack, p.TechStack)
	}
	if p.LastCodeDiscussion != nil {
		ts := *p.LastCodeDiscussion
		out.LastCodeDiscussion = &ts
	}
	return out
}

// Turn одно сообщение диалога. После добавления в историю не меняется.
type Turn struct {
	Role      string    `json:"role"` // "user" или "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Meta      *TurnMeta `json:"meta,omitempty"`
}

// TurnMeta метаданные классификации пользовательского сообщения.
type TurnMeta struct {
	RequestType Category `json:"request_type"`
	Intents     []string `json:"intents,omitempty"`
	HasCode     bool     `json:"has_code"`
}

// CodeBlock фрагмент кода, извлечённый из сообщения.
// Language равен "text", если язык не указан на открывающем fence,
// и "auto-detected" для эвристически найденного кода.
type CodeBlock struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}
