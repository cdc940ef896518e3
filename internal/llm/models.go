package llm

// DefaultModels содержит цепочку моделей OpenRouter для ротации:
// первая — основная, остальные — резервные на случай rate limit.
// Порядок важен: контроллер ротации идёт по списку сверху вниз.
var DefaultModels = []ModelInfo{
	{
		ID:          "anthropic/claude-3-haiku",
		Name:        "Claude 3 Haiku",
		Description: "Основная модель: быстрая и дешёвая",
	},
	{
		ID:          "google/gemini-2.0-flash-exp:free",
		Name:        "Gemini 2.0 Flash free",
		Description: "Первый резерв: бесплатная модель Google",
	},
	{
		ID:          "meta-llama/llama-3.3-70b-instruct",
		Name:        "Llama 3.3 70B",
		Description: "Второй резерв: открытая модель Meta",
	},
	{
		ID:          "deepseek/deepseek-chat",
		Name:        "DeepSeek Chat",
		Description: "Последний резерв: экономичная модель",
	},
}

// ModelInfo описывает информацию о модели.
type ModelInfo struct {
	ID          string // Идентификатор модели для API
	Name        string // Короткое название для отображения
	Description string // Описание роли модели в ротации
}

// ModelIDs возвращает идентификаторы моделей в порядке ротации.
func ModelIDs(models []ModelInfo) []string {
	ids := make([]string, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	return ids
}

// GetModelName возвращает короткое название модели по её ID.
// Если модель не найдена в таблице, возвращает сам ID.
func GetModelName(modelID string) string {
	for _, m := range DefaultModels {
		if m.ID == modelID {
			return m.Name
		}
	}
	return modelID
}
