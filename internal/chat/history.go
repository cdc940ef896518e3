package chat

// AppendBounded добавляет реплику в хвост истории и вытесняет старейшие
// с головы, когда длина превышает limit. После каждого вызова
// len(result) <= limit; порядок оставшихся реплик сохраняется.
func AppendBounded(history []Turn, turn Turn, limit int) []Turn {
	history = append(history, turn)
	if limit > 0 && len(history) > limit {
		overflow := len(history) - limit
		history = append([]Turn(nil), history[overflow:]...)
	}
	return history
}

// lastTurns возвращает не более n последних реплик, сохраняя порядок.
func lastTurns(turns []Turn, n int) []Turn {
	if n <= 0 || len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// ResetProfile сбрасывает профиль к значениям по умолчанию.
// При preserveName имя пользователя переживает сброс.
func ResetProfile(profile Profile, preserveName bool) Profile {
	var out Profile
	if preserveName {
		out.Name = profile.Name
	}
	return out
}
