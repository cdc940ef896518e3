package chat

import (
	"context"
	"time"
)

// State всё сохраняемое состояние одной сессии: профиль и история.
type State struct {
	Profile Profile `json:"profile"`
	History []Turn  `json:"history"`
}

// Clone возвращает независимую копию состояния.
func (s State) Clone() State {
	out := State{Profile: s.Profile.Clone()}
	if s.History != nil {
		out.History = make([]Turn, len(s.History))
		copy(out.History, s.History)
	}
	return out
}

// Store интерфейс хранилища состояния сессий.
// Конкурентные записи одной сессии не сериализуются: последняя
// запись побеждает, это принятое свойство хранилища.
type Store interface {
	// Get возвращает состояние сессии.
	// Второй результат сообщает, найдена ли сессия.
	Get(ctx context.Context, sessionID string) (State, bool, error)

	// Set полностью заменяет состояние сессии, создавая её при необходимости.
	Set(ctx context.Context, sessionID string, state State) error

	// Delete удаляет сессию со всем её состоянием.
	Delete(ctx context.Context, sessionID string) error

	// ClearExpired удаляет сессии, не трогавшиеся дольше TTL.
	// Возвращает количество удалённых сессий.
	ClearExpired(ctx context.Context, now time.Time) (int, error)

	// Close освобождает ресурсы хранилища.
	Close() error
}
