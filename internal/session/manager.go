package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Manager выпускает и проверяет подписанные идентификаторы сессий.
// Значение имеет вид "<uuid>.<hex hmac-sha256>"; подпись не даёт клиенту
// подменить чужой идентификатор. Время жизни сессии ограничивает
// хранилище состояния, а не сам идентификатор.
type Manager struct {
	secret []byte
}

func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Issue создаёт новую сессию и возвращает её идентификатор
// и подписанное значение для cookie.
func (m *Manager) Issue() (id string, value string) {
	id = uuid.NewString()
	return id, id + "." + m.sign(id)
}

// Verify проверяет подпись и возвращает идентификатор сессии.
// Для любого повреждённого или подделанного значения возвращает false.
func (m *Manager) Verify(value string) (string, bool) {
	idx := strings.LastIndex(value, ".")
	if idx <= 0 || idx == len(value)-1 {
		return "", false
	}
	id, sig := value[:idx], value[idx+1:]
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return "", false
	}
	return id, true
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}
