package llm

import (
	"sync"
	"time"
)

// Rotation хранит общее для процесса состояние ротации моделей:
// индекс текущей модели и дневной счётчик запросов.
// Все методы потокобезопасны; состояние передаётся явно, без синглтонов.
//
// Машина состояний: index 0 — основная модель, 1..K — резервные,
// index > K — модели исчерпаны до конца дня. Откат к началу списка
// происходит лениво при первом обращении после смены календарной даты.
type Rotation struct {
	mu            sync.Mutex
	models        []string
	index         int
	requestsToday int
	lastReset     time.Time
	dailyLimit    int
	now           func() time.Time
}

// RotationStatus срез состояния ротации для отчёта наружу.
type RotationStatus struct {
	RequestsToday int
	CurrentModel  string
	ModelIndex    int
	Date          string
}

// NewRotation создаёт контроллер ротации.
// dailyLimit == 0 отключает дневной лимит запросов.
func NewRotation(models []string, dailyLimit int) *Rotation {
	return &Rotation{
		models:     models,
		dailyLimit: dailyLimit,
		now:        time.Now,
	}
}

// Begin проверяет, можно ли начинать новый запрос.
// Возвращает ErrDailyLimit при достижении дневного лимита
// и ErrModelsExhausted, если все модели уже исчерпаны сегодня.
// Вызывается до любого обращения к completion-сервису.
func (r *Rotation) Begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rolloverLocked()

	if r.dailyLimit > 0 && r.requestsToday >= r.dailyLimit {
		return ErrDailyLimit
	}
	if r.index >= len(r.models) {
		return ErrModelsExhausted
	}
	return nil
}

// Model возвращает идентификатор текущей модели.
// Пустая строка означает, что модели на сегодня исчерпаны.
func (r *Rotation) Model() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rolloverLocked()

	if r.index >= len(r.models) {
		return ""
	}
	return r.models[r.index]
}

// Success фиксирует успешный запрос: индекс не меняется,
// дневной счётчик увеличивается.
func (r *Rotation) Success() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rolloverLocked()
	r.requestsToday++
}

// RateLimited переключает ротацию на следующую модель после rate limit.
// Возвращает true, если следующая модель доступна и запрос стоит повторить,
// и false, когда список моделей исчерпан.
func (r *Rotation) RateLimited() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rolloverLocked()

	r.index++
	return r.index < len(r.models)
}

// Status возвращает снимок состояния для эндпоинта статуса.
func (r *Rotation) Status() RotationStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rolloverLocked()

	current := ""
	if r.index < len(r.models) {
		current = r.models[r.index]
	}
	return RotationStatus{
		RequestsToday: r.requestsToday,
		CurrentModel:  current,
		ModelIndex:    r.index,
		Date:          r.lastReset.Format("2006-01-02"),
	}
}

// rolloverLocked лениво сбрасывает состояние при смене календарной даты.
// Вызывается под мьютексом при каждом обращении к состоянию.
func (r *Rotation) rolloverLocked() {
	now := r.now()
	if sameDay(now, r.lastReset) {
		return
	}
	r.index = 0
	r.requestsToday = 0
	r.lastReset = now
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
