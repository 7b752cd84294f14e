package client

import "sync"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Preferences - настройки интерфейса одной сессии.
// Создаётся один раз и передаётся через WithPreferences, глобального состояния нет.
type Preferences struct {
	mu    sync.RWMutex
	theme Theme
}

func NewPreferences(theme Theme) *Preferences {
	if theme != ThemeDark {
		theme = ThemeLight
	}
	return &Preferences{theme: theme}
}

func (p *Preferences) Theme() Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

// ToggleTheme переключает тему и возвращает новую
func (p *Preferences) ToggleTheme() Theme {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.theme == ThemeDark {
		p.theme = ThemeLight
	} else {
		p.theme = ThemeDark
	}
	return p.theme
}
