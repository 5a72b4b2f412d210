// Package locale holds the user-facing strings.
package locale

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nibzard/tasklist-go/internal/todo"
)

// Default is the locale used when none is configured.
const Default = "en"

// Messages is one translation of every string the UI shows.
type Messages struct {
	Title       string
	Subtitle    string
	Placeholder string
	AddLabel    string
	Loading     string
	EmptyTitle  string
	EmptyHint   string
	DismissHint string

	// Notices.
	BlankTitle   string
	LoadFailed   string
	AddFailed    string
	UpdateFailed string
	DeleteFailed string
	Deleted      string

	// FooterFormat receives active, completed and total counts.
	FooterFormat string
}

// Footer renders the summary line for counts.
func (m Messages) Footer(c todo.Counts) string {
	return fmt.Sprintf(m.FooterFormat, c.Active, c.Completed, c.Total)
}

var catalog = map[string]Messages{
	"en": {
		Title:        "Todo List",
		Subtitle:     "Stay organized and get things done",
		Placeholder:  "What needs to be done?",
		AddLabel:     "Add",
		Loading:      "Loading tasks...",
		EmptyTitle:   "No tasks yet",
		EmptyHint:    "Add your first task to get started!",
		DismissHint:  "Got it",
		BlankTitle:   "Please enter a task before adding!",
		LoadFailed:   "Failed to load tasks. Please try again.",
		AddFailed:    "Failed to add the task. Please try again.",
		UpdateFailed: "Failed to update the task. Please try again.",
		DeleteFailed: "Failed to delete the task. Please try again.",
		Deleted:      "Task deleted!",
		FooterFormat: "%d active / %d completed / %d total",
	},
	"ru": {
		Title:        "Todo List",
		Subtitle:     "Оставайтесь организованными и добивайтесь результатов",
		Placeholder:  "Что нужно сделать?",
		AddLabel:     "Добавить",
		Loading:      "Загрузка задач...",
		EmptyTitle:   "Пока нет задач",
		EmptyHint:    "Добавьте первую задачу, чтобы начать!",
		DismissHint:  "Понятно",
		BlankTitle:   "Пожалуйста, введите задачу перед добавлением!",
		LoadFailed:   "Не удалось загрузить задачи. Попробуйте еще раз.",
		AddFailed:    "Не удалось добавить задачу. Попробуйте еще раз.",
		UpdateFailed: "Не удалось обновить задачу. Попробуйте еще раз.",
		DeleteFailed: "Не удалось удалить задачу. Попробуйте еще раз.",
		Deleted:      "Задача успешно удалена!",
		FooterFormat: "%d активных / %d выполнено / %d всего",
	},
}

// For returns the messages for name. Region suffixes are ignored, so
// "ru_RU.UTF-8" selects "ru". Unknown names fall back to Default.
func For(name string) Messages {
	if m, ok := Lookup(name); ok {
		return m
	}
	return catalog[Default]
}

// Lookup returns the messages for name and whether the locale is known.
func Lookup(name string) (Messages, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexAny(key, "_-."); i >= 0 {
		key = key[:i]
	}
	m, ok := catalog[key]
	return m, ok
}

// Available lists the known locale names.
func Available() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
